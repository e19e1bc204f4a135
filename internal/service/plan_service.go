package service

import (
	"alcyxob/hypertrophy-app/internal/domain"
	"alcyxob/hypertrophy-app/internal/repository"
	"alcyxob/hypertrophy-app/internal/schedule"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrPlanNotFound     = errors.New("mesocycle plan not found")
	ErrPlanAccessDenied = errors.New("access denied to this plan")
	ErrPlanHasActiveRun = errors.New("plan has an active run and cannot be modified or deleted")
)

// --- Service Interface ---
type PlanService interface {
	CreatePlan(ctx context.Context, userID primitive.ObjectID, name, notes string, trainingDays []domain.TrainingDayTemplate, restDayNumbers []int, microcycleCount int) (*domain.Mesocycle, error)
	GetPlanByID(ctx context.Context, userID, planID primitive.ObjectID) (*domain.Mesocycle, error)
	GetPlansByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Mesocycle, error)
	UpdatePlan(ctx context.Context, userID, planID primitive.ObjectID, name, notes string, trainingDays []domain.TrainingDayTemplate, restDayNumbers []int, microcycleCount int) (*domain.Mesocycle, error)
	DeletePlan(ctx context.Context, userID, planID primitive.ObjectID) error
}

// --- Service Implementation ---

// planService implements the PlanService interface.
type planService struct {
	planRepo repository.PlanRepository
	runRepo  repository.RunRepository
}

// NewPlanService creates a new instance of planService.
func NewPlanService(planRepo repository.PlanRepository, runRepo repository.RunRepository) PlanService {
	return &planService{
		planRepo: planRepo,
		runRepo:  runRepo,
	}
}

// CreatePlan validates the cycle layout and persists a new mesocycle plan.
// Malformed day-number sets are rejected here, at authoring time, with
// schedule.ErrInvalidCycleDefinition.
func (s *planService) CreatePlan(ctx context.Context, userID primitive.ObjectID, name, notes string, trainingDays []domain.TrainingDayTemplate, restDayNumbers []int, microcycleCount int) (*domain.Mesocycle, error) {
	// 1. Validate Inputs
	if userID == primitive.NilObjectID {
		return nil, errors.New("user ID is required")
	}
	if name == "" {
		return nil, errors.New("plan name is required")
	}

	// 2. Validate the cycle layout before anything is persisted.
	plan := &domain.Mesocycle{
		UserID:          userID,
		Name:            name,
		Notes:           notes,
		TrainingDays:    trainingDays,
		RestDayNumbers:  restDayNumbers,
		MicrocycleCount: microcycleCount,
	}
	if _, err := schedule.NewCycleDefinition(plan.TrainingDayNumbers(), restDayNumbers, microcycleCount); err != nil {
		return nil, err
	}

	// 3. Save the plan.
	planID, err := s.planRepo.Create(ctx, plan)
	if err != nil {
		return nil, err
	}
	plan.ID = planID
	return plan, nil
}

// GetPlanByID fetches a plan and checks ownership.
func (s *planService) GetPlanByID(ctx context.Context, userID, planID primitive.ObjectID) (*domain.Mesocycle, error) {
	if planID == primitive.NilObjectID {
		return nil, errors.New("plan ID is required")
	}
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if plan.UserID != userID {
		return nil, ErrPlanAccessDenied
	}
	return plan, nil
}

// GetPlansByUser lists the user's plans, newest first.
func (s *planService) GetPlansByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Mesocycle, error) {
	if userID == primitive.NilObjectID {
		return nil, errors.New("user ID is required")
	}
	return s.planRepo.GetByUserID(ctx, userID)
}

// UpdatePlan rewrites a plan after re-validating the new cycle layout.
// An in-flight run keeps its frozen snapshot, so editing the plan never
// touches a running schedule; editing is only refused while the plan itself
// is the one being run, to avoid confusing mid-run template swaps.
func (s *planService) UpdatePlan(ctx context.Context, userID, planID primitive.ObjectID, name, notes string, trainingDays []domain.TrainingDayTemplate, restDayNumbers []int, microcycleCount int) (*domain.Mesocycle, error) {
	// 1. Fetch and authorize.
	plan, err := s.GetPlanByID(ctx, userID, planID)
	if err != nil {
		return nil, err
	}

	// 2. Refuse while this plan has the active run.
	if err := s.ensureNoActiveRun(ctx, userID, planID); err != nil {
		return nil, err
	}

	// 3. Validate the new layout.
	plan.Name = name
	plan.Notes = notes
	plan.TrainingDays = trainingDays
	plan.RestDayNumbers = restDayNumbers
	plan.MicrocycleCount = microcycleCount
	if _, err := schedule.NewCycleDefinition(plan.TrainingDayNumbers(), restDayNumbers, microcycleCount); err != nil {
		return nil, err
	}

	// 4. Save changes.
	if err := s.planRepo.Update(ctx, plan); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}

// DeletePlan removes a plan. Historical runs keep their snapshots and are
// unaffected; only a plan with the currently active run is protected.
func (s *planService) DeletePlan(ctx context.Context, userID, planID primitive.ObjectID) error {
	if _, err := s.GetPlanByID(ctx, userID, planID); err != nil {
		return err
	}
	if err := s.ensureNoActiveRun(ctx, userID, planID); err != nil {
		return err
	}
	err := s.planRepo.Delete(ctx, planID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPlanNotFound
		}
		return err
	}
	return nil
}

// ensureNoActiveRun fails with ErrPlanHasActiveRun when the user's active run
// was started from the given plan.
func (s *planService) ensureNoActiveRun(ctx context.Context, userID, planID primitive.ObjectID) error {
	active, err := s.runRepo.GetActiveByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	if active.PlanID == planID {
		return ErrPlanHasActiveRun
	}
	return nil
}
