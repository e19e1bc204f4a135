package service

import (
	"alcyxob/hypertrophy-app/internal/domain"
	"alcyxob/hypertrophy-app/internal/schedule"
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newPlanServiceFixture(t *testing.T) (*fakePlanRepo, *fakeRunRepo, PlanService, primitive.ObjectID) {
	t.Helper()
	plans := newFakePlanRepo()
	runs := newFakeRunRepo()
	return plans, runs, NewPlanService(plans, runs), primitive.NewObjectID()
}

func validTrainingDays() []domain.TrainingDayTemplate {
	return []domain.TrainingDayTemplate{
		{DayNumber: 1, Label: "Upper"},
		{DayNumber: 2, Label: "Lower"},
	}
}

func TestCreatePlan_ValidatesCycleLayout(t *testing.T) {
	_, _, svc, userID := newPlanServiceFixture(t)

	plan, err := svc.CreatePlan(context.Background(), userID, "Block 1", "", validTrainingDays(), []int{3}, 4)
	if err != nil {
		t.Fatalf("CreatePlan failed: %v", err)
	}
	if plan.ID == primitive.NilObjectID {
		t.Errorf("plan was not assigned an ID")
	}

	// Overlapping sets are rejected at authoring time.
	_, err = svc.CreatePlan(context.Background(), userID, "Bad", "", validTrainingDays(), []int{2}, 4)
	if !errors.Is(err, schedule.ErrInvalidCycleDefinition) {
		t.Errorf("err = %v, want ErrInvalidCycleDefinition", err)
	}

	// Zero microcycle count is rejected.
	_, err = svc.CreatePlan(context.Background(), userID, "Bad", "", validTrainingDays(), []int{3}, 0)
	if !errors.Is(err, schedule.ErrInvalidCycleDefinition) {
		t.Errorf("err = %v, want ErrInvalidCycleDefinition", err)
	}
}

func TestGetPlanByID_Ownership(t *testing.T) {
	_, _, svc, userID := newPlanServiceFixture(t)

	plan, err := svc.CreatePlan(context.Background(), userID, "Block 1", "", validTrainingDays(), []int{3}, 4)
	if err != nil {
		t.Fatalf("CreatePlan failed: %v", err)
	}

	if _, err := svc.GetPlanByID(context.Background(), userID, plan.ID); err != nil {
		t.Errorf("owner GetPlanByID failed: %v", err)
	}
	if _, err := svc.GetPlanByID(context.Background(), primitive.NewObjectID(), plan.ID); !errors.Is(err, ErrPlanAccessDenied) {
		t.Errorf("foreign GetPlanByID err = %v, want ErrPlanAccessDenied", err)
	}
	if _, err := svc.GetPlanByID(context.Background(), userID, primitive.NewObjectID()); !errors.Is(err, ErrPlanNotFound) {
		t.Errorf("missing GetPlanByID err = %v, want ErrPlanNotFound", err)
	}
}

func TestUpdatePlan_RevalidatesLayout(t *testing.T) {
	_, _, svc, userID := newPlanServiceFixture(t)

	plan, err := svc.CreatePlan(context.Background(), userID, "Block 1", "", validTrainingDays(), []int{3}, 4)
	if err != nil {
		t.Fatalf("CreatePlan failed: %v", err)
	}

	updated, err := svc.UpdatePlan(context.Background(), userID, plan.ID, "Block 1b", "deload", validTrainingDays(), []int{3}, 5)
	if err != nil {
		t.Fatalf("UpdatePlan failed: %v", err)
	}
	if updated.MicrocycleCount != 5 || updated.Name != "Block 1b" {
		t.Errorf("update not applied: %+v", updated)
	}

	_, err = svc.UpdatePlan(context.Background(), userID, plan.ID, "Bad", "", validTrainingDays(), []int{1}, 5)
	if !errors.Is(err, schedule.ErrInvalidCycleDefinition) {
		t.Errorf("err = %v, want ErrInvalidCycleDefinition", err)
	}
}

func TestPlanMutation_RefusedWhileRunActive(t *testing.T) {
	plans, runs, svc, userID := newPlanServiceFixture(t)

	plan, err := svc.CreatePlan(context.Background(), userID, "Block 1", "", validTrainingDays(), []int{3}, 4)
	if err != nil {
		t.Fatalf("CreatePlan failed: %v", err)
	}

	// Start a run from this plan directly through the fake.
	stored, _ := plans.GetByID(context.Background(), plan.ID)
	def, err := schedule.NewCycleDefinition(stored.TrainingDayNumbers(), stored.RestDayNumbers, stored.MicrocycleCount)
	if err != nil {
		t.Fatalf("NewCycleDefinition failed: %v", err)
	}
	run := materializeRun(userID, stored, def, time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC))
	if _, err := runs.StartRun(context.Background(), run); err != nil {
		t.Fatalf("StartRun failed: %v", err)
	}

	if _, err := svc.UpdatePlan(context.Background(), userID, plan.ID, "X", "", validTrainingDays(), []int{3}, 4); !errors.Is(err, ErrPlanHasActiveRun) {
		t.Errorf("UpdatePlan err = %v, want ErrPlanHasActiveRun", err)
	}
	if err := svc.DeletePlan(context.Background(), userID, plan.ID); !errors.Is(err, ErrPlanHasActiveRun) {
		t.Errorf("DeletePlan err = %v, want ErrPlanHasActiveRun", err)
	}

	// Other plans remain deletable.
	other, err := svc.CreatePlan(context.Background(), userID, "Block 2", "", validTrainingDays(), []int{3}, 2)
	if err != nil {
		t.Fatalf("CreatePlan failed: %v", err)
	}
	if err := svc.DeletePlan(context.Background(), userID, other.ID); err != nil {
		t.Errorf("DeletePlan of inactive plan failed: %v", err)
	}
}
