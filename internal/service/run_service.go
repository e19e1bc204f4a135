package service

import (
	"alcyxob/hypertrophy-app/internal/domain"
	"alcyxob/hypertrophy-app/internal/repository"
	"alcyxob/hypertrophy-app/internal/schedule"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrInvalidStartDate   = errors.New("start date must be today or later")
	ErrActiveRunExists    = errors.New("an active run already exists; stop it before starting another")
	ErrNotCurrentRun      = errors.New("run is not the user's current active run")
	ErrNoActiveRun        = errors.New("no active run")
	ErrRunNotFound        = errors.New("run not found")
	ErrRunAccessDenied    = errors.New("access denied to this run")
	ErrOccurrenceNotFound = errors.New("training day occurrence not found")
	ErrOccurrenceClosed   = errors.New("training day occurrence is outside the run's active window")
)

// --- Service Interface ---

// RunService is the mesocycle run lifecycle manager. It owns the per-user
// NoActiveRun -> ActiveRun -> NoActiveRun transitions and is the only writer
// of the active-run pointer.
type RunService interface {
	StartRun(ctx context.Context, userID, planID primitive.ObjectID, startDate time.Time) (*domain.MesocycleRun, error)
	StopRun(ctx context.Context, userID, runID primitive.ObjectID) (*domain.MesocycleRun, error)

	GetActiveRun(ctx context.Context, userID primitive.ObjectID) (*domain.MesocycleRun, error)
	GetRunHistory(ctx context.Context, userID primitive.ObjectID) ([]domain.MesocycleRun, error)

	// RunCalendar projects the active run's full day strip.
	RunCalendar(ctx context.Context, userID primitive.ObjectID) ([]schedule.CalendarDay, error)

	// DayOnDate answers "what's on date X" for the active run. A date outside
	// the run window or on a rest day is a valid negative result, not an error.
	DayOnDate(ctx context.Context, userID primitive.ObjectID, date time.Time) (*DayView, error)

	// CompleteTrainingDay records performed sets and flips the occurrence to
	// completed.
	CompleteTrainingDay(ctx context.Context, userID, runID primitive.ObjectID, occurrenceID string, performed []domain.ExerciseLog) (*domain.TrainingDayOccurrence, error)
}

// DayView is what the calendar UI renders for a single queried date.
type DayView struct {
	Date       time.Time                     `json:"date"`
	Scheduled  bool                          `json:"scheduled"` // false when the date is outside the run window
	Position   *schedule.DayPosition         `json:"position,omitempty"`
	Occurrence *domain.TrainingDayOccurrence `json:"occurrence,omitempty"` // nil on rest days
}

// --- Service Implementation ---

type runService struct {
	userRepo repository.UserRepository
	planRepo repository.PlanRepository
	runRepo  repository.RunRepository
	now      func() time.Time
}

// NewRunService creates a new run lifecycle service. now supplies "today" so
// lifecycle decisions are deterministic under test; pass nil for time.Now.
func NewRunService(
	userRepo repository.UserRepository,
	planRepo repository.PlanRepository,
	runRepo repository.RunRepository,
	now func() time.Time,
) RunService {
	if now == nil {
		now = time.Now
	}
	return &runService{
		userRepo: userRepo,
		planRepo: planRepo,
		runRepo:  runRepo,
		now:      now,
	}
}

// StartRun validates the preconditions, materializes every training day
// occurrence of the run eagerly, and persists them atomically together with
// the active-run pointer claim.
func (s *runService) StartRun(ctx context.Context, userID, planID primitive.ObjectID, startDate time.Time) (*domain.MesocycleRun, error) {
	// 1. Validate Inputs
	if userID == primitive.NilObjectID || planID == primitive.NilObjectID {
		return nil, errors.New("user ID and plan ID are required")
	}

	// 2. Reject past start dates (day granularity).
	start := schedule.StartOfDay(startDate)
	today := schedule.StartOfDay(s.now())
	if start.Before(today) {
		return nil, ErrInvalidStartDate
	}

	// 3. Fetch the plan and verify ownership.
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

	// 4. Re-validate the cycle layout defensively; a malformed plan must fail
	// closed here rather than produce a corrupt schedule.
	def, err := schedule.NewCycleDefinition(plan.TrainingDayNumbers(), plan.RestDayNumbers, plan.MicrocycleCount)
	if err != nil {
		return nil, err
	}

	// 5. Materialize the run from the projection.
	run := materializeRun(userID, plan, def, start)

	// 6. Link the progress-comparison back-reference to the most recent prior
	// run of the same plan, if any.
	if prev, err := s.runRepo.GetLatestEndedByPlanID(ctx, userID, planID); err == nil {
		run.PreviousRunID = &prev.ID
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	// 7. Persist. The repository claims the active-run pointer and inserts the
	// run in one atomic unit; a concurrent start observes the claim and fails.
	runID, err := s.runRepo.StartRun(ctx, run)
	if err != nil {
		if errors.Is(err, repository.ErrRunConflict) {
			return nil, ErrActiveRunExists
		}
		return nil, err
	}
	run.ID = runID
	return run, nil
}

// materializeRun freezes the plan into a snapshot and creates one occurrence
// per training day in every microcycle, dated by the calendar projection.
func materializeRun(userID primitive.ObjectID, plan *domain.Mesocycle, def schedule.CycleDefinition, start time.Time) *domain.MesocycleRun {
	projection := schedule.Project(def, start)

	run := &domain.MesocycleRun{
		UserID: userID,
		PlanID: plan.ID,
		PlanSnapshot: domain.PlanSnapshot{
			Name:            plan.Name,
			TrainingDays:    plan.TrainingDays,
			RestDayNumbers:  plan.RestDayNumbers,
			MicrocycleCount: plan.MicrocycleCount,
		},
		StartDate:   projection.StartDate,
		EndDate:     projection.EndDate,
		Microcycles: make([]domain.Microcycle, def.MicrocycleCount()),
	}

	for i := range run.Microcycles {
		run.Microcycles[i] = domain.Microcycle{Index: i}
	}

	for _, day := range projection.Days() {
		if !day.IsTrainingDay {
			continue
		}
		occ := domain.TrainingDayOccurrence{
			OccurrenceID:    uuid.NewString(),
			Date:            day.Date,
			DayNumber:       day.DayNumber,
			MicrocycleIndex: day.MicrocycleIndex,
		}
		if tmpl := plan.TrainingDayByNumber(day.DayNumber); tmpl != nil {
			occ.Label = tmpl.Label
			occ.Exercises = seedExerciseLogs(tmpl.Exercises)
		}
		mc := &run.Microcycles[day.MicrocycleIndex]
		mc.Days = append(mc.Days, occ)
	}
	return run
}

// seedExerciseLogs copies the plan's set targets into empty performance logs.
func seedExerciseLogs(templates []domain.ExerciseTemplate) []domain.ExerciseLog {
	if len(templates) == 0 {
		return nil
	}
	logs := make([]domain.ExerciseLog, len(templates))
	for i, tmpl := range templates {
		logs[i] = domain.ExerciseLog{Name: tmpl.Name}
		for _, set := range tmpl.Sets {
			logs[i].Sets = append(logs[i].Sets, domain.SetLog{
				TargetWeight: set.TargetWeight,
				TargetReps:   set.TargetReps,
				TargetRIR:    set.TargetRIR,
			})
		}
	}
	return logs
}

// StopRun truncates the run's window to today and detaches the active-run
// pointer. Occurrence records past the new end date are retained as inert
// history; they simply fall outside [startDate, endDate) from now on.
func (s *runService) StopRun(ctx context.Context, userID, runID primitive.ObjectID) (*domain.MesocycleRun, error) {
	if userID == primitive.NilObjectID || runID == primitive.NilObjectID {
		return nil, errors.New("user ID and run ID are required")
	}

	now := s.now().UTC()
	endDate := schedule.StartOfDay(now)

	err := s.runRepo.StopRun(ctx, userID, runID, endDate, now)
	if err != nil {
		if errors.Is(err, repository.ErrNotActiveRun) {
			return nil, ErrNotCurrentRun
		}
		return nil, err
	}

	run, err := s.runRepo.GetByID(ctx, runID)
	if err != nil {
		return nil, err
	}
	return run, nil
}

// GetActiveRun returns the user's current run, or ErrNoActiveRun.
func (s *runService) GetActiveRun(ctx context.Context, userID primitive.ObjectID) (*domain.MesocycleRun, error) {
	run, err := s.runRepo.GetActiveByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoActiveRun
		}
		return nil, err
	}
	return run, nil
}

// GetRunHistory returns all of the user's runs, newest first.
func (s *runService) GetRunHistory(ctx context.Context, userID primitive.ObjectID) ([]domain.MesocycleRun, error) {
	if userID == primitive.NilObjectID {
		return nil, errors.New("user ID is required")
	}
	return s.runRepo.GetByUserID(ctx, userID)
}

// RunCalendar re-projects the active run's snapshot into the full day strip.
// The projection is derived, not persisted, so it always agrees with the
// occurrence dates materialized at start.
func (s *runService) RunCalendar(ctx context.Context, userID primitive.ObjectID) ([]schedule.CalendarDay, error) {
	run, err := s.GetActiveRun(ctx, userID)
	if err != nil {
		return nil, err
	}
	def, err := snapshotDefinition(&run.PlanSnapshot)
	if err != nil {
		return nil, err
	}
	return schedule.Project(def, run.StartDate).Days(), nil
}

// DayOnDate resolves a single date against the active run in constant time,
// then attaches the persisted occurrence when the date is a training day.
func (s *runService) DayOnDate(ctx context.Context, userID primitive.ObjectID, date time.Time) (*DayView, error) {
	run, err := s.GetActiveRun(ctx, userID)
	if err != nil {
		return nil, err
	}
	def, err := snapshotDefinition(&run.PlanSnapshot)
	if err != nil {
		return nil, err
	}

	day := schedule.StartOfDay(date)
	view := &DayView{Date: day}

	pos, ok := schedule.Resolve(def, run.StartDate, run.EndDate, day)
	if !ok {
		// Outside [startDate, endDate): nothing scheduled. Not an error.
		return view, nil
	}
	view.Scheduled = true
	view.Position = &pos
	if pos.IsTrainingDay {
		view.Occurrence = run.OccurrenceOn(day)
	}
	return view, nil
}

// CompleteTrainingDay records the performed sets against an occurrence and
// marks it completed. Only occurrences inside the active run's current window
// can be logged.
func (s *runService) CompleteTrainingDay(ctx context.Context, userID, runID primitive.ObjectID, occurrenceID string, performed []domain.ExerciseLog) (*domain.TrainingDayOccurrence, error) {
	// 1. Validate Inputs
	if userID == primitive.NilObjectID || runID == primitive.NilObjectID || occurrenceID == "" {
		return nil, errors.New("user ID, run ID, and occurrence ID are required")
	}

	// 2. Fetch the run and verify ownership.
	run, err := s.runRepo.GetByID(ctx, runID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRunNotFound
		}
		return nil, err
	}
	if run.UserID != userID {
		return nil, ErrRunAccessDenied
	}

	// 3. Locate the occurrence and check it is still inside the window.
	occ := run.FindOccurrence(occurrenceID)
	if occ == nil {
		return nil, ErrOccurrenceNotFound
	}
	if occ.Date.Before(run.StartDate) || !occ.Date.Before(run.EndDate) {
		return nil, ErrOccurrenceClosed
	}

	// 4. Record the session.
	if len(performed) > 0 {
		occ.Exercises = performed
	}
	occ.Completed = true
	completedAt := s.now().UTC()
	occ.CompletedAt = &completedAt

	// 5. Persist the rewritten occurrence.
	if err := s.runRepo.UpdateOccurrence(ctx, runID, occ); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOccurrenceNotFound
		}
		return nil, err
	}
	return occ, nil
}

// snapshotDefinition rebuilds the validated cycle definition from a run's
// frozen plan snapshot.
func snapshotDefinition(snap *domain.PlanSnapshot) (schedule.CycleDefinition, error) {
	training := make([]int, len(snap.TrainingDays))
	for i, td := range snap.TrainingDays {
		training[i] = td.DayNumber
	}
	return schedule.NewCycleDefinition(training, snap.RestDayNumbers, snap.MicrocycleCount)
}
