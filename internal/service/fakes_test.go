package service

import (
	"alcyxob/hypertrophy-app/internal/domain"
	"alcyxob/hypertrophy-app/internal/repository"
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes. The run fake mirrors the mongo implementation's
// contract: the active-run pointer claim and the run insert happen under one
// lock, so concurrent starts for the same user serialize the same way the
// transactional UpdateOne claim does.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*domain.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = primitive.NewObjectID()
	r.users[user.ID] = user
	return user.ID, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

type fakePlanRepo struct {
	mu    sync.Mutex
	plans map[primitive.ObjectID]*domain.Mesocycle
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{plans: make(map[primitive.ObjectID]*domain.Mesocycle)}
}

func (r *fakePlanRepo) Create(ctx context.Context, plan *domain.Mesocycle) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	plan.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now
	copied := *plan
	r.plans[plan.ID] = &copied
	return plan.ID, nil
}

func (r *fakePlanRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Mesocycle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.plans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *fakePlanRepo) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Mesocycle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var plans []domain.Mesocycle
	for _, p := range r.plans {
		if p.UserID == userID {
			plans = append(plans, *p)
		}
	}
	return plans, nil
}

func (r *fakePlanRepo) Update(ctx context.Context, plan *domain.Mesocycle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.plans[plan.ID]; !ok {
		return repository.ErrNotFound
	}
	copied := *plan
	r.plans[plan.ID] = &copied
	return nil
}

func (r *fakePlanRepo) Delete(ctx context.Context, planID, userID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.plans[planID]
	if !ok || p.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.plans, planID)
	return nil
}

type fakeRunRepo struct {
	mu         sync.Mutex
	runs       map[primitive.ObjectID]*domain.MesocycleRun
	activeRuns map[primitive.ObjectID]primitive.ObjectID // userID -> runID
}

func newFakeRunRepo() *fakeRunRepo {
	return &fakeRunRepo{
		runs:       make(map[primitive.ObjectID]*domain.MesocycleRun),
		activeRuns: make(map[primitive.ObjectID]primitive.ObjectID),
	}
}

func (r *fakeRunRepo) StartRun(ctx context.Context, run *domain.MesocycleRun) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Claim the pointer and insert atomically, as the mongo repo does in its
	// transaction.
	if _, exists := r.activeRuns[run.UserID]; exists {
		return primitive.NilObjectID, repository.ErrRunConflict
	}
	run.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	run.CreatedAt = now
	run.UpdatedAt = now
	copied := *run
	r.runs[run.ID] = &copied
	r.activeRuns[run.UserID] = run.ID
	return run.ID, nil
}

func (r *fakeRunRepo) StopRun(ctx context.Context, userID, runID primitive.ObjectID, endDate, stoppedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, exists := r.activeRuns[userID]
	if !exists || current != runID {
		return repository.ErrNotActiveRun
	}
	run, ok := r.runs[runID]
	if !ok {
		return repository.ErrNotFound
	}
	delete(r.activeRuns, userID)
	run.EndDate = endDate
	run.StoppedAt = &stoppedAt
	run.UpdatedAt = stoppedAt
	return nil
}

func (r *fakeRunRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.MesocycleRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	run, ok := r.runs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *run
	return &copied, nil
}

func (r *fakeRunRepo) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.MesocycleRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var runs []domain.MesocycleRun
	for _, run := range r.runs {
		if run.UserID == userID {
			runs = append(runs, *run)
		}
	}
	return runs, nil
}

func (r *fakeRunRepo) GetActiveByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.MesocycleRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	runID, exists := r.activeRuns[userID]
	if !exists {
		return nil, repository.ErrNotFound
	}
	copied := *r.runs[runID]
	return &copied, nil
}

func (r *fakeRunRepo) GetLatestEndedByPlanID(ctx context.Context, userID, planID primitive.ObjectID) (*domain.MesocycleRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *domain.MesocycleRun
	for _, run := range r.runs {
		if run.UserID != userID || run.PlanID != planID {
			continue
		}
		if latest == nil || run.EndDate.After(latest.EndDate) {
			latest = run
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	copied := *latest
	return &copied, nil
}

func (r *fakeRunRepo) UpdateOccurrence(ctx context.Context, runID primitive.ObjectID, occ *domain.TrainingDayOccurrence) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	run, ok := r.runs[runID]
	if !ok {
		return repository.ErrNotFound
	}
	target := run.FindOccurrence(occ.OccurrenceID)
	if target == nil {
		return repository.ErrNotFound
	}
	*target = *occ
	return nil
}
