package repository

import (
	"alcyxob/hypertrophy-app/internal/domain" // Import our defined domain models
	"context"                                 // Standard for request-scoped deadlines, cancellation signals, etc.
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive" // For using ObjectIDs
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
	ErrRunConflict  = RepositoryError("user already has an active run")
	ErrNotActiveRun = RepositoryError("run is not the user's active run")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// PlanRepository defines the interface for interacting with mesocycle plan data.
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.Mesocycle) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Mesocycle, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Mesocycle, error)
	Update(ctx context.Context, plan *domain.Mesocycle) error
	Delete(ctx context.Context, planID, userID primitive.ObjectID) error
}

// RunRepository defines the interface for interacting with mesocycle run data.
//
// StartRun and StopRun wrap the active-run pointer check and the run write in
// one atomic unit so two requests for the same user can never interleave
// between the precondition check and the write (see the lifecycle service).
type RunRepository interface {
	// StartRun persists the fully materialized run and claims the user's
	// active-run pointer. Fails with ErrRunConflict when the user already has
	// an active run; in that case nothing is persisted.
	StartRun(ctx context.Context, run *domain.MesocycleRun) (primitive.ObjectID, error)

	// StopRun truncates the run's end date and clears the user's active-run
	// pointer. Fails with ErrNotActiveRun when runID is not the pointer's
	// current value.
	StopRun(ctx context.Context, userID, runID primitive.ObjectID, endDate, stoppedAt time.Time) error

	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.MesocycleRun, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.MesocycleRun, error)
	GetActiveByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.MesocycleRun, error)
	GetLatestEndedByPlanID(ctx context.Context, userID, planID primitive.ObjectID) (*domain.MesocycleRun, error)

	// UpdateOccurrence rewrites one embedded occurrence inside a run document.
	UpdateOccurrence(ctx context.Context, runID primitive.ObjectID, occ *domain.TrainingDayOccurrence) error
}

// UploadRepository defines the interface for interacting with upload metadata.
type UploadRepository interface {
	Create(ctx context.Context, upload *domain.Upload) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Upload, error)
	GetByOccurrenceID(ctx context.Context, runID primitive.ObjectID, occurrenceID string) ([]domain.Upload, error)
}
