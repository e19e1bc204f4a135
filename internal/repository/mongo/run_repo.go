// internal/repository/mongo/run_repo.go
package mongo

import (
	"alcyxob/hypertrophy-app/internal/domain"
	"alcyxob/hypertrophy-app/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const runCollectionName = "mesocycle_runs"

// mongoRunRepository implements repository.RunRepository.
//
// A run document embeds all of its microcycles and occurrences, so
// materializing a run is a single InsertOne. The user's active-run pointer
// lives on the users collection; StartRun/StopRun pair the pointer write with
// the run write inside a session transaction, and the pointer update itself
// is conditional, so the no-active-run precondition and the write cannot be
// interleaved by a concurrent request for the same user.
type mongoRunRepository struct {
	db         *mongo.Database
	collection *mongo.Collection
	users      *mongo.Collection
}

// NewMongoRunRepository creates a new mesocycle run repository.
func NewMongoRunRepository(db *mongo.Database) repository.RunRepository {
	return &mongoRunRepository{
		db:         db,
		collection: db.Collection(runCollectionName),
		users:      db.Collection(userCollectionName),
	}
}

// StartRun persists the materialized run and claims the user's active-run
// pointer in one transaction. Either both writes land or neither does.
func (r *mongoRunRepository) StartRun(ctx context.Context, run *domain.MesocycleRun) (primitive.ObjectID, error) {
	if run.UserID == primitive.NilObjectID || run.PlanID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("run requires userId and planId")
	}
	if len(run.Microcycles) == 0 {
		return primitive.NilObjectID, errors.New("run must be materialized before persisting")
	}

	run.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	run.CreatedAt = now
	run.UpdatedAt = now

	session, err := r.db.Client().StartSession()
	if err != nil {
		return primitive.NilObjectID, err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		// Claim the pointer first. The filter matches only when no active run
		// is set ("activeRunId: nil" matches both missing and null), so a
		// concurrent start for the same user loses the claim and aborts.
		claim := bson.M{"_id": run.UserID, "activeRunId": nil}
		update := bson.M{"$set": bson.M{"activeRunId": run.ID, "updatedAt": now}}
		result, err := r.users.UpdateOne(sc, claim, update)
		if err != nil {
			return nil, err
		}
		if result.MatchedCount == 0 {
			return nil, repository.ErrRunConflict
		}

		if _, err := r.collection.InsertOne(sc, run); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		return primitive.NilObjectID, err
	}
	return run.ID, nil
}

// StopRun truncates the run's window and detaches the active-run pointer.
// The pointer clear is conditional on it still pointing at runID, which
// rejects stale or foreign stop requests.
func (r *mongoRunRepository) StopRun(ctx context.Context, userID, runID primitive.ObjectID, endDate, stoppedAt time.Time) error {
	if userID == primitive.NilObjectID || runID == primitive.NilObjectID {
		return errors.New("user ID and run ID are required")
	}

	session, err := r.db.Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		release := bson.M{"_id": userID, "activeRunId": runID}
		update := bson.M{
			"$unset": bson.M{"activeRunId": ""},
			"$set":   bson.M{"updatedAt": stoppedAt},
		}
		result, err := r.users.UpdateOne(sc, release, update)
		if err != nil {
			return nil, err
		}
		if result.MatchedCount == 0 {
			return nil, repository.ErrNotActiveRun
		}

		// Occurrence records past the new end date are retained; only the
		// run's bounding window shrinks.
		runUpdate := bson.M{"$set": bson.M{
			"endDate":   endDate,
			"stoppedAt": stoppedAt,
			"updatedAt": stoppedAt,
		}}
		result, err = r.collection.UpdateOne(sc, bson.M{"_id": runID}, runUpdate)
		if err != nil {
			return nil, err
		}
		if result.MatchedCount == 0 {
			return nil, repository.ErrNotFound
		}
		return nil, nil
	})
	return err
}

// GetByID retrieves a single run by its ID.
func (r *mongoRunRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.MesocycleRun, error) {
	var run domain.MesocycleRun
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&run)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &run, nil
}

// GetByUserID retrieves all runs of a user, newest first.
func (r *mongoRunRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.MesocycleRun, error) {
	var runs []domain.MesocycleRun
	filter := bson.M{"userId": userID}
	findOptions := options.Find().SetSort(bson.D{{Key: "startDate", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &runs); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

// GetActiveByUserID follows the user's active-run pointer to the run document.
func (r *mongoRunRepository) GetActiveByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.MesocycleRun, error) {
	var user domain.User
	err := r.users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if !user.HasActiveRun() {
		return nil, repository.ErrNotFound
	}
	return r.GetByID(ctx, *user.ActiveRunID)
}

// GetLatestEndedByPlanID finds the user's most recent run of a plan, used as
// the progress-comparison back-reference when the plan is restarted.
func (r *mongoRunRepository) GetLatestEndedByPlanID(ctx context.Context, userID, planID primitive.ObjectID) (*domain.MesocycleRun, error) {
	var run domain.MesocycleRun
	filter := bson.M{"userId": userID, "planId": planID}
	findOptions := options.FindOne().SetSort(bson.D{{Key: "endDate", Value: -1}})

	err := r.collection.FindOne(ctx, filter, findOptions).Decode(&run)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &run, nil
}

// UpdateOccurrence rewrites one embedded occurrence, matched by its uuid.
func (r *mongoRunRepository) UpdateOccurrence(ctx context.Context, runID primitive.ObjectID, occ *domain.TrainingDayOccurrence) error {
	if runID == primitive.NilObjectID || occ == nil || occ.OccurrenceID == "" {
		return errors.New("run ID and occurrence ID are required")
	}

	filter := bson.M{"_id": runID}
	update := bson.M{"$set": bson.M{
		"microcycles.$[].days.$[d]": occ,
		"updatedAt":                 time.Now().UTC(),
	}}
	arrayFilters := options.ArrayFilters{
		Filters: []interface{}{bson.M{"d.occurrenceId": occ.OccurrenceID}},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetArrayFilters(arrayFilters))
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureRunIndexes creates necessary indexes. Call during startup.
func EnsureRunIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "startDate", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "planId", Value: 1}, {Key: "endDate", Value: -1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
