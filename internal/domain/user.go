package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents an athlete account.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`    // Should be unique
	PasswordHash string             `bson:"passwordHash" json:"-"` // Never expose this via JSON
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`

	// ActiveRunID points to the user's one in-flight mesocycle run, nil when
	// no run is active. Written only through the run lifecycle service's
	// guarded claim/clear operations, never directly.
	ActiveRunID *primitive.ObjectID `bson:"activeRunId,omitempty" json:"activeRunId,omitempty"`
}

// HasActiveRun reports whether the user currently has a run in flight.
func (u *User) HasActiveRun() bool {
	return u.ActiveRunID != nil && *u.ActiveRunID != primitive.NilObjectID
}
