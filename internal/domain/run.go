// internal/domain/run.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MesocycleRun is a concrete, dated instantiation of a Mesocycle plan.
// The plan's cycle layout and exercise templates are frozen into the run at
// start time, so later edits to the plan never touch an in-flight run.
// Microcycles and their occurrences are embedded in the run document, which
// makes materialization at run start a single atomic insert.
type MesocycleRun struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID `bson:"userId" json:"userId"`
	PlanID primitive.ObjectID `bson:"planId" json:"planId"`

	// PlanSnapshot freezes the plan as it was when the run started.
	PlanSnapshot PlanSnapshot `bson:"planSnapshot" json:"planSnapshot"`

	StartDate time.Time  `bson:"startDate" json:"startDate"` // inclusive, midnight UTC
	EndDate   time.Time  `bson:"endDate" json:"endDate"`     // exclusive; shrinks when stopped early
	StoppedAt *time.Time `bson:"stoppedAt,omitempty" json:"stoppedAt,omitempty"`

	Microcycles []Microcycle `bson:"microcycles" json:"microcycles"`

	// PreviousRunID is a read-only back-reference to the user's prior run of
	// the same plan, used for progress comparison. Never an ownership edge.
	PreviousRunID *primitive.ObjectID `bson:"previousRunId,omitempty" json:"previousRunId,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// PlanSnapshot is the frozen copy of the plan a run was started from.
type PlanSnapshot struct {
	Name            string                `bson:"name" json:"name"`
	TrainingDays    []TrainingDayTemplate `bson:"trainingDays" json:"trainingDays"`
	RestDayNumbers  []int                 `bson:"restDayNumbers,omitempty" json:"restDayNumbers,omitempty"`
	MicrocycleCount int                   `bson:"microcycleCount" json:"microcycleCount"`
}

// Microcycle is one repeat of the day pattern within a run.
type Microcycle struct {
	Index int                     `bson:"index" json:"index"` // 0-based
	Days  []TrainingDayOccurrence `bson:"days" json:"days"`
}

// TrainingDayOccurrence is one concrete dated training day within a run.
// Dates derive from startDate + (microcycleIndex*microcycleLength + dayNumber - 1).
type TrainingDayOccurrence struct {
	OccurrenceID    string        `bson:"occurrenceId" json:"occurrenceId"` // uuid; stable id inside the embedded document
	Date            time.Time     `bson:"date" json:"date"`
	DayNumber       int           `bson:"dayNumber" json:"dayNumber"`
	MicrocycleIndex int           `bson:"microcycleIndex" json:"microcycleIndex"`
	Label           string        `bson:"label,omitempty" json:"label,omitempty"`
	Completed       bool          `bson:"completed" json:"completed"`
	CompletedAt     *time.Time    `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	Exercises       []ExerciseLog `bson:"exercises,omitempty" json:"exercises,omitempty"`
}

// ExerciseLog is one exercise within an occurrence: the seeded targets plus
// whatever the athlete actually performed.
type ExerciseLog struct {
	Name string   `bson:"name" json:"name"`
	Sets []SetLog `bson:"sets,omitempty" json:"sets,omitempty"`
}

// SetLog pairs a set's target with its performed result. Performed fields
// stay zero until the session is logged.
type SetLog struct {
	TargetWeight    float64 `bson:"targetWeight,omitempty" json:"targetWeight,omitempty"`
	TargetReps      int     `bson:"targetReps,omitempty" json:"targetReps,omitempty"`
	TargetRIR       int     `bson:"targetRir,omitempty" json:"targetRir,omitempty"`
	PerformedWeight float64 `bson:"performedWeight,omitempty" json:"performedWeight,omitempty"`
	PerformedReps   int     `bson:"performedReps,omitempty" json:"performedReps,omitempty"`
	PerformedRIR    int     `bson:"performedRir,omitempty" json:"performedRir,omitempty"`
}

// OccurrenceOn returns the occurrence scheduled on the given date (already
// normalized to midnight UTC), nil when the date is a rest day or outside
// the run.
func (r *MesocycleRun) OccurrenceOn(date time.Time) *TrainingDayOccurrence {
	for mi := range r.Microcycles {
		for di := range r.Microcycles[mi].Days {
			occ := &r.Microcycles[mi].Days[di]
			if occ.Date.Equal(date) {
				return occ
			}
		}
	}
	return nil
}

// FindOccurrence returns the occurrence with the given embedded id, nil if absent.
func (r *MesocycleRun) FindOccurrence(occurrenceID string) *TrainingDayOccurrence {
	for mi := range r.Microcycles {
		for di := range r.Microcycles[mi].Days {
			occ := &r.Microcycles[mi].Days[di]
			if occ.OccurrenceID == occurrenceID {
				return occ
			}
		}
	}
	return nil
}
