// internal/domain/plan.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Mesocycle is a training plan template: a repeating cycle of training and
// rest days with no concrete dates attached. The day-number layout (which
// slots train, which rest) is validated by the schedule package before any
// plan is persisted.
type Mesocycle struct {
	ID              primitive.ObjectID    `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID    `bson:"userId" json:"userId"` // Owner
	Name            string                `bson:"name" json:"name"`     // e.g., "Hypertrophy Block 1"
	Notes           string                `bson:"notes,omitempty" json:"notes,omitempty"`
	TrainingDays    []TrainingDayTemplate `bson:"trainingDays" json:"trainingDays"`
	RestDayNumbers  []int                 `bson:"restDayNumbers,omitempty" json:"restDayNumbers,omitempty"`
	MicrocycleCount int                   `bson:"microcycleCount" json:"microcycleCount"`
	CreatedAt       time.Time             `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time             `bson:"updatedAt" json:"updatedAt"`
}

// TrainingDayTemplate describes one logical training day slot inside the
// microcycle, identified by its 1-based day number.
type TrainingDayTemplate struct {
	DayNumber int                `bson:"dayNumber" json:"dayNumber"`
	Label     string             `bson:"label,omitempty" json:"label,omitempty"` // e.g., "Upper A"
	Exercises []ExerciseTemplate `bson:"exercises,omitempty" json:"exercises,omitempty"`
}

// ExerciseTemplate is one planned exercise with its target sets.
type ExerciseTemplate struct {
	Name string        `bson:"name" json:"name"`
	Sets []SetTemplate `bson:"sets,omitempty" json:"sets,omitempty"`
}

// SetTemplate carries the per-set targets an occurrence is seeded from.
// TargetRIR is reps-in-reserve, the intensity metric logged against each set.
type SetTemplate struct {
	TargetWeight float64 `bson:"targetWeight,omitempty" json:"targetWeight,omitempty"`
	TargetReps   int     `bson:"targetReps,omitempty" json:"targetReps,omitempty"`
	TargetRIR    int     `bson:"targetRir,omitempty" json:"targetRir,omitempty"`
}

// TrainingDayNumbers returns the plan's training day slots in template order.
func (m *Mesocycle) TrainingDayNumbers() []int {
	numbers := make([]int, len(m.TrainingDays))
	for i, td := range m.TrainingDays {
		numbers[i] = td.DayNumber
	}
	return numbers
}

// TrainingDayByNumber finds the template for a day number, nil if absent.
func (m *Mesocycle) TrainingDayByNumber(dayNumber int) *TrainingDayTemplate {
	for i := range m.TrainingDays {
		if m.TrainingDays[i].DayNumber == dayNumber {
			return &m.TrainingDays[i]
		}
	}
	return nil
}
