// Package schedule contains the mesocycle calendar math: cycle definitions,
// the calendar projector, and the date resolver. Everything here is pure and
// side-effect free; persistence and HTTP live elsewhere.
package schedule

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidCycleDefinition is wrapped by all validation failures in
// NewCycleDefinition so callers can match with errors.Is.
var ErrInvalidCycleDefinition = errors.New("invalid cycle definition")

// CycleDefinition describes one repeating microcycle: which day slots are
// training days, which are rest days, and how many times the cycle repeats
// within a run. Day numbers are 1-based positions inside the microcycle.
// A valid definition has the two sets disjoint and together covering exactly
// [1..MicrocycleLength()].
type CycleDefinition struct {
	trainingDayNumbers []int
	restDayNumbers     []int
	microcycleCount    int
	training           map[int]bool
}

// NewCycleDefinition validates and builds a CycleDefinition.
// Rules: at least one training day, rest days optional, microcycleCount >= 1,
// and the union of both sets must be exactly 1..N with no gaps or overlaps.
func NewCycleDefinition(trainingDayNumbers, restDayNumbers []int, microcycleCount int) (CycleDefinition, error) {
	if microcycleCount < 1 {
		return CycleDefinition{}, fmt.Errorf("%w: microcycle count must be at least 1, got %d", ErrInvalidCycleDefinition, microcycleCount)
	}
	if len(trainingDayNumbers) == 0 {
		return CycleDefinition{}, fmt.Errorf("%w: at least one training day is required", ErrInvalidCycleDefinition)
	}

	length := len(trainingDayNumbers) + len(restDayNumbers)

	training := make(map[int]bool, len(trainingDayNumbers))
	seen := make(map[int]bool, length)
	for _, n := range trainingDayNumbers {
		if n < 1 || n > length {
			return CycleDefinition{}, fmt.Errorf("%w: training day %d is outside [1..%d]", ErrInvalidCycleDefinition, n, length)
		}
		if seen[n] {
			return CycleDefinition{}, fmt.Errorf("%w: day %d appears more than once", ErrInvalidCycleDefinition, n)
		}
		seen[n] = true
		training[n] = true
	}
	for _, n := range restDayNumbers {
		if n < 1 || n > length {
			return CycleDefinition{}, fmt.Errorf("%w: rest day %d is outside [1..%d]", ErrInvalidCycleDefinition, n, length)
		}
		if seen[n] {
			return CycleDefinition{}, fmt.Errorf("%w: day %d appears more than once", ErrInvalidCycleDefinition, n)
		}
		seen[n] = true
	}
	// len(seen) == length and every entry is within [1..length], so the union
	// covers the whole range with no gaps.

	def := CycleDefinition{
		trainingDayNumbers: append([]int(nil), trainingDayNumbers...),
		restDayNumbers:     append([]int(nil), restDayNumbers...),
		microcycleCount:    microcycleCount,
		training:           training,
	}
	sort.Ints(def.trainingDayNumbers)
	sort.Ints(def.restDayNumbers)
	return def, nil
}

// TrainingDayNumbers returns the ordered training day slots (ascending).
func (d CycleDefinition) TrainingDayNumbers() []int {
	return append([]int(nil), d.trainingDayNumbers...)
}

// RestDayNumbers returns the ordered rest day slots (ascending).
func (d CycleDefinition) RestDayNumbers() []int {
	return append([]int(nil), d.restDayNumbers...)
}

// MicrocycleLength is the number of day slots in one microcycle.
func (d CycleDefinition) MicrocycleLength() int {
	return len(d.trainingDayNumbers) + len(d.restDayNumbers)
}

// MicrocycleCount is the number of repeats of the cycle within one run.
func (d CycleDefinition) MicrocycleCount() int {
	return d.microcycleCount
}

// TotalDays is the full calendar span of a run in days.
func (d CycleDefinition) TotalDays() int {
	return d.microcycleCount * d.MicrocycleLength()
}

// IsTrainingDay reports whether the 1-based day slot is a training day.
func (d CycleDefinition) IsTrainingDay(dayInCycle int) bool {
	return d.training[dayInCycle]
}
