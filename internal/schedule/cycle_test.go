package schedule

import (
	"errors"
	"testing"
)

func TestNewCycleDefinition_Valid(t *testing.T) {
	def, err := NewCycleDefinition([]int{1, 2, 3, 5, 6}, []int{4, 7}, 4)
	if err != nil {
		t.Fatalf("NewCycleDefinition failed: %v", err)
	}
	if got := def.MicrocycleLength(); got != 7 {
		t.Errorf("MicrocycleLength = %d, want 7", got)
	}
	if got := def.TotalDays(); got != 28 {
		t.Errorf("TotalDays = %d, want 28", got)
	}
	if !def.IsTrainingDay(5) {
		t.Errorf("expected day 5 to be a training day")
	}
	if def.IsTrainingDay(4) {
		t.Errorf("expected day 4 to be a rest day")
	}
}

func TestNewCycleDefinition_RestDaysOptional(t *testing.T) {
	def, err := NewCycleDefinition([]int{1, 2, 3}, nil, 1)
	if err != nil {
		t.Fatalf("expected a plan without rest days to be valid, got %v", err)
	}
	if got := def.MicrocycleLength(); got != 3 {
		t.Errorf("MicrocycleLength = %d, want 3", got)
	}
}

func TestNewCycleDefinition_CoverageInvariant(t *testing.T) {
	// Every slot in [1..length] must belong to exactly one of the two sets.
	def, err := NewCycleDefinition([]int{1, 3}, []int{2, 4}, 2)
	if err != nil {
		t.Fatalf("NewCycleDefinition failed: %v", err)
	}
	for i := 1; i <= def.MicrocycleLength(); i++ {
		training := def.IsTrainingDay(i)
		rest := false
		for _, n := range def.RestDayNumbers() {
			if n == i {
				rest = true
			}
		}
		if training == rest {
			t.Errorf("day %d: training=%v rest=%v, want exactly one", i, training, rest)
		}
	}
}

func TestNewCycleDefinition_Invalid(t *testing.T) {
	cases := []struct {
		name     string
		training []int
		rest     []int
		count    int
	}{
		{"no training days", nil, []int{1, 2}, 1},
		{"overlapping sets", []int{1, 2}, []int{2, 3}, 1},
		{"gap in coverage", []int{1, 2}, []int{4}, 1},
		{"day below range", []int{0, 1}, []int{2}, 1},
		{"duplicate training day", []int{1, 1}, []int{2}, 1},
		{"zero microcycle count", []int{1}, nil, 0},
		{"negative microcycle count", []int{1}, nil, -2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewCycleDefinition(tc.training, tc.rest, tc.count)
			if err == nil {
				t.Fatalf("expected validation to fail")
			}
			if !errors.Is(err, ErrInvalidCycleDefinition) {
				t.Errorf("error %v does not wrap ErrInvalidCycleDefinition", err)
			}
		})
	}
}

func TestCycleDefinition_SortsDayNumbers(t *testing.T) {
	def, err := NewCycleDefinition([]int{3, 1, 2}, []int{4}, 1)
	if err != nil {
		t.Fatalf("NewCycleDefinition failed: %v", err)
	}
	got := def.TrainingDayNumbers()
	want := []int{1, 2, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("TrainingDayNumbers = %v, want %v", got, want)
		}
	}
}
