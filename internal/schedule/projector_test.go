package schedule

import (
	"reflect"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Cycle from the fixture used throughout: train 1-3, rest on 4, two repeats,
// starting Monday 2024-01-01. Eight days total, ending (exclusive) 2024-01-09.
func twoWeekFixture(t *testing.T) CycleDefinition {
	t.Helper()
	def, err := NewCycleDefinition([]int{1, 2, 3}, []int{4}, 2)
	if err != nil {
		t.Fatalf("NewCycleDefinition failed: %v", err)
	}
	return def
}

func TestProject_DerivedFacts(t *testing.T) {
	def := twoWeekFixture(t)
	p := Project(def, date(2024, time.January, 1))

	if p.MicrocycleLength != 4 {
		t.Errorf("MicrocycleLength = %d, want 4", p.MicrocycleLength)
	}
	if p.TotalDays != 8 {
		t.Errorf("TotalDays = %d, want 8", p.TotalDays)
	}
	if !p.EndDate.Equal(date(2024, time.January, 9)) {
		t.Errorf("EndDate = %v, want 2024-01-09", p.EndDate)
	}
}

func TestProject_CalendarDays(t *testing.T) {
	def := twoWeekFixture(t)
	p := Project(def, date(2024, time.January, 1))
	days := p.Days()

	if len(days) != 8 {
		t.Fatalf("len(days) = %d, want 8", len(days))
	}

	trainingDates := map[int]bool{1: true, 2: true, 3: true, 5: true, 6: true, 7: true}
	for i, day := range days {
		wantDate := date(2024, time.January, 1+i)
		if !day.Date.Equal(wantDate) {
			t.Errorf("day %d: Date = %v, want %v", i, day.Date, wantDate)
		}
		if day.IsTrainingDay != trainingDates[wantDate.Day()] {
			t.Errorf("day %d (%v): IsTrainingDay = %v", i, wantDate, day.IsTrainingDay)
		}
		if wantMC := i / 4; day.MicrocycleIndex != wantMC {
			t.Errorf("day %d: MicrocycleIndex = %d, want %d", i, day.MicrocycleIndex, wantMC)
		}
		if !day.IsTrainingDay && day.DayNumber != 0 {
			t.Errorf("day %d: rest day carries DayNumber %d", i, day.DayNumber)
		}
	}
}

func TestProject_NormalizesStartToMidnightUTC(t *testing.T) {
	def := twoWeekFixture(t)
	noon := time.Date(2024, time.January, 1, 12, 37, 5, 0, time.UTC)
	p := Project(def, noon)
	if !p.StartDate.Equal(date(2024, time.January, 1)) {
		t.Errorf("StartDate = %v, want midnight 2024-01-01", p.StartDate)
	}
}

func TestProject_Totality(t *testing.T) {
	cases := []struct {
		training []int
		rest     []int
		count    int
	}{
		{[]int{1}, nil, 1},
		{[]int{1, 2, 3}, []int{4}, 2},
		{[]int{1, 2, 3, 5, 6}, []int{4, 7}, 6},
		{[]int{2, 4}, []int{1, 3, 5}, 12},
	}
	for _, tc := range cases {
		def, err := NewCycleDefinition(tc.training, tc.rest, tc.count)
		if err != nil {
			t.Fatalf("NewCycleDefinition(%v, %v, %d) failed: %v", tc.training, tc.rest, tc.count, err)
		}
		p := Project(def, date(2025, time.March, 10))
		if got, want := len(p.Days()), def.MicrocycleCount()*def.MicrocycleLength(); got != want {
			t.Errorf("len(Days()) = %d, want %d for %v/%v x%d", got, want, tc.training, tc.rest, tc.count)
		}
	}
}

func TestProject_Idempotent(t *testing.T) {
	def := twoWeekFixture(t)
	first := Project(def, date(2024, time.January, 1))
	second := Project(def, date(2024, time.January, 1))
	if !reflect.DeepEqual(first.Days(), second.Days()) {
		t.Errorf("two projections of identical input differ")
	}
}

func TestDayAt_OutOfRange(t *testing.T) {
	def := twoWeekFixture(t)
	p := Project(def, date(2024, time.January, 1))
	if _, ok := p.DayAt(-1); ok {
		t.Errorf("DayAt(-1) succeeded")
	}
	if _, ok := p.DayAt(p.TotalDays); ok {
		t.Errorf("DayAt(TotalDays) succeeded")
	}
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2024, time.January, 1, 23, 59, 0, 0, time.UTC)
	b := time.Date(2024, time.January, 6, 0, 1, 0, 0, time.UTC)
	if got := DaysBetween(a, b); got != 5 {
		t.Errorf("DaysBetween = %d, want 5", got)
	}
	if got := DaysBetween(b, a); got != -5 {
		t.Errorf("reverse DaysBetween = %d, want -5", got)
	}
}
