package schedule

import (
	"testing"
	"time"
)

func TestResolve_ConcreteQuery(t *testing.T) {
	// Train 1-3, rest 4, two repeats, start Monday 2024-01-01.
	// 2024-01-06 is offset 5: microcycle 1, day-in-cycle 2, training.
	def := twoWeekFixture(t)
	start := date(2024, time.January, 1)
	end := date(2024, time.January, 9)

	pos, ok := Resolve(def, start, end, date(2024, time.January, 6))
	if !ok {
		t.Fatalf("Resolve returned out of range for an in-range date")
	}
	if pos.MicrocycleIndex != 1 || pos.DayNumber != 2 || !pos.IsTrainingDay {
		t.Errorf("pos = %+v, want {MicrocycleIndex:1 DayNumber:2 IsTrainingDay:true}", pos)
	}
}

func TestResolve_RestDay(t *testing.T) {
	def := twoWeekFixture(t)
	start := date(2024, time.January, 1)
	end := date(2024, time.January, 9)

	pos, ok := Resolve(def, start, end, date(2024, time.January, 8))
	if !ok {
		t.Fatalf("Resolve returned out of range for an in-range date")
	}
	if pos.IsTrainingDay || pos.DayNumber != 0 || pos.MicrocycleIndex != 1 {
		t.Errorf("pos = %+v, want rest day in microcycle 1", pos)
	}
}

func TestResolve_Boundaries(t *testing.T) {
	def := twoWeekFixture(t)
	start := date(2024, time.January, 1)
	end := date(2024, time.January, 9)

	if _, ok := Resolve(def, start, end, start.AddDate(0, 0, -1)); ok {
		t.Errorf("day before start resolved in range")
	}
	if _, ok := Resolve(def, start, end, end); ok {
		t.Errorf("exclusive end date resolved in range")
	}

	pos, ok := Resolve(def, start, end, start)
	if !ok {
		t.Fatalf("start date resolved out of range")
	}
	if pos.MicrocycleIndex != 0 || pos.DayNumber != 1 || !pos.IsTrainingDay {
		t.Errorf("start pos = %+v, want microcycle 0, day 1, training", pos)
	}
}

func TestResolve_FloorsWallClockTimes(t *testing.T) {
	def := twoWeekFixture(t)
	start := date(2024, time.January, 1)
	end := date(2024, time.January, 9)

	morning := time.Date(2024, time.January, 6, 6, 0, 0, 0, time.UTC)
	night := time.Date(2024, time.January, 6, 23, 45, 0, 0, time.UTC)

	a, okA := Resolve(def, start, end, morning)
	b, okB := Resolve(def, start, end, night)
	if !okA || !okB {
		t.Fatalf("in-range timestamps resolved out of range")
	}
	if a != b {
		t.Errorf("same calendar date resolved differently: %+v vs %+v", a, b)
	}
}

// The resolver and the projector are two derivations of the same mapping and
// must never disagree on any offset of any valid plan.
func TestResolve_AgreesWithProjection(t *testing.T) {
	cases := []struct {
		training []int
		rest     []int
		count    int
	}{
		{[]int{1}, nil, 3},
		{[]int{1, 2, 3}, []int{4}, 2},
		{[]int{1, 2, 3, 5, 6}, []int{4, 7}, 5},
		{[]int{2, 5}, []int{1, 3, 4}, 8},
	}
	start := date(2024, time.June, 17)

	for _, tc := range cases {
		def, err := NewCycleDefinition(tc.training, tc.rest, tc.count)
		if err != nil {
			t.Fatalf("NewCycleDefinition failed: %v", err)
		}
		p := Project(def, start)
		for offset, day := range p.Days() {
			pos, ok := Resolve(def, p.StartDate, p.EndDate, day.Date)
			if !ok {
				t.Fatalf("offset %d: projected date %v resolved out of range", offset, day.Date)
			}
			if pos.MicrocycleIndex != day.MicrocycleIndex ||
				pos.DayNumber != day.DayNumber ||
				pos.IsTrainingDay != day.IsTrainingDay {
				t.Errorf("offset %d: resolver %+v disagrees with projector %+v", offset, pos, day)
			}
		}
	}
}

func TestResolve_TruncatedEndDate(t *testing.T) {
	// Stopping a run early shrinks the window; dates past the new end must
	// resolve as out of range even though they were projected originally.
	def := twoWeekFixture(t)
	start := date(2024, time.January, 1)
	truncatedEnd := date(2024, time.January, 3) // stopped on day 3

	if _, ok := Resolve(def, start, truncatedEnd, date(2024, time.January, 2)); !ok {
		t.Errorf("date inside truncated window resolved out of range")
	}
	for d := 3; d <= 8; d++ {
		if _, ok := Resolve(def, start, truncatedEnd, date(2024, time.January, d)); ok {
			t.Errorf("2024-01-%02d resolved in range after truncation", d)
		}
	}
}
