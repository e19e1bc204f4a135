package schedule

import "time"

// CalendarDay is one concrete dated slot of a projected run.
// DayNumber is only meaningful when IsTrainingDay is true; rest days carry 0.
type CalendarDay struct {
	Date            time.Time `json:"date"`
	MicrocycleIndex int       `json:"microcycleIndex"`
	DayNumber       int       `json:"dayNumber,omitempty"`
	IsTrainingDay   bool      `json:"isTrainingDay"`
}

// Projection holds the derived facts of a run laid over concrete dates.
// The day list is produced on demand (Days / DayAt) rather than stored, so a
// Projection is cheap to build and restartable.
type Projection struct {
	Definition       CycleDefinition
	StartDate        time.Time // inclusive, midnight UTC
	EndDate          time.Time // exclusive, midnight UTC
	MicrocycleLength int
	TotalDays        int
}

// Project lays the cycle definition over concrete dates starting at startDate.
// The run spans [StartDate, EndDate). startDate is floored to midnight UTC
// first so callers can pass wall-clock timestamps.
func Project(def CycleDefinition, startDate time.Time) Projection {
	start := StartOfDay(startDate)
	total := def.TotalDays()
	return Projection{
		Definition:       def,
		StartDate:        start,
		EndDate:          start.AddDate(0, 0, total),
		MicrocycleLength: def.MicrocycleLength(),
		TotalDays:        total,
	}
}

// DayAt returns the calendar day at the given offset from the start date.
// offset must be in [0, TotalDays); the bool is false otherwise.
func (p Projection) DayAt(offset int) (CalendarDay, bool) {
	if offset < 0 || offset >= p.TotalDays {
		return CalendarDay{}, false
	}
	dayInCycle := offset%p.MicrocycleLength + 1
	day := CalendarDay{
		Date:            p.StartDate.AddDate(0, 0, offset),
		MicrocycleIndex: offset / p.MicrocycleLength,
		IsTrainingDay:   p.Definition.IsTrainingDay(dayInCycle),
	}
	if day.IsTrainingDay {
		day.DayNumber = dayInCycle
	}
	return day, true
}

// Days materializes the full ordered day list, one entry per calendar day of
// the run. Used to seed occurrence records at run start and to render the
// calendar strip.
func (p Projection) Days() []CalendarDay {
	days := make([]CalendarDay, p.TotalDays)
	for offset := range days {
		days[offset], _ = p.DayAt(offset)
	}
	return days
}

// StartOfDay normalizes a timestamp to midnight UTC. All day arithmetic in
// this package operates on normalized dates so two timestamps on the same
// calendar date always compare equal at day granularity.
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole number of calendar days from a to b after
// flooring both to midnight UTC. Negative when b precedes a.
func DaysBetween(a, b time.Time) int {
	return int(StartOfDay(b).Sub(StartOfDay(a)) / (24 * time.Hour))
}
