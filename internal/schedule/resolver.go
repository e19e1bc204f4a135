package schedule

import "time"

// DayPosition is the logical position of a single calendar date inside a run.
// DayNumber is 0 on rest days.
type DayPosition struct {
	MicrocycleIndex int  `json:"microcycleIndex"`
	DayNumber       int  `json:"dayNumber,omitempty"`
	IsTrainingDay   bool `json:"isTrainingDay"`
}

// Resolve maps a single query date to its position in the cycle without
// materializing the calendar; it is constant time regardless of run length.
// The bool is false when queryDate falls outside [startDate, endDate) — a
// valid negative result ("nothing scheduled"), not an error. All inputs are
// compared at day granularity, so any wall-clock time on the same calendar
// date resolves identically.
func Resolve(def CycleDefinition, startDate, endDate, queryDate time.Time) (DayPosition, bool) {
	start := StartOfDay(startDate)
	end := StartOfDay(endDate)
	query := StartOfDay(queryDate)

	if query.Before(start) || !query.Before(end) {
		return DayPosition{}, false
	}

	offset := DaysBetween(start, query)
	length := def.MicrocycleLength()
	dayInCycle := offset%length + 1

	pos := DayPosition{
		MicrocycleIndex: offset / length,
		IsTrainingDay:   def.IsTrainingDay(dayInCycle),
	}
	if pos.IsTrainingDay {
		pos.DayNumber = dayInCycle
	}
	return pos, true
}
