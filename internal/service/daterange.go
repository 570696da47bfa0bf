package service

import "time"

// Named presets accepted by the filter query option.
const (
	FilterToday     = "today"
	FilterThisWeek  = "this-week"
	FilterLastWeek  = "last-week"
	FilterThisMonth = "this-month"
	FilterLastMonth = "last-month"
)

// endOfDayNanos puts a day's end at 23:59:59.999.
const endOfDayNanos = 999 * int(time.Millisecond)

// DateRange is an inclusive [Start, End] instant range.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the range, boundaries included.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// ResolveFilter computes the calendar range for a named preset relative to now.
// Calendar boundaries follow now's location. Unknown names return ok=false.
func ResolveFilter(filter string, now time.Time) (DateRange, bool) {
	y, m, d := now.Date()
	loc := now.Location()
	today := time.Date(y, m, d, 0, 0, 0, 0, loc)

	switch filter {
	case FilterToday:
		return dayRange(today), true
	case FilterThisWeek:
		return weekRange(today.AddDate(0, 0, -int(today.Weekday()))), true
	case FilterLastWeek:
		return weekRange(today.AddDate(0, 0, -int(today.Weekday())-7)), true
	case FilterThisMonth:
		return monthRange(y, m, loc), true
	case FilterLastMonth:
		// time.Date normalizes month 0 to December of the previous year.
		return monthRange(y, m-1, loc), true
	default:
		return DateRange{}, false
	}
}

// ResolveDate parses an exact calendar date and returns that day's range in loc.
// Accepts 2006-01-02 (interpreted in loc) or RFC3339 (converted to loc).
func ResolveDate(value string, loc *time.Location) (DateRange, bool) {
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.ParseInLocation(time.DateOnly, value, loc); err == nil {
		return dayRange(t), true
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		y, m, d := t.In(loc).Date()
		return dayRange(time.Date(y, m, d, 0, 0, 0, 0, loc)), true
	}
	return DateRange{}, false
}

// dayRange spans a full calendar day starting at midnight.
// Built with time.Date so DST transitions keep wall-clock boundaries.
func dayRange(midnight time.Time) DateRange {
	y, m, d := midnight.Date()
	return DateRange{
		Start: midnight,
		End:   time.Date(y, m, d, 23, 59, 59, endOfDayNanos, midnight.Location()),
	}
}

// weekRange spans Sunday 00:00:00.000 through Saturday 23:59:59.999.
func weekRange(sunday time.Time) DateRange {
	saturday := sunday.AddDate(0, 0, 6)
	return DateRange{
		Start: sunday,
		End:   dayRange(saturday).End,
	}
}

// monthRange spans the first through the last calendar day of the month.
func monthRange(year int, month time.Month, loc *time.Location) DateRange {
	return DateRange{
		Start: time.Date(year, month, 1, 0, 0, 0, 0, loc),
		// Day 0 of the next month is the last day of this one.
		End: time.Date(year, month+1, 0, 23, 59, 59, endOfDayNanos, loc),
	}
}
