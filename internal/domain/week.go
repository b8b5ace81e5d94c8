package domain

import "time"

// DateRange is a half-open range [Start, End) used for availability requests
type DateRange struct {
	Start time.Time
	End   time.Time
}

// DefaultRange returns [now, now+7d)
func DefaultRange(now time.Time) DateRange {
	return DateRange{Start: now.UTC(), End: now.UTC().AddDate(0, 0, DaysPerWeek)}
}

// WeekRange returns [weekStart, weekStart+7d)
func WeekRange(weekStart time.Time) DateRange {
	start := WeekStartOf(weekStart)
	return DateRange{Start: start, End: start.AddDate(0, 0, DaysPerWeek)}
}

// StartOfDay truncates t to UTC midnight
func StartOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekStartOf returns Monday 00:00 UTC of the week containing t
func WeekStartOf(t time.Time) time.Time {
	day := StartOfDay(t)
	offset := int(day.Weekday()) - int(time.Monday)
	if offset < 0 {
		// Sunday belongs to the week that started six days earlier
		offset += DaysPerWeek
	}
	return day.AddDate(0, 0, -offset)
}

// ShiftWeeks moves a week start by n weeks
func ShiftWeeks(weekStart time.Time, n int) time.Time {
	return WeekStartOf(weekStart).AddDate(0, 0, n*DaysPerWeek)
}

// WeekNumber returns the ISO-8601 week number of t in UTC
func WeekNumber(t time.Time) int {
	_, week := t.UTC().ISOWeek()
	return week
}

// WeekDays returns the seven dates of the week starting at weekStart
func WeekDays(weekStart time.Time) []time.Time {
	start := WeekStartOf(weekStart)
	days := make([]time.Time, DaysPerWeek)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}
