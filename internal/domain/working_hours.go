package domain

import "fmt"

// WorkingHours defines the rendered hour range per day: Start inclusive, End exclusive
type WorkingHours struct {
	Start int
	End   int
}

// Validate checks that 0 <= Start < End <= 24
func (w WorkingHours) Validate() error {
	if w.Start < 0 || w.End > HoursPerDay || w.Start >= w.End {
		return fmt.Errorf("invalid working hours %d-%d: expected 0 <= start < end <= %d", w.Start, w.End, HoursPerDay)
	}
	return nil
}

// Len returns the number of hourly rows
func (w WorkingHours) Len() int {
	if w.End <= w.Start {
		return 0
	}
	return w.End - w.Start
}

// Contains returns true if hour is within [Start, End)
func (w WorkingHours) Contains(hour int) bool {
	return hour >= w.Start && hour < w.End
}

// Hours returns all starting hours in the range
func (w WorkingHours) Hours() []int {
	hours := make([]int, 0, w.Len())
	for h := w.Start; h < w.End; h++ {
		hours = append(hours, h)
	}
	return hours
}
