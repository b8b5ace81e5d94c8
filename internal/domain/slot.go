package domain

import (
	"fmt"
	"time"
)

// SlotKey is the canonical string form of a slot start used to index AvailabilityMap.
// Keys are UTC wall-clock fields formatted with SlotKeyLayout.
type SlotKey string

// NewSlotKey formats t (converted to UTC) as a slot key
func NewSlotKey(t time.Time) SlotKey {
	return SlotKey(t.UTC().Format(SlotKeyLayout))
}

// ParseSlotKey parses a key produced by NewSlotKey.
// Longer timestamps (fractional seconds, zone suffix) are truncated to second precision first.
func ParseSlotKey(s string) (time.Time, error) {
	if len(s) > len(SlotKeyLayout) {
		s = s[:len(SlotKeyLayout)]
	}
	t, err := time.ParseInLocation(SlotKeyLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid slot key %q: %w", s, err)
	}
	return t, nil
}

// String returns the key as a plain string
func (k SlotKey) String() string {
	return string(k)
}

// Time returns the slot start encoded in the key
func (k SlotKey) Time() (time.Time, error) {
	return ParseSlotKey(string(k))
}

// Slot represents a one-hour bookable interval identified by date and starting hour
type Slot struct {
	Date time.Time // Calendar day, only Y/M/D are used
	Hour int       // Starting hour, 0-23
}

// NewSlot normalizes date to UTC midnight and pairs it with hour
func NewSlot(date time.Time, hour int) Slot {
	return Slot{Date: StartOfDay(date), Hour: hour}
}

// Start returns the slot start instant in UTC
func (s Slot) Start() time.Time {
	return StartOfDay(s.Date).Add(time.Duration(s.Hour) * time.Hour)
}

// Key returns the canonical key of the slot start
func (s Slot) Key() SlotKey {
	return NewSlotKey(s.Start())
}

// Interval returns the half-open interval [start, start+1h)
func (s Slot) Interval() Interval {
	start := s.Start()
	return Interval{Start: start, End: start.Add(SlotDuration)}
}

// IsValid returns true if the hour fits into a day
func (s Slot) IsValid() bool {
	return !s.Date.IsZero() && s.Hour >= 0 && s.Hour < HoursPerDay
}

// Interval represents a half-open time interval [Start, End)
type Interval struct {
	Start time.Time
	End   time.Time
}

// StartKey returns the slot key of the interval start
func (i Interval) StartKey() SlotKey {
	return NewSlotKey(i.Start)
}

// EndKey returns the slot key of the interval end
func (i Interval) EndKey() SlotKey {
	return NewSlotKey(i.End)
}

// Duration returns the interval length
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}
