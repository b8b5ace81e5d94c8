package domain

import "time"

// Calendar geometry
const (
	DaysPerWeek  = 7
	HoursPerDay  = 24
	SlotDuration = time.Hour
)

// Default configuration values
const (
	DefaultWorkingHoursStart = 9
	DefaultWorkingHoursEnd   = 14
)

// Time format constants
const (
	SlotKeyLayout = "2006-01-02T15:04:05" // UTC, second precision
	DateFormat    = "2006-01-02"          // YYYY-MM-DD
)
