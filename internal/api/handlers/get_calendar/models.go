package get_calendar

import (
	"time"

	"github.com/m04kA/SMC-CalendarView/internal/domain"
)

// ParseWeekParam разбирает параметр week ("2024-01-03"), пустая строка = текущая неделя
func ParseWeekParam(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	date, err := time.ParseInLocation(domain.DateFormat, s, time.UTC)
	if err != nil {
		return nil, err
	}
	return &date, nil
}
