package navigate_week

import (
	"github.com/m04kA/SMC-CalendarView/internal/api/handlers"
	"github.com/m04kA/SMC-CalendarView/internal/service/calendar"
)

// NavigateWeekResponse HTTP response model
type NavigateWeekResponse struct {
	Direction string                 `json:"direction"`
	Grid      *handlers.GridResponse `json:"grid"`
}

// FromGrid формирует ответ после перехода на другую неделю
func FromGrid(direction calendar.Direction, grid *calendar.Grid) *NavigateWeekResponse {
	return &NavigateWeekResponse{
		Direction: string(direction),
		Grid:      handlers.FromGrid(grid),
	}
}
