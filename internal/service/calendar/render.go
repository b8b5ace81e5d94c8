package calendar

import (
	"fmt"

	"github.com/m04kA/SMC-CalendarView/internal/domain"
)

// Render строит сетку заново по текущей неделе и карте доступности
func (c *Controller) Render() *Grid {
	c.mu.Lock()
	defer c.mu.Unlock()

	weekStart := c.weekStart
	days := domain.WeekDays(weekStart)
	weekNumber := domain.WeekNumber(weekStart)

	grid := &Grid{
		WeekStart:  weekStart,
		WeekNumber: weekNumber,
		WeekLabel:  fmt.Sprintf(c.labels.WeekFormat, weekNumber),
		Days:       make([]DayHeader, 0, len(days)),
		Rows:       make([]Row, 0, c.hours.Len()),
	}

	for i, day := range days {
		grid.Days = append(grid.Days, DayHeader{
			Date:      day,
			Name:      c.labels.DayNames[i],
			DateLabel: day.Format(c.labels.DateLayout),
		})
	}

	for _, hour := range c.hours.Hours() {
		row := Row{
			Hour:  hour,
			Label: fmt.Sprintf(c.labels.HourFormat, hour, hour+1),
			Cells: make([]Cell, 0, len(days)),
		}
		for _, day := range days {
			key := domain.NewSlot(day, hour).Key()
			row.Cells = append(row.Cells, Cell{
				Date:   day,
				Hour:   hour,
				Key:    key,
				Status: c.cellStatusLocked(key),
			})
		}
		grid.Rows = append(grid.Rows, row)
	}

	c.rendered = true
	grid.Loading = c.inFlight > 0
	grid.State = c.stateLocked()

	return grid
}

func (c *Controller) cellStatusLocked(key domain.SlotKey) CellStatus {
	if _, ok := c.pending[key]; ok {
		return CellPending
	}
	if c.availability.IsAvailable(key) {
		return CellBookable
	}
	return CellBooked
}
