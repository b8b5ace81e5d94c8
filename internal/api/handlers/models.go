package handlers

import (
	"github.com/m04kA/SMC-CalendarView/internal/domain"
	"github.com/m04kA/SMC-CalendarView/internal/service/calendar"
)

// GridResponse HTTP модель недельной сетки
type GridResponse struct {
	WeekStart     string        `json:"weekStart"` // "2024-01-01"
	WeekNumber    int           `json:"weekNumber"`
	WeekLabel     string        `json:"weekLabel"`
	Loading       bool          `json:"loading"`
	State         string        `json:"state"`
	BookableCount int           `json:"bookableCount"`
	Days          []DayResponse `json:"days"`
	Rows          []RowResponse `json:"rows"`
}

// DayResponse заголовок дня
type DayResponse struct {
	Date  string `json:"date"`
	Name  string `json:"name"`
	Label string `json:"label"`
}

// RowResponse строка сетки одного часа
type RowResponse struct {
	Hour  int            `json:"hour"`
	Label string         `json:"label"`
	Cells []CellResponse `json:"cells"`
}

// CellResponse ячейка сетки
type CellResponse struct {
	Date   string `json:"date"`
	Hour   int    `json:"hour"`
	Key    string `json:"key"`
	Status string `json:"status"`
}

// NoticeResponse уведомление о результате бронирования
type NoticeResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// FromGrid конвертирует сетку контроллера в HTTP модель
func FromGrid(grid *calendar.Grid) *GridResponse {
	resp := &GridResponse{
		WeekStart:     grid.WeekStart.Format(domain.DateFormat),
		WeekNumber:    grid.WeekNumber,
		WeekLabel:     grid.WeekLabel,
		Loading:       grid.Loading,
		State:         string(grid.State),
		BookableCount: grid.BookableCount(),
		Days:          make([]DayResponse, 0, len(grid.Days)),
		Rows:          make([]RowResponse, 0, len(grid.Rows)),
	}

	for _, day := range grid.Days {
		resp.Days = append(resp.Days, DayResponse{
			Date:  day.Date.Format(domain.DateFormat),
			Name:  day.Name,
			Label: day.DateLabel,
		})
	}

	for _, row := range grid.Rows {
		cells := make([]CellResponse, 0, len(row.Cells))
		for _, cell := range row.Cells {
			cells = append(cells, CellResponse{
				Date:   cell.Date.Format(domain.DateFormat),
				Hour:   cell.Hour,
				Key:    cell.Key.String(),
				Status: string(cell.Status),
			})
		}
		resp.Rows = append(resp.Rows, RowResponse{
			Hour:  row.Hour,
			Label: row.Label,
			Cells: cells,
		})
	}

	return resp
}

// FromNotice конвертирует уведомление в HTTP модель
func FromNotice(notice *calendar.Notice) *NoticeResponse {
	if notice == nil {
		return nil
	}
	return &NoticeResponse{
		Kind:    string(notice.Kind),
		Message: notice.Message,
	}
}
