package calendar_page

import (
	"github.com/m04kA/SMC-CalendarView/internal/service/calendar"
)

// PageData данные шаблона страницы календаря
type PageData struct {
	*calendar.Grid
	Notice *calendar.Notice
}

// NewPageData формирует данные страницы из сетки и уведомления (может быть nil)
func NewPageData(grid *calendar.Grid, notice *calendar.Notice) *PageData {
	return &PageData{
		Grid:   grid,
		Notice: notice,
	}
}
