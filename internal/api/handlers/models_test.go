package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CalendarView/internal/api/handlers/handlerstest"
	"github.com/m04kA/SMC-CalendarView/internal/domain"
	"github.com/m04kA/SMC-CalendarView/internal/service/calendar"
)

func TestFromGrid(t *testing.T) {
	client := handlerstest.NewClient(domain.NewSlot(handlerstest.Monday.AddDate(0, 0, 1), 10))
	store := handlerstest.NewStore(client)

	grid := store.Controller.Refresh(context.Background())
	resp := FromGrid(grid)

	assert.Equal(t, "2024-01-01", resp.WeekStart)
	assert.Equal(t, 1, resp.WeekNumber)
	assert.Equal(t, "Неделя 1", resp.WeekLabel)
	assert.Equal(t, 1, resp.BookableCount)
	require.Len(t, resp.Days, 7)
	assert.Equal(t, DayResponse{Date: "2024-01-01", Name: "ПН", Label: "01.01.2024"}, resp.Days[0])
	require.Len(t, resp.Rows, 5)
	assert.Equal(t, "10-11", resp.Rows[1].Label)
	assert.Equal(t, CellResponse{
		Date:   "2024-01-02",
		Hour:   10,
		Key:    "2024-01-02T10:00:00",
		Status: string(calendar.CellBookable),
	}, resp.Rows[1].Cells[1])
}

func TestFromNotice(t *testing.T) {
	assert.Nil(t, FromNotice(nil))
	assert.Equal(t, &NoticeResponse{Kind: "failed", Message: "oops"},
		FromNotice(&calendar.Notice{Kind: calendar.NoticeFailed, Message: "oops"}))
}
