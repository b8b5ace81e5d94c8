package get_calendar

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CalendarView/internal/api/handlers"
	"github.com/m04kA/SMC-CalendarView/internal/api/handlers/handlerstest"
	"github.com/m04kA/SMC-CalendarView/internal/domain"
	"github.com/m04kA/SMC-CalendarView/pkg/logger"
)

func decodeGrid(t *testing.T, rec *httptest.ResponseRecorder) handlers.GridResponse {
	t.Helper()
	var resp handlers.GridResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHandler_CurrentWeek(t *testing.T) {
	client := handlerstest.NewClient(
		domain.NewSlot(handlerstest.Monday, 9),
		domain.NewSlot(handlerstest.Monday.AddDate(0, 0, 1), 10),
	)
	h := NewHandler(handlerstest.NewStore(client), logger.NewNop())

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/calendar", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeGrid(t, rec)
	assert.Equal(t, "2024-01-01", resp.WeekStart)
	assert.Equal(t, 2, resp.BookableCount)
	assert.Equal(t, "rendered", resp.State)
	assert.False(t, resp.Loading)

	// Каждый запрос показывает свежую доступность: слот, занятый в другой сессии, пропадает
	delete(client.Availability, domain.NewSlot(handlerstest.Monday, 9).Key())

	rec = httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/calendar", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decodeGrid(t, rec).BookableCount)
	assert.Equal(t, 2, client.FetchCount())
}

func TestHandler_WeekParam(t *testing.T) {
	client := handlerstest.NewClient()
	h := NewHandler(handlerstest.NewStore(client), logger.NewNop())

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/calendar?week=2024-01-17", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeGrid(t, rec)
	assert.Equal(t, "2024-01-15", resp.WeekStart)
	assert.Equal(t, 3, resp.WeekNumber)
	require.Equal(t, 1, client.FetchCount())
	assert.Equal(t, "2024-01-15", client.Fetches[0].Start.Format(domain.DateFormat))
}

func TestHandler_InvalidWeek(t *testing.T) {
	client := handlerstest.NewClient()
	h := NewHandler(handlerstest.NewStore(client), logger.NewNop())

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/calendar?week=17.01.2024", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), msgInvalidWeek)
	assert.Zero(t, client.FetchCount())
}
