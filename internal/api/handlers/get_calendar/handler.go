package get_calendar

import (
	"net/http"

	"github.com/m04kA/SMC-CalendarView/internal/api/handlers"
	"github.com/m04kA/SMC-CalendarView/internal/domain"
	"github.com/m04kA/SMC-CalendarView/internal/service/calendar"
)

const (
	msgInvalidWeek = "некорректный формат недели, ожидается YYYY-MM-DD"
)

type Handler struct {
	sessions SessionStore
	logger   Logger
}

func NewHandler(sessions SessionStore, logger Logger) *Handler {
	return &Handler{
		sessions: sessions,
		logger:   logger,
	}
}

// Handle GET /api/v1/calendar
// Query params: week (optional, YYYY-MM-DD, любая дата нужной недели)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	week, err := ParseWeekParam(r.URL.Query().Get("week"))
	if err != nil {
		h.logger.Warn("GET /calendar - Invalid week: %v", err)
		handlers.RespondBadRequest(w, msgInvalidWeek)
		return
	}

	controller := h.sessions.Resolve(w, r)

	var grid *calendar.Grid
	if week != nil && !domain.WeekStartOf(*week).Equal(controller.WeekStart()) {
		grid = controller.GoToWeek(r.Context(), *week)
	} else {
		grid = controller.Refresh(r.Context())
	}

	h.logger.Info("GET /calendar - Calendar rendered: week_start=%s, bookable=%d",
		grid.WeekStart.Format(domain.DateFormat), grid.BookableCount())
	handlers.RespondJSON(w, http.StatusOK, handlers.FromGrid(grid))
}
