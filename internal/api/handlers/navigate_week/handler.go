package navigate_week

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CalendarView/internal/api/handlers"
	"github.com/m04kA/SMC-CalendarView/internal/domain"
	"github.com/m04kA/SMC-CalendarView/internal/service/calendar"
)

const (
	msgInvalidDirection = "некорректное направление, ожидается next или prev"
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

// Handle POST /api/v1/calendar/week/{direction}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	direction, err := calendar.ParseDirection(mux.Vars(r)["direction"])
	if err != nil {
		h.logger.Warn("POST /calendar/week/{direction} - Invalid direction: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDirection)
		return
	}

	grid, err := h.sessions.Resolve(w, r).Navigate(r.Context(), direction)
	if err != nil {
		h.logger.Error("POST /calendar/week/{direction} - Failed to navigate: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /calendar/week/{direction} - Week changed: direction=%s, week_start=%s",
		direction, grid.WeekStart.Format(domain.DateFormat))
	handlers.RespondJSON(w, http.StatusOK, FromGrid(direction, grid))
}

// HandleForm POST /calendar/week/{direction}
// Форма со страницы календаря, после перехода браузер возвращается на страницу.
func (h *Handler) HandleForm(w http.ResponseWriter, r *http.Request) {
	direction, err := calendar.ParseDirection(mux.Vars(r)["direction"])
	if err != nil {
		h.logger.Warn("POST /calendar/week/{direction} (form) - Invalid direction: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDirection)
		return
	}

	if _, err := h.sessions.Resolve(w, r).Navigate(r.Context(), direction); err != nil {
		h.logger.Error("POST /calendar/week/{direction} (form) - Failed to navigate: %v", err)
	}

	handlers.RedirectToPage(w, r)
}
