package calendar_page

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/m04kA/SMC-CalendarView/internal/api/handlers"
	"github.com/m04kA/SMC-CalendarView/internal/domain"
)

//go:embed templates/calendar.html
var templatesFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templatesFS, "templates/calendar.html"))

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

// Handle GET /
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	controller := h.sessions.Resolve(w, r)

	// Каждая загрузка страницы показывает свежую доступность отображаемой недели
	grid := controller.Refresh(r.Context())
	notice := controller.TakeNotice()

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, NewPageData(grid, notice)); err != nil {
		h.logger.Error("GET / - Failed to render page: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET / - Page rendered: week_start=%s, bookable=%d",
		grid.WeekStart.Format(domain.DateFormat), grid.BookableCount())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
