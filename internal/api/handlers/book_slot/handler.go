package book_slot

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-CalendarView/internal/api/handlers"
	"github.com/m04kA/SMC-CalendarView/internal/domain"
	"github.com/m04kA/SMC-CalendarView/internal/service/calendar"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidSlot        = "некорректный слот: ожидается дата YYYY-MM-DD и час в пределах рабочего времени"
	msgSlotNotBookable    = "выбранный слот недоступен"
	msgDuplicate          = "бронирование этого слота уже отправлено"
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

// Handle POST /api/v1/calendar/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req BookSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /calendar/bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	date, hour, err := req.Parse()
	if err != nil {
		h.logger.Warn("POST /calendar/bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlot)
		return
	}

	outcome, err := h.book(r.Context(), h.sessions.Resolve(w, r), date, hour)
	if err != nil {
		switch {
		case errors.Is(err, calendar.ErrInvalidSlot):
			handlers.RespondBadRequest(w, msgInvalidSlot)

		case errors.Is(err, calendar.ErrSlotNotBookable):
			handlers.RespondError(w, http.StatusConflict, msgSlotNotBookable)

		case errors.Is(err, calendar.ErrDuplicateSubmission):
			handlers.RespondError(w, http.StatusConflict, msgDuplicate)

		default:
			h.logger.Error("POST /calendar/bookings - Failed to book: date=%s, hour=%d, error=%v",
				req.Date, hour, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, StatusFor(outcome.Notice.Kind), FromOutcome(outcome))
}

// HandleForm POST /calendar/bookings
// Клик по свободной ячейке на странице; уведомление показывается после редиректа.
func (h *Handler) HandleForm(w http.ResponseWriter, r *http.Request) {
	req, err := FromForm(r)
	if err != nil {
		h.logger.Warn("POST /calendar/bookings (form) - Invalid form: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	date, hour, err := req.Parse()
	if err != nil {
		h.logger.Warn("POST /calendar/bookings (form) - Failed to parse form: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlot)
		return
	}

	// Отклоненный до запроса клик (повторный, занятый слот) просто возвращает на страницу
	_, _ = h.book(r.Context(), h.sessions.Resolve(w, r), date, hour)
	handlers.RedirectToPage(w, r)
}

// book не наследует отмену запроса: обрыв соединения не прерывает повторную загрузку,
// длительность ограничена таймаутом клиента API.
func (h *Handler) book(ctx context.Context, controller *calendar.Controller, date time.Time, hour int) (*calendar.Outcome, error) {
	ctx = context.WithoutCancel(ctx)

	// Первое обращение сессии: без загруженной доступности ни один слот не бронируется
	controller.Current(ctx)

	outcome, err := controller.Book(ctx, date, hour)
	if err != nil {
		h.logger.Warn("POST /calendar/bookings - Booking refused: date=%s, hour=%d, error=%v",
			date.Format(domain.DateFormat), hour, err)
		return nil, err
	}

	h.logger.Info("POST /calendar/bookings - Booking finished: slot=%s, notice=%s",
		outcome.Slot.Key(), outcome.Notice.Kind)
	return outcome, nil
}
