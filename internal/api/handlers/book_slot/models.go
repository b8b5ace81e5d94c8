package book_slot

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/SMC-CalendarView/internal/api/handlers"
	"github.com/m04kA/SMC-CalendarView/internal/domain"
	"github.com/m04kA/SMC-CalendarView/internal/service/calendar"
)

var errMissingHour = errors.New("hour is required")

// BookSlotRequest HTTP request model
type BookSlotRequest struct {
	Date string `json:"date"` // "2024-01-02"
	Hour *int   `json:"hour"` // 10
}

// BookSlotResponse HTTP response model
type BookSlotResponse struct {
	Notice *handlers.NoticeResponse `json:"notice"`
	Start  string                   `json:"start"` // "2024-01-02T10:00:00"
	End    string                   `json:"end"`
	Grid   *handlers.GridResponse   `json:"grid"`
}

// FromForm читает запрос из полей формы date и hour
func FromForm(r *http.Request) (*BookSlotRequest, error) {
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	req := &BookSlotRequest{Date: r.PostFormValue("date")}
	if raw := r.PostFormValue("hour"); raw != "" {
		hour, err := strconv.Atoi(raw)
		if err != nil {
			return nil, err
		}
		req.Hour = &hour
	}
	return req, nil
}

// Parse возвращает дату (UTC) и час слота
func (r *BookSlotRequest) Parse() (time.Time, int, error) {
	date, err := time.ParseInLocation(domain.DateFormat, r.Date, time.UTC)
	if err != nil {
		return time.Time{}, 0, err
	}
	if r.Hour == nil {
		return time.Time{}, 0, errMissingHour
	}
	return date, *r.Hour, nil
}

// FromOutcome конвертирует результат бронирования в HTTP response
func FromOutcome(outcome *calendar.Outcome) *BookSlotResponse {
	interval := outcome.Slot.Interval()
	return &BookSlotResponse{
		Notice: handlers.FromNotice(&outcome.Notice),
		Start:  interval.StartKey().String(),
		End:    interval.EndKey().String(),
		Grid:   handlers.FromGrid(outcome.Grid),
	}
}

// StatusFor возвращает HTTP статус для типа уведомления
func StatusFor(kind calendar.NoticeKind) int {
	switch kind {
	case calendar.NoticeSuccess:
		return http.StatusCreated
	case calendar.NoticeRejected:
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}
