package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-CalendarView/internal/domain"
	"github.com/m04kA/SMC-CalendarView/internal/integrations/bookingapi"
)

// Исходы бронирования для метрик
const (
	outcomeSuccess   = "success"
	outcomeRejected  = "rejected"
	outcomeFailed    = "failed"
	outcomeDuplicate = "duplicate"
)

const (
	msgBookingConfirmed = "Запись подтверждена: %s %d:00 - %d:00"
	msgBookingRejected  = "Ошибка: %s"
	msgBookingFailed    = "Не удалось выполнить бронирование. Пожалуйста, попробуйте ещё раз."
)

// Book бронирует часовой слот (date, hour).
// Слот помечается как отправленный до запроса, поэтому повторный клик не создаёт второй запрос.
// После ответа (любого) доступность загружается заново и сетка перерисовывается.
func (c *Controller) Book(ctx context.Context, date time.Time, hour int) (*Outcome, error) {
	slot := domain.NewSlot(date, hour)
	if date.IsZero() || !slot.IsValid() || !c.hours.Contains(hour) {
		return nil, fmt.Errorf("%w: date=%s hour=%d, working hours %d-%d",
			ErrInvalidSlot, date.Format(domain.DateFormat), hour, c.hours.Start, c.hours.End)
	}
	key := slot.Key()

	c.mu.Lock()
	if _, ok := c.pending[key]; ok {
		c.mu.Unlock()
		c.logger.Warn("Book: duplicate submission for slot %s", key)
		c.metrics.ObserveBooking(outcomeDuplicate)
		return nil, fmt.Errorf("%w: %s", ErrDuplicateSubmission, key)
	}
	if !c.availability.IsAvailable(key) {
		c.mu.Unlock()
		c.logger.Warn("Book: slot %s is not bookable", key)
		return nil, fmt.Errorf("%w: %s", ErrSlotNotBookable, key)
	}
	c.pending[key] = struct{}{}
	c.inFlight++
	c.mu.Unlock()

	interval := slot.Interval()
	c.logger.Info("Book: submitting %s..%s", interval.StartKey(), interval.EndKey())

	confirmation, err := c.client.Book(ctx, interval)
	notice := c.noticeFor(slot, confirmation, err)

	c.mu.Lock()
	c.inFlight--
	c.lastNotice = &notice
	c.mu.Unlock()

	// Отметка снимается только после новой загрузки, иначе слот успевает снова стать кликабельным
	rng := domain.WeekRange(c.WeekStart())
	c.FetchAvailability(ctx, &rng)

	c.mu.Lock()
	delete(c.pending, key)
	c.mu.Unlock()

	return &Outcome{
		Notice: notice,
		Slot:   slot,
		Grid:   c.Render(),
	}, nil
}

func (c *Controller) noticeFor(slot domain.Slot, confirmation *bookingapi.Confirmation, err error) Notice {
	if err == nil {
		c.metrics.ObserveBooking(outcomeSuccess)
		if confirmation != nil && confirmation.Message != "" {
			c.logger.Info("Book: slot %s confirmed: %s", slot.Key(), confirmation.Message)
		} else {
			c.logger.Info("Book: slot %s confirmed", slot.Key())
		}
		return Notice{
			Kind:    NoticeSuccess,
			Message: fmt.Sprintf(msgBookingConfirmed, slot.Date.Format(c.labels.DateLayout), slot.Hour, slot.Hour+1),
		}
	}

	var rejected *bookingapi.RejectedError
	if errors.As(err, &rejected) {
		c.metrics.ObserveBooking(outcomeRejected)
		c.logger.Warn("Book: slot %s rejected with status %d: %s", slot.Key(), rejected.StatusCode, rejected.Message)
		return Notice{
			Kind:    NoticeRejected,
			Message: fmt.Sprintf(msgBookingRejected, rejected.Message),
		}
	}

	c.metrics.ObserveBooking(outcomeFailed)
	c.logger.Error("Book: slot %s failed: %v", slot.Key(), err)
	return Notice{
		Kind:    NoticeFailed,
		Message: msgBookingFailed,
	}
}
