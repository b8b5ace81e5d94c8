package calendar

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CalendarView/internal/domain"
	"github.com/m04kA/SMC-CalendarView/internal/integrations/bookingapi"
)

// BookingAPIClient интерфейс клиента внешнего API бронирования
type BookingAPIClient interface {
	GetAvailability(ctx context.Context, start, end time.Time) (domain.AvailabilityMap, error)
	Book(ctx context.Context, interval domain.Interval) (*bookingapi.Confirmation, error)
}

// Metrics интерфейс сбора метрик контроллера
type Metrics interface {
	ObserveAvailabilityFetch(result string, duration time.Duration)
	ObserveBooking(outcome string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

type noopMetrics struct{}

func (noopMetrics) ObserveAvailabilityFetch(string, time.Duration) {}
func (noopMetrics) ObserveBooking(string)                          {}
