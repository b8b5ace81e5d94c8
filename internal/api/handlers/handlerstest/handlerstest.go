// Package handlerstest provides fakes shared by handler tests.
package handlerstest

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/m04kA/SMC-CalendarView/internal/domain"
	"github.com/m04kA/SMC-CalendarView/internal/integrations/bookingapi"
	"github.com/m04kA/SMC-CalendarView/internal/service/calendar"
	"github.com/m04kA/SMC-CalendarView/pkg/logger"
)

// Monday неделя 2024-01-01 .. 2024-01-07 (ISO неделя 1)
var Monday = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Client фейковый клиент API бронирования
type Client struct {
	mu           sync.Mutex
	Availability domain.AvailabilityMap
	FetchErr     error
	BookErr      error
	Fetches      []domain.DateRange
	Bookings     []domain.Interval
}

// NewClient создает клиента с перечисленными свободными слотами
func NewClient(free ...domain.Slot) *Client {
	availability := domain.AvailabilityMap{}
	for _, slot := range free {
		availability[slot.Key()] = true
	}
	return &Client{Availability: availability}
}

func (c *Client) GetAvailability(ctx context.Context, start, end time.Time) (domain.AvailabilityMap, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Fetches = append(c.Fetches, domain.DateRange{Start: start, End: end})
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.FetchErr != nil {
		return nil, c.FetchErr
	}
	return c.Availability.Clone(), nil
}

// SetFetchErr задает ошибку загрузки доступности (nil = бэкенд отвечает)
func (c *Client) SetFetchErr(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.FetchErr = err
}

func (c *Client) Book(_ context.Context, interval domain.Interval) (*bookingapi.Confirmation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Bookings = append(c.Bookings, interval)
	if c.BookErr != nil {
		return nil, c.BookErr
	}
	delete(c.Availability, interval.StartKey())
	return &bookingapi.Confirmation{Message: "Booking successful"}, nil
}

// FetchCount возвращает число запросов доступности
func (c *Client) FetchCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Fetches)
}

// BookCount возвращает число запросов бронирования
func (c *Client) BookCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Bookings)
}

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time {
	return f.now
}

// Store сессия из одного контроллера
type Store struct {
	Controller *calendar.Controller
}

// NewStore создает контроллер на неделю Monday с рабочими часами 9-14
func NewStore(client calendar.BookingAPIClient) *Store {
	return &Store{
		Controller: calendar.NewController(client, calendar.Config{
			Hours:        domain.WorkingHours{Start: 9, End: 14},
			Labels:       calendar.DefaultLabels(),
			TimeProvider: fixedTime{now: Monday.Add(8 * time.Hour)},
		}, nil, logger.NewNop()),
	}
}

func (s *Store) Resolve(http.ResponseWriter, *http.Request) *calendar.Controller {
	return s.Controller
}
