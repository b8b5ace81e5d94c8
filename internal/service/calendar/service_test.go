package calendar

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CalendarView/internal/domain"
	"github.com/m04kA/SMC-CalendarView/internal/integrations/bookingapi"
	"github.com/m04kA/SMC-CalendarView/pkg/logger"
)

var (
	monday    = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	wednesday = time.Date(2024, 1, 3, 8, 30, 0, 0, time.UTC)
)

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

type fakeClient struct {
	mu           sync.Mutex
	availability domain.AvailabilityMap
	fetchErr     error
	bookErr      error
	fetchCalls   []domain.DateRange
	bookCalls    []domain.Interval

	// Необязательные хуки, вызываются вне мьютекса
	fetchHook func(call int) (domain.AvailabilityMap, error)
	bookHook  func(interval domain.Interval)
}

func (f *fakeClient) GetAvailability(ctx context.Context, start, end time.Time) (domain.AvailabilityMap, error) {
	f.mu.Lock()
	f.fetchCalls = append(f.fetchCalls, domain.DateRange{Start: start, End: end})
	call := len(f.fetchCalls)
	hook := f.fetchHook
	availability, err := f.availability.Clone(), f.fetchErr
	f.mu.Unlock()

	if hook != nil {
		return hook(call)
	}
	if err != nil {
		return nil, err
	}
	return availability, nil
}

func (f *fakeClient) Book(ctx context.Context, interval domain.Interval) (*bookingapi.Confirmation, error) {
	f.mu.Lock()
	f.bookCalls = append(f.bookCalls, interval)
	hook := f.bookHook
	err := f.bookErr
	f.mu.Unlock()

	if hook != nil {
		hook(interval)
	}
	if err != nil {
		return nil, err
	}

	// Бэкенд отражает бронирование в следующей выдаче доступности
	f.mu.Lock()
	delete(f.availability, interval.StartKey())
	f.mu.Unlock()
	return &bookingapi.Confirmation{Message: "Booking successful"}, nil
}

func (f *fakeClient) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.fetchCalls)
}

func (f *fakeClient) bookCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.bookCalls)
}

func newTestController(client BookingAPIClient, now time.Time) *Controller {
	return NewController(client, Config{
		Hours:        domain.WorkingHours{Start: 9, End: 14},
		Labels:       DefaultLabels(),
		TimeProvider: &fixedTimeProvider{now: now},
	}, nil, logger.NewNop())
}

func TestNewController_StartsAtCurrentMonday(t *testing.T) {
	c := newTestController(&fakeClient{}, wednesday)

	assert.Equal(t, monday, c.WeekStart())
	assert.Equal(t, 1, c.WeekNumber())
	assert.Equal(t, "Неделя 1", c.WeekLabel())
	assert.Equal(t, StateIdle, c.State())
	assert.False(t, c.Loading())
	assert.Empty(t, c.Availability())
}

func TestNewController_FillsMissingLabels(t *testing.T) {
	c := NewController(&fakeClient{}, Config{
		Hours:  domain.WorkingHours{Start: 9, End: 14},
		Labels: Labels{DayNames: []string{"only", "three", "names"}},
	}, nil, logger.NewNop())

	assert.Equal(t, DefaultLabels(), c.labels)
}

func TestController_FetchAvailability_DefaultRange(t *testing.T) {
	client := &fakeClient{availability: domain.AvailabilityMap{}}
	c := newTestController(client, wednesday)

	c.FetchAvailability(context.Background(), nil)

	require.Len(t, client.fetchCalls, 1)
	assert.Equal(t, wednesday, client.fetchCalls[0].Start)
	assert.Equal(t, wednesday.AddDate(0, 0, 7), client.fetchCalls[0].End)
}

func TestController_Refresh_UsesDisplayedWeek(t *testing.T) {
	client := &fakeClient{availability: domain.AvailabilityMap{}}
	c := newTestController(client, wednesday)

	grid := c.Refresh(context.Background())

	require.Len(t, client.fetchCalls, 1)
	assert.Equal(t, domain.DateRange{Start: monday, End: monday.AddDate(0, 0, 7)}, client.fetchCalls[0])
	assert.Equal(t, StateRendered, grid.State)
	assert.False(t, grid.Loading)
	assert.Equal(t, StateRendered, c.State())
}

func TestController_FetchFailureResetsAvailability(t *testing.T) {
	client := &fakeClient{availability: domain.AvailabilityMap{
		"2024-01-02T10:00:00": true,
	}}
	c := newTestController(client, wednesday)

	grid := c.Refresh(context.Background())
	require.Equal(t, 1, grid.BookableCount())

	client.mu.Lock()
	client.fetchErr = errors.New("connection refused")
	client.mu.Unlock()

	grid = c.Refresh(context.Background())

	assert.Empty(t, c.Availability())
	assert.Equal(t, 0, grid.BookableCount())
	assert.Equal(t, 35, grid.CellCount())
}

func TestController_StaleFetchIsDiscarded(t *testing.T) {
	firstEntered := make(chan struct{})
	releaseFirst := make(chan struct{})

	stale := domain.AvailabilityMap{"2024-01-02T09:00:00": true}
	fresh := domain.AvailabilityMap{"2024-01-09T09:00:00": true}

	client := &fakeClient{}
	client.fetchHook = func(call int) (domain.AvailabilityMap, error) {
		if call == 1 {
			close(firstEntered)
			<-releaseFirst
			return stale, nil
		}
		return fresh, nil
	}
	c := newTestController(client, wednesday)

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Refresh(context.Background())
	}()

	<-firstEntered
	assert.True(t, c.Loading())
	assert.Equal(t, StateLoading, c.State())

	// Навигация запускает более новую загрузку, она завершается первой
	grid := c.NextWeek(context.Background())
	assert.Equal(t, 1, grid.BookableCount())

	close(releaseFirst)
	<-done

	assert.Equal(t, fresh, c.Availability())
	assert.False(t, c.Loading())
	assert.Equal(t, monday.AddDate(0, 0, 7), c.WeekStart())
}

func TestController_Current_LoadsOnlyOnce(t *testing.T) {
	client := &fakeClient{availability: domain.AvailabilityMap{"2024-01-02T10:00:00": true}}
	c := newTestController(client, wednesday)

	first := c.Current(context.Background())
	second := c.Current(context.Background())

	assert.Equal(t, 1, client.fetchCount())
	assert.Equal(t, first.BookableCount(), second.BookableCount())
}

func TestController_Current_RetriesAfterFailedFetch(t *testing.T) {
	client := &fakeClient{fetchErr: errors.New("connection refused")}
	c := newTestController(client, wednesday)

	grid := c.Current(context.Background())
	require.Equal(t, 0, grid.BookableCount())

	// Бэкенд восстановился
	client.mu.Lock()
	client.fetchErr = nil
	client.availability = domain.AvailabilityMap{"2024-01-02T10:00:00": true}
	client.mu.Unlock()

	grid = c.Current(context.Background())
	assert.Equal(t, 1, grid.BookableCount())
	assert.Equal(t, 2, client.fetchCount())

	// После успешной загрузки Current снова только рисует
	c.Current(context.Background())
	assert.Equal(t, 2, client.fetchCount())
}

func TestController_CanceledFetchKeepsAvailability(t *testing.T) {
	client := &fakeClient{availability: domain.AvailabilityMap{
		"2024-01-02T10:00:00": true,
		"2024-01-02T11:00:00": true,
	}}
	c := newTestController(client, wednesday)
	c.Refresh(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	client.fetchHook = func(int) (domain.AvailabilityMap, error) {
		return nil, ctx.Err()
	}
	cancel()

	grid := c.Refresh(ctx)

	assert.Equal(t, 2, grid.BookableCount())
	assert.Len(t, c.Availability(), 2)

	// Отмена не считается сбоем: повторной загрузки не требуется
	client.fetchHook = nil
	c.Current(context.Background())
	assert.Equal(t, 2, client.fetchCount())
}

func TestController_Book_ClientDisconnectKeepsAvailability(t *testing.T) {
	client := &fakeClient{availability: domain.AvailabilityMap{
		"2024-01-02T10:00:00": true,
		"2024-01-02T11:00:00": true,
	}}
	c := newTestController(client, wednesday)
	c.Refresh(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	client.bookHook = func(domain.Interval) { cancel() }
	client.fetchHook = func(call int) (domain.AvailabilityMap, error) {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return domain.AvailabilityMap{"2024-01-02T11:00:00": true}, nil
	}

	outcome, err := c.Book(ctx, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), 10)
	require.NoError(t, err)
	assert.Equal(t, NoticeSuccess, outcome.Notice.Kind)

	// Прежняя карта сохранена, слот 11:00 остается доступным
	assert.True(t, c.Availability().IsAvailable("2024-01-02T11:00:00"))
}

func TestController_Navigation_RoundTrip(t *testing.T) {
	client := &fakeClient{availability: domain.AvailabilityMap{}}
	c := newTestController(client, wednesday)
	start := c.WeekStart()

	next := c.NextWeek(context.Background())
	assert.Equal(t, start.AddDate(0, 0, 7), next.WeekStart)
	assert.Equal(t, 2, next.WeekNumber)
	assert.Equal(t, "Неделя 2", next.WeekLabel)

	back := c.PrevWeek(context.Background())
	assert.Equal(t, start, back.WeekStart)
	assert.Equal(t, start, c.WeekStart())

	require.Len(t, client.fetchCalls, 2)
	assert.Equal(t, start.AddDate(0, 0, 7), client.fetchCalls[0].Start)
	assert.Equal(t, start, client.fetchCalls[1].Start)
}

func TestController_Navigate(t *testing.T) {
	c := newTestController(&fakeClient{availability: domain.AvailabilityMap{}}, wednesday)

	grid, err := c.Navigate(context.Background(), DirectionPrev)
	require.NoError(t, err)
	assert.Equal(t, monday.AddDate(0, 0, -7), grid.WeekStart)
	assert.Equal(t, 52, grid.WeekNumber)

	_, err = c.Navigate(context.Background(), Direction("sideways"))
	assert.ErrorIs(t, err, ErrInvalidDirection)
}

func TestController_GoToWeek(t *testing.T) {
	c := newTestController(&fakeClient{availability: domain.AvailabilityMap{}}, wednesday)

	grid := c.GoToWeek(context.Background(), time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), grid.WeekStart)
	assert.Equal(t, 11, grid.WeekNumber)
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection("next")
	require.NoError(t, err)
	assert.Equal(t, DirectionNext, d)

	_, err = ParseDirection("")
	assert.ErrorIs(t, err, ErrInvalidDirection)
}
