package calendar

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/m04kA/SMC-CalendarView/internal/domain"
	"github.com/m04kA/SMC-CalendarView/pkg/metrics"
)

// Config параметры контроллера календаря
type Config struct {
	Hours        domain.WorkingHours
	Labels       Labels
	TimeProvider TimeProvider // nil = RealTimeProvider
}

// Controller контроллер недельного календаря одной сессии.
// Владеет отображаемой неделей и картой доступности; мьютекс не удерживается во время сетевых запросов.
type Controller struct {
	client       BookingAPIClient
	hours        domain.WorkingHours
	labels       Labels
	timeProvider TimeProvider
	metrics      Metrics
	logger       Logger

	mu           sync.Mutex
	weekStart    time.Time
	availability domain.AvailabilityMap
	generation   uint64 // Номер последней запущенной загрузки доступности
	inFlight     int    // Число незавершенных сетевых запросов (индикатор загрузки)
	loaded       bool   // Хотя бы одна загрузка завершилась
	fetchFailed  bool   // Последняя примененная загрузка завершилась ошибкой
	rendered     bool
	pending      map[domain.SlotKey]struct{}
	lastNotice   *Notice
}

// NewController создает контроллер, отображающий текущую неделю
func NewController(client BookingAPIClient, cfg Config, m Metrics, logger Logger) *Controller {
	tp := cfg.TimeProvider
	if tp == nil {
		tp = &RealTimeProvider{}
	}
	if m == nil {
		m = noopMetrics{}
	}
	labels := cfg.Labels
	if len(labels.DayNames) != domain.DaysPerWeek {
		labels.DayNames = DefaultLabels().DayNames
	}
	if labels.DateLayout == "" {
		labels.DateLayout = DefaultLabels().DateLayout
	}
	if labels.WeekFormat == "" {
		labels.WeekFormat = DefaultLabels().WeekFormat
	}
	if labels.HourFormat == "" {
		labels.HourFormat = DefaultLabels().HourFormat
	}

	return &Controller{
		client:       client,
		hours:        cfg.Hours,
		labels:       labels,
		timeProvider: tp,
		metrics:      m,
		logger:       logger,
		weekStart:    domain.WeekStartOf(tp.Now()),
		availability: domain.AvailabilityMap{},
		pending:      make(map[domain.SlotKey]struct{}),
	}
}

// WeekStart возвращает понедельник отображаемой недели (00:00 UTC)
func (c *Controller) WeekStart() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.weekStart
}

// WeekNumber возвращает номер отображаемой недели по ISO-8601
func (c *Controller) WeekNumber() int {
	return domain.WeekNumber(c.WeekStart())
}

// WeekLabel возвращает подпись отображаемой недели
func (c *Controller) WeekLabel() string {
	return fmt.Sprintf(c.labels.WeekFormat, c.WeekNumber())
}

// Availability возвращает копию текущей карты доступности
func (c *Controller) Availability() domain.AvailabilityMap {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.availability.Clone()
}

// Loading возвращает true, пока выполняется хотя бы один сетевой запрос
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight > 0
}

// State возвращает текущее состояние контроллера
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Controller) stateLocked() State {
	switch {
	case c.inFlight > 0:
		return StateLoading
	case c.rendered:
		return StateRendered
	default:
		return StateIdle
	}
}

// TakeNotice возвращает последнее уведомление о бронировании и сбрасывает его
func (c *Controller) TakeNotice() *Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	notice := c.lastNotice
	c.lastNotice = nil
	return notice
}

// FetchAvailability загружает карту доступности за период (по умолчанию [now, now+7d)).
// Ошибки не возвращаются: при сбое карта заменяется пустой.
// Результат устаревшей загрузки (запущена более новая) отбрасывается.
func (c *Controller) FetchAvailability(ctx context.Context, rng *domain.DateRange) {
	r := domain.DefaultRange(c.timeProvider.Now())
	if rng != nil {
		r = *rng
	}

	c.mu.Lock()
	c.generation++
	generation := c.generation
	c.inFlight++
	c.mu.Unlock()

	started := time.Now()
	availability, err := c.client.GetAvailability(ctx, r.Start, r.End)
	elapsed := time.Since(started)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight--

	if generation != c.generation {
		c.logger.Warn("FetchAvailability: discarding stale result generation=%d, current=%d", generation, c.generation)
		c.metrics.ObserveAvailabilityFetch(metrics.FetchResultStale, elapsed)
		return
	}

	// Отмена запроса клиентом не означает сбой бэкенда: прежняя карта остается
	if err != nil && ctx.Err() != nil {
		c.logger.Warn("FetchAvailability: canceled %s..%s, keeping previous availability: %v",
			r.Start.Format(time.RFC3339), r.End.Format(time.RFC3339), err)
		c.metrics.ObserveAvailabilityFetch(metrics.FetchResultCanceled, elapsed)
		return
	}

	c.loaded = true
	c.fetchFailed = err != nil
	if err != nil {
		c.logger.Error("FetchAvailability: failed to fetch %s..%s: %v",
			r.Start.Format(time.RFC3339), r.End.Format(time.RFC3339), err)
		c.availability = domain.AvailabilityMap{}
		c.metrics.ObserveAvailabilityFetch(metrics.FetchResultError, elapsed)
		return
	}

	if availability == nil {
		availability = domain.AvailabilityMap{}
	}
	c.availability = availability
	c.metrics.ObserveAvailabilityFetch(metrics.FetchResultOK, elapsed)
	c.logger.Info("FetchAvailability: %d available slots for %s..%s",
		availability.CountAvailable(), r.Start.Format(time.RFC3339), r.End.Format(time.RFC3339))
}

// Refresh загружает доступность для отображаемой недели и перерисовывает сетку
func (c *Controller) Refresh(ctx context.Context) *Grid {
	rng := domain.WeekRange(c.WeekStart())
	c.FetchAvailability(ctx, &rng)
	return c.Render()
}

// Current возвращает сетку; загружает доступность при первом обращении
// и после неудачной загрузки
func (c *Controller) Current(ctx context.Context) *Grid {
	c.mu.Lock()
	needsLoad := (!c.loaded || c.fetchFailed) && c.inFlight == 0
	c.mu.Unlock()

	if needsLoad {
		return c.Refresh(ctx)
	}
	return c.Render()
}
