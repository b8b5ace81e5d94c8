// Package metrics exposes the Prometheus collectors of the calendar service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Результаты загрузки доступности
const (
	FetchResultOK       = "ok"
	FetchResultError    = "error"
	FetchResultStale    = "stale"
	FetchResultCanceled = "canceled" // Контекст запроса отменен, карта не изменилась
)

// Metrics набор коллекторов сервиса. Все методы безопасны для nil-получателя.
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	availabilityFetches *prometheus.CounterVec
	fetchDuration       *prometheus.HistogramVec
	bookingsTotal       *prometheus.CounterVec
	activeSessions      *prometheus.GaugeVec
	rateLimited         *prometheus.CounterVec

	serviceName string
}

// New создает и регистрирует метрики в prometheus.DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry создает и регистрирует метрики в указанном реестре
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		serviceName: serviceName,
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "route"}),
		availabilityFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "calendar_availability_fetches_total",
			Help: "Availability fetches from the booking API by result",
		}, []string{"service", "result"}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "calendar_availability_fetch_duration_seconds",
			Help:    "Latency of availability fetches from the booking API",
			Buckets: prometheus.DefBuckets,
		}, []string{"service"}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "calendar_bookings_total",
			Help: "Booking submissions by outcome",
		}, []string{"service", "outcome"}),
		activeSessions: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "calendar_active_sessions",
			Help: "Number of live calendar sessions",
		}, []string{"service"}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		}, []string{"service", "route"}),
	}

	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.availabilityFetches,
		m.fetchDuration,
		m.bookingsTotal,
		m.activeSessions,
		m.rateLimited,
	)
	return m
}

// ObserveHTTPRequest учитывает обработанный HTTP-запрос
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(m.serviceName, method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(m.serviceName, method, route).Observe(duration.Seconds())
}

// ObserveAvailabilityFetch учитывает загрузку доступности
func (m *Metrics) ObserveAvailabilityFetch(result string, duration time.Duration) {
	if m == nil {
		return
	}
	m.availabilityFetches.WithLabelValues(m.serviceName, result).Inc()
	m.fetchDuration.WithLabelValues(m.serviceName).Observe(duration.Seconds())
}

// ObserveBooking учитывает попытку бронирования
func (m *Metrics) ObserveBooking(outcome string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(m.serviceName, outcome).Inc()
}

// SetActiveSessions выставляет число активных сессий
func (m *Metrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.activeSessions.WithLabelValues(m.serviceName).Set(float64(n))
}

// ObserveRateLimited учитывает запрос, отклоненный лимитером
func (m *Metrics) ObserveRateLimited(route string) {
	if m == nil {
		return
	}
	m.rateLimited.WithLabelValues(m.serviceName, route).Inc()
}
