package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	bookSlotHandler "github.com/m04kA/SMC-CalendarView/internal/api/handlers/book_slot"
	calendarPageHandler "github.com/m04kA/SMC-CalendarView/internal/api/handlers/calendar_page"
	getCalendarHandler "github.com/m04kA/SMC-CalendarView/internal/api/handlers/get_calendar"
	navigateWeekHandler "github.com/m04kA/SMC-CalendarView/internal/api/handlers/navigate_week"
	"github.com/m04kA/SMC-CalendarView/internal/api/middleware"
	"github.com/m04kA/SMC-CalendarView/internal/config"
	"github.com/m04kA/SMC-CalendarView/internal/integrations/bookingapi"
	"github.com/m04kA/SMC-CalendarView/internal/service/calendar"
	"github.com/m04kA/SMC-CalendarView/internal/session"
	"github.com/m04kA/SMC-CalendarView/pkg/logger"
	"github.com/m04kA/SMC-CalendarView/pkg/metrics"
)

func main() {
	// .env необязателен, переменные окружения процесса имеют приоритет
	_ = godotenv.Load()

	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-CalendarView...")

	// Инициализируем метрики (если включены); методы nil-безопасны
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Клиент внешнего API бронирования
	bookingClient := bookingapi.NewClient(
		cfg.BookingAPI.URL,
		cfg.BookingAPI.TimeoutDuration(),
		log.With("component", "bookingapi"),
	)
	log.Info("Booking API client initialized (url=%s, timeout=%ds)", cfg.BookingAPI.URL, cfg.BookingAPI.Timeout)

	// Контроллер календаря создается на каждую сессию браузера
	calendarCfg := calendar.Config{
		Hours: cfg.Calendar.WorkingHours(),
		Labels: calendar.Labels{
			DayNames:   cfg.Calendar.DayNames,
			DateLayout: cfg.Calendar.DateLayout,
			WeekFormat: cfg.Calendar.WeekFormat,
			HourFormat: cfg.Calendar.HourFormat,
		},
	}
	controllerLog := log.With("component", "calendar")
	factory := func() *calendar.Controller {
		return calendar.NewController(bookingClient, calendarCfg, metricsCollector, controllerLog)
	}

	sessions := session.NewStore(
		factory,
		cfg.Sessions.CookieName,
		cfg.Sessions.TTL(),
		cfg.Sessions.MaxSessions,
		cfg.Sessions.SecureCookie,
		metricsCollector,
		log.With("component", "session"),
	)

	ctx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()
	go sessions.Run(ctx, cfg.Sessions.CleanupIntervalDuration())

	// Инициализируем handlers
	calendarPage := calendarPageHandler.NewHandler(sessions, log)
	getCalendar := getCalendarHandler.NewHandler(sessions, log)
	navigateWeek := navigateWeekHandler.NewHandler(sessions, log)
	bookSlot := bookSlotHandler.NewHandler(sessions, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestLogger(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// Ограничение частоты для изменяющих запросов
	limited := func(h http.HandlerFunc) http.Handler { return h }
	if cfg.RateLimit.Enabled {
		proxies, err := middleware.NewTrustedProxies(cfg.RateLimit.TrustedProxies)
		if err != nil {
			log.Fatal("Invalid rate_limit.trusted_proxies: %v", err)
		}
		limiter := middleware.NewRateLimiter(
			cfg.RateLimit.RequestsPerMinute,
			cfg.RateLimit.Burst,
			cfg.RateLimit.ClientIdleTTLDuration(),
			proxies,
			metricsCollector,
			log,
		)
		go limiter.Run(ctx, cfg.RateLimit.CleanupIntervalDuration())
		limited = func(h http.HandlerFunc) http.Handler { return limiter.Middleware(h) }
		log.Info("Rate limit enabled: %d req/min, burst=%d, trusted_proxies=%d",
			cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst, len(cfg.RateLimit.TrustedProxies))
	}

	// ============================================================
	// HTML страница и формы
	// ============================================================

	r.HandleFunc("/", calendarPage.Handle).Methods(http.MethodGet)
	r.Handle("/calendar/week/{direction}", limited(navigateWeek.HandleForm)).Methods(http.MethodPost)
	r.Handle("/calendar/bookings", limited(bookSlot.HandleForm)).Methods(http.MethodPost)

	// ============================================================
	// JSON API
	// ============================================================

	api := r.PathPrefix("/api/v1").Subrouter()

	// Текущая (или указанная) неделя
	api.HandleFunc("/calendar", getCalendar.Handle).Methods(http.MethodGet)

	// Переход на соседнюю неделю
	api.Handle("/calendar/week/{direction}", limited(navigateWeek.Handle)).Methods(http.MethodPost)

	// Бронирование слота
	api.Handle("/calendar/bookings", limited(bookSlot.Handle)).Methods(http.MethodPost)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем фоновую очистку сессий и лимитеров
	stopBackground()

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
