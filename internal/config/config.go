package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/SMC-CalendarView/internal/domain"
)

// Config конфигурация сервиса
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Logs       LogsConfig       `toml:"logs"`
	Metrics    MetricsConfig    `toml:"metrics"`
	BookingAPI BookingAPIConfig `toml:"booking_api"`
	Calendar   CalendarConfig   `toml:"calendar"`
	Sessions   SessionsConfig   `toml:"sessions"`
	RateLimit  RateLimitConfig  `toml:"rate_limit"`
}

// ServerConfig параметры HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// LogsConfig параметры логирования
type LogsConfig struct {
	File  string `toml:"file"` // Пусто = stdout
	Level string `toml:"level"`
}

// MetricsConfig параметры Prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// BookingAPIConfig параметры внешнего API бронирования
type BookingAPIConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // Секунды
}

// CalendarConfig параметры отображения календаря
type CalendarConfig struct {
	WorkStartHour int      `toml:"work_start_hour"`
	WorkEndHour   int      `toml:"work_end_hour"`
	DayNames      []string `toml:"day_names"`
	DateLayout    string   `toml:"date_layout"`
	WeekFormat    string   `toml:"week_format"`
	HourFormat    string   `toml:"hour_format"`
}

// SessionsConfig параметры сессий
type SessionsConfig struct {
	CookieName      string `toml:"cookie_name"`
	SecureCookie    bool   `toml:"secure_cookie"`
	TTLMinutes      int    `toml:"ttl_minutes"`
	CleanupInterval int    `toml:"cleanup_interval"` // Секунды
	MaxSessions     int    `toml:"max_sessions"`     // При переполнении вытесняется самая давняя сессия
}

// RateLimitConfig параметры ограничения частоты POST-запросов по IP
type RateLimitConfig struct {
	Enabled           bool     `toml:"enabled"`
	RequestsPerMinute int      `toml:"requests_per_minute"`
	Burst             int      `toml:"burst"`
	TrustedProxies    []string `toml:"trusted_proxies"`  // IP или CIDR, которым доверяется X-Forwarded-For
	ClientIdleTTL     int      `toml:"client_idle_ttl"`  // Секунды
	CleanupInterval   int      `toml:"cleanup_interval"` // Секунды
}

// ClientIdleTTLDuration возвращает время, после которого лимитер неактивного клиента удаляется
func (c RateLimitConfig) ClientIdleTTLDuration() time.Duration {
	return time.Duration(c.ClientIdleTTL) * time.Second
}

// CleanupIntervalDuration возвращает период очистки лимитеров
func (c RateLimitConfig) CleanupIntervalDuration() time.Duration {
	return time.Duration(c.CleanupInterval) * time.Second
}

// WorkingHours возвращает рабочие часы календаря
func (c CalendarConfig) WorkingHours() domain.WorkingHours {
	return domain.WorkingHours{Start: c.WorkStartHour, End: c.WorkEndHour}
}

// TimeoutDuration возвращает таймаут запросов к API бронирования
func (c BookingAPIConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// TTL возвращает время жизни неактивной сессии
func (c SessionsConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

// CleanupIntervalDuration возвращает период очистки сессий
func (c SessionsConfig) CleanupIntervalDuration() time.Duration {
	return time.Duration(c.CleanupInterval) * time.Second
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    30,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled:     true,
			Path:        "/metrics",
			ServiceName: "smc-calendar-view",
		},
		BookingAPI: BookingAPIConfig{
			URL:     "http://127.0.0.1:5000",
			Timeout: 10,
		},
		Calendar: CalendarConfig{
			WorkStartHour: domain.DefaultWorkingHoursStart,
			WorkEndHour:   domain.DefaultWorkingHoursEnd,
			DayNames:      []string{"ПН", "ВТ", "СР", "ЧТ", "ПТ", "СБ", "ВС"},
			DateLayout:    "02.01.2006",
			WeekFormat:    "Неделя %d",
			HourFormat:    "%d-%d",
		},
		Sessions: SessionsConfig{
			CookieName:      "calendar_session",
			TTLMinutes:      60,
			CleanupInterval: 300,
			MaxSessions:     10000,
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerMinute: 60,
			Burst:             10,
			ClientIdleTTL:     600,
			CleanupInterval:   60,
		},
	}
}

// Load читает конфигурацию из TOML файла поверх значений по умолчанию,
// затем применяет переменные окружения и валидирует результат.
// Отсутствующий файл не является ошибкой.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnv переопределяет параметры из переменных окружения
func (c *Config) applyEnv() error {
	if v := os.Getenv("HTTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid HTTP_PORT %q: %w", v, err)
		}
		c.Server.HTTPPort = port
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logs.Level = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		c.Logs.File = v
	}
	if v := os.Getenv("BOOKING_API_URL"); v != "" {
		c.BookingAPI.URL = v
	}
	if v := os.Getenv("BOOKING_API_TIMEOUT"); v != "" {
		timeout, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid BOOKING_API_TIMEOUT %q: %w", v, err)
		}
		c.BookingAPI.Timeout = timeout
	}
	return nil
}

// Validate проверяет корректность конфигурации
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port must be in 1..65535, got %d", c.Server.HTTPPort)
	}
	if c.BookingAPI.URL == "" {
		return errors.New("booking_api.url is required")
	}
	if c.BookingAPI.Timeout <= 0 {
		return fmt.Errorf("booking_api.timeout must be positive, got %d", c.BookingAPI.Timeout)
	}
	if err := c.Calendar.WorkingHours().Validate(); err != nil {
		return fmt.Errorf("calendar: %w", err)
	}
	if len(c.Calendar.DayNames) != domain.DaysPerWeek {
		return fmt.Errorf("calendar.day_names must contain %d entries, got %d", domain.DaysPerWeek, len(c.Calendar.DayNames))
	}
	if c.Metrics.Enabled && c.Metrics.Path == "" {
		return errors.New("metrics.path is required when metrics are enabled")
	}
	if c.Sessions.TTLMinutes < 0 {
		return fmt.Errorf("sessions.ttl_minutes must not be negative, got %d", c.Sessions.TTLMinutes)
	}
	if c.Sessions.CleanupInterval <= 0 {
		return fmt.Errorf("sessions.cleanup_interval must be positive, got %d", c.Sessions.CleanupInterval)
	}
	if c.Sessions.MaxSessions <= 0 {
		return fmt.Errorf("sessions.max_sessions must be positive, got %d", c.Sessions.MaxSessions)
	}
	if c.RateLimit.Enabled {
		if c.RateLimit.RequestsPerMinute <= 0 || c.RateLimit.Burst <= 0 {
			return errors.New("rate_limit.requests_per_minute and rate_limit.burst must be positive")
		}
		if c.RateLimit.ClientIdleTTL <= 0 || c.RateLimit.CleanupInterval <= 0 {
			return errors.New("rate_limit.client_idle_ttl and rate_limit.cleanup_interval must be positive")
		}
	}
	return nil
}
