// Package session keeps one calendar controller per browser session.
package session

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CalendarView/internal/service/calendar"
)

const DefaultCookieName = "calendar_session"

// Factory создает контроллер для новой сессии
type Factory func() *calendar.Controller

// Metrics интерфейс сбора метрик сессий
type Metrics interface {
	SetActiveSessions(n int)
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

type noopMetrics struct{}

func (noopMetrics) SetActiveSessions(int) {}

type realTimeProvider struct{}

func (realTimeProvider) Now() time.Time {
	return time.Now()
}

type entry struct {
	controller *calendar.Controller
	lastSeen   time.Time
}

// Store реестр сессий в памяти
type Store struct {
	factory      Factory
	cookieName   string
	ttl          time.Duration
	maxSessions  int // 0 = без ограничения
	secureCookie bool
	timeProvider TimeProvider
	metrics      Metrics
	logger       Logger

	mu       sync.Mutex
	sessions map[string]*entry
}

// NewStore создает реестр сессий. При достижении maxSessions новая сессия
// вытесняет ту, что дольше всех не обращалась.
func NewStore(factory Factory, cookieName string, ttl time.Duration, maxSessions int, secureCookie bool, metrics Metrics, logger Logger) *Store {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Store{
		factory:      factory,
		cookieName:   cookieName,
		ttl:          ttl,
		maxSessions:  maxSessions,
		secureCookie: secureCookie,
		timeProvider: realTimeProvider{},
		metrics:      metrics,
		logger:       logger,
		sessions:     make(map[string]*entry),
	}
}

// Resolve возвращает контроллер сессии запроса.
// Если cookie нет или сессия истекла, создаётся новая сессия и выставляется cookie.
func (s *Store) Resolve(w http.ResponseWriter, r *http.Request) *calendar.Controller {
	now := s.timeProvider.Now()

	if cookie, err := r.Cookie(s.cookieName); err == nil && cookie.Value != "" {
		s.mu.Lock()
		e, ok := s.sessions[cookie.Value]
		if ok && !s.expired(e, now) {
			e.lastSeen = now
			s.mu.Unlock()
			return e.controller
		}
		if ok {
			delete(s.sessions, cookie.Value)
		}
		s.mu.Unlock()
	}

	id := uuid.NewString()
	controller := s.factory()

	s.mu.Lock()
	evicted := ""
	if s.maxSessions > 0 && len(s.sessions) >= s.maxSessions {
		evicted = s.evictOldestLocked()
	}
	s.sessions[id] = &entry{controller: controller, lastSeen: now}
	active := len(s.sessions)
	s.mu.Unlock()

	if evicted != "" {
		s.logger.Warn("Session limit %d reached, evicted session %s", s.maxSessions, evicted)
	}

	s.metrics.SetActiveSessions(active)
	s.logger.Info("Session %s created, active=%d", id, active)

	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	return controller
}

// Len возвращает число активных сессий
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Cleanup удаляет сессии, неактивные дольше ttl, и возвращает их число
func (s *Store) Cleanup() int {
	now := s.timeProvider.Now()

	s.mu.Lock()
	removed := 0
	for id, e := range s.sessions {
		if s.expired(e, now) {
			delete(s.sessions, id)
			removed++
		}
	}
	active := len(s.sessions)
	s.mu.Unlock()

	if removed > 0 {
		s.metrics.SetActiveSessions(active)
		s.logger.Info("Session cleanup: removed=%d, active=%d", removed, active)
	}
	return removed
}

// Run периодически вызывает Cleanup до отмены контекста
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Cleanup()
		}
	}
}

func (s *Store) evictOldestLocked() string {
	var (
		oldestID   string
		oldestSeen time.Time
	)
	for id, e := range s.sessions {
		if oldestID == "" || e.lastSeen.Before(oldestSeen) {
			oldestID, oldestSeen = id, e.lastSeen
		}
	}
	if oldestID != "" {
		delete(s.sessions, oldestID)
	}
	return oldestID
}

func (s *Store) expired(e *entry, now time.Time) bool {
	return s.ttl > 0 && now.Sub(e.lastSeen) > s.ttl
}
