package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/m04kA/SMC-CalendarView/internal/api/handlers"
)

const msgRateLimited = "слишком много запросов, попробуйте позже"

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

type realTimeProvider struct{}

func (realTimeProvider) Now() time.Time {
	return time.Now()
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter ограничивает частоту запросов с одного IP
type RateLimiter struct {
	limit        rate.Limit
	burst        int
	idleTTL      time.Duration
	proxies      *TrustedProxies
	timeProvider TimeProvider
	metrics      HTTPMetrics
	logger       Logger

	mu       sync.Mutex
	limiters map[string]*limiterEntry
}

// NewRateLimiter создает лимитер: requestsPerMinute запросов в минуту с запасом burst.
// Лимитеры клиентов, не обращавшихся дольше idleTTL, удаляет Cleanup.
func NewRateLimiter(requestsPerMinute, burst int, idleTTL time.Duration, proxies *TrustedProxies, metrics HTTPMetrics, logger Logger) *RateLimiter {
	return &RateLimiter{
		limit:        rate.Every(time.Minute / time.Duration(requestsPerMinute)),
		burst:        burst,
		idleTTL:      idleTTL,
		proxies:      proxies,
		timeProvider: realTimeProvider{},
		metrics:      metrics,
		logger:       logger,
		limiters:     make(map[string]*limiterEntry),
	}
}

func (l *RateLimiter) limiterFor(ip string) *rate.Limiter {
	now := l.timeProvider.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.limiters[ip]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[ip] = e
	}
	e.lastSeen = now
	return e.limiter
}

// Len возвращает число отслеживаемых клиентов
func (l *RateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// Cleanup удаляет лимитеры клиентов, неактивных дольше idleTTL, и возвращает их число
func (l *RateLimiter) Cleanup() int {
	now := l.timeProvider.Now()

	l.mu.Lock()
	removed := 0
	for ip, e := range l.limiters {
		if now.Sub(e.lastSeen) > l.idleTTL {
			delete(l.limiters, ip)
			removed++
		}
	}
	l.mu.Unlock()

	return removed
}

// Run периодически вызывает Cleanup до отмены контекста
func (l *RateLimiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := l.Cleanup(); removed > 0 {
				l.logger.Info("Rate limiter cleanup: removed=%d", removed)
			}
		}
	}
}

// Middleware отклоняет запросы сверх лимита с 429
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := l.proxies.ClientIP(r)
		if !l.limiterFor(ip).Allow() {
			l.logger.Warn("Rate limit exceeded: ip=%s, path=%s", ip, r.URL.Path)
			if l.metrics != nil {
				l.metrics.ObserveRateLimited(routeTemplate(r))
			}
			handlers.RespondError(w, http.StatusTooManyRequests, msgRateLimited)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// TrustedProxies адреса прокси, которым разрешено передавать IP клиента в заголовках
type TrustedProxies struct {
	nets []*net.IPNet
}

// NewTrustedProxies разбирает список IP и CIDR ("10.0.0.1", "10.0.0.0/8")
func NewTrustedProxies(entries []string) (*TrustedProxies, error) {
	p := &TrustedProxies{}
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if !strings.Contains(entry, "/") {
			ip := net.ParseIP(entry)
			if ip == nil {
				return nil, fmt.Errorf("invalid trusted proxy %q", entry)
			}
			bits := 8 * net.IPv6len
			if ip.To4() != nil {
				ip = ip.To4()
				bits = 8 * net.IPv4len
			}
			p.nets = append(p.nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, ipNet, err := net.ParseCIDR(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", entry, err)
		}
		p.nets = append(p.nets, ipNet)
	}
	return p, nil
}

func (p *TrustedProxies) trusts(host string) bool {
	if p == nil {
		return false
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}
	for _, n := range p.nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// ClientIP возвращает IP клиента. X-Forwarded-For и X-Real-IP учитываются,
// только если запрос пришел от доверенного прокси. В X-Forwarded-For берется
// самый правый адрес, не принадлежащий доверенным прокси.
func (p *TrustedProxies) ClientIP(r *http.Request) string {
	peer := RemoteHost(r)
	if !p.trusts(peer) {
		return peer
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if hop != "" && !p.trusts(hop) {
				return hop
			}
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	return peer
}

// RemoteHost возвращает адрес непосредственного собеседника без порта
func RemoteHost(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
