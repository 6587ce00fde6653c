package server

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Default idle handling for per-client limiters.
const (
	DefaultLimiterCleanupInterval = 5 * time.Minute
	DefaultLimiterIdleTimeout     = 10 * time.Minute
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter applies a token bucket per client IP.
type RateLimiter struct {
	mu          sync.Mutex
	limiters    map[string]*clientLimiter
	rate        rate.Limit
	burst       int
	trustProxy  bool
	idleTimeout time.Duration
	logger      *slog.Logger
}

// NewRateLimiter creates a limiter allowing perSecond requests per client
// with the given burst. With trustProxy, X-Forwarded-For and X-Real-IP
// identify the client; otherwise only RemoteAddr is used.
func NewRateLimiter(perSecond float64, burst int, trustProxy bool, logger *slog.Logger) *RateLimiter {
	if logger == nil {
		logger = slog.Default()
	}
	return &RateLimiter{
		limiters:    make(map[string]*clientLimiter),
		rate:        rate.Limit(perSecond),
		burst:       burst,
		trustProxy:  trustProxy,
		idleTimeout: DefaultLimiterIdleTimeout,
		logger:      logger,
	}
}

// Allow reports whether a request from ip may proceed now.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	cl, ok := rl.limiters[ip]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[ip] = cl
	}
	cl.lastSeen = time.Now()
	rl.mu.Unlock()

	return cl.limiter.Allow()
}

// Cleanup drops limiters idle for longer than the idle timeout.
func (rl *RateLimiter) Cleanup() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	removed := 0
	cutoff := time.Now().Add(-rl.idleTimeout)
	for ip, cl := range rl.limiters {
		if cl.lastSeen.Before(cutoff) {
			delete(rl.limiters, ip)
			removed++
		}
	}
	return removed
}

// Run removes idle limiters every interval until ctx is done.
func (rl *RateLimiter) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultLimiterCleanupInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := rl.Cleanup(); n > 0 {
				rl.logger.Debug("removed idle rate limiters", "count", n)
			}
		case <-ctx.Done():
			return
		}
	}
}

// Middleware rejects requests over the limit with 429.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r, rl.trustProxy)
		if !rl.Allow(ip) {
			rl.logger.Warn("rate limit exceeded", "path", r.URL.Path)
			w.Header().Set("Retry-After", "1")
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded, please try again later"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP extracts the client address. Proxy headers are only honoured
// when trustProxy is set.
func clientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			return strings.TrimSpace(first)
		}
		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			return strings.TrimSpace(xri)
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
