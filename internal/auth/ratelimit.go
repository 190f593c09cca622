// SparkyRoll - Anime Tracking and Watch History API
// Copyright 2026 SparkyRoll Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sparkyroll/sparkyroll

package auth

import (
	"net"
	"net/http"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/sparkyroll/sparkyroll/internal/logging"
)

// LoginLimiter rate-limits login attempts per client IP. It is stricter
// than the global API limiter: credential stuffing is slow-rate by
// nature, so the window is minutes, not seconds.
type LoginLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	ttl      time.Duration
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLoginLimiter allows `attempts` login attempts per `window` per IP.
func NewLoginLimiter(attempts int, window time.Duration) *LoginLimiter {
	if attempts <= 0 {
		attempts = 5
	}
	if window <= 0 {
		window = 5 * time.Minute
	}
	return &LoginLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Every(window / time.Duration(attempts)),
		burst:    attempts,
		ttl:      3 * window,
	}
}

// Allow reports whether the given IP may attempt a login now.
func (l *LoginLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[ip] = v
		l.evictStale()
	}
	v.lastSeen = time.Now()
	return v.limiter.Allow()
}

// evictStale drops visitors not seen within the TTL (must hold mu).
func (l *LoginLimiter) evictStale() {
	cutoff := time.Now().Add(-l.ttl)
	for ip, v := range l.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(l.visitors, ip)
		}
	}
}

// Limit wraps a login handler with the per-IP limiter.
func (l *LoginLimiter) Limit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !l.Allow(ip) {
			logging.Ctx(r.Context()).Warn().Str("ip", ip).Msg("Login rate limit exceeded")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error": "Too many login attempts, try again later",
			})
			return
		}
		next(w, r)
	}
}

// clientIP extracts the remote IP. chi's RealIP middleware has already
// rewritten RemoteAddr from X-Forwarded-For when running behind a proxy.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
