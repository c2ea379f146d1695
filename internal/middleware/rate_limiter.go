package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"minimercado/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const purgeInterval = 5 * time.Minute

// ventana counts the hits of one client IP inside a fixed window.
type ventana struct {
	hits int
	fin  time.Time
}

// windowLimiter is a fixed-window counter keyed by client IP. Each middleware
// instance owns its own counters; expired windows are dropped on the first
// request after purgeInterval.
type windowLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu         sync.Mutex
	ventanas   map[string]*ventana
	proxPurgue time.Time
}

func newWindowLimiter(limit int, window time.Duration) *windowLimiter {
	return &windowLimiter{
		limit:    limit,
		window:   window,
		now:      time.Now,
		ventanas: make(map[string]*ventana),
	}
}

// allow records one hit for ip. When over the limit it returns false and the
// time the window resets.
func (l *windowLimiter) allow(ip string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.After(l.proxPurgue) {
		l.purge(now)
		l.proxPurgue = now.Add(purgeInterval)
	}

	v, ok := l.ventanas[ip]
	if !ok || now.After(v.fin) {
		v = &ventana{fin: now.Add(l.window)}
		l.ventanas[ip] = v
	}
	v.hits++
	return v.hits <= l.limit, v.fin
}

// caller holds mu
func (l *windowLimiter) purge(now time.Time) {
	purged := 0
	for ip, v := range l.ventanas {
		if now.After(v.fin) {
			delete(l.ventanas, ip)
			purged++
		}
	}
	if purged > 0 {
		log.Debug().Int("purged", purged).Int("remaining", len(l.ventanas)).Msg("rate limiter purge")
	}
}

func (l *windowLimiter) handler(msg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, reset := l.allow(c.ClientIP())
		if !ok {
			secs := int(time.Until(reset).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(secs))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(msg))
			return
		}
		c.Next()
	}
}

// LoginRateLimiter allows limit login attempts per minute per IP (20 when limit <= 0).
func LoginRateLimiter(limit int) gin.HandlerFunc {
	if limit <= 0 {
		limit = 20
	}
	return newWindowLimiter(limit, time.Minute).
		handler("Demasiados intentos de login. Intente en 1 minuto.")
}

// RateLimiter caps every API request at limit per window per IP.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	if limit <= 0 {
		limit = 1000
	}
	return newWindowLimiter(limit, window).
		handler("Demasiadas solicitudes. Intente nuevamente en un momento.")
}
