package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"nyaya-sahayak/api/response"
	"nyaya-sahayak/logging"
)

// idleTTL is how long an unused client bucket is kept.
const idleTTL = 10 * time.Minute

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP. The user id header is
// unauthenticated, so it only labels log lines and never selects a bucket.
type RateLimiter struct {
	rps   rate.Limit
	burst int
	now   func() time.Time

	mu        sync.Mutex
	clients   map[string]*client
	lastSweep time.Time
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		rps:     rate.Limit(rps),
		burst:   burst,
		now:     time.Now,
		clients: make(map[string]*client),
	}
}

func (l *RateLimiter) limiter(key string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) > idleTTL {
		for k, c := range l.clients {
			if now.Sub(c.lastSeen) > idleTTL {
				delete(l.clients, k)
			}
		}
		l.lastSweep = now
	}

	c, ok := l.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = now
	return c.limiter
}

// Middleware sets X-RateLimit-* headers and rejects with 429 once a client's
// bucket is empty.
func (l *RateLimiter) Middleware(userHeader string) gin.HandlerFunc {
	log := logging.New("ratelimit")
	return func(c *gin.Context) {
		key := c.ClientIP()

		now := l.now()
		lim := l.limiter(key, now)
		allowed := lim.AllowN(now, 1)
		tokens := lim.TokensAt(now)

		remaining := int(math.Max(0, math.Floor(tokens)))
		reset := now
		if l.rps > 0 {
			reset = now.Add(time.Duration((float64(l.burst) - tokens) / float64(l.rps) * float64(time.Second)))
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(l.burst))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(int64(math.Ceil(float64(reset.UnixMilli())/1000)), 10))

		if !allowed {
			log.Warn("rate limit exceeded",
				"client", key,
				"user", c.GetHeader(userHeader),
				"method", c.Request.Method,
				"path", c.Request.URL.Path)
			response.FailWithStatus(c, http.StatusTooManyRequests, "too many requests, please try again later")
			return
		}
		c.Next()
	}
}
