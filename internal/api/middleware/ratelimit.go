package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// limiterIdleTimeout is how long a client can stay silent before its
// limiter entry is dropped from the store.
const limiterIdleTimeout = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterStore keeps one token bucket per client IP and sweeps out
// entries that have been idle past limiterIdleTimeout, so the map
// stays bounded by the set of recently active clients.
type limiterStore struct {
	mu        sync.Mutex
	clients   map[string]*clientLimiter
	perSecond int
	burst     int
}

func newLimiterStore(perSecond, burst int) *limiterStore {
	return &limiterStore{
		clients:   make(map[string]*clientLimiter),
		perSecond: perSecond,
		burst:     burst,
	}
}

func (s *limiterStore) get(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	cl, ok := s.clients[ip]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rate.Limit(s.perSecond), s.burst)}
		s.clients[ip] = cl
	}
	cl.lastSeen = time.Now()
	return cl.limiter
}

func (s *limiterStore) evictIdle(idleFor time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-idleFor)
	for ip, cl := range s.clients {
		if cl.lastSeen.Before(cutoff) {
			delete(s.clients, ip)
		}
	}
}

func (s *limiterStore) janitor(interval time.Duration) {
	for range time.Tick(interval) {
		s.evictIdle(limiterIdleTimeout)
	}
}

// RateLimit applies a per-client-IP token bucket. Used on the auth
// endpoints to slow down confirmation-code guessing.
func RateLimit(perSecond, burst int) gin.HandlerFunc {
	store := newLimiterStore(perSecond, burst)
	go store.janitor(time.Minute)

	return func(c *gin.Context) {
		if !store.get(c.ClientIP()).Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			c.Abort()
			return
		}

		c.Next()
	}
}
