package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupRateLimitedRouter(perSecond, burst int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ping", RateLimit(perSecond, burst), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}

func TestRateLimit_AllowsWithinBurst(t *testing.T) {
	router := setupRateLimitedRouter(1, 3)

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/ping", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimit_RejectsOverBurst(t *testing.T) {
	router := setupRateLimitedRouter(1, 2)

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/ping", nil)
		router.ServeHTTP(last, req)
	}

	assert.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.Contains(t, last.Body.String(), "too many requests")
}

func TestLimiterStore_EvictsIdleClients(t *testing.T) {
	store := newLimiterStore(1, 1)

	store.get("1.2.3.4")
	store.get("5.6.7.8")
	assert.Len(t, store.clients, 2)

	// Backdate one entry past the idle cutoff.
	store.mu.Lock()
	store.clients["1.2.3.4"].lastSeen = time.Now().Add(-limiterIdleTimeout - time.Minute)
	store.mu.Unlock()

	store.evictIdle(limiterIdleTimeout)

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Len(t, store.clients, 1)
	assert.NotContains(t, store.clients, "1.2.3.4")
	assert.Contains(t, store.clients, "5.6.7.8")
}

func TestLimiterStore_GetRefreshesLastSeen(t *testing.T) {
	store := newLimiterStore(1, 1)

	store.get("1.2.3.4")
	store.mu.Lock()
	store.clients["1.2.3.4"].lastSeen = time.Now().Add(-limiterIdleTimeout - time.Minute)
	store.mu.Unlock()

	// A fresh request brings the entry back inside the window.
	store.get("1.2.3.4")
	store.evictIdle(limiterIdleTimeout)

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Contains(t, store.clients, "1.2.3.4")
}
