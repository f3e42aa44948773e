package api_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"

	"github.com/warp/reward-engine/api"
)

func TestRateLimiter_BlocksOverBurst(t *testing.T) {
	// GIVEN: A limiter with a burst of 2 and negligible refill
	// WHEN: One client sends three requests
	// THEN: The third is rejected with 429 and a Retry-After header

	rl := api.NewRateLimiter(api.RateLimiterConfig{
		Rate:            rate.Limit(0.001),
		Burst:           2,
		CleanupInterval: time.Minute,
	})
	defer rl.Stop()

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := rl.Middleware(ok)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/users/1/rewards", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, 1, rl.LimiterCount())
}

func TestRateLimiter_ClientsAreIndependent(t *testing.T) {
	rl := api.NewRateLimiter(api.RateLimiterConfig{
		Rate:            rate.Limit(0.001),
		Burst:           1,
		CleanupInterval: time.Minute,
	})
	defer rl.Stop()

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := rl.Middleware(ok)

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/users/1/rewards", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1:1111"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1:2222"), "same host, different port shares a bucket")
	assert.Equal(t, http.StatusOK, send("10.0.0.2:1111"), "different host gets its own bucket")
}
