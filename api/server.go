/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack, and route definitions. This
  is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontends
  5. RateLimit:  Per-client token bucket (optional)
  6. Latency:    Request duration into the metrics collector (optional)

ROUTES:
  /users/{id}/rewards               Weekly reward materialization + query
  /users/{id}/rewards/{date}/redeem Redemption
  /metrics                          Prometheus scrape endpoint (optional)

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/warp/reward-engine/metrics"
)

// RouterOptions carries the optional collaborators of the router.
type RouterOptions struct {
	RateLimiter *RateLimiter        // nil disables throttling
	Collector   metrics.Collector   // nil disables latency recording
	Gatherer    prometheus.Gatherer // nil disables the /metrics endpoint
}

// NewRouter creates a router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	if opts.RateLimiter != nil {
		r.Use(opts.RateLimiter.Middleware)
	}
	if opts.Collector != nil {
		r.Use(latencyMiddleware(opts.Collector))
	}

	// Reward routes
	r.Route("/users/{id}/rewards", func(r chi.Router) {
		r.Get("/", h.GetWeeklyRewards)
		r.Patch("/{date}/redeem", h.RedeemReward)
	})

	// Prometheus scrape endpoint
	if opts.Gatherer != nil {
		r.Get("/metrics", metrics.Handler(opts.Gatherer).ServeHTTP)
	}

	return r
}

func latencyMiddleware(c metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			c.RecordRequestLatency(time.Since(start))
		})
	}
}
