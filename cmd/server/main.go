/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the reward engine server. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (if present) and parse command-line flags
  2. Initialize the store (SQLite file, ":memory:", or pure in-memory)
  3. Wire metrics, engine, and HTTP handler
  4. Start server with graceful shutdown

CONFIGURATION:
  -port / PORT            HTTP server port (default: 8080)
  -db   / DATABASE_PATH   SQLite database path (default: rewards.db)
                          ":memory:" for in-memory SQLite, "" for the
                          process-memory store

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close the database connection
  4. Exit

EXAMPLES:
  ./server -db="./data/rewards.db"
  ./server -db=":memory:" -port=3000

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/warp/reward-engine/api"
	"github.com/warp/reward-engine/metrics"
	"github.com/warp/reward-engine/reward"
	"github.com/warp/reward-engine/store"
	"github.com/warp/reward-engine/store/sqlite"
)

func main() {
	// .env is optional; flags override the environment.
	_ = godotenv.Load()

	port := flag.Int("port", envInt("PORT", 8080), "HTTP server port")
	dbPath := flag.String("db", envStr("DATABASE_PATH", "rewards.db"), "SQLite database path, \":memory:\", or \"\" for process memory")
	flag.Parse()

	// Initialize store
	var rewardStore reward.Store
	if *dbPath == "" {
		rewardStore = store.NewMemory()
	} else {
		s, err := sqlite.New(*dbPath)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer s.Close()
		rewardStore = s
	}

	// Metrics
	registry := prometheus.NewRegistry()
	collector := metrics.NewPromCollector(registry)

	// Engine + HTTP layer
	engine := reward.NewService(rewardStore, collector)
	handler := api.NewHandler(engine)

	limiter := api.NewRateLimiter(api.DefaultRateLimiterConfig())
	defer limiter.Stop()

	router := api.NewRouter(handler, api.RouterOptions{
		RateLimiter: limiter,
		Collector:   collector,
		Gatherer:    registry,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://localhost:%d", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

func envStr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
