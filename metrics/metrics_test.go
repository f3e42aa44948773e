package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/reward-engine/metrics"
)

func TestPromCollector_ExposesCounters(t *testing.T) {
	// GIVEN: A collector on a fresh registry
	// WHEN: Recording lifecycle outcomes and scraping /metrics
	// THEN: The scrape output carries them

	registry := prometheus.NewRegistry()
	c := metrics.NewPromCollector(registry)

	c.RecordPopulated(7)
	c.RecordRedeemed()
	c.RecordRedeemFailure("expired")
	c.RecordRequestLatency(25 * time.Millisecond)

	rec := httptest.NewRecorder()
	metrics.Handler(registry).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	out := string(body)

	assert.Contains(t, out, "reward_populated_total 7")
	assert.Contains(t, out, "reward_redeemed_total 1")
	assert.Contains(t, out, `reward_redeem_failures_total{reason="expired"} 1`)
	assert.True(t, strings.Contains(out, "reward_http_request_seconds_count 1"))
}

func TestNop_IsSafe(t *testing.T) {
	// The no-op collector must accept every call without a registry.
	var c metrics.Collector = metrics.Nop{}
	c.RecordPopulated(1)
	c.RecordRedeemed()
	c.RecordRedeemFailure("no_record")
	c.RecordRequestLatency(time.Second)
}
