/*
Package metrics provides Prometheus instrumentation for the reward engine.

PURPOSE:
  Counts the things operators ask about: how many rewards were materialized,
  how many redemptions succeeded, and why the failed ones failed. Also
  records HTTP request latency for the API layer.

DESIGN:
  Collector is an interface so the lifecycle engine stays testable without
  a registry. PromCollector is the real implementation, registered on an
  injected prometheus.Registerer; Nop satisfies the interface with no-ops
  for callers that don't care.

SEE ALSO:
  - reward/service.go: Records populate/redeem outcomes
  - api/server.go: Mounts the /metrics endpoint and latency middleware
*/
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records reward lifecycle outcomes.
type Collector interface {
	// RecordPopulated counts newly materialized reward records.
	RecordPopulated(count int)

	// RecordRedeemed counts successful redemptions.
	RecordRedeemed()

	// RecordRedeemFailure counts failed redemptions by guard reason.
	RecordRedeemFailure(reason string)

	// RecordRequestLatency records an API request's duration.
	RecordRequestLatency(d time.Duration)
}

// =============================================================================
// PROMETHEUS COLLECTOR
// =============================================================================

// PromCollector implements Collector backed by Prometheus metrics.
type PromCollector struct {
	populated      prometheus.Counter
	redeemed       prometheus.Counter
	redeemFailures *prometheus.CounterVec
	requestLatency prometheus.Histogram
}

// NewPromCollector creates a collector and registers its metrics on reg.
func NewPromCollector(reg prometheus.Registerer) *PromCollector {
	c := &PromCollector{
		populated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reward_populated_total",
			Help: "Total reward records materialized.",
		}),
		redeemed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reward_redeemed_total",
			Help: "Total successful redemptions.",
		}),
		redeemFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reward_redeem_failures_total",
			Help: "Failed redemptions by guard reason.",
		}, []string{"reason"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "reward_http_request_seconds",
			Help:    "API request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.populated,
		c.redeemed,
		c.redeemFailures,
		c.requestLatency,
	)

	return c
}

func (c *PromCollector) RecordPopulated(count int) {
	c.populated.Add(float64(count))
}

func (c *PromCollector) RecordRedeemed() {
	c.redeemed.Inc()
}

func (c *PromCollector) RecordRedeemFailure(reason string) {
	c.redeemFailures.WithLabelValues(reason).Inc()
}

func (c *PromCollector) RecordRequestLatency(d time.Duration) {
	c.requestLatency.Observe(d.Seconds())
}

// Handler returns the HTTP handler serving the Prometheus scrape endpoint.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// =============================================================================
// NOP COLLECTOR
// =============================================================================

// Nop is a Collector that records nothing.
type Nop struct{}

func (Nop) RecordPopulated(int)                {}
func (Nop) RecordRedeemed()                    {}
func (Nop) RecordRedeemFailure(string)         {}
func (Nop) RecordRequestLatency(time.Duration) {}
