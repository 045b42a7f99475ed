// Package metrics exposes gateway counters in the Prometheus format.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "llamarelay"

// Collector records gateway activity. A nil *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	requestsTotal    *prometheus.CounterVec
	rejectionsTotal  *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	relayedBytes     prometheus.Counter
	inFlight         prometheus.Gauge
}

// NewCollector creates a collector and registers its metrics with registry.
// A nil registry gets a fresh one with the Go and process collectors.
func NewCollector(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	c := &Collector{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "gateway",
				Name:      "requests_total",
				Help:      "Gateway requests by upstream subpath and response code",
			},
			[]string{"subpath", "code"},
		),
		rejectionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "gateway",
				Name:      "rejections_total",
				Help:      "Requests refused before reaching the upstream",
			},
			[]string{"reason"},
		),
		upstreamDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "gateway",
				Name:      "upstream_duration_seconds",
				Help:      "Time from forwarding a request until the upstream body is fully relayed",
				// generation streams run from sub-second to many minutes
				Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 180, 600},
			},
			[]string{"subpath"},
		),
		relayedBytes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "gateway",
				Name:      "relayed_bytes_total",
				Help:      "Upstream response bytes relayed to clients",
			},
		),
		inFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "gateway",
				Name:      "in_flight_requests",
				Help:      "Requests currently being relayed",
			},
		),
	}

	registry.MustRegister(c.requestsTotal, c.rejectionsTotal, c.upstreamDuration, c.relayedBytes, c.inFlight)
	return c
}

// RecordRequest counts one finished gateway request.
func (c *Collector) RecordRequest(subpath string, code int) {
	if c == nil {
		return
	}
	c.requestsTotal.WithLabelValues(subpath, strconv.Itoa(code)).Inc()
}

// RecordRejection counts a request refused by the gateway.
func (c *Collector) RecordRejection(reason string) {
	if c == nil {
		return
	}
	c.rejectionsTotal.WithLabelValues(reason).Inc()
}

// ObserveUpstream records a completed forward.
func (c *Collector) ObserveUpstream(subpath string, d time.Duration, bytes int64) {
	if c == nil {
		return
	}
	c.upstreamDuration.WithLabelValues(subpath).Observe(d.Seconds())
	c.relayedBytes.Add(float64(bytes))
}

// TrackInFlight increments the in-flight gauge and returns the matching decrement.
func (c *Collector) TrackInFlight() func() {
	if c == nil {
		return func() {}
	}
	c.inFlight.Inc()
	return c.inFlight.Dec
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}
