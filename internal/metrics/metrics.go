// Package metrics provides Prometheus collectors for the packing service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder owns the service collectors and the registry they live in.
type Recorder struct {
	registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	requestsTotal   *prometheus.CounterVec
	packRuns        *prometheus.CounterVec
	packDuration    prometheus.Histogram
	packUnits       *prometheus.CounterVec
}

// New registers the collectors on a fresh registry so tests and multiple
// app instances do not collide on the global one.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status_code"},
		),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		packRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "packing_runs_total",
				Help: "Total number of packing runs by outcome",
			},
			[]string{"result"},
		),
		packDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "packing_run_duration_seconds",
				Help:    "Packing run duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
			},
		),
		packUnits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "packing_units_total",
				Help: "Units processed by the packer by outcome",
			},
			[]string{"outcome"},
		),
	}

	r.registry.MustRegister(
		r.requestDuration,
		r.requestsTotal,
		r.packRuns,
		r.packDuration,
		r.packUnits,
		collectors.NewGoCollector(),
	)
	return r
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one completed HTTP request.
func (r *Recorder) ObserveRequest(method, path string, status int, duration time.Duration) {
	if r == nil {
		return
	}
	code := strconv.Itoa(status)
	r.requestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
	r.requestsTotal.WithLabelValues(method, path, code).Inc()
}

// RecordPack records a packing run. A run where every unit was placed is
// "complete", otherwise "partial".
func (r *Recorder) RecordPack(duration time.Duration, placed, unplaced, dropped int) {
	if r == nil {
		return
	}
	result := "complete"
	if unplaced > 0 || dropped > 0 {
		result = "partial"
	}
	r.packRuns.WithLabelValues(result).Inc()
	r.packDuration.Observe(duration.Seconds())
	r.packUnits.WithLabelValues("placed").Add(float64(placed))
	r.packUnits.WithLabelValues("unplaced").Add(float64(unplaced))
	r.packUnits.WithLabelValues("dropped").Add(float64(dropped))
}

// RecordRejected counts a packing request refused before the engine ran.
func (r *Recorder) RecordRejected() {
	if r == nil {
		return
	}
	r.packRuns.WithLabelValues("rejected").Inc()
}
