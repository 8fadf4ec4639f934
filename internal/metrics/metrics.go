// Package metrics holds the Prometheus collectors for pipeline runs,
// stage latency and absorbed source failures.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Stage names used for the stage duration histogram.
const (
	StageTextSearch  = "text_search"
	StageImageSearch = "image_search"
	StageFetch       = "fetch"
	StageSummarize   = "summarize"
)

// Run outcomes used for the runs counter.
const (
	StatusOK           = "ok"
	StatusSearchError  = "search_error"
	StatusSummaryError = "summarize_error"
	StatusInvalidQuery = "invalid_query"
)

// Collector holds the pipeline metrics on its own registry so several
// pipelines (and tests) never collide on the default one.
// A nil *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	RunsTotal                *prometheus.CounterVec
	StageDuration            *prometheus.HistogramVec
	SourceFetchFailuresTotal prometheus.Counter
}

// New creates and registers all collectors, plus the Go runtime and
// process collectors.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		RunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "langsearch",
				Subsystem: "pipeline",
				Name:      "runs_total",
				Help:      "Total pipeline runs by outcome",
			},
			[]string{"status"},
		),
		StageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "langsearch",
				Name:      "stage_duration_seconds",
				Help:      "Pipeline stage duration in seconds",
				Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"stage"},
		),
		SourceFetchFailuresTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "langsearch",
				Name:      "source_fetch_failures_total",
				Help:      "Sources whose fetch failed and contributed empty text",
			},
		),
	}

	c.registry.MustRegister(
		c.RunsTotal,
		c.StageDuration,
		c.SourceFetchFailuresTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Registry exposes the underlying registry for gathering.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveRun counts one finished pipeline run.
func (c *Collector) ObserveRun(status string) {
	if c == nil {
		return
	}
	c.RunsTotal.WithLabelValues(status).Inc()
}

// ObserveStage records how long a stage took, measured from start.
func (c *Collector) ObserveStage(stage string, start time.Time) {
	if c == nil {
		return
	}
	c.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// SourceFetchFailed counts one absorbed source failure.
func (c *Collector) SourceFetchFailed() {
	if c == nil {
		return
	}
	c.SourceFetchFailuresTotal.Inc()
}
