// Package prompush implements a Prometheus Pushgateway backend for the
// metrics package.
//
// This package adapts the generic metrics.Backend interface to
// Prometheus by:
//
//   - Using client_golang CounterVec and SummaryVec collectors.
//   - Mapping the dashboard labels (view, status, kind, source) onto
//     Prometheus labels.
//   - Pushing collected metrics to a Pushgateway instance instead of
//     exposing an HTTP scrape endpoint, which fits a service that may
//     run behind a private reverse proxy.
//
// All Prometheus-specific dependencies live here so the rest of the
// project can swap to alternative backends without changes to the
// pipeline.
package prompush

import (
	"fmt"

	"projex/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Backend is a Prometheus Pushgateway metrics backend.
type Backend struct {
	gatewayURL string // e.g. http://pushgateway:9091
	jobName    string // Pushgateway "job" group
	reg        *prometheus.Registry

	renderCounter  *prometheus.CounterVec // "dashboard_render_total"
	renderDuration *prometheus.SummaryVec // "dashboard_render_duration_seconds"
	rowCounter     *prometheus.CounterVec // "dashboard_rows_total"
	reloadCounter  *prometheus.CounterVec // "dataset_reload_total"
}

// NewBackend constructs a Prometheus Pushgateway backend.
// jobName is the Pushgateway "job" grouping; gatewayURL the base URL of
// the Pushgateway server.
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = "projex"
	}

	reg := prometheus.NewRegistry()

	renderCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_render_total",
			Help: "Total number of view render passes, partitioned by view and status.",
		},
		[]string{"view", "status"},
	)
	renderDuration := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "dashboard_render_duration_seconds",
			Help:       "Duration of view render passes in seconds, partitioned by view and status.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"view", "status"},
	)
	rowCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_rows_total",
			Help: "Row-level counts per view and kind (loaded, normalized, filtered, exported).",
		},
		[]string{"view", "kind"},
	)
	reloadCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataset_reload_total",
			Help: "Number of dataset reloads per source kind; cache hits excluded.",
		},
		[]string{"source"},
	)

	if err := reg.Register(renderCounter); err != nil {
		return nil, fmt.Errorf("prompush: register render counter: %w", err)
	}
	if err := reg.Register(renderDuration); err != nil {
		return nil, fmt.Errorf("prompush: register render summary: %w", err)
	}
	if err := reg.Register(rowCounter); err != nil {
		return nil, fmt.Errorf("prompush: register row counter: %w", err)
	}
	if err := reg.Register(reloadCounter); err != nil {
		return nil, fmt.Errorf("prompush: register reload counter: %w", err)
	}

	return &Backend{
		gatewayURL:     gatewayURL,
		jobName:        jobName,
		reg:            reg,
		renderCounter:  renderCounter,
		renderDuration: renderDuration,
		rowCounter:     rowCounter,
		reloadCounter:  reloadCounter,
	}, nil
}

func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case "dashboard_render_total":
		if b.renderCounter == nil {
			return
		}
		b.renderCounter.WithLabelValues(labels["view"], labels["status"]).Add(delta)

	case "dashboard_rows_total":
		if b.rowCounter == nil {
			return
		}
		b.rowCounter.WithLabelValues(labels["view"], labels["kind"]).Add(delta)

	case "dataset_reload_total":
		if b.reloadCounter == nil {
			return
		}
		b.reloadCounter.WithLabelValues(labels["source"]).Add(delta)

	default:
		// unknown metric name: ignore
	}
}

func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if name != "dashboard_render_duration_seconds" || b.renderDuration == nil {
		return
	}
	b.renderDuration.WithLabelValues(labels["view"], labels["status"]).Observe(value)
}

// Flush pushes the current registry to the Pushgateway.
func (b *Backend) Flush() error {
	return push.New(b.gatewayURL, b.jobName).
		Gatherer(b.reg).
		Push()
}
