// Package metrics provides a small, backend-agnostic abstraction for
// recording operational metrics from the dashboard service.
//
// The package is intentionally minimal and opinionated:
//
//   - It exposes a narrow interface (Backend) focused on counters and
//     timing data.
//   - It provides a global, pluggable backend that defaults to a no-op
//     implementation, so metrics are always safe to call even when no
//     real backend is configured.
//   - It mirrors the registration pattern of the store package: the rest
//     of the codebase depends only on this interface while concrete
//     metric systems stay isolated in subpackages.
//
// The primary use case is instrumentation of render passes (per view)
// and dataset reloads without coupling the pipeline to a specific
// metrics system such as Prometheus or Datadog.
package metrics

import "time"

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a latency/duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it (e.g. Pushgateway).
	Flush() error
}

// nopBackend is used by default so metrics are optional.
type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)       {}
func (nopBackend) ObserveHistogram(name string, value float64, labels Labels) {}
func (nopBackend) Flush() error                                               { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing backend.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordRender measures one render pass of a view: latency plus a
// success/failure counter. An empty result is a success; only pipeline
// failures count as failure.
func RecordRender(view string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}

	lbls := Labels{
		"view":   view,
		"status": status,
	}

	backend.IncCounter("dashboard_render_total", 1, lbls)
	backend.ObserveHistogram("dashboard_render_duration_seconds", d.Seconds(), lbls)
}

// RecordRows increments a row-level counter for the given view and kind.
//
// Typical kinds mirror the pipeline stages, e.g.:
//   - "loaded"
//   - "normalized"
//   - "filtered"
//   - "exported"
func RecordRows(view, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter("dashboard_rows_total", float64(delta), Labels{
		"view": view,
		"kind": kind,
	})
}

// RecordReload counts dataset reloads per source kind (sqlite, csvfile,
// postgres, ...). Cache hits are not reloads.
func RecordReload(source string) {
	backend.IncCounter("dataset_reload_total", 1, Labels{
		"source": source,
	})
}
