package datadog

import (
	"testing"

	"projex/internal/metrics"
)

func TestNewBackendRequiresAddr(t *testing.T) {
	if _, err := NewBackend(Config{}); err == nil {
		t.Fatal("expected error for missing Addr")
	}
}

// The client speaks UDP, so construction and emission need no running
// agent.
func TestNewBackendWithNamespaceAndTags(t *testing.T) {
	b, err := NewBackend(Config{
		Addr:       "127.0.0.1:8125",
		Namespace:  "projex.",
		GlobalTags: []string{"service:projex", "env:test"},
	})
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}

	b.IncCounter("dashboard_render_total", 1, metrics.Labels{"view": "retrasos", "status": "success"})
	b.ObserveHistogram("dashboard_render_duration_seconds", 0.25, metrics.Labels{"view": "retrasos"})

	if err := b.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
}

func TestLabelsToTags(t *testing.T) {
	if got := labelsToTags(nil); got != nil {
		t.Fatalf("labelsToTags(nil) = %v, want nil", got)
	}
	tags := labelsToTags(metrics.Labels{"view": "detalle"})
	if len(tags) != 1 || tags[0] != "view:detalle" {
		t.Fatalf("tags = %v", tags)
	}
}
