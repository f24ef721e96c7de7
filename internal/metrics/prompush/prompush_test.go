package prompush

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"projex/internal/metrics"
)

// readCounterValue reads the current value of a Counter for assertions.
func readCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()

	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		t.Fatalf("Counter.Write() error = %v", err)
	}
	if m.GetCounter() == nil {
		t.Fatalf("metric did not contain Counter value")
	}
	return m.GetCounter().GetValue()
}

// readSummaryCountSum reads sample count and sum from a SummaryVec.
func readSummaryCountSum(t *testing.T, v *prometheus.SummaryVec, labels ...string) (uint64, float64) {
	t.Helper()

	m := &dto.Metric{}
	metric, ok := v.WithLabelValues(labels...).(prometheus.Metric)
	if !ok {
		t.Fatalf("SummaryVec.WithLabelValues(...) does not implement prometheus.Metric")
	}
	if err := metric.Write(m); err != nil {
		t.Fatalf("Summary.Write() error = %v", err)
	}
	if m.GetSummary() == nil {
		t.Fatalf("metric did not contain Summary value")
	}
	sum := m.GetSummary()
	return sum.GetSampleCount(), sum.GetSampleSum()
}

func TestNewBackend(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		jobName     string
		gatewayURL  string
		wantErr     bool
		wantJobName string
	}{
		{
			name:       "missing gateway URL returns error",
			jobName:    "dashboard",
			gatewayURL: "",
			wantErr:    true,
		},
		{
			name:        "empty job name uses default",
			jobName:     "",
			gatewayURL:  "http://pushgateway:9091",
			wantJobName: "projex",
		},
		{
			name:        "explicit job name is preserved",
			jobName:     "my-custom-job",
			gatewayURL:  "http://pushgateway:9091",
			wantJobName: "my-custom-job",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewBackend(tt.jobName, tt.gatewayURL)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NewBackend() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewBackend() error = %v", err)
			}
			if b.jobName != tt.wantJobName {
				t.Fatalf("jobName = %q, want %q", b.jobName, tt.wantJobName)
			}
		})
	}
}

func TestIncCounterRouting(t *testing.T) {
	t.Parallel()

	b, err := NewBackend("dashboard", "http://pushgateway:9091")
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}

	b.IncCounter("dashboard_render_total", 1, metrics.Labels{"view": "retrasos", "status": "success"})
	b.IncCounter("dashboard_render_total", 1, metrics.Labels{"view": "retrasos", "status": "success"})
	b.IncCounter("dashboard_rows_total", 42, metrics.Labels{"view": "detalle", "kind": "exported"})
	b.IncCounter("dataset_reload_total", 1, metrics.Labels{"source": "sqlite"})
	b.IncCounter("no_such_metric", 7, nil) // must be ignored

	if got := readCounterValue(t, b.renderCounter.WithLabelValues("retrasos", "success")); got != 2 {
		t.Errorf("render counter = %v, want 2", got)
	}
	if got := readCounterValue(t, b.rowCounter.WithLabelValues("detalle", "exported")); got != 42 {
		t.Errorf("row counter = %v, want 42", got)
	}
	if got := readCounterValue(t, b.reloadCounter.WithLabelValues("sqlite")); got != 1 {
		t.Errorf("reload counter = %v, want 1", got)
	}
}

func TestObserveHistogram(t *testing.T) {
	t.Parallel()

	b, err := NewBackend("dashboard", "http://pushgateway:9091")
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}

	b.ObserveHistogram("dashboard_render_duration_seconds", 0.25, metrics.Labels{"view": "ejecutivo", "status": "success"})
	b.ObserveHistogram("dashboard_render_duration_seconds", 0.75, metrics.Labels{"view": "ejecutivo", "status": "success"})
	b.ObserveHistogram("unrelated_duration", 9, metrics.Labels{"view": "x", "status": "y"})

	count, sum := readSummaryCountSum(t, b.renderDuration, "ejecutivo", "success")
	if count != 2 {
		t.Errorf("summary count = %d, want 2", count)
	}
	if sum < 0.999 || sum > 1.001 {
		t.Errorf("summary sum = %v, want ~1.0", sum)
	}
}

func TestFlushPushesToGateway(t *testing.T) {
	t.Parallel()

	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	b, err := NewBackend("dashboard", srv.URL)
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	b.IncCounter("dashboard_render_total", 1, metrics.Labels{"view": "retrasos", "status": "success"})

	if err := b.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if len(body) == 0 {
		t.Fatalf("gateway received empty push body")
	}
}
