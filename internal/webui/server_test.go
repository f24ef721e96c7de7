package webui

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"projex/internal/store"
	"projex/pkg/records"
)

type stubRepo struct {
	rows []records.Record
	sum  store.Summary
}

func (s *stubRepo) LoadExceptions(ctx context.Context) ([]records.Record, error) {
	return s.rows, nil
}

func (s *stubRepo) LoadSummaryMetrics(ctx context.Context) (store.Summary, error) {
	return s.sum, nil
}

func (s *stubRepo) Close() {}

func testServer() (*Server, *stubRepo) {
	repo := &stubRepo{
		rows: []records.Record{
			{"ProjectID": 1, "ProjectName": "Migración Norte", "CustomerRegion": "LATAM", "MainPartner": "Acme",
				"ProjectStatus_Flag": "Pausado", "DiasRetraso": 40, "ImpactoVenta": 600000,
				"PlannedGoLive": "2024-07-01"},
			{"ProjectID": 2, "ProjectName": "Rollout Sur", "CustomerRegion": "EMEA", "MainPartner": "Beta",
				"ProjectStatus_Flag": "Activo", "DiasRetraso": 20, "ImpactoVenta": 200000,
				"PlannedGoLive": "2024-08-10"},
		},
		sum: store.Summary{TotalExceptions: 2, AvgDelayDays: 30, PctDelayed: 100},
	}
	srv := NewServer(Config{SourceKind: "test"}, repo, nil)
	srv.now = func() time.Time { return time.Date(2024, 8, 15, 12, 0, 0, 0, time.UTC) }
	return srv, repo
}

func getJSON(t *testing.T, h http.Handler, url string, out any) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if out != nil {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("decode %s: %v (body %s)", url, err, rec.Body.String())
		}
	}
	return rec
}

func TestHealthz(t *testing.T) {
	srv, _ := testServer()
	var body struct {
		Status  string        `json:"status"`
		Summary store.Summary `json:"summary"`
	}
	rec := getJSON(t, srv.Handler(), "/healthz", &body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body.Status != "ok" || body.Summary.TotalExceptions != 2 {
		t.Fatalf("body = %+v", body)
	}
}

func TestDiagnostics(t *testing.T) {
	srv, _ := testServer()
	var body struct {
		Rows     int  `json:"rows"`
		Degraded bool `json:"degraded"`
	}
	rec := getJSON(t, srv.Handler(), "/api/diagnostics", &body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body.Rows != 2 {
		t.Fatalf("rows = %d", body.Rows)
	}
	// The fixture carries every critical column; detail-group gaps
	// (ISS, StatusReason_Category...) degrade silently.
	if body.Degraded {
		t.Fatalf("unexpected degraded flag for fixture with all critical columns")
	}
}

func TestDiagnosticsDegradedOnMissingCritical(t *testing.T) {
	repo := &stubRepo{rows: []records.Record{
		{"ProjectID": 1, "ProjectName": "Migración Norte", "CustomerRegion": "LATAM", "DiasRetraso": 40},
	}}
	srv := NewServer(Config{SourceKind: "test"}, repo, nil)

	var body struct {
		Degraded bool `json:"degraded"`
	}
	getJSON(t, srv.Handler(), "/api/diagnostics", &body)
	if !body.Degraded {
		t.Fatalf("expected degraded flag when ProjectStatus_Flag is missing")
	}
}

func TestDelaysEndpoint(t *testing.T) {
	srv, _ := testServer()
	var body struct {
		Empty bool `json:"empty"`
		View  struct {
			KPIs struct {
				Total   int `json:"total"`
				Delayed int `json:"delayed"`
			} `json:"kpis"`
			Table []map[string]any `json:"table"`
		} `json:"view"`
	}
	rec := getJSON(t, srv.Handler(), "/api/delays", &body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	if body.Empty {
		t.Fatalf("unexpected empty flag")
	}
	if body.View.KPIs.Total != 2 || body.View.KPIs.Delayed != 2 {
		t.Fatalf("kpis = %+v", body.View.KPIs)
	}
	if len(body.View.Table) != 2 {
		t.Fatalf("table rows = %d", len(body.View.Table))
	}

	// A search that matches nothing flips the empty flag but keeps 200.
	rec = getJSON(t, srv.Handler(), "/api/delays?q=zzz", &body)
	if rec.Code != http.StatusOK || !body.Empty {
		t.Fatalf("empty search: code=%d empty=%v", rec.Code, body.Empty)
	}
}

func TestDelaysReferenceDate(t *testing.T) {
	srv, _ := testServer()
	var body struct {
		View struct {
			Table []map[string]any `json:"table"`
		} `json:"view"`
	}
	// 2024-09-01 is 62 days after the first goLive and 22 after the second.
	getJSON(t, srv.Handler(), "/api/delays?hoy=2024-09-01", &body)
	if len(body.View.Table) != 2 {
		t.Fatalf("table rows = %d", len(body.View.Table))
	}
	if got := body.View.Table[0]["DiasRetraso"].(float64); got != 62 {
		t.Fatalf("recomputed delay = %v, want 62", got)
	}
}

func TestExecutiveEndpointSelections(t *testing.T) {
	srv, _ := testServer()
	var body struct {
		Empty bool `json:"empty"`
		View  struct {
			FilteredRows int `json:"filtered_rows"`
		} `json:"view"`
	}
	getJSON(t, srv.Handler(), "/api/executive?region=LATAM&region=EMEA", &body)
	if body.View.FilteredRows != 2 {
		t.Fatalf("FilteredRows = %d, want 2", body.View.FilteredRows)
	}

	getJSON(t, srv.Handler(), "/api/executive?region=NADA", &body)
	if !body.Empty {
		t.Fatalf("expected empty flag for non-matching selection")
	}
}

func TestDetailEndpoint(t *testing.T) {
	srv, _ := testServer()
	var body struct {
		View struct {
			Page  int `json:"page"`
			Pages int `json:"pages"`
			Total int `json:"total"`
		} `json:"view"`
	}
	getJSON(t, srv.Handler(), "/api/detail?page=9", &body)
	if body.View.Total != 2 || body.View.Pages != 1 || body.View.Page != 1 {
		t.Fatalf("view = %+v", body.View)
	}
}

func TestPivotEndpoint(t *testing.T) {
	srv, _ := testServer()

	rec := getJSON(t, srv.Handler(), "/api/pivot", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing params: status = %d", rec.Code)
	}

	rec = getJSON(t, srv.Handler(), "/api/pivot?rows=NoSuch&cols=SeveridadRetraso", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown dimension: status = %d", rec.Code)
	}

	var pivot struct {
		RowKeys []string                    `json:"row_keys"`
		Counts  map[string]map[string]int64 `json:"counts"`
	}
	rec = getJSON(t, srv.Handler(), "/api/pivot?rows=CustomerRegion&cols=SeveridadRetraso", &pivot)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if pivot.Counts["Total"]["Total"] != 2 {
		t.Fatalf("grand total = %d, want 2", pivot.Counts["Total"]["Total"])
	}
}

func TestExportDelaysCSV(t *testing.T) {
	srv, _ := testServer()
	req := httptest.NewRequest(http.MethodGet, "/export/retrasos.csv", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	cd := rec.Header().Get("Content-Disposition")
	if !strings.Contains(cd, "retrasos_filtrado_20240815_120000.csv") {
		t.Fatalf("Content-Disposition = %q", cd)
	}
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 3 { // header + 2 rows
		t.Fatalf("lines = %d: %v", len(lines), lines)
	}
	if !strings.HasPrefix(lines[0], "ProjectName,") {
		t.Fatalf("header = %q", lines[0])
	}
}

func TestExportDetailCSVFilename(t *testing.T) {
	srv, _ := testServer()
	req := httptest.NewRequest(http.MethodGet, "/export/detalle.csv", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	cd := rec.Header().Get("Content-Disposition")
	if !strings.Contains(cd, "retrasos_detalle_20240815.csv") {
		t.Fatalf("Content-Disposition = %q", cd)
	}
}

func TestRunShutsDownOnCancel(t *testing.T) {
	srv, _ := testServer()
	srv.cfg.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("server did not shut down")
	}
}
