package webui

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"projex/internal/aggregate"
	"projex/internal/metrics"
	"projex/internal/prepare"
	"projex/internal/report"
	"projex/internal/schema"
	"projex/pkg/records"
)

// snapshot runs the preparation pipeline for one request: load, normalize
// and, when the request carries a reference date, recompute delays
// against it.
func (s *Server) snapshot(r *http.Request) ([]records.Record, error) {
	raw, err := s.repo.LoadExceptions(r.Context())
	if err != nil {
		return nil, err
	}
	rows := prepare.Normalize(raw, s.now())
	if ref, ok := refDate(r); ok {
		rows = prepare.RecomputeDelay(rows, &ref)
	}
	return rows, nil
}

// refDate parses the optional "hoy" parameter (2006-01-02). The views
// recompute every delay against it, which lets users replay the dashboard
// as of an arbitrary date.
func refDate(r *http.Request) (time.Time, bool) {
	v := r.URL.Query().Get("hoy")
	if v == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	sum, err := s.repo.LoadSummaryMetrics(r.Context())
	if err != nil {
		s.log.WithError(err).Error("health: dataset unavailable")
		s.writeError(w, http.StatusServiceUnavailable, "dataset unavailable")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"summary": sum,
	})
}

func (s *Server) handleDiagnostics(w http.ResponseWriter, r *http.Request) {
	raw, err := s.repo.LoadExceptions(r.Context())
	if err != nil {
		s.writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	rep := schema.Diagnose(raw)
	s.writeJSON(w, http.StatusOK, map[string]any{
		"rows":        len(raw),
		"diagnostics": rep,
		"degraded":    rep.Degraded(),
	})
}

func (s *Server) handleDelays(w http.ResponseWriter, r *http.Request) {
	start := s.now()
	rows, err := s.snapshot(r)
	if err != nil {
		metrics.RecordRender("retrasos", err, time.Since(start))
		s.writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	q := r.URL.Query()
	view, err := report.BuildDelays(rows, report.OperationalFilters{
		Partner: q.Get("partner"),
		Region:  q.Get("region"),
		Band:    q.Get("band"),
		Search:  q.Get("q"),
	})
	empty := errors.Is(err, report.ErrEmpty)
	if err != nil && !empty {
		metrics.RecordRender("retrasos", err, time.Since(start))
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	metrics.RecordRender("retrasos", nil, time.Since(start))
	metrics.RecordRows("retrasos", "filtered", int64(len(view.Table)))
	s.writeJSON(w, http.StatusOK, viewResponse{Empty: empty, View: view})
}

func (s *Server) handleExecutive(w http.ResponseWriter, r *http.Request) {
	start := s.now()
	rows, err := s.snapshot(r)
	if err != nil {
		metrics.RecordRender("ejecutivo", err, time.Since(start))
		s.writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	view, err := report.BuildExecutive(rows, selections(r))
	empty := errors.Is(err, report.ErrEmpty)
	if err != nil && !empty {
		metrics.RecordRender("ejecutivo", err, time.Since(start))
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	metrics.RecordRender("ejecutivo", nil, time.Since(start))
	metrics.RecordRows("ejecutivo", "filtered", int64(view.FilteredRows))
	s.writeJSON(w, http.StatusOK, viewResponse{Empty: empty, View: view})
}

// selections reads the executive view's multi-value parameters. Absent
// parameters mean "everything", matching the filter semantics.
func selections(r *http.Request) report.Selections {
	q := r.URL.Query()
	return report.Selections{
		Years:         q["year"],
		Regions:       q["region"],
		Statuses:      q["status"],
		Severities:    q["severity"],
		Criticalities: q["criticality"],
		Reasons:       q["reason"],
	}
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	start := s.now()
	rows, err := s.snapshot(r)
	if err != nil {
		metrics.RecordRender("detalle", err, time.Since(start))
		s.writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	minDays, _ := strconv.ParseFloat(q.Get("min_days"), 64)

	view, err := report.BuildDetail(rows, q.Get("q"), minDays, page, s.cfg.PageSize)
	empty := errors.Is(err, report.ErrEmpty)
	if err != nil && !empty {
		metrics.RecordRender("detalle", err, time.Since(start))
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	metrics.RecordRender("detalle", nil, time.Since(start))
	metrics.RecordRows("detalle", "filtered", int64(view.Total))
	s.writeJSON(w, http.StatusOK, viewResponse{Empty: empty, View: view})
}

// handlePivot builds an ad hoc count pivot of two dimensions from the
// normalized snapshot, e.g. rows=CustomerRegion&cols=SeveridadRetraso.
func (s *Server) handlePivot(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rowDim, colDim := q.Get("rows"), q.Get("cols")
	if rowDim == "" || colDim == "" {
		s.writeError(w, http.StatusBadRequest, "rows and cols parameters are required")
		return
	}

	rows, err := s.snapshot(r)
	if err != nil {
		s.writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	if !records.HasColumn(rows, rowDim) || !records.HasColumn(rows, colDim) {
		s.writeError(w, http.StatusBadRequest, "unknown pivot dimension")
		return
	}
	s.writeJSON(w, http.StatusOK, aggregate.PivotCount(rows, rowDim, colDim))
}
