package webui

import (
	"errors"
	"net/http"
	"strconv"

	"projex/internal/metrics"
	"projex/internal/report"
	"projex/pkg/records"
)

// serveCSV streams rows as a CSV attachment with the given filename.
func (s *Server) serveCSV(w http.ResponseWriter, name string, cols []string, rows []records.Record, view string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	if err := report.WriteCSV(w, cols, rows); err != nil {
		s.log.WithError(err).WithField("view", view).Warn("csv export aborted")
		return
	}
	metrics.RecordRows(view, "exported", int64(len(rows)))
}

func (s *Server) handleExportDelays(w http.ResponseWriter, r *http.Request) {
	rows, err := s.snapshot(r)
	if err != nil {
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
	if err != nil && !errors.Is(err, report.ErrEmpty) {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	name := report.Filename("retrasos_filtrado", s.now())
	s.serveCSV(w, name, report.DelayTableColumns, view.Table, "retrasos")
}

func (s *Server) handleExportExecutive(w http.ResponseWriter, r *http.Request) {
	rows, err := s.snapshot(r)
	if err != nil {
		s.writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	filtered := selections(r).Chain().Apply(rows)
	name := report.Filename("proyectos_paradas", s.now())
	s.serveCSV(w, name, report.ExportColumns, filtered, "ejecutivo")
}

func (s *Server) handleExportDetail(w http.ResponseWriter, r *http.Request) {
	rows, err := s.snapshot(r)
	if err != nil {
		s.writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	q := r.URL.Query()
	minDays, _ := strconv.ParseFloat(q.Get("min_days"), 64)
	view, err := report.BuildDetail(rows, q.Get("q"), minDays, 1, s.cfg.PageSize)
	if err != nil && !errors.Is(err, report.ErrEmpty) {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	// The export carries the complete filtered table, not the page.
	name := report.DailyFilename("retrasos_detalle", s.now())
	s.serveCSV(w, name, report.DetailColumns, view.Export, "detalle")
}
