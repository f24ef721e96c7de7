// Package webui exposes the dashboard's HTTP API. Every request runs the
// full preparation pipeline against the current dataset snapshot: load
// (cached by the store layer), schema diagnostics, normalization, the
// optional reference-date delay recompute, then the requested view.
//
// Routes:
//
//	GET /healthz              → liveness + dataset summary
//	GET /api/diagnostics      → schema diagnostics of the raw snapshot
//	GET /api/delays           → operational delays view
//	GET /api/executive        → executive stoppage view
//	GET /api/detail           → paginated detail view
//	GET /api/pivot            → ad hoc count pivot of two dimensions
//	GET /export/retrasos.csv  → delays table export
//	GET /export/ejecutivo.csv → executive flat-detail export
//	GET /export/detalle.csv   → full detail export (date-only filename)
package webui

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"projex/internal/store"
)

// Config controls server startup.
type Config struct {
	// Addr is the bind address. Empty means ":8080".
	Addr string

	// PageSize overrides the detail page size; zero keeps the default.
	PageSize int

	// ShutdownGrace bounds graceful shutdown. Zero means 10s.
	ShutdownGrace time.Duration

	// SourceKind labels reload metrics ("sqlite", "csvfile", ...).
	SourceKind string
}

// Server wraps http.Server with the dashboard routes.
type Server struct {
	cfg  Config
	mux  *http.ServeMux
	repo store.Repository
	log  *logrus.Logger

	// now is injectable for tests.
	now func() time.Time
}

// NewServer constructs a Server around an opened repository.
func NewServer(cfg Config, repo store.Repository, log *logrus.Logger) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.ShutdownGrace <= 0 {
		cfg.ShutdownGrace = 10 * time.Second
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Server{
		cfg:  cfg,
		mux:  http.NewServeMux(),
		repo: repo,
		log:  log,
		now:  time.Now,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealthz)
	s.mux.HandleFunc("/api/diagnostics", s.handleDiagnostics)
	s.mux.HandleFunc("/api/delays", s.handleDelays)
	s.mux.HandleFunc("/api/executive", s.handleExecutive)
	s.mux.HandleFunc("/api/detail", s.handleDetail)
	s.mux.HandleFunc("/api/pivot", s.handlePivot)
	s.mux.HandleFunc("/export/retrasos.csv", s.handleExportDelays)
	s.mux.HandleFunc("/export/ejecutivo.csv", s.handleExportExecutive)
	s.mux.HandleFunc("/export/detalle.csv", s.handleExportDetail)
}

// Handler returns the route mux, mainly for httptest.
func (s *Server) Handler() http.Handler { return s.mux }

// Run serves until ctx is canceled, then shuts down gracefully within
// the configured grace period.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.WithField("addr", s.cfg.Addr).Info("http server listening")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		s.log.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownGrace)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// viewResponse is the envelope of every /api endpoint. Empty marks the
// informational no-rows state; the view still carries whatever could be
// computed (KPI blocks, for instance).
type viewResponse struct {
	Empty bool `json:"empty"`
	View  any  `json:"view"`
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.WithError(err).Warn("encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	s.writeJSON(w, code, map[string]string{"error": msg})
}
