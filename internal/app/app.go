// Package app wires the shared startup path of the binaries: config
// loading and validation, logging, metrics backend selection, the
// dataset download-if-missing step, and the store factory.
package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"projex/internal/config"
	"projex/internal/datasource/httpds"
	"projex/internal/metrics"
	"projex/internal/metrics/datadog"
	"projex/internal/metrics/prompush"
	"projex/internal/store"

	// register all backends with the store factory. The config selects
	// which one to use, but every binary builds in support for all.
	_ "projex/internal/store/all"
)

// App is the assembled runtime environment of a binary.
type App struct {
	Cfg  config.App
	Log  *logrus.Logger
	Repo store.Repository
}

// Load reads and validates the config file. Validation issues print to
// stderr; errors abort, warnings do not.
func Load(path string) (config.App, error) {
	cfg, err := config.LoadFile(path)
	if err != nil {
		return config.App{}, err
	}
	issues := config.Validate(cfg)
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		return config.App{}, fmt.Errorf("configuration is invalid: %s", path)
	}
	return cfg, nil
}

// Open assembles the runtime: logger, metrics backend, dataset file and
// repository. The caller must Close the result.
func Open(ctx context.Context, cfg config.App) (*App, error) {
	log := newLogger(cfg)

	if err := initMetrics(cfg.Metrics); err != nil {
		return nil, err
	}

	if err := ensureDataset(ctx, cfg, log); err != nil {
		return nil, err
	}

	repo, err := store.New(ctx, store.Config{
		Kind:  cfg.Store.Kind,
		DSN:   cfg.Store.DSN,
		Path:  cfg.Store.Path,
		Table: cfg.Store.Table,
	})
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	log.WithFields(logrus.Fields{
		"job":   cfg.Job,
		"store": cfg.Store.Kind,
	}).Info("dataset store ready")

	return &App{Cfg: cfg, Log: log, Repo: repo}, nil
}

// Close releases the repository and flushes metrics.
func (a *App) Close() {
	a.Repo.Close()
	if err := metrics.Flush(); err != nil {
		a.Log.WithError(err).Warn("flush metrics")
	}
}

func newLogger(cfg config.App) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if cfg.LogLevel != "" {
		if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
			log.SetLevel(lvl)
		}
	}
	return log
}

func initMetrics(m config.Metrics) error {
	switch m.Kind {
	case "", "none":
		return nil
	case "prompush":
		b, err := prompush.NewBackend(m.Prompush.Job, m.Prompush.GatewayURL)
		if err != nil {
			return err
		}
		metrics.SetBackend(b)
		return nil
	case "datadog":
		b, err := datadog.NewBackend(datadog.Config{
			Addr:       m.Datadog.Addr,
			Namespace:  m.Datadog.Namespace,
			GlobalTags: m.Datadog.GlobalTags,
		})
		if err != nil {
			return err
		}
		metrics.SetBackend(b)
		return nil
	default:
		return fmt.Errorf("unknown metrics kind %q", m.Kind)
	}
}

// ensureDataset downloads the dataset file when a file-backed store
// points at a missing path and a download URL is configured.
func ensureDataset(ctx context.Context, cfg config.App, log *logrus.Logger) error {
	if cfg.Store.Kind != "sqlite" && cfg.Store.Kind != "csvfile" {
		return nil
	}
	path := cfg.Store.Path
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if cfg.Download.URL == "" {
		return fmt.Errorf("dataset missing at %s and no download.url configured", path)
	}

	client := httpds.NewClient(httpds.Config{
		Timeout:            time.Duration(cfg.Download.TimeoutSeconds) * time.Second,
		MaxRetries:         cfg.Download.MaxRetries,
		InsecureSkipVerify: cfg.Download.InsecureSkipVerify,
	})
	log.WithField("path", path).Info("downloading dataset")
	if err := client.EnsureFile(ctx, cfg.Download.URL, path); err != nil {
		return err
	}
	metrics.RecordReload(cfg.Store.Kind)
	return nil
}
