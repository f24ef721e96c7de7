// Package config defines the canonical, JSON-serializable configuration
// model for the dashboard service. It is intentionally small, explicit,
// and dependency-free so that configs can be loaded from disk (or other
// sources) and passed through the program without additional glue code.
//
// Design goals:
//
//  1. Stability: changes to this package should be additive and
//     backwards-compatible whenever possible.
//  2. Clarity: field names in Go mirror the JSON structure used in the
//     configs/*.json files.
//  3. Minimalism: no third-party config libraries; decoding is performed
//     by the standard library.
//
// Example (trimmed):
//
//	{
//	  "job":   "projex",
//	  "store": { "kind": "sqlite", "path": "data/processed/projects.db" },
//	  "download": { "url": "https://drive.example.com/dataset" },
//	  "server": { "listen": ":8080" },
//	  "metrics": { "kind": "prompush", "prompush": { "gateway_url": "http://pushgateway:9091" } }
//	}
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// App is the top-level object decoded from a config file.
type App struct {
	// Job names this deployment; it labels metrics and log lines.
	Job string `json:"job"`

	// Store selects and parameterizes the dataset backend.
	Store Store `json:"store"`

	// Download configures the fetch of a missing dataset file. Only
	// meaningful for file-backed stores.
	Download Download `json:"download"`

	// Server configures the HTTP API.
	Server Server `json:"server"`

	// Metrics selects an optional metrics backend.
	Metrics Metrics `json:"metrics"`

	// LogLevel is a logrus level name ("debug", "info", "warn", ...).
	// Empty means "info".
	LogLevel string `json:"log_level"`
}

// Store mirrors the store factory's Config.
type Store struct {
	// Kind selects a registered backend: "sqlite", "postgres", "mssql"
	// or "csvfile".
	Kind string `json:"kind"`

	// DSN is the connection string for database backends.
	DSN string `json:"dsn"`

	// Path is the local file path for file-backed backends.
	Path string `json:"path"`

	// Table names the pre-joined exceptions relation for warehouse
	// backends; empty uses the backend default.
	Table string `json:"table"`
}

// Download configures the download-if-missing step for file datasets.
type Download struct {
	// URL is the dataset export URL. Empty disables downloading; a
	// missing file is then a startup error.
	URL string `json:"url"`

	// TimeoutSeconds is the per-request timeout. Zero uses the client
	// default.
	TimeoutSeconds int `json:"timeout_seconds"`

	// MaxRetries is the retry count after the initial attempt.
	MaxRetries int `json:"max_retries"`

	// InsecureSkipVerify disables TLS verification for internal hosts.
	InsecureSkipVerify bool `json:"insecure_skip_verify"`
}

// Server configures the HTTP API surface.
type Server struct {
	// Listen is the bind address, e.g. ":8080".
	Listen string `json:"listen"`

	// PageSize overrides the detail view page size. Zero keeps the
	// default of 100.
	PageSize int `json:"page_size"`

	// ShutdownGraceSeconds bounds graceful shutdown. Zero means 10.
	ShutdownGraceSeconds int `json:"shutdown_grace_seconds"`
}

// Metrics selects a metrics backend.
type Metrics struct {
	// Kind is "none" (or empty), "prompush" or "datadog".
	Kind string `json:"kind"`

	Prompush Prompush `json:"prompush"`
	Datadog  Datadog  `json:"datadog"`
}

// Prompush configures the Prometheus Pushgateway backend.
type Prompush struct {
	GatewayURL string `json:"gateway_url"`
	Job        string `json:"job"`
}

// Datadog configures the DogStatsD backend.
type Datadog struct {
	Addr       string   `json:"addr"`
	Namespace  string   `json:"namespace"`
	GlobalTags []string `json:"global_tags"`
}

// Decode reads an App from JSON. Unknown fields are rejected so typos in
// config files surface at startup instead of silently defaulting.
func Decode(r io.Reader) (App, error) {
	var app App
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&app); err != nil {
		return App{}, fmt.Errorf("config: decode: %w", err)
	}
	return app, nil
}

// LoadFile reads and decodes a config file from disk.
func LoadFile(path string) (App, error) {
	f, err := os.Open(path)
	if err != nil {
		return App{}, fmt.Errorf("config: open: %w", err)
	}
	defer f.Close()
	return Decode(f)
}
