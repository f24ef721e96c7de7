package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleConfig = `{
  "job": "projex",
  "store": { "kind": "sqlite", "path": "data/processed/projects.db" },
  "download": { "url": "https://example.com/dataset", "max_retries": 2 },
  "server": { "listen": ":8080", "page_size": 100 },
  "metrics": { "kind": "prompush", "prompush": { "gateway_url": "http://pushgateway:9091" } },
  "log_level": "debug"
}`

func TestDecode(t *testing.T) {
	app, err := Decode(strings.NewReader(sampleConfig))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if app.Job != "projex" {
		t.Errorf("Job = %q", app.Job)
	}
	if app.Store.Kind != "sqlite" || app.Store.Path != "data/processed/projects.db" {
		t.Errorf("Store = %+v", app.Store)
	}
	if app.Download.MaxRetries != 2 {
		t.Errorf("Download.MaxRetries = %d", app.Download.MaxRetries)
	}
	if app.Server.Listen != ":8080" || app.Server.PageSize != 100 {
		t.Errorf("Server = %+v", app.Server)
	}
	if app.Metrics.Kind != "prompush" || app.Metrics.Prompush.GatewayURL != "http://pushgateway:9091" {
		t.Errorf("Metrics = %+v", app.Metrics)
	}
	if app.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", app.LogLevel)
	}
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	if _, err := Decode(strings.NewReader(`{"sotre": {"kind": "sqlite"}}`)); err == nil {
		t.Fatalf("expected error for unknown field")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.json")
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	app, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if app.Store.Kind != "sqlite" {
		t.Errorf("Store.Kind = %q", app.Store.Kind)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
