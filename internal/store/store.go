// Package store contains the storage-agnostic contracts of the dataset
// layer. Concrete backends (SQLite, Postgres, MSSQL, CSV file) register
// themselves with the factory in their init functions; callers open a
// Repository through New and stay backend-agnostic from then on.
package store

import (
	"context"
	"fmt"
	"sync"

	"projex/pkg/records"
)

// Repository is a read-only handle on the exception dataset.
type Repository interface {
	// LoadExceptions returns the raw exception rows (delayed or paused
	// projects), one record per row, column names as keys.
	LoadExceptions(ctx context.Context) ([]records.Record, error)

	// LoadSummaryMetrics returns the dataset-level health numbers shown
	// before any filtering.
	LoadSummaryMetrics(ctx context.Context) (Summary, error)

	Close()
}

// Summary is the dataset-level metric block.
type Summary struct {
	TotalExceptions int64   `json:"total_exceptions"`
	AvgDelayDays    float64 `json:"avg_delay_days"`
	PctDelayed      float64 `json:"pct_delayed"`
}

// Config selects and parameterizes a backend.
type Config struct {
	// Kind routes to a registered backend: "sqlite", "postgres",
	// "mssql" or "csvfile".
	Kind string `json:"kind"`

	// DSN is the connection string for database backends.
	DSN string `json:"dsn,omitempty"`

	// Path is the file path for file-backed backends (sqlite, csvfile).
	// For sqlite it doubles as the DSN when DSN is empty.
	Path string `json:"path,omitempty"`

	// Table overrides the exceptions source relation for backends that
	// read a pre-joined table or view (postgres, mssql).
	Table string `json:"table,omitempty"`
}

// Factory constructs a Repository for a Config.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	regMu     sync.RWMutex
	factories = map[string]Factory{}
)

// Register makes a backend available under the given kind. Re-registering
// a kind overrides the previous factory, which tests rely on.
func Register(kind string, fn Factory) {
	regMu.Lock()
	defer regMu.Unlock()
	factories[kind] = fn
}

// New opens a Repository for cfg.Kind. The kind must have been registered,
// typically by importing the store/all package.
func New(ctx context.Context, cfg Config) (Repository, error) {
	regMu.RLock()
	fn, ok := factories[cfg.Kind]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported store.kind=%s", cfg.Kind)
	}
	return fn(ctx, cfg)
}

// ListKinds returns a snapshot of the registered backend kinds.
func ListKinds() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	kinds := make([]string, 0, len(factories))
	for k := range factories {
		kinds = append(kinds, k)
	}
	return kinds
}
