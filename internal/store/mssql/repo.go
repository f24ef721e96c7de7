// Package mssql implements a SQL Server-backed store.Repository through
// database/sql and the go-mssqldb driver. Like the Postgres backend it
// reads a pre-joined exceptions relation.
package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/microsoft/go-mssqldb"

	"projex/internal/store"
	"projex/pkg/records"
)

// DefaultTable is the exceptions relation read when the config does not
// name one.
const DefaultTable = "dbo.project_exceptions"

// Repository is a SQL Server-backed implementation of store.Repository.
type Repository struct {
	db    *sql.DB
	table string
}

// NewRepository opens the connection and pings it with a short timeout so
// misconfigured DSNs fail at startup, not on the first request.
func NewRepository(ctx context.Context, dsn, table string) (*Repository, func(), error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, nil, fmt.Errorf("mssql: DSN must not be empty")
	}
	db, err := sql.Open("sqlserver", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("mssql: open: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("mssql: ping: %w", err)
	}
	if table == "" {
		table = DefaultTable
	}
	return &Repository{db: db, table: table}, func() { db.Close() }, nil
}

func (r *Repository) LoadExceptions(ctx context.Context) ([]records.Record, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT * FROM "+sqlFQN(r.table))
	if err != nil {
		return nil, fmt.Errorf("mssql: exceptions query: %w", err)
	}
	defer rows.Close()
	recs, err := store.ScanRecords(rows)
	if err != nil {
		return nil, fmt.Errorf("mssql: %w", err)
	}
	return recs, nil
}

func (r *Repository) LoadSummaryMetrics(ctx context.Context) (store.Summary, error) {
	q := fmt.Sprintf(
		"SELECT COUNT(*), COALESCE(AVG(CAST([DiasRetraso] AS float)), 0), COALESCE(AVG(CASE WHEN [DiasRetraso] > 0 THEN 100.0 ELSE 0 END), 0) FROM %s",
		sqlFQN(r.table),
	)
	var s store.Summary
	if err := r.db.QueryRowContext(ctx, q).Scan(&s.TotalExceptions, &s.AvgDelayDays, &s.PctDelayed); err != nil {
		return store.Summary{}, fmt.Errorf("mssql: summary query: %w", err)
	}
	return s, nil
}

// sqlFQN brackets a possibly schema-qualified relation name.
func sqlFQN(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = "[" + strings.ReplaceAll(p, "]", "]]") + "]"
	}
	return strings.Join(parts, ".")
}
