// Package postgres implements a Postgres-backed store.Repository using
// pgx v5. It reads a pre-joined exceptions relation (table or view)
// rather than the raw star schema; warehouse deployments materialize the
// join on their side.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"projex/internal/store"
	"projex/pkg/records"
)

// DefaultTable is the exceptions relation read when the config does not
// name one.
const DefaultTable = "public.project_exceptions"

// Repository is a Postgres-backed implementation of store.Repository.
type Repository struct {
	pool  *pgxpool.Pool
	table string
}

// NewRepository constructs a Repository and returns a cleanup that closes
// the pool.
func NewRepository(ctx context.Context, dsn, table string) (*Repository, func(), error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, nil, fmt.Errorf("postgres: DSN must not be empty")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("pgxpool: %w", err)
	}
	if table == "" {
		table = DefaultTable
	}
	return &Repository{pool: pool, table: table}, func() { pool.Close() }, nil
}

func (r *Repository) LoadExceptions(ctx context.Context) ([]records.Record, error) {
	rows, err := r.pool.Query(ctx, "SELECT * FROM "+pgFQN(r.table))
	if err != nil {
		return nil, fmt.Errorf("postgres: exceptions query: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

func (r *Repository) LoadSummaryMetrics(ctx context.Context) (store.Summary, error) {
	q := fmt.Sprintf(
		`SELECT COUNT(*), COALESCE(AVG("DiasRetraso"), 0), COALESCE(AVG(CASE WHEN "DiasRetraso" > 0 THEN 100.0 ELSE 0 END), 0) FROM %s`,
		pgFQN(r.table),
	)
	var s store.Summary
	if err := r.pool.QueryRow(ctx, q).Scan(&s.TotalExceptions, &s.AvgDelayDays, &s.PctDelayed); err != nil {
		return store.Summary{}, fmt.Errorf("postgres: summary query: %w", err)
	}
	return s, nil
}

// scanRecords drains a pgx result set into records, keeping the first
// occurrence of a duplicated column label.
func scanRecords(rows pgx.Rows) ([]records.Record, error) {
	fields := rows.FieldDescriptions()
	keep := make([]bool, len(fields))
	seen := make(map[string]struct{}, len(fields))
	for i, f := range fields {
		if _, dup := seen[f.Name]; !dup {
			seen[f.Name] = struct{}{}
			keep[i] = true
		}
	}

	var out []records.Record
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("postgres: scan: %w", err)
		}
		r := make(records.Record, len(fields))
		for i, f := range fields {
			if keep[i] {
				r[f.Name] = values[i]
			}
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: rows: %w", err)
	}
	return out, nil
}

// pgIdent quotes a single identifier.
func pgIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// pgFQN quotes a possibly schema-qualified relation name.
func pgFQN(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = pgIdent(p)
	}
	return strings.Join(parts, ".")
}
