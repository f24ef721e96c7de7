// Package csvfile implements a flat-file store.Repository for local
// development and tests. The file is a UTF-8 CSV export of the exceptions
// dataset with a header row; every cell loads as a string and the
// preparation pipeline's coercion handles typing.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"projex/internal/store"
	"projex/pkg/records"
)

// Repository reads a CSV exceptions file from disk on every load. Wrap it
// in a store.FileCache to avoid re-reading unchanged files.
type Repository struct {
	path string
}

// NewRepository validates that the file exists up front.
func NewRepository(path string) (*Repository, error) {
	if path == "" {
		return nil, fmt.Errorf("csvfile: path must not be empty")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("csvfile: %w", err)
	}
	return &Repository{path: path}, nil
}

// LoadExceptions parses the whole file. Duplicate header labels keep
// their first column; empty cells load as nil so defaulting applies.
func (r *Repository) LoadExceptions(ctx context.Context) ([]records.Record, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("csvfile: open: %w", err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1 // tolerate ragged rows, missing cells stay absent

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("csvfile: header: %w", err)
	}

	keep := make([]bool, len(header))
	seen := make(map[string]struct{}, len(header))
	for i, c := range header {
		if _, dup := seen[c]; !dup {
			seen[c] = struct{}{}
			keep[i] = true
		}
	}

	var out []records.Record
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csvfile: row: %w", err)
		}
		rec := make(records.Record, len(header))
		for i, cell := range row {
			if i >= len(header) || !keep[i] {
				continue
			}
			if cell == "" {
				rec[header[i]] = nil
				continue
			}
			rec[header[i]] = cell
		}
		out = append(out, rec)
	}
	return out, nil
}

// LoadSummaryMetrics computes the averages in memory; flat files have no
// query engine to push them into.
func (r *Repository) LoadSummaryMetrics(ctx context.Context) (store.Summary, error) {
	rows, err := r.LoadExceptions(ctx)
	if err != nil {
		return store.Summary{}, err
	}
	s := store.Summary{TotalExceptions: int64(len(rows))}
	if len(rows) == 0 {
		return s, nil
	}
	var sum float64
	var delayed int
	for _, rec := range rows {
		d, _ := records.AsFloat(rec["DiasRetraso"])
		sum += d
		if d > 0 {
			delayed++
		}
	}
	s.AvgDelayDays = sum / float64(len(rows))
	s.PctDelayed = float64(delayed) / float64(len(rows)) * 100
	return s, nil
}

func (r *Repository) Close() {}

var _ store.Repository = (*Repository)(nil)
