package store

import (
	"database/sql"
	"fmt"

	"projex/pkg/records"
)

// ScanRecords drains a database/sql result set into records. When the
// query yields duplicate column labels (star-schema joins repeat key
// columns), the first occurrence wins and later ones are discarded,
// matching the dataset contract.
func ScanRecords(rows *sql.Rows) ([]records.Record, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}

	keep := make([]bool, len(cols))
	seen := make(map[string]struct{}, len(cols))
	for i, c := range cols {
		if _, dup := seen[c]; !dup {
			seen[c] = struct{}{}
			keep[i] = true
		}
	}

	var out []records.Record
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		r := make(records.Record, len(cols))
		for i, c := range cols {
			if !keep[i] {
				continue
			}
			r[c] = normalizeValue(values[i])
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

// normalizeValue maps driver raw bytes to strings so downstream coercion
// sees printable values regardless of backend.
func normalizeValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
