// Package records defines the dynamic row model shared by every stage of
// the dashboard pipeline. A Record is a single row of the working table;
// a table is simply []Record.
//
// Values arrive from heterogeneous sources (SQLite, Postgres, MSSQL, CSV
// extracts) and are therefore loosely typed. The accessor helpers in this
// package centralize the permissive coercions the pipeline relies on so
// that call sites never re-implement parsing: numeric strings parse to
// numbers, unparseable values report ok=false, and callers decide the
// fallback per the defaulting policy of their stage.
package records

import (
	"fmt"
	"sort"
	"strconv"
	"time"
)

// Record is one row of the working table.
type Record map[string]any

// Clone returns a shallow copy of the record. Stage implementations that
// must not mutate their input clone first and write into the copy.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// CloneTable clones every record in the table.
func CloneTable(in []Record) []Record {
	out := make([]Record, len(in))
	for i, r := range in {
		out[i] = r.Clone()
	}
	return out
}

// Columns returns the union of keys across all records, sorted. Map-backed
// rows cannot carry duplicate labels, so loaders are responsible for the
// keep-first rule when a source (e.g. a joined SQL result or a CSV header)
// repeats a column name.
func Columns(in []Record) []string {
	seen := map[string]struct{}{}
	for _, r := range in {
		for k := range r {
			seen[k] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// HasColumn reports whether any record in the table carries the key.
func HasColumn(in []Record, name string) bool {
	for _, r := range in {
		if _, ok := r[name]; ok {
			return true
		}
	}
	return false
}

// AsString converts common value types to their string form without the
// overhead of fmt.Sprint; nil maps to "".
func AsString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case bool:
		if t {
			return "true"
		}
		return "false"
	case time.Time:
		return t.Format(time.RFC3339)
	default:
		return fmt.Sprint(t)
	}
}

// AsFloat coerces a value to float64. Strings are parsed; whitespace-only
// or unparseable values report ok=false.
func AsFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case nil:
		return 0, false
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// AsInt coerces a value to int64, truncating floats toward zero.
func AsInt(v any) (int64, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int32:
		return int64(t), true
	case int64:
		return t, true
	case float64:
		return int64(t), true
	case string:
		i, err := strconv.ParseInt(t, 10, 64)
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

// dateLayouts are tried in order by AsTime for string values.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02.01.2006",
}

// AsTime coerces a value to time.Time. Strings are parsed against the
// known layouts in order; anything else reports ok=false.
func AsTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return time.Time{}, false
		}
		return t, true
	case string:
		if t == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}
