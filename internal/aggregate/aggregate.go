// Package aggregate computes the grouped tables behind the dashboard's
// charts, pivots and top-N lists.
//
// Determinism rules: grouped results iterate in sorted key order, top-N
// uses a stable sort (ties keep original row order), and "dimension with
// the maximum aggregate" picks the lexicographically smallest key when
// several tie. Nothing here mutates the input table.
package aggregate

import (
	"sort"
	"strings"

	"projex/pkg/records"
)

// Op selects the statistic computed over a group.
type Op string

const (
	OpCount Op = "count"
	OpMean  Op = "mean"
	OpSum   Op = "sum"
	OpMax   Op = "max"
)

// Metric names a field, the operation over it, and the output column.
// When As is empty the output column is the field name.
type Metric struct {
	Field string
	Op    Op
	As    string
}

func (m Metric) out() string {
	if m.As != "" {
		return m.As
	}
	return m.Field
}

// groupAcc accumulates one metric for one group.
type groupAcc struct {
	n      int64
	sum    float64
	max    float64
	hasMax bool
}

func (a *groupAcc) observe(v float64) {
	a.n++
	a.sum += v
	if !a.hasMax || v > a.max {
		a.max = v
		a.hasMax = true
	}
}

func (a *groupAcc) value(op Op) any {
	switch op {
	case OpCount:
		return a.n
	case OpSum:
		return a.sum
	case OpMax:
		return a.max
	case OpMean:
		if a.n == 0 {
			return float64(0)
		}
		return a.sum / float64(a.n)
	default:
		return nil
	}
}

// GroupBy groups the table by one or more dimensions and computes the
// requested metrics. The result rows carry the dimension values (as seen
// on the first row of each group) plus one column per metric, ordered by
// the group key tuple ascending.
func GroupBy(table []records.Record, dims []string, metrics []Metric) []records.Record {
	type group struct {
		dimVals []any
		accs    []groupAcc
	}
	groups := map[string]*group{}

	for _, r := range table {
		key := groupKey(r, dims)
		g, ok := groups[key]
		if !ok {
			g = &group{dimVals: make([]any, len(dims)), accs: make([]groupAcc, len(metrics))}
			for i, d := range dims {
				g.dimVals[i] = r[d]
			}
			groups[key] = g
		}
		for i, m := range metrics {
			v, _ := records.AsFloat(r[m.Field])
			g.accs[i].observe(v)
		}
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]records.Record, 0, len(keys))
	for _, k := range keys {
		g := groups[k]
		row := make(records.Record, len(dims)+len(metrics))
		for i, d := range dims {
			row[d] = g.dimVals[i]
		}
		for i, m := range metrics {
			row[m.out()] = g.accs[i].value(m.Op)
		}
		out = append(out, row)
	}
	return out
}

func groupKey(r records.Record, dims []string) string {
	var b strings.Builder
	for i, d := range dims {
		if i > 0 {
			b.WriteByte('\x1f')
		}
		b.WriteString(records.AsString(r[d]))
	}
	return b.String()
}

// SortDesc returns the table stably sorted by the numeric field,
// descending. Rows with equal values keep their original relative order.
func SortDesc(table []records.Record, field string) []records.Record {
	out := make([]records.Record, len(table))
	copy(out, table)
	sort.SliceStable(out, func(i, j int) bool {
		a, _ := records.AsFloat(out[i][field])
		b, _ := records.AsFloat(out[j][field])
		return a > b
	})
	return out
}

// TopN returns the first n rows of the table sorted by the numeric field
// descending; ties preserve original row order.
func TopN(table []records.Record, field string, n int) []records.Record {
	out := SortDesc(table, field)
	if n < len(out) {
		out = out[:n]
	}
	return out
}

// ValueCounts counts rows per value of the dimension, sorted by count
// descending with the lexicographically smaller value first on ties. The
// count column is named "Cantidad".
func ValueCounts(table []records.Record, dim string) []records.Record {
	counts := map[string]int64{}
	vals := map[string]any{}
	for _, r := range table {
		k := records.AsString(r[dim])
		counts[k]++
		if _, ok := vals[k]; !ok {
			vals[k] = r[dim]
		}
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	out := make([]records.Record, 0, len(keys))
	for _, k := range keys {
		out = append(out, records.Record{dim: vals[k], "Cantidad": counts[k]})
	}
	return out
}

// MaxKey returns the dimension value whose aggregated metric is largest
// (the idxmax of the grouped table). Ties resolve to the
// lexicographically smallest key. ok is false on an empty table.
func MaxKey(table []records.Record, dim string, m Metric) (key string, value float64, ok bool) {
	grouped := GroupBy(table, []string{dim}, []Metric{m})
	for _, row := range grouped {
		v, _ := records.AsFloat(row[m.out()])
		k := records.AsString(row[dim])
		if !ok || v > value {
			key, value, ok = k, v, true
		}
		// grouped is sorted by key, so the first maximum seen is the
		// lexicographically smallest.
	}
	return key, value, ok
}
