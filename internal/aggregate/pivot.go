package aggregate

import (
	"sort"

	"projex/pkg/records"
)

// MarginLabel names the total row and column of a pivot table.
const MarginLabel = "Total"

// Pivot is a 2D count cross-tabulation of two categorical dimensions,
// with margin totals. Row and column keys are sorted; the margin label is
// appended last on both axes.
type Pivot struct {
	RowDim  string             `json:"row_dim"`
	ColDim  string             `json:"col_dim"`
	RowKeys []string           `json:"row_keys"`
	ColKeys []string           `json:"col_keys"`
	Counts  map[string]map[string]int64 `json:"counts"`
}

// Cell returns the count for a row/column pair, zero-filled for absent
// combinations. The margin label addresses the totals.
func (p Pivot) Cell(row, col string) int64 {
	if m, ok := p.Counts[row]; ok {
		return m[col]
	}
	return 0
}

// PivotCount cross-tabulates two categorical dimensions with a count
// metric and Total margins on both axes.
func PivotCount(table []records.Record, rowDim, colDim string) Pivot {
	p := Pivot{
		RowDim: rowDim,
		ColDim: colDim,
		Counts: map[string]map[string]int64{},
	}
	rowSet := map[string]struct{}{}
	colSet := map[string]struct{}{}

	bump := func(row, col string) {
		m, ok := p.Counts[row]
		if !ok {
			m = map[string]int64{}
			p.Counts[row] = m
		}
		m[col]++
	}

	for _, r := range table {
		row := records.AsString(r[rowDim])
		col := records.AsString(r[colDim])
		rowSet[row] = struct{}{}
		colSet[col] = struct{}{}
		bump(row, col)
		bump(row, MarginLabel)
		bump(MarginLabel, col)
		bump(MarginLabel, MarginLabel)
	}

	for k := range rowSet {
		p.RowKeys = append(p.RowKeys, k)
	}
	for k := range colSet {
		p.ColKeys = append(p.ColKeys, k)
	}
	sort.Strings(p.RowKeys)
	sort.Strings(p.ColKeys)
	p.RowKeys = append(p.RowKeys, MarginLabel)
	p.ColKeys = append(p.ColKeys, MarginLabel)
	return p
}
