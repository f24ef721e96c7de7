package report

import (
	"projex/internal/aggregate"
	"projex/internal/filter"
	"projex/pkg/records"
)

// DefaultPageSize is the fixed page size of the detail table.
const DefaultPageSize = 100

// DetailColumns is the detail table column order.
var DetailColumns = []string{
	colName, colPartner, colRegion, "SolutionArea", colDays, "ProjectStatus",
}

// DetailView is the paginated full-detail product.
type DetailView struct {
	Columns  []string         `json:"columns"`
	Rows     []records.Record `json:"rows"` // current page only
	Page     int              `json:"page"`
	Pages    int              `json:"pages"`
	Total    int              `json:"total"`
	PageSize int              `json:"page_size"`
	// Export holds the complete filtered table for CSV download.
	Export []records.Record `json:"-"`
}

// BuildDetail assembles the detail view: positive-delay subset, name
// search, minimum-days threshold, delay-descending order, fixed-size
// pagination. An out-of-range page clamps to the valid range. ErrEmpty
// is returned when nothing is left to paginate.
func BuildDetail(normalized []records.Record, search string, minDays float64, page, pageSize int) (DetailView, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	rows := filter.Chain{
		filter.Positive{Field: colDays},
		filter.Search{Fields: []string{colName}, Term: search},
		filter.MinDays{Field: colDays, Min: minDays},
	}.Apply(normalized)
	if len(rows) == 0 {
		return DetailView{}, ErrEmpty
	}

	rows = aggregate.SortDesc(rows, colDays)
	rows = ensureColumns(rows, DetailColumns)

	view := DetailView{
		Columns:  DetailColumns,
		Total:    len(rows),
		PageSize: pageSize,
		Pages:    pageCount(len(rows), pageSize),
		Export:   rows,
	}
	view.Page = clampPage(page, view.Pages)

	start := (view.Page - 1) * pageSize
	end := start + pageSize
	if end > len(rows) {
		end = len(rows)
	}
	view.Rows = rows[start:end]
	return view, nil
}

// pageCount is ceil(total/size) with a minimum of one page.
func pageCount(total, size int) int {
	if total <= 0 {
		return 1
	}
	return (total-1)/size + 1
}

func clampPage(page, pages int) int {
	if page < 1 {
		return 1
	}
	if page > pages {
		return pages
	}
	return page
}

// ensureColumns fills absent display columns with "N/A" on copies of the
// rows, so the table and its export always carry the full column set.
func ensureColumns(rows []records.Record, cols []string) []records.Record {
	out := records.CloneTable(rows)
	for _, r := range out {
		for _, c := range cols {
			if v, ok := r[c]; !ok || v == nil {
				r[c] = "N/A"
			}
		}
	}
	return out
}
