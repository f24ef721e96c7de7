package report

import (
	"projex/internal/aggregate"
	"projex/internal/filter"
	"projex/pkg/records"
)

// Selections are the executive view's multi-select filter sets. An empty
// set for a dimension means all values pass (the UI default is
// "everything selected", which is equivalent).
type Selections struct {
	Years         []string `json:"years"`
	Regions       []string `json:"regions"`
	Statuses      []string `json:"statuses"`
	Severities    []string `json:"severities"`
	Criticalities []string `json:"criticalities"`
	Reasons       []string `json:"reasons"`
}

// Chain builds the filter chain for the selections. Order is irrelevant
// for the result; it mirrors the sidebar order for readability.
func (s Selections) Chain() filter.Chain {
	return filter.Chain{
		filter.In{Field: "Año", Values: s.Years},
		filter.In{Field: colRegion, Values: s.Regions},
		filter.In{Field: colStatus, Values: s.Statuses},
		filter.In{Field: colSeverity, Values: s.Severities},
		filter.In{Field: "CriticalityLevel", Values: s.Criticalities},
		filter.In{Field: "StatusReason_Category", Values: s.Reasons},
	}
}

// ExecutiveView is the strategic stoppage dashboard product.
type ExecutiveView struct {
	KPIs           ExecutiveKPIs `json:"kpis"`
	TotalRows      int           `json:"total_rows"`
	FilteredRows   int           `json:"filtered_rows"`
	FilteredImpact float64       `json:"filtered_impact"`

	SeverityDist []records.Record `json:"severity_dist"`
	StatusDist   []records.Record `json:"status_dist"` // top 10
	ReasonDist   []records.Record `json:"reason_dist"` // top 8
	RegionDist   []records.Record `json:"region_dist"` // top 10

	ByMonth       []records.Record `json:"by_month"`
	ByYearQuarter []records.Record `json:"by_year_quarter"`
	ByYear        []records.Record `json:"by_year"`

	RegionDelay     []records.Record `json:"region_delay"`     // top 10 by mean delay
	RegionCompare   []records.Record `json:"region_compare"`   // top 15 by total impact
	IndustryCompare []records.Record `json:"industry_compare"` // top 12 by count
	SolutionCompare []records.Record `json:"solution_compare"` // top 12 by count

	PivotRegionStatus aggregate.Pivot `json:"pivot_region_status"`
	PivotCritSeverity aggregate.Pivot `json:"pivot_criticality_severity"`

	RegionSummary []records.Record `json:"region_summary"` // sorted by total impact
	TopImpact     []records.Record `json:"top_impact"`     // top 10 projects
}

// ExportColumns is the flat-detail export column order of the executive
// view. Columns absent from the table are skipped by the CSV writer.
var ExportColumns = []string{
	colID, colName, colRegion, colStatus,
	"CriticalityLevel", "StatusReason_Category", colDays,
	colImpact, "DuracionProyecto", colSeverity,
	"Año", "Trimestre", "Mes",
}

// BuildExecutive applies the selections and assembles the executive
// view. KPIs are computed over the unfiltered normalized table, every
// other product over the filtered subset (matching the page layout,
// where the KPI block sits above the filter summary). ErrEmpty means the
// selections matched nothing.
func BuildExecutive(normalized []records.Record, sel Selections) (ExecutiveView, error) {
	view := ExecutiveView{
		KPIs:      buildExecutiveKPIs(normalized),
		TotalRows: len(normalized),
	}

	rows := sel.Chain().Apply(normalized)
	if len(rows) == 0 {
		return view, ErrEmpty
	}
	view.FilteredRows = len(rows)
	view.FilteredImpact = sumOf(rows, colImpact)

	view.SeverityDist = aggregate.ValueCounts(rows, colSeverity)
	view.StatusDist = head(aggregate.ValueCounts(rows, colStatus), 10)
	view.ReasonDist = head(aggregate.ValueCounts(rows, "StatusReason_Category"), 8)
	view.RegionDist = head(aggregate.ValueCounts(rows, colRegion), 10)

	view.ByMonth = aggregate.GroupBy(withMonth(rows), []string{"Mes"}, []aggregate.Metric{
		{Field: colID, Op: aggregate.OpCount, As: "Cantidad"},
		{Field: colDays, Op: aggregate.OpMean, As: "Retraso_Prom"},
	})
	view.ByYearQuarter = aggregate.GroupBy(rows, []string{"Año_Trimestre"}, []aggregate.Metric{
		{Field: colID, Op: aggregate.OpCount, As: "Cantidad"},
	})
	view.ByYear = aggregate.GroupBy(rows, []string{"Año"}, []aggregate.Metric{
		{Field: colID, Op: aggregate.OpCount, As: "Cantidad"},
	})

	regionAgg := aggregate.GroupBy(rows, []string{colRegion}, []aggregate.Metric{
		{Field: colID, Op: aggregate.OpCount, As: "Cantidad"},
		{Field: colDays, Op: aggregate.OpMean, As: "Retraso_Prom"},
	})
	view.RegionDelay = aggregate.TopN(regionAgg, "Retraso_Prom", 10)

	regionCompare := aggregate.GroupBy(rows, []string{colRegion}, []aggregate.Metric{
		{Field: colID, Op: aggregate.OpCount, As: "Proyectos"},
		{Field: colImpact, Op: aggregate.OpSum, As: "Impacto_Total"},
		{Field: colDays, Op: aggregate.OpMean, As: "Retraso_Prom"},
	})
	view.RegionCompare = aggregate.TopN(regionCompare, "Impacto_Total", 15)

	view.IndustryCompare = dimensionCompare(rows, "IndustryID")
	view.SolutionCompare = dimensionCompare(rows, "SolutionID")

	view.PivotRegionStatus = aggregate.PivotCount(rows, colRegion, colStatus)
	view.PivotCritSeverity = aggregate.PivotCount(rows, "CriticalityLevel", colSeverity)

	summary := aggregate.GroupBy(rows, []string{colRegion}, []aggregate.Metric{
		{Field: colID, Op: aggregate.OpCount, As: "Proyectos"},
		{Field: colDays, Op: aggregate.OpMean, As: "Retraso_Prom"},
		{Field: colDays, Op: aggregate.OpMax, As: "Retraso_Max"},
		{Field: colImpact, Op: aggregate.OpSum, As: "Impacto_Total"},
	})
	view.RegionSummary = aggregate.SortDesc(summary, "Impacto_Total")

	view.TopImpact = project(aggregate.TopN(rows, colImpact, 10),
		colName, colRegion, colDays, colImpact)

	return view, nil
}

// dimensionCompare builds the per-dimension comparison (count + mean
// delay, top 12 by count) when the dimension column exists; nil when the
// dataset lacks it.
func dimensionCompare(rows []records.Record, dim string) []records.Record {
	if !records.HasColumn(rows, dim) {
		return nil
	}
	agg := aggregate.GroupBy(rows, []string{dim}, []aggregate.Metric{
		{Field: colID, Op: aggregate.OpCount, As: "Cantidad"},
		{Field: colDays, Op: aggregate.OpMean, As: "Retraso_Prom"},
	})
	return aggregate.TopN(agg, "Cantidad", 12)
}

// withMonth drops rows without a usable month key so the temporal
// evolution never groups under an empty label.
func withMonth(rows []records.Record) []records.Record {
	out := make([]records.Record, 0, len(rows))
	for _, r := range rows {
		if v, ok := r["Mes"]; ok && v != nil && records.AsString(v) != "" {
			out = append(out, r)
		}
	}
	return out
}

func head(rows []records.Record, n int) []records.Record {
	if n < len(rows) {
		return rows[:n]
	}
	return rows
}

// project narrows each row to the named columns.
func project(rows []records.Record, cols ...string) []records.Record {
	out := make([]records.Record, len(rows))
	for i, r := range rows {
		nr := make(records.Record, len(cols))
		for _, c := range cols {
			if v, ok := r[c]; ok {
				nr[c] = v
			}
		}
		out[i] = nr
	}
	return out
}
