package report

import (
	"projex/internal/aggregate"
	"projex/internal/filter"
	"projex/pkg/records"
)

// OperationalFilters are the single-select filters of the delays view.
// Empty strings mean "Todos".
type OperationalFilters struct {
	Partner string
	Region  string
	Band    string // named delay band: critico, moderado, leve
	Search  string
}

func (f OperationalFilters) chain() filter.Chain {
	c := filter.Chain{}
	if f.Partner != "" {
		c = append(c, filter.In{Field: colPartner, Values: []string{f.Partner}})
	}
	if f.Region != "" {
		c = append(c, filter.In{Field: colRegion, Values: []string{f.Region}})
	}
	c = append(c, filter.Band{Field: colDays, Name: f.Band})
	c = append(c, filter.Search{Fields: []string{colName, colID}, Term: f.Search})
	return c
}

// ActionItem is one entry of the recommended-actions lists.
type ActionItem struct {
	ProjectName    string `json:"project"`
	MainPartner    string `json:"partner"`
	CustomerRegion string `json:"region"`
	Days           int64  `json:"days"`
}

// DelaysView is the operational day-to-day dashboard product.
type DelaysView struct {
	KPIs      DelayKPIs        `json:"kpis"`
	Columns   []string         `json:"columns"`
	Table     []records.Record `json:"table"` // filtered, delay descending
	ByPartner []records.Record `json:"by_partner"`
	ByRegion  []records.Record `json:"by_region"`
	Immediate []ActionItem     `json:"immediate"` // >31d, top 5 by delay
	Proximity []ActionItem     `json:"proximity"` // 15<d<=31, top 5 by delay
	Bands     []string         `json:"bands"`     // band selector options
}

// DelayTableColumns is the column order of the delays table and its CSV
// export.
var DelayTableColumns = []string{
	colName, colPartner, colRegion, colDays, "ProjectStatus", "SolutionArea",
}

// BuildDelays assembles the delays view from the normalized table. KPIs,
// concentration tables and action lists are computed over the whole
// positive-delay subset; only the main table honors the operational
// filters. ErrEmpty is returned when no project has a positive delay, or
// when the filters match nothing.
func BuildDelays(normalized []records.Record, f OperationalFilters) (DelaysView, error) {
	delayed := filter.Positive{Field: colDays}.Apply(normalized)
	if len(delayed) == 0 {
		return DelaysView{}, ErrEmpty
	}

	view := DelaysView{
		KPIs:      buildDelayKPIs(normalized, delayed),
		Columns:   DelayTableColumns,
		ByPartner: concentration(delayed, colPartner),
		ByRegion:  concentration(delayed, colRegion),
		Immediate: actions(filter.Band{Field: colDays, Name: "critico"}.Apply(delayed)),
		Proximity: actions(filter.Band{Field: colDays, Name: "monitoreo"}.Apply(delayed)),
		Bands:     filter.BandNames(),
	}

	visible := f.chain().Apply(delayed)
	if len(visible) == 0 {
		return view, ErrEmpty
	}
	view.Table = aggregate.SortDesc(visible, colDays)
	return view, nil
}

// concentration is the per-dimension impact table: project count and
// accumulated delay days, top 8 by accumulated days.
func concentration(delayed []records.Record, dim string) []records.Record {
	grouped := aggregate.GroupBy(delayed, []string{dim}, []aggregate.Metric{
		{Field: colID, Op: aggregate.OpCount, As: "Cantidad"},
		{Field: colDays, Op: aggregate.OpSum, As: "Dias_Acum"},
	})
	return aggregate.TopN(grouped, "Dias_Acum", 8)
}

func actions(rows []records.Record) []ActionItem {
	top := aggregate.TopN(rows, colDays, 5)
	out := make([]ActionItem, 0, len(top))
	for _, r := range top {
		days, _ := records.AsInt(r[colDays])
		out = append(out, ActionItem{
			ProjectName:    records.AsString(r[colName]),
			MainPartner:    records.AsString(r[colPartner]),
			CustomerRegion: records.AsString(r[colRegion]),
			Days:           days,
		})
	}
	return out
}
