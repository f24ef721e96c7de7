package report

import (
	"projex/internal/aggregate"
	"projex/pkg/records"
)

// DelayKPIs is the compact indicator row of the operational delays view.
type DelayKPIs struct {
	Total       int     `json:"total"`
	Delayed     int     `json:"delayed"`
	DelayedRate float64 `json:"delayed_rate_pct"`
	MeanDelay   float64 `json:"mean_delay_days"`
	Criticals   int     `json:"criticals"`
	TopRegion   string  `json:"top_region"`
}

// ExecutiveKPIs is the indicator block of the executive stoppage view.
type ExecutiveKPIs struct {
	Total             int     `json:"total"`
	CriticalLevel     int     `json:"critical_level"`
	CriticalLevelPct  float64 `json:"critical_level_pct"`
	Delayed           int     `json:"delayed"`
	DelayedPct        float64 `json:"delayed_pct"`
	MeanPositiveDelay float64 `json:"mean_positive_delay"`
	MeanDuration      float64 `json:"mean_duration"`
}

// buildDelayKPIs computes indicators over the full table and its
// positive-delay subset. TopRegion is the region with the largest summed
// delay (first lexicographic key on ties).
func buildDelayKPIs(all, delayed []records.Record) DelayKPIs {
	k := DelayKPIs{
		Total:     len(all),
		Delayed:   len(delayed),
		MeanDelay: meanOf(delayed, colDays),
	}
	if k.Total > 0 {
		k.DelayedRate = float64(k.Delayed) / float64(k.Total) * 100
	}
	for _, r := range delayed {
		if d, _ := records.AsFloat(r[colDays]); d > 31 {
			k.Criticals++
		}
	}
	if region, _, ok := aggregate.MaxKey(delayed, colRegion, aggregate.Metric{Field: colDays, Op: aggregate.OpSum}); ok {
		k.TopRegion = region
	}
	return k
}

func buildExecutiveKPIs(table []records.Record) ExecutiveKPIs {
	k := ExecutiveKPIs{
		Total:        len(table),
		MeanDuration: meanOf(table, "DuracionProyecto"),
	}
	var delayed []records.Record
	for _, r := range table {
		if r["CriticalityLevel"] == "Crítico" {
			k.CriticalLevel++
		}
		if d, _ := records.AsFloat(r[colDays]); d > 0 {
			delayed = append(delayed, r)
		}
	}
	k.Delayed = len(delayed)
	k.MeanPositiveDelay = meanOf(delayed, colDays)
	if k.Total > 0 {
		k.CriticalLevelPct = float64(k.CriticalLevel) / float64(k.Total) * 100
		k.DelayedPct = float64(k.Delayed) / float64(k.Total) * 100
	}
	return k
}

func meanOf(table []records.Record, field string) float64 {
	if len(table) == 0 {
		return 0
	}
	var sum float64
	for _, r := range table {
		v, _ := records.AsFloat(r[field])
		sum += v
	}
	return sum / float64(len(table))
}

func sumOf(table []records.Record, field string) float64 {
	var sum float64
	for _, r := range table {
		v, _ := records.AsFloat(r[field])
		sum += v
	}
	return sum
}
