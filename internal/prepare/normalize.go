// Package prepare implements the data-preparation stages of the dashboard
// pipeline: row normalization (defaulting, coercion, derived fields) and
// the reference-date delay recompute.
//
// Both stages are pure transformations: they clone the input table and
// never mutate caller data, which is what makes a full pipeline run safe
// to repeat on every interaction. Malformed values never produce errors;
// they degrade to the defaults declared in the schema package.
package prepare

import (
	"strconv"
	"time"

	"projex/internal/schema"
	"projex/pkg/records"
)

// Column names produced or consumed by the normalizer.
const (
	ColProjectID     = "ProjectID"
	ColDelayDays     = "DiasRetraso"
	ColImpact        = "ImpactoVenta"
	ColUpdated       = "FechaActualizacion"
	ColYear          = "Año"
	ColMonth         = "Mes"
	ColQuarter       = "Trimestre"
	ColSeverity      = "SeveridadRetraso"
	ColImpactRange   = "RangoImpacto"
	ColYearQuarter   = "Año_Trimestre"
	ColPlannedGoLive = "PlannedGoLive"
)

// yearFallback is applied when a present Año value does not parse.
const yearFallback = 2024

// Normalize produces a table guaranteed to carry every field the views
// depend on. now is the processing time used for absent timestamps,
// injected by the caller so a render pass is reproducible.
//
// The steps run in a fixed order because later ones read earlier-filled
// fields (temporal keys derive from FechaActualizacion, buckets from the
// coerced numerics). Re-running Normalize on its own output changes
// nothing.
func Normalize(table []records.Record, now time.Time) []records.Record {
	out := records.CloneTable(table)
	has := columnSet(table)

	fillCriticals(out, has)
	fillUpdated(out, has, now)
	fillYear(out, has)
	fillMonth(out, has, now)
	fillQuarter(out, has, now)

	for _, r := range out {
		days, _ := records.AsFloat(r[ColDelayDays])
		r[ColSeverity] = SeverityBucket(days)
		impact, _ := records.AsFloat(r[ColImpact])
		r[ColImpactRange] = ImpactBucket(impact)

		year, _ := records.AsInt(r[ColYear])
		r[ColYearQuarter] = strconv.FormatInt(year, 10) + "-" + records.AsString(r[ColQuarter])
	}

	// Defensive: the defaulting above leaves no row without an identifier,
	// but the contract holds regardless of input shape.
	kept := out[:0]
	for _, r := range out {
		if r[ColProjectID] != nil {
			kept = append(kept, r)
		}
	}
	return kept
}

func columnSet(table []records.Record) map[string]struct{} {
	cols := records.Columns(table)
	set := make(map[string]struct{}, len(cols))
	for _, c := range cols {
		set[c] = struct{}{}
	}
	return set
}

// fillCriticals materializes every declared critical field: absent columns
// are created with their default (a 1..N sequence for the identifier),
// present values are coerced per field kind.
func fillCriticals(out []records.Record, has map[string]struct{}) {
	for _, f := range schema.Criticals {
		_, present := has[f.Name]
		for i, r := range out {
			switch f.Kind {
			case schema.KindID:
				if !present {
					r[f.Name] = int64(i + 1)
				} else if v, ok := r[f.Name]; !ok || v == nil {
					r[f.Name] = int64(-1)
				}
			case schema.KindNumber:
				if !present {
					r[f.Name] = float64(0)
					continue
				}
				n, _ := records.AsFloat(r[f.Name])
				r[f.Name] = n
			default: // text
				if v, ok := r[f.Name]; !present || !ok || v == nil {
					r[f.Name] = f.Default
				}
			}
		}
	}
}

// fillUpdated resolves the last-update timestamp: absent column means the
// processing time; present but unparseable values become nil and stay nil
// (the temporal keys below fall back on their own).
func fillUpdated(out []records.Record, has map[string]struct{}, now time.Time) {
	if _, present := has[ColUpdated]; !present {
		for _, r := range out {
			r[ColUpdated] = now
		}
		return
	}
	for _, r := range out {
		if t, ok := records.AsTime(r[ColUpdated]); ok {
			r[ColUpdated] = t
		} else {
			r[ColUpdated] = nil
		}
	}
}

func fillYear(out []records.Record, has map[string]struct{}) {
	_, present := has[ColYear]
	for _, r := range out {
		if !present {
			if t, ok := records.AsTime(r[ColUpdated]); ok {
				r[ColYear] = int64(t.Year())
			} else {
				r[ColYear] = int64(yearFallback)
			}
			continue
		}
		if n, ok := records.AsFloat(r[ColYear]); ok {
			r[ColYear] = int64(n)
		} else {
			r[ColYear] = int64(yearFallback)
		}
	}
}

func fillMonth(out []records.Record, has map[string]struct{}, now time.Time) {
	if _, present := has[ColMonth]; present {
		return // trust the source value when given
	}
	for _, r := range out {
		if t, ok := records.AsTime(r[ColUpdated]); ok {
			r[ColMonth] = t.Format("2006-01")
		} else {
			r[ColMonth] = now.Format("2006-01")
		}
	}
}

// fillQuarter derives "T<q>" labels when the column is absent; present
// values are only stringified, never recomputed from the date. The single
// digit keeps Año_Trimestre lexically sortable.
func fillQuarter(out []records.Record, has map[string]struct{}, now time.Time) {
	_, present := has[ColQuarter]
	for _, r := range out {
		if present {
			if v, ok := r[ColQuarter]; ok && v != nil {
				r[ColQuarter] = records.AsString(v)
				continue
			}
		}
		t, ok := records.AsTime(r[ColUpdated])
		if !ok {
			t = now
		}
		r[ColQuarter] = "T" + strconv.Itoa(quarterOf(t))
	}
}

func quarterOf(t time.Time) int {
	return (int(t.Month())-1)/3 + 1
}
