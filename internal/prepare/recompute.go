package prepare

import (
	"time"

	"projex/pkg/records"
)

// RecomputeDelay rewrites DiasRetraso against a caller-supplied reference
// date. The reference date is live user input, so this runs once per
// render pass on the immutable base table; it never accumulates onto a
// previously recomputed value.
//
// Without a reference date the existing value is only coerced to a number
// (invalid -> 0). With one, every row with a parseable PlannedGoLive gets
// delay = whole days between the planned date and the reference date,
// truncated toward zero; negative values mean "not yet due". A missing or
// unparseable planned date yields 0. When the table has no PlannedGoLive
// column at all, the coercion path applies.
//
// SeveridadRetraso is refreshed wherever it already exists so the bucket
// stays consistent with the rewritten delay.
func RecomputeDelay(table []records.Record, ref *time.Time) []records.Record {
	out := records.CloneTable(table)
	hasGoLive := records.HasColumn(table, ColPlannedGoLive)

	for _, r := range out {
		if ref != nil && hasGoLive {
			if goLive, ok := records.AsTime(r[ColPlannedGoLive]); ok {
				r[ColPlannedGoLive] = goLive
				r[ColDelayDays] = float64(wholeDays(*ref, goLive))
			} else {
				r[ColPlannedGoLive] = nil
				r[ColDelayDays] = float64(0)
			}
		} else {
			n, _ := records.AsFloat(r[ColDelayDays])
			r[ColDelayDays] = n
		}

		if _, ok := r[ColSeverity]; ok {
			days, _ := records.AsFloat(r[ColDelayDays])
			r[ColSeverity] = SeverityBucket(days)
		}
	}
	return out
}

// wholeDays returns the integer day count from to ref, truncated toward
// zero.
func wholeDays(ref, from time.Time) int {
	return int(ref.Sub(from).Hours() / 24)
}
