package schema

import (
	"sort"

	"projex/pkg/records"
)

// Report describes column availability against the expected groups.
// MissingCritical keeps the declared order so warnings read stably;
// MissingAll is deduplicated and sorted.
type Report struct {
	Available       []string `json:"available"`
	MissingCritical []string `json:"missing_critical"`
	MissingAll      []string `json:"missing_all"`
	Expected        Groups   `json:"expected"`
}

// Degraded reports whether the dataset is missing warning-worthy columns.
func (r Report) Degraded() bool { return len(r.MissingCritical) > 0 }

// Diagnose inspects the table's column set against the expected groups.
// It is a pure function: the table is only read, never modified.
func Diagnose(table []records.Record) Report {
	return DiagnoseWith(table, Expected())
}

// DiagnoseWith is Diagnose against caller-supplied groups.
func DiagnoseWith(table []records.Record, groups Groups) Report {
	available := records.Columns(table)
	have := make(map[string]struct{}, len(available))
	for _, c := range available {
		have[c] = struct{}{}
	}

	rep := Report{Available: available, Expected: groups}
	for _, c := range groups.Critical {
		if _, ok := have[c]; !ok {
			rep.MissingCritical = append(rep.MissingCritical, c)
		}
	}

	missing := map[string]struct{}{}
	for _, group := range [][]string{groups.Critical, groups.Temporal, groups.Detail} {
		for _, c := range group {
			if _, ok := have[c]; !ok {
				missing[c] = struct{}{}
			}
		}
	}
	for c := range missing {
		rep.MissingAll = append(rep.MissingAll, c)
	}
	sort.Strings(rep.MissingAll)
	return rep
}
