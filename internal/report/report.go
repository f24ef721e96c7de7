// Package report assembles the render-pass products consumed by the
// presentation layer: KPI blocks, chart-ready grouped tables, pivot
// tables, paginated detail views and CSV exports.
//
// Every builder takes the normalized (and delay-recomputed) table plus
// the caller's current filter selections, and produces fresh result
// tables. An empty result is an informational state, signalled with
// ErrEmpty, never a failure.
package report

import "errors"

// ErrEmpty signals that normalization or filtering left no rows to
// render. Callers skip the downstream rendering steps and show an
// informational empty state.
var ErrEmpty = errors.New("report: no rows match")

// Column names shared by the views.
const (
	colName     = "ProjectName"
	colPartner  = "MainPartner"
	colRegion   = "CustomerRegion"
	colStatus   = "ProjectStatus_Flag"
	colDays     = "DiasRetraso"
	colImpact   = "ImpactoVenta"
	colID       = "ProjectID"
	colSeverity = "SeveridadRetraso"
)
