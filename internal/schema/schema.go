// Package schema declares the expected shape of the exception table and
// provides column-availability diagnostics over a loaded dataset.
//
// The declarations here are the single source of truth for the defaulting
// and coercion behavior of the normalizer: each field names its kind and
// its default, so the cleaning rules are auditable in one place instead of
// being scattered across call sites.
package schema

// Field kinds drive the normalizer's coercion rule for the field.
const (
	KindNumber = "number" // coerce to float64, invalid -> 0
	KindID     = "id"     // keep as-is, null -> -1 sentinel
	KindText   = "text"   // null -> declared default
)

// Field declares one expected column with its defaulting policy.
type Field struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Default any    `json:"default,omitempty"`
}

// Criticals lists the fields the normalizer guarantees on every row, in
// the order they are materialized. ProjectID has no literal default: when
// the column is absent entirely it is filled with a 1..N sequence.
var Criticals = []Field{
	{Name: "ProjectID", Kind: KindID},
	{Name: "ProjectName", Kind: KindText, Default: "Proyecto Sin Nombre"},
	{Name: "CustomerRegion", Kind: KindText, Default: "No Especificado"},
	{Name: "ProjectStatus_Flag", Kind: KindText, Default: "Unknown"},
	{Name: "DiasRetraso", Kind: KindNumber},
	{Name: "CriticalityLevel", Kind: KindText, Default: "Normal"},
	{Name: "StatusReason_Category", Kind: KindText, Default: "Otro"},
	{Name: "IndicadorRetraso", Kind: KindNumber},
	{Name: "ImpactoVenta", Kind: KindNumber},
	{Name: "DuracionProyecto", Kind: KindNumber},
	{Name: "MainPartner", Kind: KindText, Default: "No Especificado"},
	{Name: "SolutionArea", Kind: KindText, Default: "No Especificado"},
	{Name: "ISS", Kind: KindText, Default: "No Especificado"},
	{Name: "ProjectStatus", Kind: KindText, Default: "Unknown"},
}

// Groups partitions the expected columns for diagnostics. Only gaps in the
// Critical group are warning-worthy; the rest degrade silently.
type Groups struct {
	Critical []string `json:"critical"`
	Temporal []string `json:"temporal"`
	Detail   []string `json:"detail"`
}

// Expected returns the declared column groups of the exception table.
func Expected() Groups {
	return Groups{
		Critical: []string{
			"ProjectID", "ProjectName", "CustomerRegion",
			"ProjectStatus_Flag", "DiasRetraso",
		},
		Temporal: []string{"Año", "Trimestre", "Mes", "FechaActualizacion"},
		Detail: []string{
			"CriticalityLevel", "StatusReason_Category", "IndicadorRetraso",
			"ImpactoVenta", "DuracionProyecto", "SolutionID", "IndustryID",
		},
	}
}
