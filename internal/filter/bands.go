package filter

import "projex/pkg/records"

// bandRange encodes a delay band with explicit boundary semantics: the
// lower bound is exclusive when present, the upper bound inclusive. The
// numbers below are contractual; do not round them into each other.
type bandRange struct {
	min    float64
	hasMin bool
	max    float64
	hasMax bool
}

// Named delay bands used by the operational views. "critico", "moderado"
// and "leve" are the selector options of the delays view; "monitoreo" is
// the proximity watch band of the recommended-actions list.
var bands = map[string]bandRange{
	"critico":   {min: 31, hasMin: true},             // >31
	"moderado":  {min: 7, hasMin: true, max: 31, hasMax: true},  // (7,31]
	"leve":      {max: 7, hasMax: true},              // <=7
	"monitoreo": {min: 15, hasMin: true, max: 31, hasMax: true}, // (15,31]
}

// Band keeps rows whose numeric field falls in the named band. An
// unknown or empty name passes everything through, mirroring the "Todos"
// selector option.
type Band struct {
	Field string
	Name  string
}

func (f Band) Apply(in []records.Record) []records.Record {
	b, ok := bands[f.Name]
	if !ok {
		return in
	}
	return keep(in, func(r records.Record) bool {
		n, _ := records.AsFloat(r[f.Field])
		if b.hasMin && n <= b.min {
			return false
		}
		if b.hasMax && n > b.max {
			return false
		}
		return true
	})
}

// BandNames lists the selectable band names in presentation order.
func BandNames() []string {
	return []string{"critico", "moderado", "leve"}
}
