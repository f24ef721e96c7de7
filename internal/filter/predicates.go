package filter

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"projex/pkg/records"
)

// In keeps rows whose field value is in the selection set. An empty
// selection means "no filter" and passes every row through, never
// "exclude all". Values are compared on their string form so that numeric
// dimensions (years) match selections arriving as query parameters.
type In struct {
	Field  string
	Values []string
}

func (f In) Apply(in []records.Record) []records.Record {
	if len(f.Values) == 0 {
		return in
	}
	set := make(map[string]struct{}, len(f.Values))
	for _, v := range f.Values {
		set[v] = struct{}{}
	}
	return keep(in, func(r records.Record) bool {
		_, ok := set[records.AsString(r[f.Field])]
		return ok
	})
}

// Search keeps rows where any of the listed fields contains the term,
// case- and accent-insensitively. Null values never match a non-empty
// term; an empty term passes everything through.
type Search struct {
	Fields []string
	Term   string
}

func (f Search) Apply(in []records.Record) []records.Record {
	term := foldText(f.Term)
	if term == "" {
		return in
	}
	return keep(in, func(r records.Record) bool {
		for _, field := range f.Fields {
			v, ok := r[field]
			if !ok || v == nil {
				continue
			}
			if strings.Contains(foldText(records.AsString(v)), term) {
				return true
			}
		}
		return false
	})
}

// MinDays keeps rows whose numeric field is at least Min. Unparseable
// values coerce to 0 and are therefore kept only when Min <= 0.
type MinDays struct {
	Field string
	Min   float64
}

func (f MinDays) Apply(in []records.Record) []records.Record {
	return keep(in, func(r records.Record) bool {
		n, _ := records.AsFloat(r[f.Field])
		return n >= f.Min
	})
}

// Positive keeps rows whose numeric field is strictly greater than zero.
// The delay views operate on this subset.
type Positive struct {
	Field string
}

func (f Positive) Apply(in []records.Record) []records.Record {
	return keep(in, func(r records.Record) bool {
		n, _ := records.AsFloat(r[f.Field])
		return n > 0
	})
}

// accentStripper removes combining marks after NFD decomposition, so
// "Crítico" folds to "critico". Labels in the datamart are Spanish; a
// plain ToLower comparison would miss accented matches.
var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func foldText(s string) string {
	out, _, err := transform.String(accentStripper, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}
