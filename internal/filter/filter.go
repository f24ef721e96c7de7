// Package filter implements the composable row-predicate engine applied to
// the normalized table before aggregation.
//
// Every Filter is a simple predicate over row fields, so a Chain is a
// sequential intersection: applying {A, B, C} yields the same subset in
// any order. Filters never mutate their input; each returns a fresh
// subset slice over the same record values.
package filter

import "projex/pkg/records"

// Filter narrows a table to the rows matching a predicate.
type Filter interface {
	Apply([]records.Record) []records.Record
}

// Chain is an ordered list of filters applied as a sequential
// intersection.
type Chain []Filter

func (c Chain) Apply(in []records.Record) []records.Record {
	out := in
	for _, f := range c {
		out = f.Apply(out)
	}
	return out
}

func keep(in []records.Record, pred func(records.Record) bool) []records.Record {
	out := make([]records.Record, 0, len(in))
	for _, r := range in {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}
