package pipeline

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"farmFilters/types"
)

type predicate func(types.Record) bool

// Filter returns the records that satisfy every active predicate of spec,
// in input order.
func Filter(records []types.Record, spec types.FilterSpec, now time.Time) []types.Record {
	preds := compile(spec, now)
	out := make([]types.Record, 0, len(records))
next:
	for _, r := range records {
		for _, p := range preds {
			if !p(r) {
				continue next
			}
		}
		out = append(out, r)
	}
	return out
}

func compile(spec types.FilterSpec, now time.Time) []predicate {
	var preds []predicate
	if spec.Search != "" {
		preds = append(preds, searchPredicate(spec.Search))
	}
	for field, want := range spec.Equal {
		preds = append(preds, func(r types.Record) bool {
			got, ok := r.Categorical[field]
			return ok && got == want
		})
	}
	if d := spec.Date; d != nil {
		// bound fixed once per evaluation
		bound := d.LowerBound(now)
		field := d.Field
		preds = append(preds, func(r types.Record) bool {
			t, ok := r.Dates[field]
			return ok && !t.Before(bound)
		})
	}
	if b := spec.Bucket; b != nil {
		field, bucket := b.Field, b.Bucket
		preds = append(preds, func(r types.Record) bool {
			v, ok := r.Numeric[field]
			return ok && bucket.Contains(v)
		})
	}
	return preds
}

func searchPredicate(term string) predicate {
	// Caser is stateful, one per evaluation.
	lower := cases.Lower(language.Und)
	needle := lower.String(term)
	return func(r types.Record) bool {
		for _, s := range r.Searchable {
			if strings.Contains(lower.String(s), needle) {
				return true
			}
		}
		return false
	}
}
