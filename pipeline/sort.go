package pipeline

import (
	"cmp"
	"slices"

	"farmFilters/types"
)

// SortStable orders records in place by the numeric or date field named in
// spec. Records with equal keys keep their relative order. A record missing
// the key sorts as the zero value.
func SortStable(records []types.Record, spec types.SortSpec) {
	compare := compareNumeric(spec.Field)
	if isDateKey(records, spec.Field) {
		compare = compareDate(spec.Field)
	}
	if spec.Dir == types.Desc {
		slices.SortStableFunc(records, func(a, b types.Record) int { return compare(b, a) })
		return
	}
	slices.SortStableFunc(records, compare)
}

func isDateKey(records []types.Record, field string) bool {
	for _, r := range records {
		if _, ok := r.Dates[field]; ok {
			return true
		}
	}
	return false
}

func compareNumeric(field string) func(a, b types.Record) int {
	return func(a, b types.Record) int {
		return cmp.Compare(a.Numeric[field], b.Numeric[field])
	}
}

func compareDate(field string) func(a, b types.Record) int {
	return func(a, b types.Record) int {
		return a.Dates[field].Compare(b.Dates[field])
	}
}
