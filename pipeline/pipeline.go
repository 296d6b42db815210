// Package pipeline derives the filtered, sorted and paginated view of an
// in-memory record set. Evaluation is pure: the input slice is never
// modified and every call allocates a fresh result.
package pipeline

import (
	"time"

	"farmFilters/types"
)

// Evaluate runs the pipeline against the current wall-clock time. Relative
// date ranges therefore move with the clock between calls.
func Evaluate(records []types.Record, q types.Query) types.Result {
	return EvaluateAt(records, q, time.Now())
}

// EvaluateAt runs filter, stable sort and pagination with relative date
// ranges resolved against now. It never fails: empty matches and pages past
// the end come back as empty slices.
func EvaluateAt(records []types.Record, q types.Query, now time.Time) types.Result {
	matched := Filter(records, q.Filter, now)
	if q.Sort != nil {
		SortStable(matched, *q.Sort)
	}

	page := types.PageSpec{}
	if q.Page != nil {
		page = *q.Page
	}
	page = page.Normalize()

	return types.Result{
		Matched:      matched,
		Page:         Paginate(matched, page),
		TotalMatched: len(matched),
		TotalPages:   TotalPages(len(matched), page.Size),
		PageNumber:   page.Number,
		PageSize:     page.Size,
	}
}
