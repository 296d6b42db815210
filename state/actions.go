package state

import (
	"fmt"
	"maps"

	"farmFilters/schemas"
	"farmFilters/types"
)

// Action is one user interaction with the list screen.
type Action interface {
	reduce(sch schemas.Schema, q types.Query) (types.Query, error)
}

type SetSearch struct{ Term string }

// SetEqual sets an equality filter; an empty Value removes it.
type SetEqual struct{ Field, Value string }

// SetDateRange filters Field by a relative preset; an empty Preset removes the filter.
type SetDateRange struct {
	Field  string
	Preset types.RangePreset
}

// SetBucket filters Field by a named bucket; an empty Name removes the filter.
type SetBucket struct{ Field, Name string }

// SetSort selects an ordering by key, e.g. "area_desc".
type SetSort struct{ Key string }

type SetPage struct{ Number int }

type SetPageSize struct{ Size int }

// Reset restores the all-absent filter and the default ordering.
type Reset struct{}

// SetQuery replaces the whole query, e.g. when a saved view is opened.
type SetQuery struct{ Query types.Query }

// Reduce applies a to q and validates the outcome. On error q is returned
// unchanged. Any change to filter or ordering returns to page 1.
func Reduce(sch schemas.Schema, q types.Query, a Action) (types.Query, error) {
	next, err := a.reduce(sch, clone(q))
	if err != nil {
		return q, err
	}
	if err := sch.Validate(next); err != nil {
		return q, err
	}
	return next, nil
}

// Default is the query a freshly opened screen shows.
func Default(sch schemas.Schema) types.Query {
	q := types.Query{Page: &types.PageSpec{Number: 1, Size: pageSize(sch)}}
	if sch.DefaultSort != nil {
		s := *sch.DefaultSort
		q.Sort = &s
	}
	return q
}

func pageSize(sch schemas.Schema) int {
	if sch.PageSize > 0 {
		return sch.PageSize
	}
	return types.DefaultPageSize
}

func clone(q types.Query) types.Query {
	out := q
	out.Filter.Equal = maps.Clone(q.Filter.Equal)
	if q.Filter.Date != nil {
		d := *q.Filter.Date
		out.Filter.Date = &d
	}
	if q.Filter.Bucket != nil {
		b := *q.Filter.Bucket
		out.Filter.Bucket = &b
	}
	if q.Sort != nil {
		s := *q.Sort
		out.Sort = &s
	}
	if q.Page != nil {
		p := *q.Page
		out.Page = &p
	}
	return out
}

func firstPage(q types.Query, sch schemas.Schema) types.Query {
	if q.Page == nil {
		q.Page = &types.PageSpec{Size: pageSize(sch)}
	}
	q.Page.Number = 1
	return q
}

func (a SetSearch) reduce(sch schemas.Schema, q types.Query) (types.Query, error) {
	q.Filter.Search = a.Term
	return firstPage(q, sch), nil
}

func (a SetEqual) reduce(sch schemas.Schema, q types.Query) (types.Query, error) {
	if a.Value == "" {
		delete(q.Filter.Equal, a.Field)
		if len(q.Filter.Equal) == 0 {
			q.Filter.Equal = nil
		}
	} else {
		if q.Filter.Equal == nil {
			q.Filter.Equal = map[string]string{}
		}
		q.Filter.Equal[a.Field] = a.Value
	}
	return firstPage(q, sch), nil
}

func (a SetDateRange) reduce(sch schemas.Schema, q types.Query) (types.Query, error) {
	if a.Preset == "" {
		q.Filter.Date = nil
	} else {
		q.Filter.Date = &types.DateRange{Field: a.Field, Preset: a.Preset}
	}
	return firstPage(q, sch), nil
}

func (a SetBucket) reduce(sch schemas.Schema, q types.Query) (types.Query, error) {
	if a.Name == "" {
		q.Filter.Bucket = nil
		return firstPage(q, sch), nil
	}
	b, err := sch.Bucket(a.Field, a.Name)
	if err != nil {
		return q, err
	}
	q.Filter.Bucket = &types.BucketFilter{Field: a.Field, Bucket: b}
	return firstPage(q, sch), nil
}

func (a SetSort) reduce(sch schemas.Schema, q types.Query) (types.Query, error) {
	spec, err := sch.ParseSortKey(a.Key)
	if err != nil {
		return q, err
	}
	q.Sort = spec
	return firstPage(q, sch), nil
}

func (a SetPage) reduce(sch schemas.Schema, q types.Query) (types.Query, error) {
	if a.Number < 1 {
		return q, fmt.Errorf("%w: number %d", schemas.ErrInvalidPage, a.Number)
	}
	if q.Page == nil {
		q.Page = &types.PageSpec{Size: pageSize(sch)}
	}
	q.Page.Number = a.Number
	return q, nil
}

func (a SetPageSize) reduce(sch schemas.Schema, q types.Query) (types.Query, error) {
	if a.Size <= 0 {
		return q, fmt.Errorf("%w: size %d", schemas.ErrInvalidPage, a.Size)
	}
	q.Page = &types.PageSpec{Number: 1, Size: a.Size}
	return q, nil
}

func (Reset) reduce(sch schemas.Schema, q types.Query) (types.Query, error) {
	d := Default(sch)
	if q.Page != nil {
		d.Page.Size = q.Page.Size
	}
	return d, nil
}

func (a SetQuery) reduce(sch schemas.Schema, q types.Query) (types.Query, error) {
	next := clone(a.Query)
	if next.Page == nil {
		next.Page = &types.PageSpec{Number: 1, Size: pageSize(sch)}
	}
	return next, nil
}
