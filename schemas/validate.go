package schemas

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"farmFilters/types"
)

var (
	ErrUnknownField  = errors.New("unknown field")
	ErrFieldKind     = errors.New("wrong field kind")
	ErrUnknownPreset = errors.New("unknown date range preset")
	ErrUnknownBucket = errors.New("unknown bucket")
	ErrEmptyRange    = errors.New("empty range")
	ErrEmptyValue    = errors.New("empty filter value")
	ErrBadSortKey    = errors.New("bad sort key")
	ErrInvalidPage   = errors.New("invalid page")
	ErrNotSearchable = errors.New("no searchable fields")
)

// ValidationError ties a configuration error to the part of the query that caused it.
type ValidationError struct {
	Path string
	Err  error
}

func (e ValidationError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

func (e ValidationError) Unwrap() error { return e.Err }

type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 1 {
		return e[0].Error()
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:", len(e)))
	for _, err := range e {
		sb.WriteString("\n  ")
		sb.WriteString(err.Error())
	}
	return sb.String()
}

func (e ValidationErrors) Unwrap() []error {
	out := make([]error, len(e))
	for i := range e {
		out[i] = e[i]
	}
	return out
}

// Validate rejects queries naming fields that are absent from the schema or
// of the wrong kind. It is meant to run when a query is built, before the
// pipeline sees it.
func (s Schema) Validate(q types.Query) error {
	var errs ValidationErrors
	add := func(path string, err error) {
		if err != nil {
			errs = append(errs, ValidationError{Path: path, Err: err})
		}
	}

	if q.Filter.Search != "" && len(s.Searchable) == 0 {
		add("filter.search", fmt.Errorf("%w in %q", ErrNotSearchable, s.Name))
	}

	keys := make([]string, 0, len(q.Filter.Equal))
	for k := range q.Filter.Equal {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		add("filter.equal."+k, s.validateEqual(k, q.Filter.Equal[k]))
	}
	if d := q.Filter.Date; d != nil {
		add("filter.date", s.validateDate(*d))
	}
	if b := q.Filter.Bucket; b != nil {
		add("filter.bucket", s.validateBucket(*b))
	}
	if q.Sort != nil {
		add("sort", s.validateSort(q.Sort))
	}
	if p := q.Page; p != nil {
		if p.Number < 1 {
			add("page.number", fmt.Errorf("%w: number %d", ErrInvalidPage, p.Number))
		}
		if p.Size <= 0 {
			add("page.size", fmt.Errorf("%w: size %d", ErrInvalidPage, p.Size))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (s Schema) requireKind(name string, kinds ...types.FieldKind) error {
	f, ok := s.Field(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	if !slices.Contains(kinds, f.Kind) {
		return fmt.Errorf("%w: %q is %s", ErrFieldKind, name, f.Kind)
	}
	return nil
}

func (s Schema) validateEqual(field, value string) error {
	if err := s.requireKind(field, types.KindCategorical); err != nil {
		return err
	}
	if value == "" {
		return ErrEmptyValue
	}
	return nil
}

func (s Schema) validateDate(d types.DateRange) error {
	if err := s.requireKind(d.Field, types.KindDate); err != nil {
		return err
	}
	if d.Preset != "" {
		if !d.Preset.IsValid() {
			return fmt.Errorf("%w: %q", ErrUnknownPreset, d.Preset)
		}
		return nil
	}
	if d.Since.IsZero() {
		return fmt.Errorf("%w: no lower bound", ErrEmptyRange)
	}
	return nil
}

func (s Schema) validateBucket(b types.BucketFilter) error {
	if err := s.requireKind(b.Field, types.KindNumeric); err != nil {
		return err
	}
	if !(b.Bucket.Min < b.Bucket.Max) {
		return fmt.Errorf("%w: [%g, %g)", ErrEmptyRange, b.Bucket.Min, b.Bucket.Max)
	}
	return nil
}

func (s Schema) validateSort(spec *types.SortSpec) error {
	if err := s.requireKind(spec.Field, types.KindNumeric, types.KindDate); err != nil {
		return err
	}
	if spec.Dir != types.Asc && spec.Dir != types.Desc {
		return fmt.Errorf("%w: direction %d", ErrBadSortKey, spec.Dir)
	}
	return nil
}
