package schemas

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"farmFilters/types"
)

// IDKey is the row key (and default column) holding the record identifier.
const IDKey = "id"

type Field struct {
	Name   string
	Column string
	Kind   types.FieldKind
}

// Schema describes one dataset: its fields, which of them are searchable,
// the named numeric buckets and the default ordering restored on reset.
type Schema struct {
	Name        string
	Table       string
	IDColumn    string
	Fields      []Field
	Searchable  []string
	Buckets     map[string][]types.Bucket
	Aliases     map[string]string // sort-key alias -> field name
	DefaultSort *types.SortSpec
	PageSize    int
}

func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func (s Schema) idColumn() string {
	if s.IDColumn != "" {
		return s.IDColumn
	}
	return IDKey
}

// Columns returns the SQL columns in schema order, id first.
func (s Schema) Columns() []string {
	cols := make([]string, 0, len(s.Fields)+1)
	cols = append(cols, s.idColumn())
	for _, f := range s.Fields {
		cols = append(cols, f.Column)
	}
	return cols
}

// Bucket resolves a named bucket of a numeric field.
func (s Schema) Bucket(field, name string) (types.Bucket, error) {
	f, ok := s.Field(field)
	if !ok {
		return types.Bucket{}, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	if f.Kind != types.KindNumeric {
		return types.Bucket{}, fmt.Errorf("%w: bucket on %s field %q", ErrFieldKind, f.Kind, field)
	}
	for _, b := range s.Buckets[field] {
		if b.Name == name {
			return b, nil
		}
	}
	return types.Bucket{}, fmt.Errorf("%w: %q for field %q", ErrUnknownBucket, name, field)
}

// ParseSortKey resolves keys of the form "<field>_<asc|desc>", e.g.
// "startDate_desc". The field part may be an alias.
func (s Schema) ParseSortKey(key string) (*types.SortSpec, error) {
	i := strings.LastIndexByte(key, '_')
	if i <= 0 {
		return nil, fmt.Errorf("%w: %q", ErrBadSortKey, key)
	}
	name, dir := key[:i], key[i+1:]
	if alias, ok := s.Aliases[name]; ok {
		name = alias
	}
	spec := &types.SortSpec{Field: name}
	switch dir {
	case "asc":
		spec.Dir = types.Asc
	case "desc":
		spec.Dir = types.Desc
	default:
		return nil, fmt.Errorf("%w: %q", ErrBadSortKey, key)
	}
	if err := s.validateSort(spec); err != nil {
		return nil, err
	}
	return spec, nil
}

// NewRecord converts a raw row keyed by field name into a Record. Missing
// fields are left out; values of the wrong shape are rejected.
func (s Schema) NewRecord(row map[string]any) (types.Record, error) {
	id, err := toString(row[IDKey])
	if err != nil || id == "" {
		return types.Record{}, fmt.Errorf("%s: row without %q", s.Name, IDKey)
	}
	rec := types.Record{ID: id}
	text := map[string]string{}
	for _, f := range s.Fields {
		v, ok := row[f.Name]
		if !ok || v == nil {
			continue
		}
		switch f.Kind {
		case types.KindText, types.KindCategorical:
			str, err := toString(v)
			if err != nil {
				return types.Record{}, fmt.Errorf("%s %s: field %q: %w", s.Name, id, f.Name, err)
			}
			text[f.Name] = str
			if f.Kind == types.KindCategorical {
				if rec.Categorical == nil {
					rec.Categorical = map[string]string{}
				}
				rec.Categorical[f.Name] = str
			}
		case types.KindNumeric:
			n, err := toFloat(v)
			if err != nil {
				return types.Record{}, fmt.Errorf("%s %s: field %q: %w", s.Name, id, f.Name, err)
			}
			if rec.Numeric == nil {
				rec.Numeric = map[string]float64{}
			}
			rec.Numeric[f.Name] = n
		case types.KindDate:
			t, err := toTime(v)
			if err != nil {
				return types.Record{}, fmt.Errorf("%s %s: field %q: %w", s.Name, id, f.Name, err)
			}
			if rec.Dates == nil {
				rec.Dates = map[string]time.Time{}
			}
			rec.Dates[f.Name] = t
		}
	}
	if len(s.Searchable) > 0 {
		rec.Searchable = make([]string, len(s.Searchable))
		for i, name := range s.Searchable {
			rec.Searchable[i] = text[name]
		}
	}
	return rec, nil
}

func toString(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case []byte:
		return string(x), nil
	case fmt.Stringer:
		return x.String(), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("expected string, got %T", v)
	}
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int8:
		return float64(x), nil
	case int16:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint:
		return float64(x), nil
	case uint8:
		return float64(x), nil
	case uint16:
		return float64(x), nil
	case uint32:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	case json.Number:
		return x.Float64()
	case string:
		return strconv.ParseFloat(x, 64)
	default:
		return 0, fmt.Errorf("expected number, got %T", v)
	}
}

var dateLayouts = []string{time.RFC3339Nano, time.DateTime, time.DateOnly}

func toTime(v any) (time.Time, error) {
	switch x := v.(type) {
	case time.Time:
		return x, nil
	case string:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, x); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("unparseable date %q", x)
	default:
		return time.Time{}, fmt.Errorf("expected date, got %T", v)
	}
}
