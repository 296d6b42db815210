// Package views persists named list configurations ("saved views").
//
// A view stores the user's choices, not a resolved query: a relative date
// preset stays relative and is re-resolved every time the view is evaluated.
// Pin converts it into an absolute lower bound instead.
package views

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"time"

	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"

	"farmFilters/schemas"
	"farmFilters/types"
)

var (
	ErrViewNotFound = errors.New("view not found")
	ErrViewName     = errors.New("view name is required")
)

type View struct {
	Dataset     string            `json:"dataset"`
	Search      string            `json:"search,omitempty"`
	Equal       map[string]string `json:"equal,omitempty"`
	DateField   string            `json:"date_field,omitempty"`
	DatePreset  types.RangePreset `json:"date_preset,omitempty"`
	Since       *time.Time        `json:"since,omitempty"`
	BucketField string            `json:"bucket_field,omitempty"`
	Bucket      string            `json:"bucket,omitempty"`
	Sort        string            `json:"sort,omitempty"`
	PageSize    int               `json:"page_size,omitempty"`
}

// Query resolves the view against its dataset schema. Unknown fields,
// buckets or sort keys are configuration errors.
func (v View) Query(sch schemas.Schema) (types.Query, error) {
	if v.Dataset != sch.Name {
		return types.Query{}, fmt.Errorf("view is for %q, not %q", v.Dataset, sch.Name)
	}
	q := types.Query{
		Filter: types.FilterSpec{Search: v.Search, Equal: maps.Clone(v.Equal)},
	}
	if sch.DefaultSort != nil {
		s := *sch.DefaultSort
		q.Sort = &s
	}
	if v.DateField != "" {
		d := &types.DateRange{Field: v.DateField, Preset: v.DatePreset}
		if v.DatePreset == "" && v.Since != nil {
			d.Since = *v.Since
		}
		q.Filter.Date = d
	}
	if v.BucketField != "" {
		b, err := sch.Bucket(v.BucketField, v.Bucket)
		if err != nil {
			return types.Query{}, err
		}
		q.Filter.Bucket = &types.BucketFilter{Field: v.BucketField, Bucket: b}
	}
	if v.Sort != "" {
		s, err := sch.ParseSortKey(v.Sort)
		if err != nil {
			return types.Query{}, err
		}
		q.Sort = s
	}
	size := v.PageSize
	if size <= 0 {
		size = sch.PageSize
	}
	q.Page = &types.PageSpec{Number: 1, Size: size}
	q.Page.Size = q.Page.Normalize().Size

	if err := sch.Validate(q); err != nil {
		return types.Query{}, err
	}
	return q, nil
}

// Pin freezes a relative date preset into an absolute lower bound at now.
func (v View) Pin(now time.Time) View {
	if v.DatePreset == "" {
		return v
	}
	since := v.DatePreset.Since(now)
	v.Since = &since
	v.DatePreset = ""
	return v
}

// Store is a JSONC file of views keyed by name. Every call reads the file
// afresh; writes replace it atomically.
type Store struct {
	Path string
}

func (s Store) Load() (map[string]View, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]View{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read views: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]View{}, nil
	}
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("invalid JSONC in %s: %w", s.Path, err)
	}
	var out map[string]View
	if err := json.Unmarshal(std, &out); err != nil {
		return nil, fmt.Errorf("parse views %s: %w", s.Path, err)
	}
	if out == nil {
		out = map[string]View{}
	}
	return out, nil
}

func (s Store) Get(name string) (View, error) {
	all, err := s.Load()
	if err != nil {
		return View{}, err
	}
	v, ok := all[name]
	if !ok {
		return View{}, fmt.Errorf("%w: %q", ErrViewNotFound, name)
	}
	return v, nil
}

// Names lists the saved views in sorted order.
func (s Store) Names() ([]string, error) {
	all, err := s.Load()
	if err != nil {
		return nil, err
	}
	return slices.Sorted(maps.Keys(all)), nil
}

func (s Store) Save(name string, v View) error {
	if name == "" {
		return ErrViewName
	}
	all, err := s.Load()
	if err != nil {
		return err
	}
	all[name] = v
	return s.write(all)
}

func (s Store) Delete(name string) error {
	all, err := s.Load()
	if err != nil {
		return err
	}
	if _, ok := all[name]; !ok {
		return fmt.Errorf("%w: %q", ErrViewNotFound, name)
	}
	delete(all, name)
	return s.write(all)
}

func (s Store) write(all map[string]View) error {
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("encode views: %w", err)
	}
	data = append(data, '\n')
	if err := atomic.WriteFile(s.Path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write views: %w", err)
	}
	return nil
}
