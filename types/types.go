package types

import (
	"math"
	"time"
)

// ColType is a Postgres column type family, as reported by information_schema.
type ColType int

const (
	ColUnknown ColType = iota
	ColText
	ColNumeric
	ColBool
	ColTime
	ColUUID
	ColJSON
)

// FieldKind says how the pipeline may use a record field. Text fields are
// only searchable; categorical fields are equality-matched and may also be
// searchable; numeric and date fields carry range filters and sort keys.
type FieldKind int

const (
	KindUnknown FieldKind = iota
	KindText
	KindCategorical
	KindNumeric
	KindDate
)

func (k FieldKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindCategorical:
		return "categorical"
	case KindNumeric:
		return "numeric"
	case KindDate:
		return "date"
	default:
		return "unknown"
	}
}

// Sortable reports whether a field of this kind can be a sort key.
func (k FieldKind) Sortable() bool {
	return k == KindNumeric || k == KindDate
}

type SortDir int

const (
	Asc SortDir = iota
	Desc
)

func (d SortDir) String() string {
	if d == Desc {
		return "desc"
	}
	return "asc"
}

// Record is one monitored entity flowing through the pipeline.
// Searchable holds the text values eligible for substring search, in schema order.
type Record struct {
	ID          string               `json:"id"`
	Categorical map[string]string    `json:"categorical,omitempty"`
	Numeric     map[string]float64   `json:"numeric,omitempty"`
	Dates       map[string]time.Time `json:"dates,omitempty"`
	Searchable  []string             `json:"searchable,omitempty"`
}

// RangePreset is a relative date-range lower bound.
type RangePreset string

const (
	Last30Days  RangePreset = "last30days"
	Last90Days  RangePreset = "last90days"
	Last6Months RangePreset = "last6months"
	LastYear    RangePreset = "lastyear"
)

func (p RangePreset) IsValid() bool {
	switch p {
	case Last30Days, Last90Days, Last6Months, LastYear:
		return true
	}
	return false
}

// Since returns the lower bound of the preset relative to now.
func (p RangePreset) Since(now time.Time) time.Time {
	switch p {
	case Last30Days:
		return now.AddDate(0, 0, -30)
	case Last90Days:
		return now.AddDate(0, 0, -90)
	case Last6Months:
		return now.AddDate(0, -6, 0)
	case LastYear:
		return now.AddDate(-1, 0, 0)
	default:
		return time.Time{}
	}
}

// DateRange keeps records whose Field is at or after the lower bound.
// Preset wins over Since; a preset is resolved on every evaluation.
type DateRange struct {
	Field  string      `json:"field"`
	Preset RangePreset `json:"preset,omitempty"`
	Since  time.Time   `json:"since,omitzero"`
}

func (r DateRange) LowerBound(now time.Time) time.Time {
	if r.Preset != "" {
		return r.Preset.Since(now)
	}
	return r.Since
}

// Bucket is a named half-open numeric range [Min, Max).
type Bucket struct {
	Name string  `json:"name"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// NewBucket builds a bucket; use math.Inf for open ends.
func NewBucket(name string, lo, hi float64) Bucket {
	return Bucket{Name: name, Min: lo, Max: hi}
}

func (b Bucket) Contains(v float64) bool {
	return v >= b.Min && v < b.Max
}

func (b Bucket) LowerOpen() bool { return math.IsInf(b.Min, -1) }
func (b Bucket) UpperOpen() bool { return math.IsInf(b.Max, 1) }

type BucketFilter struct {
	Field  string `json:"field"`
	Bucket Bucket `json:"bucket"`
}

// FilterSpec is the set of active predicates; the zero value matches everything.
type FilterSpec struct {
	Search string            `json:"search,omitempty"`
	Equal  map[string]string `json:"equal,omitempty"`
	Date   *DateRange        `json:"date,omitempty"`
	Bucket *BucketFilter     `json:"bucket,omitempty"`
}

// Active counts the predicates that constrain the result.
func (f FilterSpec) Active() int {
	n := len(f.Equal)
	if f.Search != "" {
		n++
	}
	if f.Date != nil {
		n++
	}
	if f.Bucket != nil {
		n++
	}
	return n
}

type SortSpec struct {
	Field string  `json:"field"`
	Dir   SortDir `json:"dir"`
}

const DefaultPageSize = 10

type PageSpec struct {
	Number int `json:"number"`
	Size   int `json:"size"`
}

// Normalize returns a page spec with Number >= 1 and Size > 0.
func (p PageSpec) Normalize() PageSpec {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	return p
}

// Offset is the zero-based index of the first record on the page. It
// saturates at math.MaxInt instead of overflowing.
func (p PageSpec) Offset() int {
	p = p.Normalize()
	if p.Number-1 > math.MaxInt/p.Size {
		return math.MaxInt
	}
	return (p.Number - 1) * p.Size
}

type Query struct {
	Filter FilterSpec `json:"filter"`
	Sort   *SortSpec  `json:"sort,omitempty"`
	Page   *PageSpec  `json:"page,omitempty"`
}

type Result struct {
	Matched      []Record `json:"matched"`
	Page         []Record `json:"page"`
	TotalMatched int      `json:"total_matched"`
	TotalPages   int      `json:"total_pages"`
	PageNumber   int      `json:"page_number"`
	PageSize     int      `json:"page_size"`
}
