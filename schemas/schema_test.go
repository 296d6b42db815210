package schemas

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmFilters/types"
)

func testSchema() Schema {
	return Schema{
		Name:  "acquisitions",
		Table: "land_acquisitions",
		Fields: []Field{
			{Name: "parcelId", Column: "parcel_id", Kind: types.KindText},
			{Name: "location", Column: "location", Kind: types.KindText},
			{Name: "status", Column: "status", Kind: types.KindCategorical},
			{Name: "area", Column: "area", Kind: types.KindNumeric},
			{Name: "progressPercentage", Column: "progress_percentage", Kind: types.KindNumeric},
			{Name: "startDate", Column: "start_date", Kind: types.KindDate},
		},
		Searchable: []string{"parcelId", "location"},
		Buckets: map[string][]types.Bucket{
			"area": {
				types.NewBucket("small", math.Inf(-1), 20),
				types.NewBucket("medium", 20, 30),
				types.NewBucket("large", 30, math.Inf(1)),
			},
		},
		Aliases:     map[string]string{"progress": "progressPercentage"},
		DefaultSort: &types.SortSpec{Field: "startDate", Dir: types.Desc},
		PageSize:    9,
	}
}

func TestColumns(t *testing.T) {
	assert.Equal(t, []string{"id", "parcel_id", "location", "status", "area", "progress_percentage", "start_date"}, testSchema().Columns())
}

func TestParseSortKey(t *testing.T) {
	sch := testSchema()
	tests := []struct {
		key     string
		want    *types.SortSpec
		wantErr error
	}{
		{key: "startDate_desc", want: &types.SortSpec{Field: "startDate", Dir: types.Desc}},
		{key: "area_asc", want: &types.SortSpec{Field: "area", Dir: types.Asc}},
		{key: "progress_desc", want: &types.SortSpec{Field: "progressPercentage", Dir: types.Desc}},
		{key: "area_sideways", wantErr: ErrBadSortKey},
		{key: "area", wantErr: ErrBadSortKey},
		{key: "_desc", wantErr: ErrBadSortKey},
		{key: "height_desc", wantErr: ErrUnknownField},
		{key: "status_asc", wantErr: ErrFieldKind},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := sch.ParseSortKey(tt.key)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBucket(t *testing.T) {
	sch := testSchema()

	b, err := sch.Bucket("area", "medium")
	require.NoError(t, err)
	assert.Equal(t, 20.0, b.Min)
	assert.Equal(t, 30.0, b.Max)

	_, err = sch.Bucket("area", "huge")
	assert.ErrorIs(t, err, ErrUnknownBucket)
	_, err = sch.Bucket("status", "small")
	assert.ErrorIs(t, err, ErrFieldKind)
	_, err = sch.Bucket("depth", "small")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestValidate(t *testing.T) {
	sch := testSchema()
	medium := types.NewBucket("medium", 20, 30)
	tests := []struct {
		name    string
		q       types.Query
		wantErr []error
	}{
		{name: "zero query", q: types.Query{}},
		{
			name: "full valid query",
			q: types.Query{
				Filter: types.FilterSpec{
					Search: "valley",
					Equal:  map[string]string{"status": "Approved"},
					Date:   &types.DateRange{Field: "startDate", Preset: types.Last90Days},
					Bucket: &types.BucketFilter{Field: "area", Bucket: medium},
				},
				Sort: &types.SortSpec{Field: "area", Dir: types.Desc},
				Page: &types.PageSpec{Number: 1, Size: 9},
			},
		},
		{
			name:    "unknown equality field",
			q:       types.Query{Filter: types.FilterSpec{Equal: map[string]string{"colour": "red"}}},
			wantErr: []error{ErrUnknownField},
		},
		{
			name:    "equality on numeric field",
			q:       types.Query{Filter: types.FilterSpec{Equal: map[string]string{"area": "20"}}},
			wantErr: []error{ErrFieldKind},
		},
		{
			name:    "empty equality value",
			q:       types.Query{Filter: types.FilterSpec{Equal: map[string]string{"status": ""}}},
			wantErr: []error{ErrEmptyValue},
		},
		{
			name:    "unknown preset",
			q:       types.Query{Filter: types.FilterSpec{Date: &types.DateRange{Field: "startDate", Preset: "lastweek"}}},
			wantErr: []error{ErrUnknownPreset},
		},
		{
			name:    "date without bound",
			q:       types.Query{Filter: types.FilterSpec{Date: &types.DateRange{Field: "startDate"}}},
			wantErr: []error{ErrEmptyRange},
		},
		{
			name:    "date range on text field",
			q:       types.Query{Filter: types.FilterSpec{Date: &types.DateRange{Field: "location", Preset: types.LastYear}}},
			wantErr: []error{ErrFieldKind},
		},
		{
			name:    "inverted bucket",
			q:       types.Query{Filter: types.FilterSpec{Bucket: &types.BucketFilter{Field: "area", Bucket: types.NewBucket("odd", 30, 20)}}},
			wantErr: []error{ErrEmptyRange},
		},
		{
			name:    "sort on categorical",
			q:       types.Query{Sort: &types.SortSpec{Field: "status"}},
			wantErr: []error{ErrFieldKind},
		},
		{
			name:    "bad page",
			q:       types.Query{Page: &types.PageSpec{Number: 0, Size: 0}},
			wantErr: []error{ErrInvalidPage},
		},
		{
			name: "several errors at once",
			q: types.Query{
				Filter: types.FilterSpec{Equal: map[string]string{"colour": "red"}},
				Sort:   &types.SortSpec{Field: "height"},
			},
			wantErr: []error{ErrUnknownField},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := sch.Validate(tt.q)
			if len(tt.wantErr) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, want := range tt.wantErr {
				assert.ErrorIs(t, err, want)
			}
			var verrs ValidationErrors
			assert.True(t, errors.As(err, &verrs))
		})
	}
}

func TestValidateSearchWithoutSearchableFields(t *testing.T) {
	sch := testSchema()
	sch.Searchable = nil

	err := sch.Validate(types.Query{Filter: types.FilterSpec{Search: "valley"}})
	require.ErrorIs(t, err, ErrNotSearchable)
	assert.Contains(t, err.Error(), "filter.search")

	assert.NoError(t, sch.Validate(types.Query{}))
}

func TestValidationErrorsMessage(t *testing.T) {
	err := testSchema().Validate(types.Query{
		Filter: types.FilterSpec{Equal: map[string]string{"colour": "red"}},
		Page:   &types.PageSpec{Number: -1, Size: 5},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 validation errors")
	assert.Contains(t, err.Error(), "filter.equal.colour")
	assert.Contains(t, err.Error(), "page.number")
}

func TestNewRecord(t *testing.T) {
	sch := testSchema()
	row := map[string]any{
		"id":                 "acq-001",
		"parcelId":           "F28-74-92",
		"location":           "North Valley",
		"status":             "Approved",
		"area":               json.Number("24.5"),
		"progressPercentage": int8(30),
		"startDate":          "2025-03-15",
	}

	rec, err := sch.NewRecord(row)
	require.NoError(t, err)
	assert.Equal(t, "acq-001", rec.ID)
	assert.Equal(t, map[string]string{"status": "Approved"}, rec.Categorical)
	assert.Equal(t, map[string]float64{"area": 24.5, "progressPercentage": 30}, rec.Numeric)
	assert.True(t, rec.Dates["startDate"].Equal(time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, []string{"F28-74-92", "North Valley"}, rec.Searchable)
}

func TestNewRecordMissingFields(t *testing.T) {
	rec, err := testSchema().NewRecord(map[string]any{"id": "x", "area": nil})
	require.NoError(t, err)
	assert.Nil(t, rec.Numeric)
	assert.Nil(t, rec.Categorical)
	assert.Equal(t, []string{"", ""}, rec.Searchable)
}

func TestNewRecordErrors(t *testing.T) {
	sch := testSchema()
	tests := []struct {
		name string
		row  map[string]any
	}{
		{"no id", map[string]any{"status": "Approved"}},
		{"numeric as bool", map[string]any{"id": "x", "area": true}},
		{"bad date", map[string]any{"id": "x", "startDate": "15/03/2025"}},
		{"text as number", map[string]any{"id": "x", "status": 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sch.NewRecord(tt.row)
			assert.Error(t, err)
		})
	}
}
