package state

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"farmFilters/catalog"
	"farmFilters/schemas"
	"farmFilters/source"
	"farmFilters/types"
)

var now = time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

func newStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	opts = append([]Option{WithClock(func() time.Time { return now })}, opts...)
	s := NewStore(catalog.Acquisitions(), opts...)
	_, err := s.Load(context.Background(), source.Static(catalog.AcquisitionRecords(catalog.SampleAcquisitions())))
	require.NoError(t, err)
	return s
}

func TestDefault(t *testing.T) {
	q := Default(catalog.Acquisitions())
	assert.Equal(t, &types.SortSpec{Field: "startDate", Dir: types.Desc}, q.Sort)
	assert.Equal(t, &types.PageSpec{Number: 1, Size: 9}, q.Page)
	assert.Zero(t, q.Filter.Active())
}

func TestFilterChangeReturnsToFirstPage(t *testing.T) {
	sch := catalog.Acquisitions()
	q := Default(sch)
	q, err := Reduce(sch, q, SetPage{Number: 2})
	require.NoError(t, err)
	require.Equal(t, 2, q.Page.Number)

	actions := []Action{
		SetSearch{Term: "farm"},
		SetEqual{Field: "status", Value: "Approved"},
		SetDateRange{Field: "startDate", Preset: types.LastYear},
		SetBucket{Field: "area", Name: "medium"},
		SetSort{Key: "area_asc"},
		SetPageSize{Size: 5},
	}
	for _, a := range actions {
		next, err := Reduce(sch, q, a)
		require.NoError(t, err, "%T", a)
		assert.Equal(t, 1, next.Page.Number, "%T", a)
	}
}

func TestReduceRejectsAndKeepsQuery(t *testing.T) {
	sch := catalog.Acquisitions()
	q := Default(sch)
	q.Filter.Search = "valley"

	tests := []struct {
		action  Action
		wantErr error
	}{
		{SetEqual{Field: "colour", Value: "red"}, schemas.ErrUnknownField},
		{SetEqual{Field: "area", Value: "20"}, schemas.ErrFieldKind},
		{SetDateRange{Field: "startDate", Preset: "lastweek"}, schemas.ErrUnknownPreset},
		{SetBucket{Field: "area", Name: "huge"}, schemas.ErrUnknownBucket},
		{SetSort{Key: "status_asc"}, schemas.ErrFieldKind},
		{SetSort{Key: "area"}, schemas.ErrBadSortKey},
		{SetPage{Number: 0}, schemas.ErrInvalidPage},
		{SetPageSize{Size: -1}, schemas.ErrInvalidPage},
	}
	for _, tt := range tests {
		next, err := Reduce(sch, q, tt.action)
		assert.ErrorIs(t, err, tt.wantErr, "%T", tt.action)
		assert.Equal(t, q, next, "%T", tt.action)
	}
}

func TestReduceDoesNotAliasInput(t *testing.T) {
	sch := catalog.Acquisitions()
	q, err := Reduce(sch, Default(sch), SetEqual{Field: "status", Value: "Approved"})
	require.NoError(t, err)

	next, err := Reduce(sch, q, SetEqual{Field: "purposeType", Value: "energy"})
	require.NoError(t, err)
	assert.Len(t, q.Filter.Equal, 1)
	assert.Len(t, next.Filter.Equal, 2)
}

func TestClearingFilters(t *testing.T) {
	sch := catalog.Acquisitions()
	q := Default(sch)
	for _, a := range []Action{
		SetEqual{Field: "status", Value: "Approved"},
		SetDateRange{Field: "startDate", Preset: types.Last30Days},
		SetBucket{Field: "area", Name: "small"},
		SetEqual{Field: "status"},
		SetDateRange{Field: "startDate"},
		SetBucket{Field: "area"},
	} {
		var err error
		q, err = Reduce(sch, q, a)
		require.NoError(t, err)
	}
	assert.Zero(t, q.Filter.Active())
	assert.Nil(t, q.Filter.Equal)
}

func TestReset(t *testing.T) {
	sch := catalog.Acquisitions()
	q := Default(sch)
	for _, a := range []Action{
		SetPageSize{Size: 4},
		SetSearch{Term: "farm"},
		SetSort{Key: "progress_desc"},
		SetPage{Number: 3},
	} {
		var err error
		q, err = Reduce(sch, q, a)
		require.NoError(t, err)
	}

	reset, err := Reduce(sch, q, Reset{})
	require.NoError(t, err)
	assert.Zero(t, reset.Filter.Active())
	assert.Equal(t, sch.DefaultSort, reset.Sort)
	assert.Equal(t, &types.PageSpec{Number: 1, Size: 4}, reset.Page)

	again, err := Reduce(sch, reset, Reset{})
	require.NoError(t, err)
	assert.Equal(t, reset, again)
}

func TestSetQuery(t *testing.T) {
	sch := catalog.Acquisitions()
	q, err := Reduce(sch, Default(sch), SetQuery{Query: types.Query{
		Filter: types.FilterSpec{Search: "valley"},
	}})
	require.NoError(t, err)
	assert.Equal(t, "valley", q.Filter.Search)
	assert.Equal(t, &types.PageSpec{Number: 1, Size: 9}, q.Page)

	_, err = Reduce(sch, q, SetQuery{Query: types.Query{Sort: &types.SortSpec{Field: "nope"}}})
	assert.ErrorIs(t, err, schemas.ErrUnknownField)
}

func TestStoreDispatch(t *testing.T) {
	s := newStore(t)

	res := s.Result()
	assert.Equal(t, 12, res.TotalMatched)
	assert.Equal(t, 2, res.TotalPages)
	assert.Len(t, res.Page, 9)

	res, err := s.Dispatch(SetEqual{Field: "status", Value: string(types.StatusApproved)})
	require.NoError(t, err)
	for _, r := range res.Matched {
		assert.Equal(t, "Approved", r.Categorical["status"])
	}

	res, err = s.Dispatch(SetSort{Key: "area_desc"})
	require.NoError(t, err)
	for i := 1; i < len(res.Matched); i++ {
		assert.GreaterOrEqual(t, res.Matched[i-1].Numeric["area"], res.Matched[i].Numeric["area"])
	}

	before := s.Result()
	_, err = s.Dispatch(SetSort{Key: "location_asc"})
	assert.Error(t, err)
	assert.Equal(t, before, s.Result())
	assert.Equal(t, "area", s.Query().Sort.Field)
}

func TestStoreHugePageIsEmpty(t *testing.T) {
	s := newStore(t)

	res, err := s.Dispatch(SetPage{Number: math.MaxInt/9 + 2})
	require.NoError(t, err)
	assert.NotNil(t, res.Page)
	assert.Empty(t, res.Page)
	assert.Equal(t, 12, res.TotalMatched)
	assert.Equal(t, 2, res.TotalPages)
}

func TestStoreRejectedActionIsLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	s := newStore(t, WithLogger(zap.New(core)))

	_, err := s.Dispatch(SetBucket{Field: "area", Name: "huge"})
	require.Error(t, err)
	require.Equal(t, 1, logs.FilterMessage("action rejected").Len())
}

func TestStoreRefreshUsesClock(t *testing.T) {
	clock := now
	s := NewStore(catalog.Acquisitions(), WithClock(func() time.Time { return clock }))
	recs := []types.Record{{ID: "a", Dates: map[string]time.Time{"startDate": now.AddDate(0, 0, -20)}}}
	_, err := s.Load(context.Background(), source.Static(recs))
	require.NoError(t, err)

	res, err := s.Dispatch(SetDateRange{Field: "startDate", Preset: types.Last30Days})
	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalMatched)

	clock = now.AddDate(0, 0, 15)
	assert.Equal(t, 0, s.Refresh().TotalMatched)
}

func TestStoreLoadError(t *testing.T) {
	s := NewStore(catalog.Acquisitions())
	boom := errors.New("boom")
	_, err := s.Load(context.Background(), source.Func(func(context.Context) ([]types.Record, error) {
		return nil, boom
	}))
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, s.Records())
}
