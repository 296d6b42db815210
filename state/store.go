// Package state holds the list-screen state explicitly: a query reduced
// from user actions and the result derived from it.
package state

import (
	"context"
	"slices"
	"time"

	"go.uber.org/zap"

	"farmFilters/pipeline"
	"farmFilters/schemas"
	"farmFilters/source"
	"farmFilters/types"
)

// Store owns one dataset's records, the current query and the last result.
// It is not safe for concurrent use; the caller serialises dispatches.
type Store struct {
	schema  schemas.Schema
	records []types.Record
	query   types.Query
	result  types.Result
	log     *zap.Logger
	now     func() time.Time
}

type Option func(*Store)

func WithLogger(log *zap.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithClock fixes the time used to resolve relative date ranges.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(sch schemas.Schema, opts ...Option) *Store {
	s := &Store{schema: sch, query: Default(sch), log: zap.NewNop(), now: time.Now}
	for _, o := range opts {
		o(s)
	}
	s.recompute()
	return s
}

// Load replaces the record set from src and re-derives the result.
func (s *Store) Load(ctx context.Context, src source.Source) (types.Result, error) {
	recs, err := src.Load(ctx)
	if err != nil {
		return s.result, err
	}
	s.records = recs
	s.log.Info("records loaded", zap.String("dataset", s.schema.Name), zap.Int("count", len(recs)))
	s.recompute()
	return s.result, nil
}

// Dispatch reduces a into the current query and re-evaluates. A rejected
// action leaves both query and result as they were.
func (s *Store) Dispatch(a Action) (types.Result, error) {
	next, err := Reduce(s.schema, s.query, a)
	if err != nil {
		s.log.Warn("action rejected", zap.String("dataset", s.schema.Name), zap.Any("action", a), zap.Error(err))
		return s.result, err
	}
	s.query = next
	s.recompute()
	s.log.Debug("action applied",
		zap.String("dataset", s.schema.Name),
		zap.Any("action", a),
		zap.Int("matched", s.result.TotalMatched),
		zap.Int("page", s.result.PageNumber),
		zap.Int("pages", s.result.TotalPages))
	return s.result, nil
}

// Refresh re-evaluates without changing the query, picking up the current
// time for relative date ranges.
func (s *Store) Refresh() types.Result {
	s.recompute()
	return s.result
}

func (s *Store) recompute() {
	s.result = pipeline.EvaluateAt(s.records, s.query, s.now())
}

func (s *Store) Query() types.Query { return clone(s.query) }

func (s *Store) Result() types.Result { return s.result }

func (s *Store) Records() []types.Record { return slices.Clone(s.records) }

func (s *Store) Schema() schemas.Schema { return s.schema }
