// Package source supplies record sets to the pipeline and exposes the
// analysis workflow as an injected capability.
package source

import (
	"context"
	"errors"
	"slices"

	"farmFilters/types"
)

var ErrNotFound = errors.New("not found")

// Source loads a complete, finite record set.
type Source interface {
	Load(ctx context.Context) ([]types.Record, error)
}

// Static serves a fixed record set.
type Static []types.Record

func (s Static) Load(ctx context.Context) ([]types.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slices.Clone([]types.Record(s)), nil
}

// Func adapts a plain function to Source.
type Func func(ctx context.Context) ([]types.Record, error)

func (f Func) Load(ctx context.Context) ([]types.Record, error) { return f(ctx) }
