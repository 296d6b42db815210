package builders

import (
	"fmt"
	"slices"
	"time"

	sq "github.com/Masterminds/squirrel"

	"farmFilters/schemas"
	"farmFilters/types"
	"farmFilters/utils"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// BuildSelect translates q into a Postgres SELECT over the schema's table,
// with the same semantics as the in-memory pipeline. A nil Page selects
// every matching row. Relative date ranges are resolved against now.
func BuildSelect(q types.Query, sch schemas.Schema, now time.Time) (string, []any, error) {
	if err := sch.Validate(q); err != nil {
		return "", nil, err
	}

	cols := sch.Columns()
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = utils.QuoteIdentPG(c)
	}

	sb := psql.Select(quoted...).From(utils.QuoteIdentPG(sch.Table))
	sb, err := where(sb, q.Filter, sch, now)
	if err != nil {
		return "", nil, err
	}

	// tie-break по PK: rows with equal keys stay in load order
	pk := utils.QuoteIdentPG(cols[0])
	if q.Sort != nil {
		f, _ := sch.Field(q.Sort.Field)
		dir := " ASC"
		if q.Sort.Dir == types.Desc {
			dir = " DESC"
		}
		sb = sb.OrderBy(utils.QuoteIdentPG(f.Column)+dir, pk+" ASC")
	} else {
		sb = sb.OrderBy(pk + " ASC")
	}

	if q.Page != nil {
		p := q.Page.Normalize()
		sb = sb.Limit(uint64(p.Size)).Offset(uint64(p.Offset()))
	}

	return sb.ToSql()
}

// BuildCount counts the rows BuildSelect would match, ignoring sort and page.
func BuildCount(q types.Query, sch schemas.Schema, now time.Time) (string, []any, error) {
	q.Sort, q.Page = nil, nil
	if err := sch.Validate(q); err != nil {
		return "", nil, err
	}
	sb := psql.Select("count(*)").From(utils.QuoteIdentPG(sch.Table))
	sb, err := where(sb, q.Filter, sch, now)
	if err != nil {
		return "", nil, err
	}
	return sb.ToSql()
}

func column(sch schemas.Schema, name string) (string, error) {
	f, ok := sch.Field(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", schemas.ErrUnknownField, name)
	}
	return utils.QuoteIdentPG(f.Column), nil
}

func where(sb sq.SelectBuilder, f types.FilterSpec, sch schemas.Schema, now time.Time) (sq.SelectBuilder, error) {
	if f.Search != "" {
		or := sq.Or{}
		pattern := utils.ContainsPattern(f.Search)
		for _, name := range sch.Searchable {
			col, err := column(sch, name)
			if err != nil {
				return sb, err
			}
			or = append(or, sq.ILike{col: pattern})
		}
		sb = sb.Where(or)
	}

	keys := make([]string, 0, len(f.Equal))
	for k := range f.Equal {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		col, err := column(sch, k)
		if err != nil {
			return sb, err
		}
		sb = sb.Where(sq.Eq{col: f.Equal[k]})
	}

	if d := f.Date; d != nil {
		col, err := column(sch, d.Field)
		if err != nil {
			return sb, err
		}
		sb = sb.Where(sq.GtOrEq{col: d.LowerBound(now)})
	}

	if b := f.Bucket; b != nil {
		col, err := column(sch, b.Field)
		if err != nil {
			return sb, err
		}
		if !b.Bucket.LowerOpen() {
			sb = sb.Where(sq.GtOrEq{col: b.Bucket.Min})
		}
		if !b.Bucket.UpperOpen() {
			sb = sb.Where(sq.Lt{col: b.Bucket.Max})
		}
	}
	return sb, nil
}
