package source

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"go.uber.org/zap"

	"farmFilters/builders"
	"farmFilters/pipeline"
	"farmFilters/schemas"
	"farmFilters/types"
)

// Postgres reads a dataset from its table. Load returns the whole table for
// in-memory evaluation; Query pushes a query down to the database.
type Postgres struct {
	db     *sql.DB
	schema schemas.Schema
	log    *zap.Logger
	now    func() time.Time
}

// OpenPostgres connects with the pgx driver and checks the table layout.
func OpenPostgres(ctx context.Context, dsn string, sch schemas.Schema, log *zap.Logger) (*Postgres, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	p, err := NewPostgres(ctx, db, sch, log)
	if err != nil {
		db.Close()
		return nil, err
	}
	return p, nil
}

// NewPostgres wraps an open database. It fails if the table does not
// conform to the schema.
func NewPostgres(ctx context.Context, db *sql.DB, sch schemas.Schema, log *zap.Logger) (*Postgres, error) {
	if log == nil {
		log = zap.NewNop()
	}
	tab, err := schemas.LoadTable(ctx, db, sch.Table)
	if err != nil {
		return nil, err
	}
	if err := sch.Conform(tab); err != nil {
		return nil, fmt.Errorf("%s: %w", sch.Name, err)
	}
	log.Debug("table conforms", zap.String("dataset", sch.Name), zap.String("table", sch.Table), zap.Int("columns", len(tab.Columns)))
	return &Postgres{db: db, schema: sch, log: log, now: time.Now}, nil
}

func (p *Postgres) DB() *sql.DB { return p.db }

func (p *Postgres) Close() error { return p.db.Close() }

func (p *Postgres) Load(ctx context.Context) ([]types.Record, error) {
	sqlStr, args, err := builders.BuildSelect(types.Query{}, p.schema, p.now())
	if err != nil {
		return nil, err
	}
	recs, err := p.selectRecords(ctx, sqlStr, args)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", p.schema.Name, err)
	}
	p.log.Debug("loaded records", zap.String("dataset", p.schema.Name), zap.Int("count", len(recs)))
	return recs, nil
}

// Query evaluates q in the database. The result carries the requested page
// and the total count; Matched is left nil since the full set never leaves
// the database.
func (p *Postgres) Query(ctx context.Context, q types.Query) (types.Result, error) {
	page := types.PageSpec{}
	if q.Page != nil {
		page = *q.Page
	}
	page = page.Normalize()
	q.Page = &page
	if err := p.schema.Validate(q); err != nil {
		return types.Result{}, err
	}
	now := p.now()

	countSQL, countArgs, err := builders.BuildCount(q, p.schema, now)
	if err != nil {
		return types.Result{}, err
	}
	var total int
	if err := p.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return types.Result{}, fmt.Errorf("count %s: %w", p.schema.Name, err)
	}

	sqlStr, args, err := builders.BuildSelect(q, p.schema, now)
	if err != nil {
		return types.Result{}, err
	}
	recs, err := p.selectRecords(ctx, sqlStr, args)
	if err != nil {
		return types.Result{}, fmt.Errorf("query %s: %w", p.schema.Name, err)
	}
	if recs == nil {
		recs = []types.Record{}
	}
	return types.Result{
		Page:         recs,
		TotalMatched: total,
		TotalPages:   pipeline.TotalPages(total, page.Size),
		PageNumber:   page.Number,
		PageSize:     page.Size,
	}, nil
}

func (p *Postgres) selectRecords(ctx context.Context, sqlStr string, args []any) ([]types.Record, error) {
	rows, err := p.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []types.Record
	for rows.Next() {
		rec, err := p.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (p *Postgres) scan(rows *sql.Rows) (types.Record, error) {
	var id string
	dest := make([]any, 0, len(p.schema.Fields)+1)
	dest = append(dest, &id)
	for _, f := range p.schema.Fields {
		switch f.Kind {
		case types.KindNumeric:
			dest = append(dest, new(sql.NullFloat64))
		case types.KindDate:
			dest = append(dest, new(sql.NullTime))
		default:
			dest = append(dest, new(sql.NullString))
		}
	}
	if err := rows.Scan(dest...); err != nil {
		return types.Record{}, fmt.Errorf("scan: %w", err)
	}

	row := map[string]any{schemas.IDKey: id}
	for i, f := range p.schema.Fields {
		switch v := dest[i+1].(type) {
		case *sql.NullFloat64:
			if v.Valid {
				row[f.Name] = v.Float64
			}
		case *sql.NullTime:
			if v.Valid {
				row[f.Name] = v.Time
			}
		case *sql.NullString:
			if v.Valid {
				row[f.Name] = v.String
			}
		}
	}
	return p.schema.NewRecord(row)
}
