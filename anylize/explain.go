package anylize

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"farmFilters/builders"
	"farmFilters/schemas"
	"farmFilters/types"
)

type DBTX interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Plan is the text of an EXPLAIN ANALYZE run with its reported timings.
type Plan struct {
	SQL         string
	Text        string
	PlanningMS  float64
	ExecutionMS float64
}

// ExplainAnalyze executes sqlStr under EXPLAIN ANALYZE. The statement really
// runs, so only pass read queries.
func ExplainAnalyze(ctx context.Context, db DBTX, sqlStr string, args ...any) (Plan, error) {
	q := "EXPLAIN (ANALYZE, BUFFERS, FORMAT TEXT) " + sqlStr
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return Plan{}, fmt.Errorf("explain: %w", err)
	}
	defer rows.Close()
	var b strings.Builder
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return Plan{}, fmt.Errorf("explain: %w", err)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if err := rows.Err(); err != nil {
		return Plan{}, fmt.Errorf("explain: %w", err)
	}
	text := b.String()
	return Plan{
		SQL:         sqlStr,
		Text:        text,
		PlanningMS:  parseMS(planRe, text),
		ExecutionMS: parseMS(execRe, text),
	}, nil
}

// ExplainQuery builds the SELECT for q and explains it.
func ExplainQuery(ctx context.Context, db DBTX, q types.Query, sch schemas.Schema, now time.Time) (Plan, error) {
	sqlStr, args, err := builders.BuildSelect(q, sch, now)
	if err != nil {
		return Plan{}, err
	}
	return ExplainAnalyze(ctx, db, sqlStr, args...)
}

var (
	execRe = regexp.MustCompile(`Execution Time:\s+([0-9.]+)\s+ms`)
	planRe = regexp.MustCompile(`Planning Time:\s+([0-9.]+)\s+ms`)
)

func parseMS(re *regexp.Regexp, plan string) float64 {
	m := re.FindStringSubmatch(plan)
	if len(m) == 2 {
		f, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			return f
		}
	}
	return 0
}
