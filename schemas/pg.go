package schemas

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"farmFilters/types"
)

type DBTX interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type Column struct {
	Name string
	Type types.ColType
}

type Table struct {
	Name       string
	Columns    map[string]Column
	PrimaryKey string
}

// LoadTable reads the column layout of a public-schema table.
func LoadTable(ctx context.Context, db DBTX, table string) (Table, error) {
	if table == "" {
		return Table{}, fmt.Errorf("no table")
	}

	const q = `
SELECT c.column_name, c.data_type,
       COALESCE(tc.constraint_type='PRIMARY KEY',false) AS is_pk
FROM information_schema.columns c
LEFT JOIN information_schema.key_column_usage k
  ON k.table_name=c.table_name AND k.column_name=c.column_name
LEFT JOIN information_schema.table_constraints tc
  ON tc.table_name=k.table_name AND tc.constraint_name=k.constraint_name
WHERE c.table_schema='public' AND c.table_name = $1
ORDER BY c.ordinal_position;`

	rows, err := db.QueryContext(ctx, q, table)
	if err != nil {
		return Table{}, fmt.Errorf("load table %q: %w", table, err)
	}
	defer rows.Close()

	tab := Table{Name: table, Columns: map[string]Column{}}
	for rows.Next() {
		var cname, dtype string
		var isPK bool
		if err := rows.Scan(&cname, &dtype, &isPK); err != nil {
			return Table{}, fmt.Errorf("load table %q: %w", table, err)
		}
		tab.Columns[cname] = Column{Name: cname, Type: mapDataType(dtype)}
		if isPK && tab.PrimaryKey == "" {
			tab.PrimaryKey = cname
		}
	}
	if err := rows.Err(); err != nil {
		return Table{}, fmt.Errorf("load table %q: %w", table, err)
	}
	if len(tab.Columns) == 0 {
		return Table{}, fmt.Errorf("table %q not found", table)
	}
	return tab, nil
}

func mapDataType(d string) types.ColType {
	d = strings.ToLower(d)
	switch {
	case strings.Contains(d, "char"), strings.Contains(d, "text"), strings.Contains(d, "citext"):
		return types.ColText
	case strings.Contains(d, "int"), strings.Contains(d, "numeric"), strings.Contains(d, "decimal"), strings.Contains(d, "real"), strings.Contains(d, "double"):
		return types.ColNumeric
	case strings.Contains(d, "bool"):
		return types.ColBool
	case strings.Contains(d, "time"), strings.Contains(d, "date"):
		return types.ColTime
	case strings.Contains(d, "uuid"):
		return types.ColUUID
	case strings.Contains(d, "json"):
		return types.ColJSON
	default:
		return types.ColUnknown
	}
}

func compatible(k types.FieldKind, c types.ColType) bool {
	switch k {
	case types.KindText, types.KindCategorical:
		return c == types.ColText || c == types.ColUUID
	case types.KindNumeric:
		return c == types.ColNumeric
	case types.KindDate:
		return c == types.ColTime
	}
	return false
}

// Conform checks that every configured field maps onto a column of a
// compatible type, so a drifted table fails at startup rather than per query.
func (s Schema) Conform(tab Table) error {
	var errs ValidationErrors
	if _, ok := tab.Columns[s.idColumn()]; !ok {
		errs = append(errs, ValidationError{
			Path: tab.Name + "." + s.idColumn(),
			Err:  fmt.Errorf("%w: id column missing", ErrUnknownField),
		})
	}
	for _, f := range s.Fields {
		col, ok := tab.Columns[f.Column]
		if !ok {
			errs = append(errs, ValidationError{
				Path: tab.Name + "." + f.Column,
				Err:  fmt.Errorf("%w: no column for %q", ErrUnknownField, f.Name),
			})
			continue
		}
		if !compatible(f.Kind, col.Type) {
			errs = append(errs, ValidationError{
				Path: tab.Name + "." + f.Column,
				Err:  fmt.Errorf("%w: %s field %q on incompatible column", ErrFieldKind, f.Kind, f.Name),
			})
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
