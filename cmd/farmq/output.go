package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"farmFilters/schemas"
	"farmFilters/types"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printResult prints the page as a table with one column per schema field.
func printResult(w io.Writer, sch schemas.Schema, res types.Result) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	headers := []string{"ID"}
	for _, f := range sch.Fields {
		headers = append(headers, strings.ToUpper(f.Name))
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))

	for _, rec := range res.Page {
		vals := []string{rec.ID}
		for _, f := range sch.Fields {
			vals = append(vals, recordField(sch, rec, f))
		}
		fmt.Fprintln(tw, strings.Join(vals, "\t"))
	}
	tw.Flush()
	fmt.Fprintf(w, "\npage %d/%d, %d shown (%d matched)\n", res.PageNumber, res.TotalPages, len(res.Page), res.TotalMatched)
}

// recordField returns the display value of one field of rec.
func recordField(sch schemas.Schema, rec types.Record, f schemas.Field) string {
	switch f.Kind {
	case types.KindText:
		if i := slices.Index(sch.Searchable, f.Name); i >= 0 && i < len(rec.Searchable) {
			return truncate(rec.Searchable[i], 40)
		}
	case types.KindCategorical:
		return rec.Categorical[f.Name]
	case types.KindNumeric:
		if n, ok := rec.Numeric[f.Name]; ok {
			return strconv.FormatFloat(n, 'f', -1, 64)
		}
	case types.KindDate:
		if t, ok := rec.Dates[f.Name]; ok && !t.IsZero() {
			return t.Format("2006-01-02")
		}
	}
	return "-"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
