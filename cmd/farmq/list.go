package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"farmFilters/catalog"
	"farmFilters/source"
	"farmFilters/state"
	"farmFilters/types"
	"farmFilters/views"
)

var acquisitionsCmd = &cobra.Command{
	Use:     "acquisitions",
	Aliases: []string{"acq"},
	Short:   "List land-acquisition cases",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList(cmd, catalog.AcquisitionsName)
	},
}

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "List analysis reports",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList(cmd, catalog.ReportsName)
	},
}

func init() {
	for _, c := range []*cobra.Command{acquisitionsCmd, reportsCmd} {
		addQueryFlags(c)
		c.Flags().String("save-view", "", "save the resulting filter as a named view")
		c.Flags().Bool("pin", false, "with --save-view, freeze relative date ranges at the current time")
		c.Flags().Bool("server-side", false, "evaluate in Postgres instead of in memory")
	}
	acquisitionsCmd.Flags().String("status", "", "filter by status (e.g. \"Under Review\")")
	acquisitionsCmd.Flags().String("purpose", "", "filter by purpose type (infrastructure|conservation|energy|public)")
	reportsCmd.Flags().String("filter", "all", "all|violations|compliant")
	reportsCmd.Flags().String("region", "", "filter by region")
}

func addQueryFlags(c *cobra.Command) {
	c.Flags().StringP("search", "q", "", "case-insensitive substring search")
	c.Flags().StringArray("eq", nil, "equality filter field=value (repeatable)")
	c.Flags().String("date-range", "", "last30days|last90days|last6months|lastyear")
	c.Flags().String("bucket", "", "named size bucket (acquisitions: small|medium|large; reports: none|some|many)")
	c.Flags().String("sort", "", "sort key, e.g. startDate_desc, area_asc")
	c.Flags().Int("page", 1, "page number")
	c.Flags().Int("page-size", 0, "page size (default per dataset)")
	c.Flags().String("view", "", "start from a saved view")
}

// queryActions turns the command's flags into state actions, in the order
// a user would apply them on screen.
func queryActions(cmd *cobra.Command, ds dataset) ([]state.Action, error) {
	var acts []state.Action
	flags := cmd.Flags()

	if name, _ := flags.GetString("view"); name != "" {
		v, err := views.Store{Path: cfg.ViewsFile}.Get(name)
		if err != nil {
			return nil, err
		}
		q, err := v.Query(ds.schema)
		if err != nil {
			return nil, fmt.Errorf("view %q: %w", name, err)
		}
		acts = append(acts, state.SetQuery{Query: q})
	}

	if cfg.PageSize > 0 && !flags.Changed("page-size") {
		acts = append(acts, state.SetPageSize{Size: cfg.PageSize})
	}
	if flags.Changed("page-size") {
		n, _ := flags.GetInt("page-size")
		acts = append(acts, state.SetPageSize{Size: n})
	}
	if flags.Changed("search") {
		s, _ := flags.GetString("search")
		acts = append(acts, state.SetSearch{Term: s})
	}
	eqs, _ := flags.GetStringArray("eq")
	for _, kv := range eqs {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("--eq %q: want field=value", kv)
		}
		acts = append(acts, state.SetEqual{Field: k, Value: v})
	}
	for flag, field := range map[string]string{"status": "status", "purpose": "purposeType", "region": "region"} {
		if flags.Lookup(flag) != nil && flags.Changed(flag) {
			v, _ := flags.GetString(flag)
			acts = append(acts, state.SetEqual{Field: field, Value: v})
		}
	}
	if flags.Lookup("filter") != nil && flags.Changed("filter") {
		f, _ := flags.GetString("filter")
		status, err := catalog.ReportFilter(f).Status()
		if err != nil {
			return nil, err
		}
		acts = append(acts, state.SetEqual{Field: "status", Value: string(status)})
	}
	if flags.Changed("date-range") {
		p, _ := flags.GetString("date-range")
		acts = append(acts, state.SetDateRange{Field: ds.dateField, Preset: types.RangePreset(p)})
	}
	if flags.Changed("bucket") {
		b, _ := flags.GetString("bucket")
		acts = append(acts, state.SetBucket{Field: ds.bucketField, Name: b})
	}
	if flags.Changed("sort") {
		s, _ := flags.GetString("sort")
		acts = append(acts, state.SetSort{Key: s})
	}
	// page last: every filter change above returns to page 1
	if flags.Changed("page") {
		n, _ := flags.GetInt("page")
		acts = append(acts, state.SetPage{Number: n})
	}
	return acts, nil
}

func runList(cmd *cobra.Command, name string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ds, err := lookupDataset(name)
	if err != nil {
		return err
	}
	acts, err := queryActions(cmd, ds)
	if err != nil {
		return err
	}

	store := state.NewStore(ds.schema, state.WithLogger(logger))
	for _, a := range acts {
		if _, err := store.Dispatch(a); err != nil {
			return err
		}
	}

	if viewName, _ := cmd.Flags().GetString("save-view"); viewName != "" {
		pin, _ := cmd.Flags().GetBool("pin")
		if err := saveView(viewName, ds, store.Query(), pin); err != nil {
			return err
		}
	}

	src, closeSrc, err := openSource(ctx, ds)
	if err != nil {
		return err
	}
	defer closeSrc()

	var res types.Result
	if serverSide, _ := cmd.Flags().GetBool("server-side"); serverSide {
		pg, ok := src.(*source.Postgres)
		if !ok {
			return fmt.Errorf("--server-side needs database_url")
		}
		res, err = pg.Query(ctx, store.Query())
	} else {
		res, err = store.Load(ctx, src)
	}
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), res)
	}
	printResult(cmd.OutOrStdout(), ds.schema, res)
	return nil
}
