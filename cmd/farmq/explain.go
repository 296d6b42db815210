package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"farmFilters/anylize"
	"farmFilters/source"
	"farmFilters/state"
)

var explainCmd = &cobra.Command{
	Use:   "explain <dataset>",
	Short: "Run EXPLAIN ANALYZE for the SQL a list query pushes down",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if cfg.DatabaseURL == "" {
			return fmt.Errorf("explain needs database_url")
		}
		ds, err := lookupDataset(args[0])
		if err != nil {
			return err
		}
		acts, err := queryActions(cmd, ds)
		if err != nil {
			return err
		}
		q := state.Default(ds.schema)
		for _, a := range acts {
			if q, err = state.Reduce(ds.schema, q, a); err != nil {
				return err
			}
		}

		pg, err := source.OpenPostgres(ctx, cfg.DatabaseURL, ds.schema, logger)
		if err != nil {
			return err
		}
		defer pg.Close()

		plan, err := anylize.ExplainQuery(ctx, pg.DB(), q, ds.schema, time.Now())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), plan)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s\n\n%s\nplanning %.3f ms, execution %.3f ms\n", plan.SQL, plan.Text, plan.PlanningMS, plan.ExecutionMS)
		return nil
	},
}

func init() {
	addQueryFlags(explainCmd)
}
