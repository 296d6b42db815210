package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"farmFilters/catalog"
	"farmFilters/types"
)

// dashboardSummary is the overview shown above both list screens.
type dashboardSummary struct {
	Acquisitions map[types.AcquisitionStatus]int `json:"acquisitions"`
	Reports      catalog.Summary                 `json:"reports"`
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show acquisition status counts and report compliance",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		s, err := loadSummary(ctx)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), s)
		}
		printSummary(cmd.OutOrStdout(), s)
		return nil
	},
}

func loadSummary(ctx context.Context) (dashboardSummary, error) {
	var (
		acqs []types.Record
		reps []types.Record
	)
	g, ctx := errgroup.WithContext(ctx)
	load := func(name string, dst *[]types.Record) func() error {
		return func() error {
			ds, err := lookupDataset(name)
			if err != nil {
				return err
			}
			src, closeSrc, err := openSource(ctx, ds)
			if err != nil {
				return err
			}
			defer closeSrc()
			recs, err := src.Load(ctx)
			if err != nil {
				return fmt.Errorf("load %s: %w", name, err)
			}
			*dst = recs
			return nil
		}
	}
	g.Go(load(catalog.AcquisitionsName, &acqs))
	g.Go(load(catalog.ReportsName, &reps))
	if err := g.Wait(); err != nil {
		return dashboardSummary{}, err
	}

	s := dashboardSummary{Acquisitions: map[types.AcquisitionStatus]int{}}
	for _, r := range acqs {
		s.Acquisitions[types.AcquisitionStatus(r.Categorical["status"])]++
	}
	s.Reports = catalog.SummarizeRecords(reps)
	return s, nil
}

func printSummary(w io.Writer, s dashboardSummary) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ACQUISITION STATUS\tCOUNT")
	for _, st := range types.AcquisitionStatuses {
		fmt.Fprintf(tw, "%s\t%d\n", st, s.Acquisitions[st])
	}
	tw.Flush()
	fmt.Fprintln(w)
	printReportSummary(w, s.Reports)
}

func printReportSummary(w io.Writer, r catalog.Summary) {
	fmt.Fprintf(w, "reports: %d, violations: %d, compliance: %d%%\n", r.TotalReports, r.TotalViolations, r.ComplianceRate)
	if keys := r.SortedViolationTypes(); len(keys) > 0 {
		fmt.Fprintln(w, "violation types:")
		for _, k := range keys {
			fmt.Fprintf(w, "  %s: %d\n", k, r.ViolationTypes[k])
		}
	}
}
