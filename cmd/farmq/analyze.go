package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"farmFilters/catalog"
	"farmFilters/source"
	"farmFilters/state"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <image>...",
	Short: "Upload images for analysis and list the resulting reports",
	Long: `Upload images to the in-memory analysis store and list the reports
generated from them. There is no detection model in this tool: detections
are read from an optional sidecar file <image>.detections.json holding a
JSON array of {"violation_type", "confidence"} objects.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		region, _ := cmd.Flags().GetString("region")

		store := source.NewMemoryAnalyses(sidecarDetector, nil)
		var reports []catalog.Report
		for _, path := range args {
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			a, err := store.Upload(ctx, path, region, f)
			f.Close()
			if err != nil {
				return err
			}
			logger.Info("analysis complete", zap.String("id", a.ID), zap.Int("violations", a.ViolationCount))
			r, err := store.GenerateReport(ctx, a.ID)
			if err != nil {
				return err
			}
			reports = append(reports, r)
			if !jsonOutput {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n  %s\n", a.ID, filepath.Base(a.Filename), a.Summary)
			}
		}

		ds, err := lookupDataset(catalog.ReportsName)
		if err != nil {
			return err
		}
		list := state.NewStore(ds.schema, state.WithLogger(logger))
		res, err := list.Load(ctx, source.ReportSource{Analyses: store})
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), res)
		}
		fmt.Fprintln(cmd.OutOrStdout())
		printResult(cmd.OutOrStdout(), ds.schema, res)
		fmt.Fprintln(cmd.OutOrStdout())
		printReportSummary(cmd.OutOrStdout(), catalog.Summarize(reports))
		return nil
	},
}

func init() {
	analyzeCmd.Flags().String("region", "", "region recorded on each analysis")
}

// sidecarDetector reads canned detections for filename from
// filename+".detections.json". A missing or unreadable sidecar means none.
func sidecarDetector(filename string, _ []byte) []catalog.Detection {
	data, err := os.ReadFile(filename + ".detections.json")
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("read detections", zap.String("file", filename), zap.Error(err))
		}
		return nil
	}
	var dets []catalog.Detection
	if err := json.Unmarshal(data, &dets); err != nil {
		logger.Warn("parse detections", zap.String("file", filename), zap.Error(err))
		return nil
	}
	return dets
}
