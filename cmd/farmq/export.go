package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"farmFilters/catalog"
	"farmFilters/source"
)

var exportCmd = &cobra.Command{
	Use:   "export <dataset> <path>",
	Short: "Write the sample data set to a .json, .yaml or .msgpack file",
	Long: `Write the built-in sample data for a dataset to a file. The format is
picked from the extension. Point data_dir at the directory and name the
file after the dataset (e.g. acquisitions.yaml) to load it back.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, path := args[0], args[1]
		var rows any
		switch name {
		case catalog.AcquisitionsName:
			rows = catalog.SampleAcquisitions()
		case catalog.ReportsName:
			n, _ := cmd.Flags().GetInt("count")
			seed, _ := cmd.Flags().GetUint64("seed")
			rows = catalog.SampleReports(time.Now(), n, seed)
		default:
			_, err := lookupDataset(name)
			return err
		}
		if err := source.WriteFile(path, rows); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s to %s\n", name, path)
		return nil
	},
}

func init() {
	exportCmd.Flags().Int("count", 35, "number of reports to generate")
	exportCmd.Flags().Uint64("seed", 1, "seed for generated reports")
}
