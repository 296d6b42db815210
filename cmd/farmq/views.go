package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"farmFilters/types"
	"farmFilters/views"
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Manage saved views",
}

var viewListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved views",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := views.Store{Path: cfg.ViewsFile}
		if jsonOutput {
			all, err := store.Load()
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), all)
		}
		names, err := store.Names()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no saved views")
			return nil
		}
		for _, n := range names {
			fmt.Fprintln(cmd.OutOrStdout(), n)
		}
		return nil
	},
}

var viewShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a saved view",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := views.Store{Path: cfg.ViewsFile}.Get(args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), v)
	},
}

var viewDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a saved view",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := (views.Store{Path: cfg.ViewsFile}).Delete(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted view %s\n", args[0])
		return nil
	},
}

func init() {
	viewCmd.AddCommand(viewListCmd)
	viewCmd.AddCommand(viewShowCmd)
	viewCmd.AddCommand(viewDeleteCmd)
}

// saveView stores q as a named view. With pin, a relative date range is
// frozen at the current time.
func saveView(name string, ds dataset, q types.Query, pin bool) error {
	v := viewFromQuery(ds, q)
	if pin {
		v = v.Pin(time.Now())
	}
	if err := (views.Store{Path: cfg.ViewsFile}).Save(name, v); err != nil {
		return err
	}
	logger.Sugar().Infof("saved view %s", name)
	return nil
}

func viewFromQuery(ds dataset, q types.Query) views.View {
	v := views.View{
		Dataset: ds.schema.Name,
		Search:  q.Filter.Search,
		Equal:   q.Filter.Equal,
	}
	if d := q.Filter.Date; d != nil {
		v.DateField = d.Field
		v.DatePreset = d.Preset
		if d.Preset == "" && !d.Since.IsZero() {
			since := d.Since
			v.Since = &since
		}
	}
	if b := q.Filter.Bucket; b != nil {
		v.BucketField = b.Field
		v.Bucket = b.Bucket.Name
	}
	if q.Sort != nil {
		v.Sort = q.Sort.Field + "_" + q.Sort.Dir.String()
	}
	if q.Page != nil && q.Page.Size != ds.schema.PageSize {
		v.PageSize = q.Page.Size
	}
	return v
}
