package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cleanbrook/watertrend/internal/fetch"
	"github.com/cleanbrook/watertrend/internal/store"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Load the configured workbook and print a dataset summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		cache := fetch.NewCache(fetch.NewClient(cfg.HTTPTimeout()))
		loader := store.NewLoader(cfg, cache, logger)

		snap, err := loader.Current(context.Background())
		if err != nil {
			return err
		}

		fmt.Printf("Source:   %s\n", snap.Source)
		fmt.Printf("Load ID:  %s\n", snap.LoadID)
		fmt.Printf("Rows:     %d\n", len(snap.Rows))
		fmt.Printf("Targets:  %d\n", len(snap.Targets))
		if minM, maxM, ok := snap.MonthRange(); ok {
			fmt.Printf("Months:   %s .. %s\n", minM.Format("2006-01"), maxM.Format("2006-01"))
		}

		types := snap.Types()
		if len(types) > 0 {
			fmt.Printf("Types:    %s\n", strings.Join(types, ", "))
		}

		fmt.Println()
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "PARAMETER\tSITES\tROWS")
		for _, p := range snap.Parameters("") {
			count := 0
			for _, r := range snap.Rows {
				if r.Parameter == p {
					count++
				}
			}
			fmt.Fprintf(w, "%s\t%d\t%d\n", p, len(snap.Sites("", p)), count)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
