package cmd

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleanbrook/watertrend/internal/fetch"
	"github.com/cleanbrook/watertrend/internal/series"
	"github.com/cleanbrook/watertrend/internal/store"
	"github.com/cleanbrook/watertrend/internal/target"
)

var (
	flagSeriesType  string
	flagSeriesParam string
	flagSeriesSites []string
	flagSeriesStart string
	flagSeriesEnd   string
)

var seriesCmd = &cobra.Command{
	Use:   "series",
	Short: "Print the monthly series for a selection as CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagSeriesParam == "" {
			return fmt.Errorf("--parameter is required")
		}

		sel := series.Selection{
			Type:      flagSeriesType,
			Parameter: flagSeriesParam,
			Sites:     flagSeriesSites,
		}
		if flagSeriesStart != "" {
			t, err := time.Parse("2006-01-02", flagSeriesStart)
			if err != nil {
				return fmt.Errorf("invalid --start: %w", err)
			}
			sel.Start = t.UTC()
		}
		if flagSeriesEnd != "" {
			t, err := time.Parse("2006-01-02", flagSeriesEnd)
			if err != nil {
				return fmt.Errorf("invalid --end: %w", err)
			}
			sel.End = t.UTC()
		}

		logger := newLogger()
		cache := fetch.NewCache(fetch.NewClient(cfg.HTTPTimeout()))
		loader := store.NewLoader(cfg, cache, logger)
		snap, err := loader.Current(context.Background())
		if err != nil {
			return err
		}

		if maxTarget, ok := target.Lookup(snap.Targets, flagSeriesParam); ok {
			fmt.Fprintf(os.Stderr, "max target for %s: %g\n", flagSeriesParam, maxTarget)
		}

		w := csv.NewWriter(os.Stdout)
		if err := w.Write([]string{"site_id", "month", "sample_date", "result"}); err != nil {
			return err
		}
		for _, r := range series.Monthly(snap.Rows, sel) {
			date := ""
			if r.HasDate() {
				date = r.SampleDate.Format("2006-01-02")
			}
			result := ""
			if r.Result != nil {
				result = strconv.FormatFloat(*r.Result, 'g', -1, 64)
			}
			rec := []string{r.SiteID, r.MonthStart.Format("2006-01-02"), date, result}
			if err := w.Write(rec); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()
	},
}

func init() {
	seriesCmd.Flags().StringVar(&flagSeriesType, "type", "", "sample type filter")
	seriesCmd.Flags().StringVar(&flagSeriesParam, "parameter", "", "parameter to chart (required)")
	seriesCmd.Flags().StringSliceVar(&flagSeriesSites, "site", nil, "site ids to include (repeatable)")
	seriesCmd.Flags().StringVar(&flagSeriesStart, "start", "", "interval start (YYYY-MM-DD)")
	seriesCmd.Flags().StringVar(&flagSeriesEnd, "end", "", "interval end (YYYY-MM-DD)")
	rootCmd.AddCommand(seriesCmd)
}
