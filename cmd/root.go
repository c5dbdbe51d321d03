package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	cfgpkg "github.com/cleanbrook/watertrend/internal/config"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	// Source overrides (take precedence over config if set)
	flagExcelURL   string
	flagTargetsURL string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "watertrend",
	Short: "watertrend: monthly water-quality trends from messy lab spreadsheets",
	Long: `watertrend loads a spreadsheet of water-quality lab results, normalizes it
into a tidy per-measurement table, and serves monthly trend series (last test
per month per site) together with regulatory max-target thresholds.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.watertrend/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&flagExcelURL, "excel-url", "", "workbook URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagTargetsURL, "targets-url", "", "targets CSV URL (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = &cfgpkg.Global{HTTPTimeoutSec: 30, ListenAddr: ":8080"}
	}
	cfg = c

	f := rootCmd.PersistentFlags()
	if f.Changed("excel-url") {
		cfg.ExcelURL = flagExcelURL
	}
	if f.Changed("targets-url") {
		cfg.TargetsURL = flagTargetsURL
	}
}

// newLogger builds the process logger per config and the --debug flag.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg != nil && cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
