package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cleanbrook/watertrend/internal/fetch"
	"github.com/cleanbrook/watertrend/internal/server"
	"github.com/cleanbrook/watertrend/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the read-only dashboard API",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		cache := fetch.NewCache(fetch.NewClient(cfg.HTTPTimeout()))
		loader := store.NewLoader(cfg, cache, logger)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		// Fail fast on an unloadable dataset rather than at first request.
		if _, err := loader.Current(ctx); err != nil {
			return err
		}

		logger.Info("serving", "addr", cfg.ListenAddr)
		return server.New(cfg.ListenAddr, loader, logger).Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
