package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"trendarr/config"
	"trendarr/logging"
	"trendarr/services/plex"
	"trendarr/services/scheduler"
	"trendarr/services/sync"
	"trendarr/services/tmdb"
)

var version = "dev"

func main() {
	var (
		dryRun   bool
		interval time.Duration
	)

	root := &cobra.Command{
		Use:           "trendarr",
		Short:         "Sync TMDB weekly trending titles into a Plex watchlist",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			run(dryRun, interval)
			return nil
		},
	}
	root.Flags().BoolVar(&dryRun, "dry-run", false, "log what would be added without touching the watchlist")
	root.Flags().DurationVar(&interval, "interval", 0, "repeat the sync on this interval (0 runs once)")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
}

// run owns the whole lifecycle. The contract is "always log, never crash":
// whatever goes wrong inside a pass is logged and the process exits cleanly.
func run(dryRun bool, interval time.Duration) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "trendarr: %v\n", err)
		return
	}

	logger := logging.New(cfg.LogFilePath)

	svc := sync.NewService(cfg, logger, tmdb.NewClient(cfg.TMDBAPIKey), plex.NewClient(cfg.PlexToken), dryRun)

	if interval > 0 {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		scheduler.NewService(svc, interval, logger).Start(ctx)
		return
	}

	if err := svc.Run(); err != nil {
		logger.Printf("[trendarr] run failed: %v", err)
	}
}
