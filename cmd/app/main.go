package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/arctica-ti/xone-sync/internal/config"
	"github.com/arctica-ti/xone-sync/internal/sync"
	"github.com/arctica-ti/xone-sync/tools"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfg    *config.Config
		dryRun bool
	)

	root := &cobra.Command{
		Use:           "xone-sync",
		Short:         "Sync Entra ID users and departments into XoneCloud",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// A .env file is optional; real deployments use plain env vars.
			_ = godotenv.Load(".env")

			var err error
			cfg, err = config.Load()
			if err != nil {
				return err
			}
			tools.InitLogger(cfg.Logger.Level)

			if dryRun {
				cfg.Sync.DeptDryRun = true
				cfg.Sync.CollabDryRun = true
			}
			return nil
		},
	}
	root.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "simulate dispatch, no calls to XoneCloud")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run one sync and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := sync.NewRunner(cfg, "", "")
			if _, err := runner.Run(cmd.Context()); err != nil {
				tools.Log.Errorf("Sync failed: %v", err)
				return err
			}
			return nil
		},
	}

	var interval time.Duration
	daemonCmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run syncs on a fixed interval until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval <= 0 {
				interval = cfg.Sync.DaemonInterval()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			runner := sync.NewRunner(cfg, "", "")
			tools.Log.Infof("Daemon started, syncing every %s", interval)

			// First run immediately, then on each tick.
			if _, err := runner.Run(ctx); err != nil {
				tools.Log.Errorf("Sync failed: %v", err)
			}

			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					tools.Log.Info("Daemon stopping")
					return nil
				case <-ticker.C:
					if _, err := runner.Run(ctx); err != nil {
						tools.Log.Errorf("Sync failed: %v", err)
					}
				}
			}
		},
	}
	daemonCmd.Flags().DurationVar(&interval, "interval", 0, "sync interval (default from DAEMON_INTERVAL_MINUTES)")

	root.AddCommand(runCmd, daemonCmd)
	root.SetContext(context.Background())
	return root
}
