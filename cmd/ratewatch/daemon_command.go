package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ratewatch/internal/catalog"
	"ratewatch/internal/daemon"
	"ratewatch/internal/kodi"
	"ratewatch/internal/logging"
	"ratewatch/internal/providers/registry"
	"ratewatch/internal/schedule"
	"ratewatch/internal/updater"
)

func newDaemonCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run the refresh loop in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("configure logging: %w", err)
			}

			store, err := schedule.Open(cfg)
			if err != nil {
				return fmt.Errorf("open state database: %w", err)
			}

			client := kodi.NewClient(cfg.Kodi)
			runner := updater.NewRunner(
				catalog.NewSelector(client, cfg.Selection, logger),
				registry.Build(cfg, logger),
				catalog.NewWriter(client, logger),
				cfg.Selection,
				logger,
			)

			d, err := daemon.New(cfg, store, runner, logger)
			if err != nil {
				_ = store.Close()
				return err
			}
			defer d.Close()

			signalCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := d.Start(signalCtx); err != nil {
				return err
			}

			<-signalCtx.Done()
			return nil
		},
	}
}
