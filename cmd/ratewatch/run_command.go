package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ratewatch/internal/catalog"
	"ratewatch/internal/daemon"
	"ratewatch/internal/kodi"
	"ratewatch/internal/logging"
	"ratewatch/internal/providers/registry"
	"ratewatch/internal/schedule"
	"ratewatch/internal/updater"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a refresh cycle now",
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
			defer store.Close()

			if !force {
				last, err := store.LastCompletion(cmd.Context())
				if err == nil && !schedule.Due(last, cfg.Schedule.UpdateIntervalDays, time.Now()) {
					fmt.Fprintf(cmd.OutOrStdout(), "No refresh due yet (last completed %s); use --force to run anyway\n", last)
					return nil
				}
			}

			client := kodi.NewClient(cfg.Kodi)
			runner := updater.NewRunner(
				catalog.NewSelector(client, cfg.Selection, logger),
				registry.Build(cfg, logger),
				catalog.NewWriter(client, logger),
				cfg.Selection,
				logger,
			)

			report, err := daemon.ExecuteCycle(cmd.Context(), store, runner, schedule.CycleManual, logger, nil)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), report.Summary())
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Run even if no cycle is due yet")
	return cmd
}
