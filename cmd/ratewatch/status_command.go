package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"ratewatch/internal/config"
	"ratewatch/internal/daemon"
	"ratewatch/internal/schedule"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show schedule state and the most recent cycle",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := schedule.Open(cfg)
			if err != nil {
				return fmt.Errorf("open state database: %w", err)
			}
			defer store.Close()

			last, err := store.LastCompletion(cmd.Context())
			if err != nil {
				return fmt.Errorf("read last completion: %w", err)
			}

			rows := [][]string{
				{"Config", ctx.configPath},
				{"State database", store.Path()},
				{"Providers", enabledProviders(cfg)},
				{"Daemon", daemonState(cfg)},
				{"Last completion", orNever(last)},
				{"Next due", describeNextDue(last, cfg.Schedule.UpdateIntervalDays)},
			}

			cycles, err := store.RecentCycles(cmd.Context(), 1)
			if err != nil {
				return fmt.Errorf("read cycle history: %w", err)
			}
			if len(cycles) > 0 {
				latest := cycles[0]
				rows = append(rows,
					[]string{"Last cycle", fmt.Sprintf("%s (%s)", formatTime(latest.StartedAt), latest.Kind)},
					[]string{"Last outcome", formatTallies(latest)},
				)
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows, nil))
			return nil
		},
	}
}

func enabledProviders(cfg *config.Config) string {
	var names []string
	if cfg.Providers.UseIMDB {
		names = append(names, "imdb")
	}
	if cfg.Providers.UseTrakt {
		names = append(names, "trakt")
	}
	if len(names) == 0 {
		return "imdb (forced, none enabled)"
	}
	return strings.Join(names, ", ")
}

// daemonState probes the daemon lock file. An acquirable lock means no
// daemon holds it.
func daemonState(cfg *config.Config) string {
	lock := flock.New(daemon.LockFilePath(cfg))
	ok, err := lock.TryLock()
	if err != nil {
		return "unknown"
	}
	if ok {
		_ = lock.Unlock()
		return "stopped"
	}
	return "running"
}

func orNever(value string) string {
	if value == "" {
		return "never"
	}
	return value
}

func describeNextDue(lastCompletion string, intervalDays int) string {
	if lastCompletion == "" {
		return "now"
	}
	last, err := time.Parse(time.RFC3339, lastCompletion)
	if err != nil {
		return "now"
	}
	next := last.Add(time.Duration(intervalDays) * 24 * time.Hour)
	if !time.Now().Before(next) {
		return "now"
	}
	return formatTime(next)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

func formatTallies(cycle schedule.Cycle) string {
	return fmt.Sprintf("examined %d, updated %d, unchanged %d, no data %d, failed %d",
		cycle.MoviesExamined+cycle.EpisodesExamined,
		cycle.Updated, cycle.Skipped, cycle.NoData, cycle.Failed)
}
