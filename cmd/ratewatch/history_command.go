package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"ratewatch/internal/schedule"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent refresh cycles",
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

			cycles, err := store.RecentCycles(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("read cycle history: %w", err)
			}
			if len(cycles) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No cycles recorded yet")
				return nil
			}

			headers := []string{"Started", "Kind", "Examined", "Updated", "Unchanged", "No data", "Failed"}
			aligns := []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight}
			rows := make([][]string, 0, len(cycles))
			for _, cycle := range cycles {
				rows = append(rows, []string{
					formatTime(cycle.StartedAt),
					string(cycle.Kind),
					strconv.Itoa(cycle.MoviesExamined + cycle.EpisodesExamined),
					strconv.Itoa(cycle.Updated),
					strconv.Itoa(cycle.Skipped),
					strconv.Itoa(cycle.NoData),
					strconv.Itoa(cycle.Failed),
				})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of cycles to show")
	return cmd
}
