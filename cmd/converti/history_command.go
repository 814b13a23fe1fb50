package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"converti/internal/history"
)

type historyRow struct {
	ID         string `json:"id"`
	Input      string `json:"input"`
	Category   string `json:"category"`
	Format     string `json:"format"`
	Output     string `json:"output,omitempty"`
	Status     string `json:"status"`
	ErrorKind  string `json:"error_kind,omitempty"`
	Error      string `json:"error,omitempty"`
	FinishedAt string `json:"finished_at"`
	Duration   string `json:"duration"`
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show or clear recorded conversions",
	}
	listCmd := newHistoryListCommand(ctx)
	historyCmd.RunE = listCmd.RunE
	historyCmd.Flags().AddFlagSet(listCmd.Flags())

	historyCmd.AddCommand(listCmd)
	historyCmd.AddCommand(newHistoryClearCommand(ctx))
	return historyCmd
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent conversions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(ctx, func(store *history.Store) error {
				entries, err := store.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				rows := historyRows(entries)
				if ctx.JSONMode() {
					return writeJSON(cmd, rows)
				}
				out := cmd.OutOrStdout()
				if len(rows) == 0 {
					fmt.Fprintln(out, "No conversions recorded")
					return nil
				}
				table := make([][]string, 0, len(rows))
				for _, row := range rows {
					result := filepath.Base(row.Output)
					if row.Status != history.StatusSucceeded {
						result = row.ErrorKind
					}
					table = append(table, []string{
						row.FinishedAt,
						filepath.Base(row.Input),
						row.Format,
						row.Status,
						result,
						row.Duration,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Finished", "Input", "Format", "Status", "Result", "Took"},
					table,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
				))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of entries to show (0 for all)")
	return cmd
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded conversions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(ctx, func(store *history.Store) error {
				removed, err := store.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d history entries\n", removed)
				return nil
			})
		},
	}
}

func withHistory(ctx *commandContext, fn func(*history.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	if !cfg.History.Enabled {
		return fmt.Errorf("conversion history is disabled (set history.enabled = true in the config)")
	}
	store, err := history.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func historyRows(entries []history.Entry) []historyRow {
	rows := make([]historyRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, historyRow{
			ID:         e.ID,
			Input:      e.InputPath,
			Category:   e.Category,
			Format:     e.OutputLabel,
			Output:     e.OutputPath,
			Status:     e.Status,
			ErrorKind:  e.ErrorKind,
			Error:      e.ErrorMessage,
			FinishedAt: e.FinishedAt.Local().Format(time.DateTime),
			Duration:   e.Duration.Round(10 * time.Millisecond).String(),
		})
	}
	return rows
}
