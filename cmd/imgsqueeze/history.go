package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/tupyy/imgsqueeze/internal/config"
	"github.com/tupyy/imgsqueeze/internal/models"
	"github.com/tupyy/imgsqueeze/internal/services"
	"github.com/tupyy/imgsqueeze/internal/util"
)

func NewHistoryCommand() *cobra.Command {
	var (
		historyDB string
		limit     uint64
		failed    bool
		remove    bool
	)

	cmd := &cobra.Command{
		Use:   "history [run id]",
		Short: "List recorded runs, or the items of one run",
		Example: `  imgsqueeze history --history-db runs.duckdb
  imgsqueeze history --history-db runs.duckdb --failed 3f0c...
  imgsqueeze history --history-db runs.duckdb --delete 3f0c...`,
		Args:    cobra.MaximumNArgs(1),
		PreRunE: syncFlags,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.NewConfigurationWithDefaults()
			loadLogging(cmd, cfg)
			logger, err := setupLogger(cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			if historyDB == "" {
				return fmt.Errorf("--history-db is required")
			}
			h := services.NewHistoryService(historyDB)
			if remove {
				if len(args) == 0 {
					return fmt.Errorf("--delete needs a run id")
				}
				if err := h.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "run %s deleted\n", args[0])
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			defer w.Flush()

			if len(args) == 0 {
				runs, err := h.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				fmt.Fprintln(w, "ID\tSTARTED\tWORKERS\tITEMS\tSAVED\tSKIPPED\tFAILED\tBYTES SAVED\tELAPSED")
				for _, r := range runs {
					fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%d\t%s (%.2f%%)\t%s\n",
						r.ID, r.StartedAt.Local().Format(time.DateTime), r.Workers, r.Items,
						r.Saved, r.Skipped, r.Failed,
						util.HumanSize(r.SavedBytes()), util.Percent(r.SavedBytes(), r.Before),
						r.Elapsed)
				}
				return nil
			}

			var statuses []models.ItemStatus
			if failed {
				statuses = append(statuses, models.ItemStatusFailed)
			}
			_, items, err := h.Get(cmd.Context(), args[0], statuses...)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, "PATH\tWORKER\tSTATUS\tBEFORE\tAFTER\tERROR")
			for _, it := range items {
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\n",
					it.Path, it.Worker, it.Status, util.HumanSize(it.Before), util.HumanSize(it.After), it.Error)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&historyDB, "history-db", "", "DuckDB file written by 'run --history-db'")
	cmd.Flags().Uint64Var(&limit, "limit", 20, "Number of runs to list, 0 lists all")
	cmd.Flags().BoolVar(&failed, "failed", false, "Only show failed items")
	cmd.Flags().BoolVar(&remove, "delete", false, "Delete the given run and its items")
	return cmd
}
