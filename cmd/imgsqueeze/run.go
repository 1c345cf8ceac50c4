package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tupyy/imgsqueeze/internal/config"
	"github.com/tupyy/imgsqueeze/internal/services"
)

func NewRunCommand() *cobra.Command {
	cfg := config.NewConfigurationWithDefaults()
	var strip, color string

	cmd := &cobra.Command{
		Use:   "run [flags] <path or glob>...",
		Short: "Compress the files matched by the arguments",
		Long: `Compress JPEG and PNG files with a pool of workers.

Arguments are file paths or glob patterns ("**" matches any depth). The output
is written next to each input, and only when it is smaller than the input.`,
		Example: `  imgsqueeze run 'photos/**/*.jpg'
  imgsqueeze run -j 4 --overwrite --png-strip all *.png
  imgsqueeze run -o '%s.min.%e' --report report.xlsx shots/*.png`,
		Args:    cobra.MinimumNArgs(1),
		PreRunE: syncFlags,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := config.ParseStripMode(strip)
			if err != nil {
				return err
			}
			cfg.PNG.Strip = mode
			cfg.Output.Color = config.ColorMode(color)
			loadLogging(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := setupLogger(cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			zap.S().Debugw("configuration loaded", "config", cfg.DebugMap())

			_, err = services.NewRunService(cfg, cmd.OutOrStdout()).Run(cmd.Context(), args)
			if errors.Is(err, services.ErrNoItems) {
				return nil
			}
			return err
		},
	}

	f := cmd.Flags()
	f.IntVarP(&cfg.Run.Jobs, "jobs", "j", cfg.Run.Jobs, "Maximum number of workers, 0 uses every CPU")
	f.StringVarP(&cfg.Run.OutputFormat, "output-format", "o", cfg.Run.OutputFormat, "Output file name: %s stem, %e extension, %% literal percent")
	f.BoolVar(&cfg.Run.Overwrite, "overwrite", cfg.Run.Overwrite, "Overwrite the input files (same as -o '%s.%e')")
	f.IntVar(&cfg.Run.WriteRetries, "write-retries", cfg.Run.WriteRetries, "Retries for transient write failures")
	f.IntVar(&cfg.JPEG.Quality, "jpg-quality", cfg.JPEG.Quality, "JPEG quality, 1..100 (60-80 recommended)")
	f.StringVar(&strip, "png-strip", string(cfg.PNG.Strip), "PNG ancillary chunks to strip: none, safe or all")
	f.StringVar(&color, "color", string(cfg.Output.Color), "Colored output: auto, always or never")
	f.StringVar(&cfg.Output.ReportFile, "report", cfg.Output.ReportFile, "Write a per-item report (.json or .xlsx)")
	f.StringVar(&cfg.Output.HistoryDB, "history-db", cfg.Output.HistoryDB, "Record the run in this DuckDB file")

	return cmd
}
