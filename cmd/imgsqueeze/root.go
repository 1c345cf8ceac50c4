package main

import (
	"fmt"

	"github.com/jzelinskie/cobrautil/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tupyy/imgsqueeze/internal/config"
)

const envPrefix = "IMGSQUEEZE"

func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "imgsqueeze",
		Short:        "Compress JPEG and PNG files in parallel",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().String("config", "", "Config file (yaml, json or toml)")
	cmd.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn, error")
	cmd.PersistentFlags().String("log-format", "console", "Log format: console or json")

	cmd.AddCommand(NewRunCommand(), NewHistoryCommand(), NewVersionCommand())
	return cmd
}

// syncFlags fills every flag left unset on the command line, first from
// IMGSQUEEZE_* environment variables, then from the config file.
func syncFlags(cmd *cobra.Command, args []string) error {
	if err := cobrautil.SyncViperPreRunE(envPrefix)(cmd, args); err != nil {
		return err
	}

	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var setErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if setErr != nil || f.Changed || !v.IsSet(f.Name) {
			return
		}
		if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name))); err != nil {
			setErr = fmt.Errorf("invalid value for %q in %s: %w", f.Name, path, err)
		}
	})
	return setErr
}

// setupLogger installs the global zap logger.
func setupLogger(level, format string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}

	var zc zap.Config
	switch format {
	case "json":
		zc = zap.NewProductionConfig()
	default:
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zc.DisableStacktrace = true
	}
	zc.Level = lvl

	logger, err := zc.Build()
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}

func loadLogging(cmd *cobra.Command, cfg *config.Configuration) {
	cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
	cfg.LogFormat, _ = cmd.Flags().GetString("log-format")
}
