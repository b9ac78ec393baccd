// Package commands defines the luma CLI surface.
package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/velmoor/luma/internal/luma/config"
)

// opts carries the loaded configuration and logger into subcommands.
type opts struct {
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger
}

// NewRootCmd builds the luma command tree. Configuration is loaded once in
// the persistent pre-run, so every subcommand sees the same resolved config.
func NewRootCmd() *cobra.Command {
	o := &opts{}

	cmd := &cobra.Command{
		Use:           "luma",
		Short:         "Luma is a voice-driven personal assistant",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			// A .env file is a convenience for development; its absence
			// is not an error.
			_ = godotenv.Load()

			cfg, err := config.Load(o.configPath)
			if err != nil {
				return err
			}
			if o.logLevel != "" {
				cfg.LogLevel = o.logLevel
				if err := config.Validate(cfg); err != nil {
					return err
				}
			}
			o.cfg = cfg
			o.logger = newLogger(cfg.LogLevel)
			slog.SetDefault(o.logger)
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&o.configPath, "config", "c", "luma.yaml", "path to the configuration file")
	cmd.PersistentFlags().StringVar(&o.logLevel, "log-level", "", "override the configured log level (debug, info, warn, error)")

	cmd.AddCommand(
		newRunCmd(o),
		newEnrollCmd(o),
		newVerifyCmd(o),
		newHistoryCmd(o),
		newMoodsCmd(o),
		newClearCmd(o),
		newVersionCmd(),
	)
	return cmd
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func fprintln(cmd *cobra.Command, a ...any) {
	fmt.Fprintln(cmd.OutOrStdout(), a...)
}
