package commands

import (
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/velmoor/luma/internal/luma/app"
)

func newRunCmd(o *opts) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start an assistant session",
		Long: `Starts a voice session: verifies the speaker against the enrolled
reference sample, then listens for commands until the user says goodbye.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := app.New(ctx, o.cfg, o.logger)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Run(ctx); err != nil {
				if errors.Is(err, app.ErrAccessDenied) {
					o.logger.Error("session refused", "err", err)
				}
				return err
			}
			return nil
		},
	}
}
