package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/velmoor/luma/internal/luma/speech"
)

func newEnrollCmd(o *opts) *cobra.Command {
	var (
		output  string
		seconds int
	)

	cmd := &cobra.Command{
		Use:   "enroll",
		Short: "Record the reference voice sample",
		Long: `Captures a voice sample and saves it as the enrollment reference used
by the startup verification gate. Point auth.referenceSample at the
written file.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if output == "" {
				output = o.cfg.Auth.ReferenceSample
			}
			if output == "" {
				return fmt.Errorf("no output path: pass --output or set auth.referenceSample")
			}

			recorder, err := speech.NewCommandRecorder(o.cfg.Speech.CaptureCommand, o.logger)
			if err != nil {
				return err
			}

			fprintln(cmd, "Recording... speak naturally for a few seconds.")
			path, err := recorder.Record(cmd.Context(), seconds)
			if err != nil {
				return err
			}
			defer os.Remove(path)

			sample, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read captured sample: %w", err)
			}
			if err := os.WriteFile(output, sample, 0o600); err != nil {
				return fmt.Errorf("write reference sample: %w", err)
			}

			fprintln(cmd, "Reference sample written to", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "where to write the reference sample (defaults to auth.referenceSample)")
	cmd.Flags().IntVar(&seconds, "seconds", 5, "capture duration in seconds")
	return cmd
}
