package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/velmoor/luma/internal/luma/auth"
)

func newVerifyCmd(o *opts) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <sample.wav>",
		Short: "Check a voice sample against the enrolled reference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := o.cfg
			embedder := auth.NewHTTPEmbedder(auth.HTTPEmbedderConfig{
				URL:     cfg.Backends.EmbeddingURL,
				APIKey:  cfg.APIKey(),
				Timeout: cfg.Backends.Timeout,
			})
			verifier, err := auth.NewVerifier(cmd.Context(), embedder, cfg.Auth.ReferenceSample, o.logger)
			if err != nil {
				return err
			}

			decision := verifier.Verify(cmd.Context(), args[0], cfg.Auth.Threshold)
			fprintln(cmd, fmt.Sprintf("similarity: %.4f (threshold %.2f)", decision.Similarity, cfg.Auth.Threshold))
			if !decision.Accepted {
				return fmt.Errorf("rejected: %s", decision.Reason)
			}
			fprintln(cmd, "accepted")
			return nil
		},
	}
}
