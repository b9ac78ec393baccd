package commands

import (
	"github.com/spf13/cobra"

	"github.com/velmoor/luma/internal/luma/memory"
	"github.com/velmoor/luma/internal/luma/store"
)

// withDocuments opens the document store for the short-lived inspection
// commands and closes it when fn returns.
func withDocuments(o *opts, fn func(docs *store.Documents) error) error {
	s, err := store.New(o.cfg.Storage.DatabasePath)
	if err != nil {
		return err
	}
	defer s.Close()

	docs, err := store.NewDocuments(s)
	if err != nil {
		return err
	}
	return fn(docs)
}

func newHistoryCmd(o *opts) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Print the stored conversation window",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDocuments(o, func(docs *store.Documents) error {
				window := memory.NewContextWindow(docs, o.cfg.Assistant.MaxTurns)
				formatted, err := window.Formatted(cmd.Context())
				if err != nil {
					return err
				}
				if formatted == "" {
					fprintln(cmd, "(no conversation recorded)")
					return nil
				}
				fprintln(cmd, formatted)
				return nil
			})
		},
	}
}

func newClearCmd(o *opts) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Erase the stored conversation window",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDocuments(o, func(docs *store.Documents) error {
				window := memory.NewContextWindow(docs, o.cfg.Assistant.MaxTurns)
				if err := window.Clear(cmd.Context()); err != nil {
					return err
				}
				fprintln(cmd, "conversation window cleared")
				return nil
			})
		},
	}
}
