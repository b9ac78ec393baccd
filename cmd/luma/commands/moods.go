package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/velmoor/luma/internal/luma/memory"
	"github.com/velmoor/luma/internal/luma/store"
)

func newMoodsCmd(o *opts) *cobra.Command {
	var last int

	cmd := &cobra.Command{
		Use:   "moods",
		Short: "Print the recorded mood history",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDocuments(o, func(docs *store.Documents) error {
				tracker := memory.NewMoodTracker(docs, nil)
				entries, err := tracker.Entries(cmd.Context())
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					fprintln(cmd, "(no moods recorded)")
					return nil
				}
				if last > 0 && len(entries) > last {
					entries = entries[len(entries)-last:]
				}
				for _, e := range entries {
					fprintln(cmd, fmt.Sprintf("%s  %s",
						e.Timestamp.Local().Format(time.RFC3339), e.Mood))
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&last, "last", 0, "show only the most recent N entries (0 for all)")
	return cmd
}
