package commands

import (
	"github.com/spf13/cobra"

	"github.com/velmoor/luma/common/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the luma version",
		Run: func(cmd *cobra.Command, _ []string) {
			fprintln(cmd, "luma", version.Info())
		},
	}
}
