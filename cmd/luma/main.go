// Command luma is the voice assistant CLI.
package main

import (
	"fmt"
	"os"

	"github.com/velmoor/luma/cmd/luma/commands"
)

func main() {
	rootCmd := commands.NewRootCmd()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
