// Command learnctl is the operator tool of the Learnify engine: it checks
// configuration files and computes habit streaks offline.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "learnctl",
		Short:         "Learnify engine tooling",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newStreakCmd(), newConfigCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
