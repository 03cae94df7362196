package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "printconnect",
		Short:        "Print Connect admin CLI",
		Long:         "Manage the Print Connect store: apply the schema, load fixtures and inspect providers and users.",
		SilenceUsage: true,
	}

	// Database
	root.AddCommand(newMigrateCmd())
	root.AddCommand(newSeedCmd())

	// Inspection
	root.AddCommand(newProvidersCmd())
	root.AddCommand(newUsersCmd())

	return root
}
