package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information - will be set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "weft",
		Short: "Weft prompt-directive engine and tooling",
		Long: `Weft rewrites annotated prompts deterministically. Inline +++Name(...)
annotations are parsed, resolved against a versioned directive catalog,
validated, and composed into a single transformed prompt.`,
	}

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(transformCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(listCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
