package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bookwright",
	Short: "Book-pipeline validation engine",
	Long: `Bookwright validates AI-generated book content (concepts, outlines,
chapters) with a pluggable set of validators and aggregates their
findings into one quality verdict.

With an Anthropic API key configured, AI-backed validators call the
real API and every interaction is recorded. Without one, the same
validators run against deterministic mock responses, replaying any
recorded interactions, so validation runs are fully reproducible
offline.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(validatorsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(versionCmd)
}
