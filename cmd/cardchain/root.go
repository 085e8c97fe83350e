package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "cardchain",
		Short: "Generate personalized Christmas cards with chained language model prompts",
		Long: `cardchain writes a greeting from the sender's answers, enriches it with the
recipient's regional holiday traditions and renders the result as a PDF.`,
		SilenceUsage: true,
	}

	// Persistent flags (available to all commands)
	root.PersistentFlags().String("config", "", "Path to a YAML config file")

	root.AddCommand(newServeCmd(), newGenerateCmd())
	return root
}
