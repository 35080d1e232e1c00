package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "compliance",
	Short: "Healthy City standards compliance tracker",
	Long: `Track the city's 80 Healthy City program standards: which agency is
responsible for each standard, the evidence submitted against it, and how
far the city is from full compliance.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
