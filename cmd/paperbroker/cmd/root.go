package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "paperbroker",
	Short: "A deterministic simulated broker for strategy development",
	Long: `Paperbroker is an in-process simulated broker written in Go.

It provides tools for:
  - Placing market and limit orders against a simulated ledger
  - Driving a simulated clock so resting limit orders re-evaluate
  - Exact decimal balance bookkeeping with pluggable fee models
  - Scripted trading scenarios from YAML or JSON configs
  - Journaling fills and balances to CSV or SQLite
  - Importing and inspecting bar-history data files`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
