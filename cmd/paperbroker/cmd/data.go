package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xyproto/unzip"

	"github.com/rustyeddy/paperbroker/market"
)

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Manage bar-history data files",
}

var dataImportCmd = &cobra.Command{
	Use:   "import <archive.zip> [dest]",
	Short: "Extract a zipped archive of bar-history files",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dest := "."
		if len(args) > 1 {
			dest = args[1]
		}
		if err := unzip.Extract(args[0], dest); err != nil {
			return fmt.Errorf("extract %s: %w", args[0], err)
		}
		fmt.Printf("Extracted %s to %s\n", args[0], dest)
		return nil
	},
}

var dataInspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Print summary statistics for a bar-history file",
	Long:  `Inspect reads a semicolon-separated bar file (plain or .xz) and prints its time range and price bounds.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bars, err := market.LoadBars(args[0])
		if err != nil {
			return err
		}
		if len(bars) == 0 {
			fmt.Println("No bars found")
			return nil
		}

		low, high := bars[0].Low, bars[0].High
		for _, b := range bars[1:] {
			if b.Low.LessThan(low) {
				low = b.Low
			}
			if b.High.GreaterThan(high) {
				high = b.High
			}
		}

		fmt.Printf("Bars:  %d\n", len(bars))
		fmt.Printf("From:  %s\n", bars[0].Time.Format("2006-01-02 15:04:05"))
		fmt.Printf("To:    %s\n", bars[len(bars)-1].Time.Format("2006-01-02 15:04:05"))
		fmt.Printf("Low:   %s\n", low)
		fmt.Printf("High:  %s\n", high)
		return nil
	},
}

func init() {
	dataCmd.AddCommand(dataImportCmd)
	dataCmd.AddCommand(dataInspectCmd)
	rootCmd.AddCommand(dataCmd)
}
