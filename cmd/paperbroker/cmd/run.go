package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/paperbroker/config"
	"github.com/rustyeddy/paperbroker/market"
	"github.com/rustyeddy/paperbroker/scenario"
)

var (
	runConfigPath string
	runVerbose    bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a scripted scenario from a config file",
	Long: `Run executes the scenario section of a YAML or JSON config against a
fresh simulated broker, journaling orders and balances as configured.

Without --config the built-in default scenario is used.

Examples:
  paperbroker run --config scenario.yaml
  paperbroker run --verbose`,
	RunE: runScenario,
}

func init() {
	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "", "path to a scenario config file")
	runCmd.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "log every scenario step")
	rootCmd.AddCommand(runCmd)
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if runConfigPath != "" {
		loaded, err := config.LoadFromFile(runConfigPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	logger := zap.NewNop()
	if runVerbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		defer l.Sync()
		logger = l
	}

	summary, err := scenario.NewRunner(cfg, logger).Run(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("Orders: %d placed, %d filled, %d rejected, %d cancelled, %d pending\n",
		summary.Placed, summary.Filled, summary.Rejected, summary.Cancelled, summary.Pending)

	assets := make([]string, 0, len(summary.Balances))
	for a := range summary.Balances {
		assets = append(assets, string(a))
	}
	sort.Strings(assets)

	fmt.Println("Final balances:")
	for _, a := range assets {
		fmt.Printf("  %-8s %s\n", a, summary.Balances[market.Asset(a)])
	}
	return nil
}
