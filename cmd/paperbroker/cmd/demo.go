package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/paperbroker/broker"
	"github.com/rustyeddy/paperbroker/market"
	"github.com/rustyeddy/paperbroker/sim"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a built-in walkthrough of the simulated broker",
	Long: `Demonstrates the basic workflow:
  1. Building an engine with an initial USD deposit
  2. Setting a price for AAPL/USD
  3. Placing a market buy for a notional amount
  4. Resting a limit buy and filling it by moving the price
  5. Printing the resulting orders and balances`,
	RunE: runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

func runDemo(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	engine, err := sim.NewEngine(sim.Config{
		AccountID: "DEMO-001",
		Currency:  "USD",
		Deposit:   decimal.NewFromInt(1000),
		Clock:     sim.NewClock(time.Date(2025, 1, 2, 9, 30, 0, 0, time.UTC)),
	})
	if err != nil {
		return err
	}

	pair := market.Pair{Base: "AAPL", Quote: "USD"}
	if err := engine.SetPrice(pair, decimal.RequireFromString("276.39")); err != nil {
		return err
	}
	fmt.Println("Price set: AAPL/USD = 276.39")

	marketID, err := engine.PlaceOrder(ctx, broker.MarketBuy(pair, market.Notional(decimal.NewFromInt(100))))
	if err != nil {
		return err
	}
	ord, err := engine.GetOrder(ctx, marketID)
	if err != nil {
		return err
	}
	fmt.Printf("Market buy %s: %s, filled %s units at %s\n",
		ord.ID, ord.Status, ord.FilledUnits, ord.FillPrice)

	limitID, err := engine.PlaceOrder(ctx, broker.LimitBuy(
		pair, market.Notional(decimal.NewFromInt(100)), decimal.NewFromInt(250)))
	if err != nil {
		return err
	}
	ord, err = engine.GetOrder(ctx, limitID)
	if err != nil {
		return err
	}
	fmt.Printf("Limit buy %s at 250: %s\n", ord.ID, ord.Status)

	if err := engine.SetPrice(pair, decimal.NewFromInt(240)); err != nil {
		return err
	}
	if err := engine.Advance(time.Minute); err != nil {
		return err
	}
	ord, err = engine.GetOrder(ctx, limitID)
	if err != nil {
		return err
	}
	fmt.Printf("After price drop to 240: %s, filled %s units at %s\n",
		ord.Status, ord.FilledUnits, ord.FillPrice)

	acct, err := engine.GetAccount(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("\nFinal balances: USD %s, AAPL %s\n",
		acct.Balance("USD"), acct.Balance("AAPL"))
	return nil
}
