package scenario

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/paperbroker/config"
)

func baseConfig() *config.Config {
	return &config.Config{
		Account: config.AccountConfig{
			ID:       "SIM-TEST",
			Currency: "USD",
			Balance:  "1000",
		},
		Journal: config.JournalConfig{Type: "none"},
	}
}

func TestRunDefaultScenario(t *testing.T) {
	t.Parallel()

	cfg := baseConfig()
	cfg.Scenario = config.Default().Scenario
	require.NoError(t, cfg.Validate())

	summary, err := NewRunner(cfg, nil).Run(context.Background())
	require.NoError(t, err)

	// Market buy fills at 276.39, the resting limit fills once the price
	// drops to 240. Each spends exactly its 100 notional.
	assert.Equal(t, 2, summary.Placed)
	assert.Equal(t, 2, summary.Filled)
	assert.Equal(t, 0, summary.Rejected)
	assert.Equal(t, 0, summary.Pending)
	assert.True(t, summary.Balances["USD"].Equal(decimal.NewFromInt(800)),
		"USD = %s, want 800", summary.Balances["USD"])
	assert.True(t, summary.Balances["AAPL"].IsPositive())
}

func TestRunRejectionDoesNotAbort(t *testing.T) {
	t.Parallel()

	cfg := baseConfig()
	cfg.Scenario = []config.Step{
		{Action: "set_price", Pair: "AAPL/USD", Price: "100"},
		{Action: "order", Side: "buy", Pair: "AAPL/USD", Notional: "5000"},
		{Action: "order", Side: "buy", Pair: "AAPL/USD", Notional: "100"},
	}

	summary, err := NewRunner(cfg, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Placed)
	assert.Equal(t, 1, summary.Rejected)
	assert.Equal(t, 1, summary.Filled)
	assert.True(t, summary.Balances["USD"].Equal(decimal.NewFromInt(900)))
}

func TestRunCancelStep(t *testing.T) {
	t.Parallel()

	cfg := baseConfig()
	cfg.Scenario = []config.Step{
		{Action: "set_price", Pair: "AAPL/USD", Price: "300"},
		{Action: "order", Side: "buy", Pair: "AAPL/USD", Units: "1", Limit: "250"},
		{Action: "cancel", Order: 1},
		{Action: "set_price", Pair: "AAPL/USD", Price: "240"},
		{Action: "advance", Advance: "1m"},
	}

	summary, err := NewRunner(cfg, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Cancelled)
	assert.Equal(t, 0, summary.Filled)
	assert.True(t, summary.Balances["USD"].Equal(decimal.NewFromInt(1000)))
}

func TestRunWithCSVJournal(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := baseConfig()
	cfg.Journal = config.JournalConfig{
		Type:         "csv",
		OrdersFile:   filepath.Join(dir, "orders.csv"),
		BalancesFile: filepath.Join(dir, "balances.csv"),
	}
	cfg.Scenario = []config.Step{
		{Action: "set_price", Pair: "AAPL/USD", Price: "100"},
		{Action: "order", Side: "buy", Pair: "AAPL/USD", Units: "1"},
		{Action: "advance", Advance: "1m"},
	}

	_, err := NewRunner(cfg, nil).Run(context.Background())
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "orders.csv"))
	assert.FileExists(t, filepath.Join(dir, "balances.csv"))
}

func TestRunBadBalance(t *testing.T) {
	t.Parallel()

	cfg := baseConfig()
	cfg.Account.Balance = "plenty"
	_, err := NewRunner(cfg, nil).Run(context.Background())
	assert.Error(t, err)
}

func TestRunCancelledContext(t *testing.T) {
	t.Parallel()

	cfg := baseConfig()
	cfg.Scenario = []config.Step{
		{Action: "set_price", Pair: "AAPL/USD", Price: "100"},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRunner(cfg, nil).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
