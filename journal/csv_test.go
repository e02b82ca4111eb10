package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVJournal(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ordersPath := filepath.Join(dir, "orders.csv")
	balancesPath := filepath.Join(dir, "balances.csv")

	j, err := NewCSV(ordersPath, balancesPath)
	require.NoError(t, err)

	require.NoError(t, j.RecordOrder(testRecord()))
	require.NoError(t, j.RecordBalance(BalanceSnapshot{
		Time:    time.Date(2025, 1, 2, 9, 31, 0, 0, time.UTC),
		Asset:   "USD",
		Balance: decimal.NewFromInt(900),
	}))
	require.NoError(t, j.Close())

	of, err := os.Open(ordersPath)
	require.NoError(t, err)
	defer of.Close()
	rows, err := csv.NewReader(of).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "order_id", rows[0][0])
	assert.Equal(t, "01JGABCDEF0000000000000000", rows[1][0])
	assert.Equal(t, "AAPL/USD", rows[1][1])
	assert.Equal(t, "276.39", rows[1][6])
	assert.Equal(t, "2025-01-02T09:30:00Z", rows[1][9])

	bf, err := os.Open(balancesPath)
	require.NoError(t, err)
	defer bf.Close()
	rows, err = csv.NewReader(bf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"2025-01-02T09:31:00Z", "USD", "900"}, rows[1])
}

func TestCSVBadPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, err := NewCSV(filepath.Join(dir, "missing", "orders.csv"), filepath.Join(dir, "balances.csv"))
	assert.Error(t, err)
}
