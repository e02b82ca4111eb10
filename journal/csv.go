package journal

import (
	"encoding/csv"
	"os"
	"time"
)

type CSV struct {
	orders   *csv.Writer
	balances *csv.Writer
	of, bf   *os.File
}

func NewCSV(ordersPath, balancesPath string) (*CSV, error) {
	of, err := os.Create(ordersPath)
	if err != nil {
		return nil, err
	}
	bf, err := os.Create(balancesPath)
	if err != nil {
		of.Close()
		return nil, err
	}

	ow := csv.NewWriter(of)
	bw := csv.NewWriter(bf)

	if err := ow.Write([]string{
		"order_id", "pair", "side", "type", "status",
		"units", "fill_price", "notional", "fee",
		"placed_at", "settled_at", "reason",
	}); err != nil {
		of.Close()
		bf.Close()
		return nil, err
	}
	if err := bw.Write([]string{"time", "asset", "balance"}); err != nil {
		of.Close()
		bf.Close()
		return nil, err
	}

	return &CSV{orders: ow, balances: bw, of: of, bf: bf}, nil
}

func (j *CSV) RecordOrder(r OrderRecord) error {
	if err := j.orders.Write([]string{
		r.OrderID,
		r.Pair,
		r.Side,
		r.Type,
		r.Status,
		r.Units.String(),
		r.FillPrice.String(),
		r.Notional.String(),
		r.Fee.String(),
		r.PlacedAt.UTC().Format(time.RFC3339Nano),
		r.SettledAt.UTC().Format(time.RFC3339Nano),
		r.Reason,
	}); err != nil {
		return err
	}
	j.orders.Flush()
	return j.orders.Error()
}

func (j *CSV) RecordBalance(s BalanceSnapshot) error {
	if err := j.balances.Write([]string{
		s.Time.UTC().Format(time.RFC3339Nano),
		s.Asset,
		s.Balance.String(),
	}); err != nil {
		return err
	}
	j.balances.Flush()
	return j.balances.Error()
}

func (j *CSV) Close() error {
	j.orders.Flush()
	j.balances.Flush()

	if err := j.of.Close(); err != nil {
		j.bf.Close()
		return err
	}
	return j.bf.Close()
}
