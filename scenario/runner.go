package scenario

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rustyeddy/paperbroker/broker"
	"github.com/rustyeddy/paperbroker/config"
	"github.com/rustyeddy/paperbroker/journal"
	"github.com/rustyeddy/paperbroker/market"
	"github.com/rustyeddy/paperbroker/sim"
)

// Runner executes a scripted scenario from config against a fresh
// simulated engine. Business rejections (no liquidity, insufficient
// funds) are logged and counted, not fatal; only infrastructure failures
// abort the run.
type Runner struct {
	cfg    *config.Config
	logger *zap.Logger
}

func NewRunner(cfg *config.Config, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{cfg: cfg, logger: logger}
}

// Summary reports what a run did.
type Summary struct {
	Placed    int
	Filled    int
	Rejected  int
	Cancelled int
	Pending   int
	OrderIDs  []string
	Balances  map[market.Asset]decimal.Decimal
}

func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	j, err := openJournal(r.cfg.Journal)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()

	engine, err := buildEngine(r.cfg, j)
	if err != nil {
		return nil, err
	}

	summary := &Summary{}
	for i, step := range r.cfg.Scenario {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := r.runStep(ctx, engine, step, summary); err != nil {
			return nil, fmt.Errorf("scenario[%d] %s: %w", i, step.Action, err)
		}
	}

	orders, err := engine.GetOrders(ctx)
	if err != nil {
		return nil, err
	}
	for _, ord := range orders {
		switch ord.Status {
		case broker.Filled:
			summary.Filled++
		case broker.Rejected:
			summary.Rejected++
		case broker.Cancelled:
			summary.Cancelled++
		case broker.Pending:
			summary.Pending++
		}
	}

	acct, err := engine.GetAccount(ctx)
	if err != nil {
		return nil, err
	}
	summary.Balances = acct.Balances

	r.logger.Info("scenario complete",
		zap.Int("placed", summary.Placed),
		zap.Int("filled", summary.Filled),
		zap.Int("rejected", summary.Rejected),
		zap.Int("cancelled", summary.Cancelled),
		zap.Int("pending", summary.Pending),
	)
	return summary, nil
}

func (r *Runner) runStep(ctx context.Context, engine *sim.Engine, step config.Step, summary *Summary) error {
	switch step.Action {
	case "set_price":
		pair, err := market.ParsePair(step.Pair)
		if err != nil {
			return err
		}
		price, err := decimal.NewFromString(step.Price)
		if err != nil {
			return err
		}
		if err := engine.SetPrice(pair, price); err != nil {
			return err
		}
		r.logger.Info("price set",
			zap.String("pair", pair.String()),
			zap.String("price", price.String()),
		)

	case "advance":
		d, err := time.ParseDuration(step.Advance)
		if err != nil {
			return err
		}
		if err := engine.Advance(d); err != nil {
			return err
		}
		r.logger.Info("clock advanced",
			zap.Duration("by", d),
			zap.Time("now", engine.Now()),
		)

	case "order":
		req, err := buildRequest(step)
		if err != nil {
			return err
		}
		orderID, err := engine.PlaceOrder(ctx, req)
		if err != nil && !rejection(err) {
			return err
		}
		summary.Placed++
		summary.OrderIDs = append(summary.OrderIDs, orderID)
		if err != nil {
			r.logger.Warn("order rejected",
				zap.String("order_id", orderID),
				zap.Error(err),
			)
			return nil
		}
		ord, err := engine.GetOrder(ctx, orderID)
		if err != nil {
			return err
		}
		r.logger.Info("order placed",
			zap.String("order_id", ord.ID),
			zap.String("pair", ord.Pair.String()),
			zap.String("side", ord.Side.String()),
			zap.String("status", ord.Status.String()),
		)

	case "cancel":
		if step.Order < 1 || step.Order > len(summary.OrderIDs) {
			return fmt.Errorf("cancel references order %d of %d", step.Order, len(summary.OrderIDs))
		}
		orderID := summary.OrderIDs[step.Order-1]
		err := engine.CancelOrder(ctx, orderID)
		if err != nil && !rejection(err) {
			return err
		}
		if err != nil {
			r.logger.Warn("cancel refused", zap.String("order_id", orderID), zap.Error(err))
			return nil
		}
		r.logger.Info("order cancelled", zap.String("order_id", orderID))

	default:
		return fmt.Errorf("unknown action %q", step.Action)
	}
	return nil
}

// rejection reports whether err is a caller-visible business outcome
// rather than an infrastructure failure.
func rejection(err error) bool {
	return errors.Is(err, broker.ErrInvalidRequest) ||
		errors.Is(err, broker.ErrNoLiquidity) ||
		errors.Is(err, broker.ErrInsufficientFunds) ||
		errors.Is(err, broker.ErrInvalidState) ||
		errors.Is(err, broker.ErrNotFound)
}

func buildRequest(step config.Step) (broker.OrderRequest, error) {
	pair, err := market.ParsePair(step.Pair)
	if err != nil {
		return broker.OrderRequest{}, err
	}

	var amount market.Amount
	if step.Units != "" {
		v, err := decimal.NewFromString(step.Units)
		if err != nil {
			return broker.OrderRequest{}, fmt.Errorf("units: %w", err)
		}
		amount = market.Units(v)
	} else {
		v, err := decimal.NewFromString(step.Notional)
		if err != nil {
			return broker.OrderRequest{}, fmt.Errorf("notional: %w", err)
		}
		amount = market.Notional(v)
	}

	side := broker.Buy
	if step.Side == "sell" {
		side = broker.Sell
	}

	req := broker.OrderRequest{Pair: pair, Side: side, Amount: amount}
	if step.Limit != "" {
		limit, err := decimal.NewFromString(step.Limit)
		if err != nil {
			return broker.OrderRequest{}, fmt.Errorf("limit: %w", err)
		}
		req.LimitPrice = &limit
	}
	return req, nil
}

func buildEngine(cfg *config.Config, j journal.Journal) (*sim.Engine, error) {
	balance, err := decimal.NewFromString(cfg.Account.Balance)
	if err != nil {
		return nil, fmt.Errorf("account balance: %w", err)
	}

	fees, err := buildFees(cfg.Fees)
	if err != nil {
		return nil, err
	}

	extra := make([]market.Asset, 0, len(cfg.Account.NotionalAssets))
	for _, a := range cfg.Account.NotionalAssets {
		extra = append(extra, market.Asset(a))
	}

	return sim.NewEngine(sim.Config{
		AccountID:      cfg.Account.ID,
		Currency:       market.Asset(cfg.Account.Currency),
		Deposit:        balance,
		NotionalAssets: extra,
		Fees:           fees,
		Journal:        j,
	})
}

func buildFees(cfg config.FeeConfig) (sim.FeeModel, error) {
	switch cfg.Model {
	case "", "zero":
		return sim.ZeroFee{}, nil
	case "proportional":
		rate, err := decimal.NewFromString(cfg.Rate)
		if err != nil {
			return nil, fmt.Errorf("fee rate: %w", err)
		}
		return sim.ProportionalFee{Rate: rate}, nil
	case "flat":
		charge, err := decimal.NewFromString(cfg.Charge)
		if err != nil {
			return nil, fmt.Errorf("fee charge: %w", err)
		}
		return sim.FlatFee{Charge: charge}, nil
	}
	return nil, fmt.Errorf("unknown fee model %q", cfg.Model)
}

func openJournal(cfg config.JournalConfig) (journal.Journal, error) {
	switch cfg.Type {
	case "", "none":
		return journal.Discard{}, nil
	case "csv":
		return journal.NewCSV(cfg.OrdersFile, cfg.BalancesFile)
	case "sqlite":
		return journal.NewSQLite(cfg.DBPath)
	}
	return nil, fmt.Errorf("unknown journal type %q", cfg.Type)
}
