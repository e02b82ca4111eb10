package sim

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/paperbroker/broker"
	"github.com/rustyeddy/paperbroker/journal"
	"github.com/rustyeddy/paperbroker/market"
	"github.com/rustyeddy/paperbroker/pkg/id"
)

// Engine is an in-process simulated broker: one account's ledger, a book
// of resting limit orders, a simulated clock and a pluggable market data
// source, composed behind the broker.Client interface.
//
// All operations are serialized by a single mutex so balance checks and
// ledger mutations are atomic with respect to each other.
type Engine struct {
	mu       sync.Mutex
	acctID   string
	currency market.Asset
	notional map[market.Asset]bool
	ledger   *Ledger
	clock    *Clock
	source   market.DataSource
	store    *market.Store
	fees     FeeModel
	journal  journal.Journal
	orders   map[string]*broker.Order
	resting  []string // pending limit order ids, placement order
}

// Config collects everything needed to build an Engine. Source, Clock,
// Fees and Journal are optional: the defaults are an in-memory price
// store, a clock started at the current wall time, zero fees and no
// journaling.
type Config struct {
	AccountID string
	Currency  market.Asset
	Deposit   decimal.Decimal

	// NotionalAssets are additional currency-like assets allowed on the
	// quote side of a pair, beyond Currency itself.
	NotionalAssets []market.Asset

	Source  market.DataSource
	Clock   *Clock
	Fees    FeeModel
	Journal journal.Journal
}

func NewEngine(cfg Config) (*Engine, error) {
	if cfg.Currency == "" {
		return nil, errors.New("new engine: currency is required")
	}
	if cfg.Deposit.IsNegative() {
		return nil, fmt.Errorf("new engine: negative deposit %s", cfg.Deposit)
	}

	e := &Engine{
		acctID:   cfg.AccountID,
		currency: cfg.Currency,
		notional: map[market.Asset]bool{cfg.Currency: true},
		ledger:   NewLedger(),
		clock:    cfg.Clock,
		source:   cfg.Source,
		fees:     cfg.Fees,
		journal:  cfg.Journal,
		orders:   make(map[string]*broker.Order),
	}
	for _, a := range cfg.NotionalAssets {
		e.notional[a] = true
	}
	if e.acctID == "" {
		e.acctID = "SIM-001"
	}
	if e.clock == nil {
		e.clock = NewClock(time.Now())
	}
	if e.source == nil {
		e.source = market.NewStore()
	}
	if st, ok := e.source.(*market.Store); ok {
		e.store = st
	}
	if e.fees == nil {
		e.fees = ZeroFee{}
	}
	if e.journal == nil {
		e.journal = journal.Discard{}
	}

	if cfg.Deposit.IsPositive() {
		if err := e.ledger.Deposit(cfg.Currency, cfg.Deposit); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Now reports the current simulated instant.
func (e *Engine) Now() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clock.Now()
}

// SetPrice updates the in-memory price fixture and gives resting limit
// orders a chance to match, mirroring a price tick arriving. It fails
// when the engine was built with an external data source.
func (e *Engine) SetPrice(pair market.Pair, price decimal.Decimal) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.store == nil {
		return errors.New("set price: engine data source is not settable")
	}
	if err := e.checkPair(pair); err != nil {
		return err
	}
	if !price.IsPositive() {
		return fmt.Errorf("%w: price must be positive", broker.ErrInvalidRequest)
	}

	e.store.SetPrice(pair, price)
	return e.sweepRestingLocked()
}

// Advance moves simulated time forward. Advancing is the sole mechanism
// by which resting limit orders are re-evaluated against fresh prices;
// the engine never polls asynchronously. A balance snapshot is journaled
// after every advance.
func (e *Engine) Advance(d time.Duration) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.clock.Advance(d); err != nil {
		return err
	}
	if err := e.sweepRestingLocked(); err != nil {
		return err
	}
	return e.recordBalancesLocked()
}

// Deposit credits the account outside of trading.
func (e *Engine) Deposit(asset market.Asset, amount decimal.Decimal) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Deposit(asset, amount)
}

// Withdraw debits the account outside of trading. Fails with
// broker.ErrInsufficientFunds when the balance does not cover it.
func (e *Engine) Withdraw(asset market.Asset, amount decimal.Decimal) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Withdraw(asset, amount)
}

// PlaceOrder validates the request, evaluates it against the current
// price and either settles it, rests it (non-marketable limits) or
// rejects it. Rejected orders are recorded: the returned id is valid even
// when the error is non-nil.
func (e *Engine) PlaceOrder(ctx context.Context, req broker.OrderRequest) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.validate(req); err != nil {
		return "", err
	}

	ord := &broker.Order{
		ID:         id.New(),
		Pair:       req.Pair,
		Side:       req.Side,
		Type:       req.Type(),
		Amount:     req.Amount,
		LimitPrice: req.LimitPrice,
		Status:     broker.Pending,
		PlacedAt:   e.clock.Now(),
	}
	e.orders[ord.ID] = ord

	price, err := e.source.PriceAt(ord.Pair, e.clock.Now())
	if err != nil {
		if !errors.Is(err, market.ErrNoPrice) {
			return "", fmt.Errorf("place order: %w", err)
		}
		if rerr := e.rejectLocked(ord, broker.ErrNoLiquidity); rerr != nil {
			return "", rerr
		}
		return ord.ID, fmt.Errorf("place order %s: %w", ord.ID, broker.ErrNoLiquidity)
	}

	if !marketable(ord, price) {
		// A limit order that cannot fill yet still needs the funds to
		// cover its worst-case settlement before it may rest.
		if err := e.checkFunds(ord, price); err != nil {
			if rerr := e.rejectLocked(ord, broker.ErrInsufficientFunds); rerr != nil {
				return "", rerr
			}
			return ord.ID, fmt.Errorf("place order %s: %w", ord.ID, err)
		}
		e.resting = append(e.resting, ord.ID)
		return ord.ID, nil
	}

	if err := e.settleLocked(ord, price); err != nil {
		if errors.Is(err, broker.ErrInsufficientFunds) {
			if rerr := e.rejectLocked(ord, broker.ErrInsufficientFunds); rerr != nil {
				return "", rerr
			}
			return ord.ID, fmt.Errorf("place order %s: %w", ord.ID, err)
		}
		return "", err
	}
	return ord.ID, nil
}

// CancelOrder cancels a still-pending order. Fails with
// broker.ErrInvalidState once the order reached a terminal status.
func (e *Engine) CancelOrder(ctx context.Context, orderID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ord, ok := e.orders[orderID]
	if !ok {
		return fmt.Errorf("cancel order %s: %w", orderID, broker.ErrNotFound)
	}
	if ord.Status != broker.Pending {
		return fmt.Errorf("cancel order %s: %w: status %s", orderID, broker.ErrInvalidState, ord.Status)
	}

	ord.Status = broker.Cancelled
	ord.SettledAt = e.clock.Now()
	return e.journalOrderLocked(ord)
}

func (e *Engine) GetOrder(ctx context.Context, orderID string) (broker.Order, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ord, ok := e.orders[orderID]
	if !ok {
		return broker.Order{}, fmt.Errorf("get order %s: %w", orderID, broker.ErrNotFound)
	}
	return *ord, nil
}

// GetOrders returns every order the engine has seen, oldest first. ULIDs
// sort by generation time, so ordering by id is placement order.
func (e *Engine) GetOrders(ctx context.Context) ([]broker.Order, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]broker.Order, 0, len(e.orders))
	for _, ord := range e.orders {
		out = append(out, *ord)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (e *Engine) GetAccount(ctx context.Context) (broker.Account, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return broker.Account{
		ID:       e.acctID,
		Currency: e.currency,
		Balances: e.ledger.Snapshot(),
	}, nil
}

func (e *Engine) validate(req broker.OrderRequest) error {
	if err := e.checkPair(req.Pair); err != nil {
		return err
	}
	if req.Side != broker.Buy && req.Side != broker.Sell {
		return fmt.Errorf("%w: unknown side %d", broker.ErrInvalidRequest, req.Side)
	}
	if !req.Amount.Positive() {
		return fmt.Errorf("%w: amount must be positive", broker.ErrInvalidRequest)
	}
	if req.LimitPrice != nil && !req.LimitPrice.IsPositive() {
		return fmt.Errorf("%w: limit price must be positive", broker.ErrInvalidRequest)
	}
	return nil
}

func (e *Engine) checkPair(pair market.Pair) error {
	if pair.Base == "" || pair.Quote == "" {
		return fmt.Errorf("%w: malformed pair %q", broker.ErrInvalidRequest, pair)
	}
	if !e.notional[pair.Quote] {
		return fmt.Errorf("%w: %s is not a configured quote asset", broker.ErrInvalidRequest, pair.Quote)
	}
	return nil
}

// marketable reports whether the order may fill at the given price. A
// market order always may; a limit buy needs price <= limit, a limit sell
// price >= limit.
func marketable(ord *broker.Order, price decimal.Decimal) bool {
	if ord.LimitPrice == nil {
		return true
	}
	if ord.Side == broker.Buy {
		return price.LessThanOrEqual(*ord.LimitPrice)
	}
	return price.GreaterThanOrEqual(*ord.LimitPrice)
}

// checkFunds verifies the account can cover the order, fee included,
// without mutating anything. Buys are checked at the limit price when one
// is set, since that is the most the settlement can cost.
func (e *Engine) checkFunds(ord *broker.Order, price decimal.Decimal) error {
	if ord.Side == broker.Buy {
		reserve := price
		if ord.LimitPrice != nil {
			reserve = *ord.LimitPrice
		}
		notional := ord.Amount.NotionalAt(reserve)
		need := notional.Add(e.fees.Fee(notional, ord.Side))
		if e.ledger.Balance(ord.Pair.Quote).LessThan(need) {
			return fmt.Errorf("%w: need %s %s", broker.ErrInsufficientFunds, need, ord.Pair.Quote)
		}
		return nil
	}

	units := ord.Amount.UnitsAt(price)
	if e.ledger.Balance(ord.Pair.Base).LessThan(units) {
		return fmt.Errorf("%w: need %s %s", broker.ErrInsufficientFunds, units, ord.Pair.Base)
	}
	return nil
}

// sweepRestingLocked re-evaluates resting limit orders against the
// current price, earliest placement first, so two orders can never
// double-commit the same balance. An order that fails its balance check
// here is rejected for good.
func (e *Engine) sweepRestingLocked() error {
	keep := make([]string, 0, len(e.resting))
	for _, oid := range e.resting {
		ord := e.orders[oid]
		if ord == nil || ord.Status != broker.Pending {
			continue
		}

		price, err := e.source.PriceAt(ord.Pair, e.clock.Now())
		if err != nil {
			if errors.Is(err, market.ErrNoPrice) {
				// A quote may appear on a later advance.
				keep = append(keep, oid)
				continue
			}
			return err
		}

		if !marketable(ord, price) {
			keep = append(keep, oid)
			continue
		}

		if err := e.settleLocked(ord, price); err != nil {
			if errors.Is(err, broker.ErrInsufficientFunds) {
				if rerr := e.rejectLocked(ord, broker.ErrInsufficientFunds); rerr != nil {
					return rerr
				}
				continue
			}
			return err
		}
	}
	e.resting = keep
	return nil
}

// settleLocked applies a fill atomically: every ledger leg and the fee
// debit succeed together or the order is left untouched.
func (e *Engine) settleLocked(ord *broker.Order, fillPrice decimal.Decimal) error {
	if ord.Status != broker.Pending {
		panic(fmt.Sprintf("settle on %s order %s", ord.Status, ord.ID))
	}

	units := ord.Amount.UnitsAt(fillPrice)
	notional := ord.Amount.NotionalAt(fillPrice)
	fee := e.fees.Fee(notional, ord.Side)

	var entries []Entry
	if ord.Side == broker.Buy {
		entries = []Entry{
			{Asset: ord.Pair.Quote, Delta: notional.Add(fee).Neg()},
			{Asset: ord.Pair.Base, Delta: units},
		}
	} else {
		entries = []Entry{
			{Asset: ord.Pair.Base, Delta: units.Neg()},
			{Asset: ord.Pair.Quote, Delta: notional.Sub(fee)},
		}
	}
	if err := e.ledger.Apply(entries); err != nil {
		return err
	}

	fp := fillPrice
	ord.Status = broker.Filled
	ord.FillPrice = &fp
	ord.FilledUnits = units
	ord.Fee = fee
	ord.SettledAt = e.clock.Now()
	return e.journalOrderLocked(ord)
}

func (e *Engine) rejectLocked(ord *broker.Order, reason error) error {
	ord.Status = broker.Rejected
	ord.Reason = reason.Error()
	ord.SettledAt = e.clock.Now()
	return e.journalOrderLocked(ord)
}

func (e *Engine) journalOrderLocked(ord *broker.Order) error {
	rec := journal.OrderRecord{
		OrderID:   ord.ID,
		Pair:      ord.Pair.String(),
		Side:      ord.Side.String(),
		Type:      ord.Type.String(),
		Status:    ord.Status.String(),
		Units:     ord.FilledUnits,
		Fee:       ord.Fee,
		PlacedAt:  ord.PlacedAt,
		SettledAt: ord.SettledAt,
		Reason:    ord.Reason,
	}
	if ord.FillPrice != nil {
		rec.FillPrice = *ord.FillPrice
		rec.Notional = ord.Amount.NotionalAt(*ord.FillPrice)
	}
	return e.journal.RecordOrder(rec)
}

func (e *Engine) recordBalancesLocked() error {
	now := e.clock.Now()
	for _, asset := range e.ledger.Assets() {
		err := e.journal.RecordBalance(journal.BalanceSnapshot{
			Time:    now,
			Asset:   string(asset),
			Balance: e.ledger.Balance(asset),
		})
		if err != nil {
			return err
		}
	}
	return nil
}
