package broker

import "errors"

// Caller-visible outcomes. All are recoverable business rejections, never
// process-fatal; match with errors.Is.
var (
	// ErrInvalidRequest: non-positive amount, malformed pair or
	// non-positive limit price. Detected before any ledger access.
	ErrInvalidRequest = errors.New("invalid order request")

	// ErrNoLiquidity: no price available for a market order or for the
	// initial evaluation of a limit order.
	ErrNoLiquidity = errors.New("no price available")

	// ErrInsufficientFunds: the balance check failed at placement or at
	// limit re-evaluation. The rejection is terminal.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidState: cancel requested on a non-pending order.
	ErrInvalidState = errors.New("order is not pending")

	// ErrNotFound: unknown order id.
	ErrNotFound = errors.New("order not found")
)
