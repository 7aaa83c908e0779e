package pool

import "errors"

var (
	// ErrInvalidTickRange is returned when the lower tick is not strictly
	// below the upper tick, or either tick falls outside the representable
	// range.
	ErrInvalidTickRange = errors.New("invalid tick range")

	// ErrZeroLiquidity is returned when a mint requests a non-positive
	// liquidity delta.
	ErrZeroLiquidity = errors.New("zero liquidity")

	// ErrInsufficientInputAmount is returned when the mint callback comes
	// back without the pool's measured balances having grown by the owed
	// amounts.
	ErrInsufficientInputAmount = errors.New("insufficient input amount")

	// ErrNilCallback is returned when a mint is attempted without a
	// settlement callback.
	ErrNilCallback = errors.New("nil mint callback")
)
