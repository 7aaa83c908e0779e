// Package pool implements the accounting core of a single
// concentrated-liquidity pool: per-tick and per-position liquidity ledgers
// and the mint path that converts a liquidity delta into token amounts and
// settles them through a caller-supplied callback.
package pool

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/defistate/clpool-go/liquiditymath"
	"github.com/defistate/clpool-go/tickmath"
)

// BalanceReader is the balance-query capability of a token ledger. The pool
// uses it to verify settlement by re-reading its own balances, never to move
// funds.
type BalanceReader interface {
	BalanceOf(owner common.Address) *big.Int
}

// MintCallback performs the actual token movement of a mint. It is invoked
// synchronously from inside Mint and must cause amount0 of token0 and
// amount1 of token1 to arrive at the pool's address before returning.
//
// The pool's ledgers are already updated when the callback runs, so the
// callback may legally re-enter the pool's public surface and observe the
// new state.
type MintCallback interface {
	OnMintCallback(amount0, amount1 *big.Int, data any) error
}

// MintCallbackFunc adapts a plain function to the MintCallback interface.
type MintCallbackFunc func(amount0, amount1 *big.Int, data any) error

func (f MintCallbackFunc) OnMintCallback(amount0, amount1 *big.Int, data any) error {
	return f(amount0, amount1, data)
}

// Slot0 is the pool's global price state: the current sqrt price in Q64.96
// and the tick whose price boundary is at or below it. The two are kept
// consistent at all times.
type Slot0 struct {
	SqrtPriceX96 *big.Int `json:"sqrtPriceX96"`
	Tick         int64    `json:"tick"`
}

// MintEvent is the single observable record emitted per settled mint.
type MintEvent struct {
	Owner     common.Address `json:"owner"`
	LowerTick int64          `json:"lowerTick"`
	UpperTick int64          `json:"upperTick"`
	Liquidity *big.Int       `json:"liquidity"`
	Amount0   *big.Int       `json:"amount0"`
	Amount1   *big.Int       `json:"amount1"`
}

// Config carries everything a pool needs at construction.
//
// SqrtPriceX96 and Tick must be mutually consistent; the pool does not
// recompute one from the other. That consistency is the caller's
// responsibility (tickmath.TickAtSqrtRatio derives a consistent tick).
type Config struct {
	// Address is the identity under which the pool holds token balances.
	Address common.Address
	Token0  common.Address
	Token1  common.Address

	// Balance0 and Balance1 query the pool's holdings on each token's
	// ledger.
	Balance0 BalanceReader
	Balance1 BalanceReader

	SqrtPriceX96 *big.Int
	Tick         int64

	// Logger receives the per-mint success event. Optional.
	Logger Logger
	// Registry receives the pool's metrics. Optional; a private registry
	// is used when nil.
	Registry prometheus.Registerer
}

func (c *Config) validate() error {
	if c.Token0 == c.Token1 {
		return errors.New("config: token0 and token1 must differ")
	}
	if c.Balance0 == nil || c.Balance1 == nil {
		return errors.New("config: both balance readers are required")
	}
	if c.SqrtPriceX96 == nil || c.SqrtPriceX96.Sign() <= 0 {
		return errors.New("config: initial sqrt price must be positive")
	}
	if c.Tick < tickmath.MinTick || c.Tick > tickmath.MaxTick {
		return fmt.Errorf("config: initial tick %d: %w", c.Tick, tickmath.ErrTickOutOfBounds)
	}
	return nil
}

// Pool owns the three ledgers of one pool instance: tick, position and the
// global slot state. All mutation happens inside Mint, one atomic operation
// at a time.
type Pool struct {
	address common.Address
	token0  common.Address
	token1  common.Address

	balance0 BalanceReader
	balance1 BalanceReader

	slot0     Slot0
	liquidity *big.Int

	ticks     ticks
	positions positions
	events    []MintEvent

	logger  Logger
	metrics *Metrics
}

// New constructs a pool with zero liquidity and empty ledgers.
func New(cfg Config) (*Pool, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = nopLogger{}
	}
	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	return &Pool{
		address:  cfg.Address,
		token0:   cfg.Token0,
		token1:   cfg.Token1,
		balance0: cfg.Balance0,
		balance1: cfg.Balance1,
		slot0: Slot0{
			SqrtPriceX96: new(big.Int).Set(cfg.SqrtPriceX96),
			Tick:         cfg.Tick,
		},
		liquidity: new(big.Int),
		ticks:     make(ticks),
		positions: make(positions),
		logger:    logger,
		metrics:   NewMetrics(registry),
	}, nil
}

// Mint adds liquidity to [lowerTick, upperTick) for owner and returns the
// token amounts the range deposit required.
//
// The ledgers are updated before cb runs, then the pool re-reads its own
// balances and fails with ErrInsufficientInputAmount if the callback did not
// deliver. Any failure rolls back every mutation of this attempt, so a
// failed mint leaves no trace.
func (p *Pool) Mint(
	owner common.Address,
	lowerTick, upperTick int64,
	liquidity *big.Int,
	cb MintCallback,
	data any,
) (amount0, amount1 *big.Int, err error) {
	timer := prometheus.NewTimer(p.metrics.mintDuration)
	defer timer.ObserveDuration()
	defer func() {
		if err != nil {
			p.metrics.mintFailures.Inc()
		}
	}()

	if lowerTick >= upperTick || lowerTick < tickmath.MinTick || upperTick > tickmath.MaxTick {
		return nil, nil, fmt.Errorf("%w: [%d, %d)", ErrInvalidTickRange, lowerTick, upperTick)
	}
	if liquidity == nil || liquidity.Sign() <= 0 {
		return nil, nil, ErrZeroLiquidity
	}
	if cb == nil {
		return nil, nil, ErrNilCallback
	}

	delta := new(big.Int).Set(liquidity)
	negDelta := new(big.Int).Neg(delta)

	// Every mutation from here on registers its inverse; the deferred
	// sweep keeps a failed mint atomic.
	var undo []func()
	defer func() {
		if err != nil {
			for i := len(undo) - 1; i >= 0; i-- {
				undo[i]()
			}
		}
	}()

	if err = p.ticks.update(lowerTick, delta); err != nil {
		return nil, nil, err
	}
	undo = append(undo, func() { _ = p.ticks.update(lowerTick, negDelta) })

	if err = p.ticks.update(upperTick, delta); err != nil {
		return nil, nil, err
	}
	undo = append(undo, func() { _ = p.ticks.update(upperTick, negDelta) })

	key := PositionKey{Owner: owner, LowerTick: lowerTick, UpperTick: upperTick}
	if err = p.positions.update(key, delta); err != nil {
		return nil, nil, err
	}
	undo = append(undo, func() { _ = p.positions.update(key, negDelta) })

	sqrtRatioLower, err := tickmath.SqrtRatioAtTick(lowerTick)
	if err != nil {
		return nil, nil, err
	}
	sqrtRatioUpper, err := tickmath.SqrtRatioAtTick(upperTick)
	if err != nil {
		return nil, nil, err
	}

	amount0, amount1, err = liquiditymath.AmountsForLiquidity(
		p.slot0.Tick, lowerTick, upperTick,
		p.slot0.SqrtPriceX96, sqrtRatioLower, sqrtRatioUpper, delta,
	)
	if err != nil {
		return nil, nil, err
	}

	// Global liquidity counts only ranges straddling the current tick.
	if p.slot0.Tick >= lowerTick && p.slot0.Tick < upperTick {
		var next *big.Int
		next, err = liquiditymath.AddDelta(p.liquidity, delta)
		if err != nil {
			return nil, nil, err
		}
		p.liquidity = next
		// Revert by delta, not by snapshot: a reentrant mint may have
		// grown the global liquidity since, and its contribution must
		// survive this mint's rollback.
		undo = append(undo, func() {
			reverted, _ := liquiditymath.AddDelta(p.liquidity, negDelta)
			p.liquidity = reverted
		})
	}

	// Optimistic settlement: snapshot balances, let the callback move the
	// tokens, then verify arrival instead of trusting a pre-computed
	// debit.
	balance0Before := p.balance0.BalanceOf(p.address)
	balance1Before := p.balance1.BalanceOf(p.address)

	if err = cb.OnMintCallback(amount0, amount1, data); err != nil {
		return nil, nil, fmt.Errorf("mint callback: %w", err)
	}

	owed0 := new(big.Int).Add(balance0Before, amount0)
	if p.balance0.BalanceOf(p.address).Cmp(owed0) < 0 {
		return nil, nil, fmt.Errorf("%w: token0 %s", ErrInsufficientInputAmount, p.token0)
	}
	owed1 := new(big.Int).Add(balance1Before, amount1)
	if p.balance1.BalanceOf(p.address).Cmp(owed1) < 0 {
		return nil, nil, fmt.Errorf("%w: token1 %s", ErrInsufficientInputAmount, p.token1)
	}

	event := MintEvent{
		Owner:     owner,
		LowerTick: lowerTick,
		UpperTick: upperTick,
		Liquidity: new(big.Int).Set(delta),
		Amount0:   new(big.Int).Set(amount0),
		Amount1:   new(big.Int).Set(amount1),
	}
	p.events = append(p.events, event)
	p.metrics.mintsTotal.Inc()
	p.logger.Info("mint settled",
		"owner", owner,
		"lowerTick", lowerTick,
		"upperTick", upperTick,
		"liquidity", delta.String(),
		"amount0", amount0.String(),
		"amount1", amount1.String(),
	)
	return amount0, amount1, nil
}

// Address returns the identity under which the pool holds balances.
func (p *Pool) Address() common.Address { return p.address }

// Token0 returns the address of the pool's first asset.
func (p *Pool) Token0() common.Address { return p.token0 }

// Token1 returns the address of the pool's second asset.
func (p *Pool) Token1() common.Address { return p.token1 }

// Slot0 returns a copy of the current price state.
func (p *Pool) Slot0() Slot0 {
	return Slot0{
		SqrtPriceX96: new(big.Int).Set(p.slot0.SqrtPriceX96),
		Tick:         p.slot0.Tick,
	}
}

// Liquidity returns a copy of the liquidity active at the current tick.
func (p *Pool) Liquidity() *big.Int {
	return new(big.Int).Set(p.liquidity)
}

// Tick returns a copy of a tick's ledger entry; zero-value for ticks no
// position references.
func (p *Pool) Tick(index int64) TickInfo {
	return p.ticks.get(index)
}

// Position returns the liquidity owned by (owner, lowerTick, upperTick),
// zero for absent triples.
func (p *Pool) Position(owner common.Address, lowerTick, upperTick int64) *big.Int {
	return p.positions.liquidity(PositionKey{Owner: owner, LowerTick: lowerTick, UpperTick: upperTick})
}

// InitializedTicks returns the initialized tick indices in ascending order.
func (p *Pool) InitializedTicks() []int64 {
	return p.ticks.sorted()
}

// NextInitializedTick returns the nearest initialized tick at or below tick
// when lte is set, or strictly above it otherwise.
func (p *Pool) NextInitializedTick(tick int64, lte bool) (int64, bool) {
	return p.ticks.next(tick, lte)
}

// MintEvents returns the journal of settled mints in order.
func (p *Pool) MintEvents() []MintEvent {
	events := make([]MintEvent, len(p.events))
	copy(events, p.events)
	return events
}
