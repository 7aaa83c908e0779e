package pool

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/defistate/clpool-go/liquiditymath"
)

// PositionKey identifies a liquidity commitment: one owner over one exact
// tick range.
type PositionKey struct {
	Owner     common.Address `json:"owner"`
	LowerTick int64          `json:"lowerTick"`
	UpperTick int64          `json:"upperTick"`
}

// Position holds the liquidity a key owns. Repeated mints of the same key
// accumulate here.
type Position struct {
	Liquidity *big.Int `json:"liquidity"`
}

type positions map[PositionKey]*Position

// update adds liquidityDelta to the key's position, creating it on first
// use and dropping it if the liquidity returns to zero.
func (ps positions) update(key PositionKey, liquidityDelta *big.Int) error {
	pos, exists := ps[key]
	if !exists {
		pos = &Position{Liquidity: new(big.Int)}
	}

	liquidity, err := liquiditymath.AddDelta(pos.Liquidity, liquidityDelta)
	if err != nil {
		return err
	}

	if liquidity.Sign() == 0 {
		delete(ps, key)
		return nil
	}
	pos.Liquidity = liquidity
	if !exists {
		ps[key] = pos
	}
	return nil
}

// liquidity returns a copy of the key's liquidity, zero for absent keys.
func (ps positions) liquidity(key PositionKey) *big.Int {
	pos, exists := ps[key]
	if !exists {
		return new(big.Int)
	}
	return new(big.Int).Set(pos.Liquidity)
}
