// Package liquiditymath holds the checked liquidity arithmetic shared by the
// pool's ledgers, plus the split of a liquidity delta into the token amounts
// it requires over a tick range.
package liquiditymath

import (
	"errors"
	"math/big"

	"github.com/defistate/clpool-go/sqrtpricemath"
)

var (
	// maxUint128 bounds every liquidity value (2^128 - 1).
	maxUint128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

	ErrLiquidityOverflow  = errors.New("liquidity overflow")
	ErrLiquidityUnderflow = errors.New("liquidity underflow")
)

// AddDelta adds a signed liquidity delta to an unsigned liquidity value,
// failing loudly instead of wrapping around.
func AddDelta(x, y *big.Int) (*big.Int, error) {
	sum := new(big.Int).Add(x, y)
	if sum.Sign() < 0 {
		return nil, ErrLiquidityUnderflow
	}
	if sum.Cmp(maxUint128) > 0 {
		return nil, ErrLiquidityOverflow
	}
	return sum, nil
}

// AmountsForLiquidity returns the token0 and token1 amounts a liquidity
// delta requires over [lowerTick, upperTick), given the pool's current tick
// and sqrt price.
//
// Below the range only token0 is required; at or above the upper tick only
// token1. Inside the range the current price replaces one boundary in each
// one-sided formula. Both amounts round towards the pool.
func AmountsForLiquidity(
	currentTick, lowerTick, upperTick int64,
	sqrtPriceX96, sqrtRatioLowerX96, sqrtRatioUpperX96, liquidity *big.Int,
) (amount0, amount1 *big.Int, err error) {
	switch {
	case currentTick < lowerTick:
		amount0, err = sqrtpricemath.Amount0Delta(sqrtRatioLowerX96, sqrtRatioUpperX96, liquidity, true)
		if err != nil {
			return nil, nil, err
		}
		amount1 = new(big.Int)

	case currentTick < upperTick:
		amount0, err = sqrtpricemath.Amount0Delta(sqrtPriceX96, sqrtRatioUpperX96, liquidity, true)
		if err != nil {
			return nil, nil, err
		}
		amount1, err = sqrtpricemath.Amount1Delta(sqrtRatioLowerX96, sqrtPriceX96, liquidity, true)
		if err != nil {
			return nil, nil, err
		}

	default:
		amount0 = new(big.Int)
		amount1, err = sqrtpricemath.Amount1Delta(sqrtRatioLowerX96, sqrtRatioUpperX96, liquidity, true)
		if err != nil {
			return nil, nil, err
		}
	}
	return amount0, amount1, nil
}
