// Package sqrtpricemath computes the token amounts a liquidity delta is
// worth between two Q64.96 square-root prices.
//
// All functions treat sqrtRatioAX96 as the lower bound and sqrtRatioBX96 as
// the upper bound. Inverted bounds are not reordered: the subtraction would
// go negative in an unsigned domain, so they fail with
// ErrSqrtPriceUnderflow. That strictness is deliberate; callers are expected
// to order the bounds themselves.
package sqrtpricemath

import (
	"errors"
	"math/big"
)

var (
	// Q96 is the Q64.96 fixed-point representation of 1.
	Q96 = new(big.Int).Lsh(big.NewInt(1), 96)
	// Resolution is the number of fractional bits in the Q96 format.
	Resolution = uint(96)

	ErrSqrtPriceZero      = errors.New("sqrt price must be greater than zero")
	ErrSqrtPriceUnderflow = errors.New("sqrt price subtraction underflow")

	one = big.NewInt(1)
)

// mulDiv returns (a * b) / c, truncated.
func mulDiv(a, b, c *big.Int) *big.Int {
	product := new(big.Int).Mul(a, b)
	return product.Div(product, c)
}

// mulDivRoundingUp returns ceil((a * b) / c).
func mulDivRoundingUp(a, b, c *big.Int) *big.Int {
	product := new(big.Int).Mul(a, b)
	quotient, rem := new(big.Int).DivMod(product, c, new(big.Int))
	if rem.Sign() > 0 {
		quotient.Add(quotient, one)
	}
	return quotient
}

// divRoundingUp returns ceil(a / b).
func divRoundingUp(a, b *big.Int) *big.Int {
	quotient, rem := new(big.Int).DivMod(a, b, new(big.Int))
	if rem.Sign() > 0 {
		quotient.Add(quotient, one)
	}
	return quotient
}

// Amount0Delta returns the amount of token0 that liquidity covers between
// the two sqrt prices:
//
//	liquidity * 2^96 * (sqrtRatioBX96 - sqrtRatioAX96) / sqrtRatioBX96 / sqrtRatioAX96
//
// With roundUp the result is rounded towards the pool, which is the rounding
// a deposit path must use so it never under-collects.
func Amount0Delta(sqrtRatioAX96, sqrtRatioBX96, liquidity *big.Int, roundUp bool) (*big.Int, error) {
	if sqrtRatioAX96.Sign() <= 0 {
		return nil, ErrSqrtPriceZero
	}
	if sqrtRatioAX96.Cmp(sqrtRatioBX96) > 0 {
		return nil, ErrSqrtPriceUnderflow
	}

	numerator1 := new(big.Int).Lsh(liquidity, Resolution)
	numerator2 := new(big.Int).Sub(sqrtRatioBX96, sqrtRatioAX96)

	if roundUp {
		term := mulDivRoundingUp(numerator1, numerator2, sqrtRatioBX96)
		return divRoundingUp(term, sqrtRatioAX96), nil
	}
	term := mulDiv(numerator1, numerator2, sqrtRatioBX96)
	return term.Div(term, sqrtRatioAX96), nil
}

// Amount1Delta returns the amount of token1 that liquidity covers between
// the two sqrt prices:
//
//	liquidity * (sqrtRatioBX96 - sqrtRatioAX96) / 2^96
func Amount1Delta(sqrtRatioAX96, sqrtRatioBX96, liquidity *big.Int, roundUp bool) (*big.Int, error) {
	if sqrtRatioAX96.Cmp(sqrtRatioBX96) > 0 {
		return nil, ErrSqrtPriceUnderflow
	}

	diff := new(big.Int).Sub(sqrtRatioBX96, sqrtRatioAX96)
	if roundUp {
		return mulDivRoundingUp(liquidity, diff, Q96), nil
	}
	return mulDiv(liquidity, diff, Q96), nil
}
