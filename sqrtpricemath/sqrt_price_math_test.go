package sqrtpricemath

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newRandInt generates a random big.Int up to a given number of bits.
func newRandInt(bits int) *big.Int {
	max := new(big.Int).Lsh(big.NewInt(1), uint(bits))
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		panic(err)
	}
	return n
}

// orderedPrices returns two non-zero random sqrt prices with a <= b.
func orderedPrices(bits int) (a, b *big.Int) {
	a, b = newRandInt(bits), newRandInt(bits)
	if a.Sign() == 0 {
		a.SetInt64(1)
	}
	if b.Sign() == 0 {
		b.SetInt64(1)
	}
	if a.Cmp(b) > 0 {
		a, b = b, a
	}
	return a, b
}

func TestAmount0Delta(t *testing.T) {
	t.Run("zero lower price", func(t *testing.T) {
		_, err := Amount0Delta(new(big.Int), Q96, big.NewInt(1), true)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrSqrtPriceZero)
	})

	t.Run("inverted bounds underflow", func(t *testing.T) {
		upper := new(big.Int).Lsh(Q96, 1)
		_, err := Amount0Delta(upper, Q96, big.NewInt(1), true)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrSqrtPriceUnderflow)
	})

	t.Run("equal bounds give zero", func(t *testing.T) {
		amount, err := Amount0Delta(Q96, Q96, newRandInt(128), true)
		require.NoError(t, err)
		assert.Zero(t, amount.Sign())
	})

	t.Run("rounding direction", func(t *testing.T) {
		// One unit of liquidity between price 1 and price 4 is worth
		// half a unit of token0; the deposit path must round that up.
		upper := new(big.Int).Lsh(Q96, 1)
		up, err := Amount0Delta(Q96, upper, big.NewInt(1), true)
		require.NoError(t, err)
		assert.Zero(t, big.NewInt(1).Cmp(up))

		down, err := Amount0Delta(Q96, upper, big.NewInt(1), false)
		require.NoError(t, err)
		assert.Zero(t, down.Sign())
	})
}

func TestAmount1Delta(t *testing.T) {
	t.Run("inverted bounds underflow", func(t *testing.T) {
		upper := new(big.Int).Lsh(Q96, 1)
		_, err := Amount1Delta(upper, Q96, big.NewInt(1), true)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrSqrtPriceUnderflow)
	})

	t.Run("price diff of one in Q96 equals liquidity", func(t *testing.T) {
		// amount1 = L * (B - A) / 2^96, so a diff of exactly 2^96 pays
		// out the liquidity itself.
		liquidity := fromString("1517882343751509868544")
		upper := new(big.Int).Add(Q96, Q96)
		amount, err := Amount1Delta(Q96, upper, liquidity, true)
		require.NoError(t, err)
		assert.Zero(t, liquidity.Cmp(amount))
	})
}

func fromString(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("invalid big.Int literal: " + s)
	}
	return n
}

// --- Invariant Tests (Simulating Fuzzing) ---

func TestAmount0Delta_Invariants(t *testing.T) {
	for i := 0; i < 1000; i++ {
		sqrtA, sqrtB := orderedPrices(160)
		liquidity := newRandInt(128)

		amount0Down, err := Amount0Delta(sqrtA, sqrtB, liquidity, false)
		require.NoError(t, err)

		amount0Up, err := Amount0Delta(sqrtA, sqrtB, liquidity, true)
		require.NoError(t, err)

		assert.True(t, amount0Down.Cmp(amount0Up) <= 0)

		diff := new(big.Int).Sub(amount0Up, amount0Down)
		assert.True(t, diff.Cmp(big.NewInt(2)) < 0)
	}
}

func TestAmount1Delta_Invariants(t *testing.T) {
	for i := 0; i < 1000; i++ {
		sqrtA, sqrtB := orderedPrices(160)
		liquidity := newRandInt(128)

		amount1Down, err := Amount1Delta(sqrtA, sqrtB, liquidity, false)
		require.NoError(t, err)

		amount1Up, err := Amount1Delta(sqrtA, sqrtB, liquidity, true)
		require.NoError(t, err)

		assert.True(t, amount1Down.Cmp(amount1Up) <= 0)

		diff := new(big.Int).Sub(amount1Up, amount1Down)
		assert.True(t, diff.Cmp(big.NewInt(2)) < 0)
	}
}
