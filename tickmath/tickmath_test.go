package tickmath

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper to create a big.Int from a string for tests.
func fromString(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("invalid big.Int literal: " + s)
	}
	return n
}

func TestSqrtRatioAtTick(t *testing.T) {
	t.Run("throws for too low", func(t *testing.T) {
		_, err := SqrtRatioAtTick(MinTick - 1)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrTickOutOfBounds)
	})

	t.Run("throws for too high", func(t *testing.T) {
		_, err := SqrtRatioAtTick(MaxTick + 1)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrTickOutOfBounds)
	})

	t.Run("known ratios", func(t *testing.T) {
		tests := []struct {
			tick int64
			want string
		}{
			{MinTick, "4295128739"},
			{-500000, "1101692437043807371"},
			{-100000, "533968626430936354154228408"},
			{-1, "79224201403219477170569942574"},
			{0, "79228162514264337593543950336"}, // exactly 2^96
			{1, "79232123823359799118286999568"},
			{84222, "5341283623238412454227108479223"},
			{85176, "5602223755577321903022134995689"},
			{86129, "5875617940067453351001625213169"},
			{100000, "11755562826496067164730007768450"},
			{500000, "5697689776495288729098254600827762987878"},
			{MaxTick, "1461446703485210103287273052203988822378723970342"},
		}
		for _, tt := range tests {
			sqrtRatio, err := SqrtRatioAtTick(tt.tick)
			require.NoError(t, err, "tick %d", tt.tick)
			assert.Zero(t, fromString(tt.want).Cmp(sqrtRatio), "tick %d", tt.tick)
		}
	})

	t.Run("min and max match the exported bounds", func(t *testing.T) {
		sqrtRatio, err := SqrtRatioAtTick(MinTick)
		require.NoError(t, err)
		assert.Zero(t, MinSqrtRatio.Cmp(sqrtRatio))

		sqrtRatio, err = SqrtRatioAtTick(MaxTick)
		require.NoError(t, err)
		assert.Zero(t, MaxSqrtRatio.Cmp(sqrtRatio))
	})

	t.Run("strictly monotonic", func(t *testing.T) {
		for _, tick := range []int64{MinTick, -500001, -1000, -1, 0, 1, 1000, 84222, 86129, MaxTick - 1} {
			lo, err := SqrtRatioAtTick(tick)
			require.NoError(t, err)
			hi, err := SqrtRatioAtTick(tick + 1)
			require.NoError(t, err)
			assert.Negative(t, lo.Cmp(hi), "tick %d", tick)
		}
	})
}

func TestTickAtSqrtRatio(t *testing.T) {
	t.Run("throws for too low", func(t *testing.T) {
		_, err := TickAtSqrtRatio(new(big.Int).Sub(MinSqrtRatio, big.NewInt(1)))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrSqrtPriceOutOfBounds)
	})

	t.Run("throws for too high", func(t *testing.T) {
		_, err := TickAtSqrtRatio(MaxSqrtRatio)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrSqrtPriceOutOfBounds)
	})

	t.Run("ratio of min tick", func(t *testing.T) {
		tick, err := TickAtSqrtRatio(MinSqrtRatio)
		require.NoError(t, err)
		assert.Equal(t, MinTick, tick)
	})

	t.Run("ratio closest to max tick", func(t *testing.T) {
		tick, err := TickAtSqrtRatio(new(big.Int).Sub(MaxSqrtRatio, big.NewInt(1)))
		require.NoError(t, err)
		assert.Equal(t, MaxTick-1, tick)
	})

	t.Run("round trips through SqrtRatioAtTick", func(t *testing.T) {
		for _, tick := range []int64{MinTick, -500000, -100, -1, 0, 1, 100, 84222, 85176, 86129, MaxTick - 1} {
			sqrtRatio, err := SqrtRatioAtTick(tick)
			require.NoError(t, err)
			got, err := TickAtSqrtRatio(sqrtRatio)
			require.NoError(t, err)
			assert.Equal(t, tick, got)
		}
	})

	t.Run("price between two ticks maps to the lower one", func(t *testing.T) {
		// The reference pool price sits between the boundaries of tick
		// 85176 and 85177.
		tick, err := TickAtSqrtRatio(fromString("5602277097478614198912276234240"))
		require.NoError(t, err)
		assert.Equal(t, int64(85176), tick)
	})
}
