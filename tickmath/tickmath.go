// Package tickmath converts between tick indices and Q64.96 square-root
// prices. A tick i corresponds to the price 1.0001^i, so the sqrt ratio at a
// tick is sqrt(1.0001)^i scaled by 2^96.
package tickmath

import (
	"errors"
	"math/big"

	"github.com/holiman/uint256"
)

const (
	// MinTick is the lowest tick index whose sqrt ratio is representable
	// in 160 bits.
	MinTick int64 = -887272
	// MaxTick is the highest tick index that may be used.
	MaxTick int64 = 887272
)

var (
	// MinSqrtRatio is the sqrt ratio at MinTick.
	MinSqrtRatio, _ = new(big.Int).SetString("4295128739", 10)
	// MaxSqrtRatio is the sqrt ratio at MaxTick.
	MaxSqrtRatio, _ = new(big.Int).SetString("1461446703485210103287273052203988822378723970342", 10)

	ErrTickOutOfBounds      = errors.New("tick out of bounds")
	ErrSqrtPriceOutOfBounds = errors.New("sqrt price out of bounds")
)

var (
	one        = uint256.NewInt(1)
	maxUint256 = uint256.MustFromHex("0xffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff")
	lowMask    = uint256.MustFromHex("0xffffffff")

	// ratioForOddTick is sqrt(1.0001)^-1 in UQ128.128, applied when the
	// lowest bit of |tick| is set. ratioOne is 1 in UQ128.128.
	ratioForOddTick = uint256.MustFromHex("0xfffcb933bd6fad37aa2d162d1a594001")
	ratioOne        = uint256.MustFromHex("0x100000000000000000000000000000000")

	// bitRatios[i] is sqrt(1.0001)^-(2^(i+1)) in UQ128.128, covering bits
	// 1..19 of |tick|.
	bitRatios = [19]*uint256.Int{
		uint256.MustFromHex("0xfff97272373d413259a46990580e213a"),
		uint256.MustFromHex("0xfff2e50f5f656932ef12357cf3c7fdcc"),
		uint256.MustFromHex("0xffe5caca7e10e4e61c3624eaa0941cd0"),
		uint256.MustFromHex("0xffcb9843d60f6159c9db58835c926644"),
		uint256.MustFromHex("0xff973b41fa98c081472e6896dfb254c0"),
		uint256.MustFromHex("0xff2ea16466c96a3843ec78b326b52861"),
		uint256.MustFromHex("0xfe5dee046a99a2a811c461f1969c3053"),
		uint256.MustFromHex("0xfcbe86c7900a88aedcffc83b479aa3a4"),
		uint256.MustFromHex("0xf987a7253ac413176f2b074cf7815e54"),
		uint256.MustFromHex("0xf3392b0822b70005940c7a398e4b70f3"),
		uint256.MustFromHex("0xe7159475a2c29b7443b29c7fa6e889d9"),
		uint256.MustFromHex("0xd097f3bdfd2022b8845ad8f792aa5825"),
		uint256.MustFromHex("0xa9f746462d870fdf8a65dc1f90e061e5"),
		uint256.MustFromHex("0x70d869a156d2a1b890bb3df62baf32f7"),
		uint256.MustFromHex("0x31be135f97d08fd981231505542fcfa6"),
		uint256.MustFromHex("0x9aa508b5b7a84e1c677de54f3e99bc9"),
		uint256.MustFromHex("0x5d6af8dedb81196699c329225ee604"),
		uint256.MustFromHex("0x2216e584f5fa1ea926041bedfe98"),
		uint256.MustFromHex("0x48a170391f7dc42444e8fa2"),
	}
)

// SqrtRatioAtTick returns sqrt(1.0001^tick) * 2^96. The mapping is monotonic
// and injective over [MinTick, MaxTick]; anything outside that range fails
// with ErrTickOutOfBounds.
func SqrtRatioAtTick(tick int64) (*big.Int, error) {
	if tick < MinTick || tick > MaxTick {
		return nil, ErrTickOutOfBounds
	}

	absTick := tick
	if tick < 0 {
		absTick = -tick
	}

	ratio := new(uint256.Int)
	if absTick&0x1 != 0 {
		ratio.Set(ratioForOddTick)
	} else {
		ratio.Set(ratioOne)
	}
	for i, bitRatio := range bitRatios {
		if absTick&(int64(1)<<uint(i+1)) != 0 {
			ratio.Mul(ratio, bitRatio).Rsh(ratio, 128)
		}
	}

	// The accumulated product is sqrt(1.0001)^-|tick|; invert it for
	// positive ticks.
	if tick > 0 {
		ratio.Div(maxUint256, ratio)
	}

	// Shift from UQ128.128 down to Q64.96, rounding up so the result
	// round-trips through TickAtSqrtRatio.
	rem := new(uint256.Int).And(ratio, lowMask)
	ratio.Rsh(ratio, 32)
	if !rem.IsZero() {
		ratio.Add(ratio, one)
	}
	return ratio.ToBig(), nil
}

// TickAtSqrtRatio returns the greatest tick whose sqrt ratio is less than or
// equal to sqrtPriceX96. Prices outside [MinSqrtRatio, MaxSqrtRatio) fail
// with ErrSqrtPriceOutOfBounds.
func TickAtSqrtRatio(sqrtPriceX96 *big.Int) (int64, error) {
	if sqrtPriceX96.Cmp(MinSqrtRatio) < 0 || sqrtPriceX96.Cmp(MaxSqrtRatio) >= 0 {
		return 0, ErrSqrtPriceOutOfBounds
	}

	low, high := MinTick, MaxTick
	var tick int64
	for low <= high {
		mid := (low + high) / 2
		sqrtRatio, err := SqrtRatioAtTick(mid)
		if err != nil {
			return 0, err
		}
		if sqrtRatio.Cmp(sqrtPriceX96) <= 0 {
			tick = mid
			low = mid + 1
		} else {
			high = mid - 1
		}
	}
	return tick, nil
}
