package pool

import (
	"math/big"
	"sort"

	"github.com/defistate/clpool-go/liquiditymath"
)

// TickInfo is the ledger entry for one tick boundary. A tick is Initialized
// exactly when some position references it, i.e. LiquidityGross > 0.
type TickInfo struct {
	Initialized    bool     `json:"initialized"`
	LiquidityGross *big.Int `json:"liquidityGross"`
}

// ticks maps tick index to its ledger entry. Absent indices are
// uninitialized with zero gross liquidity.
type ticks map[int64]*TickInfo

// update adds liquidityDelta to the tick's gross liquidity, flipping the
// initialized flag on the zero crossings. The entry is dropped entirely when
// gross liquidity returns to zero, so lookups of untouched and fully
// reverted ticks are indistinguishable.
func (t ticks) update(index int64, liquidityDelta *big.Int) error {
	info, exists := t[index]
	if !exists {
		info = &TickInfo{LiquidityGross: new(big.Int)}
	}

	gross, err := liquiditymath.AddDelta(info.LiquidityGross, liquidityDelta)
	if err != nil {
		return err
	}

	if gross.Sign() == 0 {
		delete(t, index)
		return nil
	}
	info.LiquidityGross = gross
	info.Initialized = true
	if !exists {
		t[index] = info
	}
	return nil
}

// get returns a copy of the tick's ledger entry; zero-value for ticks no
// position has ever referenced.
func (t ticks) get(index int64) TickInfo {
	info, exists := t[index]
	if !exists {
		return TickInfo{LiquidityGross: new(big.Int)}
	}
	return TickInfo{
		Initialized:    info.Initialized,
		LiquidityGross: new(big.Int).Set(info.LiquidityGross),
	}
}

// sorted returns the initialized tick indices in ascending order.
func (t ticks) sorted() []int64 {
	indices := make([]int64, 0, len(t))
	for index := range t {
		indices = append(indices, index)
	}
	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })
	return indices
}

// next finds the nearest initialized tick from a starting tick. With lte it
// returns the largest initialized tick <= tick, otherwise the smallest
// initialized tick > tick. The boolean reports whether one exists.
func (t ticks) next(tick int64, lte bool) (int64, bool) {
	indices := t.sorted()
	if len(indices) == 0 {
		return 0, false
	}

	if lte {
		i := sort.Search(len(indices), func(i int) bool { return indices[i] > tick })
		if i == 0 {
			return 0, false
		}
		return indices[i-1], true
	}

	i := sort.Search(len(indices), func(i int) bool { return indices[i] > tick })
	if i == len(indices) {
		return 0, false
	}
	return indices[i], true
}
