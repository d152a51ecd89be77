package cpu

import (
	"math"

	"github.com/rcornwell/mips32/internal/state"
)

// checkedAdd adds a and b as signed 32-bit integers, failing
// IntegerOverflow if the mathematical sum does not fit in int32 (ADD,
// ADDI).
func checkedAdd(a, b int32) (int32, error) {
	sum := int64(a) + int64(b)
	if sum > math.MaxInt32 || sum < math.MinInt32 {
		return 0, &state.Error{Kind: state.IntegerOverflow}
	}
	return int32(sum), nil
}

// checkedSub subtracts b from a as signed 32-bit integers, failing
// IntegerOverflow on out-of-range results (SUB).
func checkedSub(a, b int32) (int32, error) {
	diff := int64(a) - int64(b)
	if diff > math.MaxInt32 || diff < math.MinInt32 {
		return 0, &state.Error{Kind: state.IntegerOverflow}
	}
	return int32(diff), nil
}
