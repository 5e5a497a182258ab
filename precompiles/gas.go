package precompiles

import (
	"math"

	gethmath "github.com/ethereum/go-ethereum/common/math"
)

// GasRule prices one operation. Fixed is charged once; PerInput and
// PerOutput scale with the decoded input and output counts (nullifiers and
// commitments for transfers, entries for deposits).
type GasRule struct {
	Fixed     uint64
	PerInput  uint64
	PerOutput uint64
}

// FixedGas is a rule with no count-scaled part.
func FixedGas(cost uint64) GasRule { return GasRule{Fixed: cost} }

// Cost evaluates the rule for the given shape. The result saturates at
// MaxUint64 instead of wrapping.
func (r GasRule) Cost(inputs, outputs int) uint64 {
	total := r.Fixed
	total = saturatingAdd(total, saturatingMul(r.PerInput, uint64(inputs)))
	total = saturatingAdd(total, saturatingMul(r.PerOutput, uint64(outputs)))
	return total
}

// GasTable maps a family's selectors to their pricing rules.
type GasTable map[Selector]GasRule

// Rule returns the rule for sel, failing UnknownSelector when absent.
func (t GasTable) Rule(sel Selector) (GasRule, error) {
	r, ok := t[sel]
	if !ok {
		return GasRule{}, ErrUnknownSelector
	}
	return r, nil
}

// SumGas adds gas values with saturation.
func SumGas(values ...uint64) uint64 {
	var total uint64
	for _, v := range values {
		total = saturatingAdd(total, v)
	}
	return total
}

func saturatingAdd(a, b uint64) uint64 {
	sum, overflow := gethmath.SafeAdd(a, b)
	if overflow {
		return math.MaxUint64
	}
	return sum
}

func saturatingMul(a, b uint64) uint64 {
	prod, overflow := gethmath.SafeMul(a, b)
	if overflow {
		return math.MaxUint64
	}
	return prod
}
