package exchange

import (
	"github.com/vitreusNetwork/VTRS_core/blockchain/runtime"
	rmath "github.com/vitreusNetwork/VTRS_core/shared/math"
)

// Rate is a fixed rational exchange rate between a source and a target token.
// Both directions derive from the same pair, so the configured price can not
// drift between them.
type Rate struct {
	num uint64
	den uint64
}

// NewRate validates and builds an exchange rate. Zero on either side would
// make one conversion direction degenerate.
func NewRate(num, den uint64) (Rate, error) {
	if num == 0 || den == 0 {
		return Rate{}, runtime.ErrInvalidBounds
	}
	return Rate{num: num, den: den}, nil
}

var _ runtime.RateProvider = Rate{}

// FromInput converts a source amount into the target amount, rounding down
// so the payer never receives more than the rate grants.
func (r Rate) FromInput(amountIn uint64) (uint64, error) {
	out, ok := rmath.MulDiv64(amountIn, r.num, r.den)
	if !ok {
		return 0, runtime.ErrArithmeticOverflow
	}
	return out, nil
}

// FromOutput back-computes the source amount needed to produce amountOut,
// rounding up so the protocol is never under-charged.
func (r Rate) FromOutput(amountOut uint64) (uint64, error) {
	in, ok := rmath.MulDivCeil64(amountOut, r.den, r.num)
	if !ok {
		return 0, runtime.ErrArithmeticOverflow
	}
	return in, nil
}
