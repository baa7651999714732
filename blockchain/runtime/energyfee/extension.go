package energyfee

import (
	"github.com/pkg/errors"
	"github.com/vitreusNetwork/VTRS_core/shared/types"
)

// CheckEnergyFee is the pre-dispatch gate every extrinsic passes before
// execution. It prices the call and proves the signer can settle it, so an
// unpayable extrinsic is rejected before it consumes block space.
type CheckEnergyFee struct {
	calc *Calculator
}

func NewCheckEnergyFee(calc *Calculator) *CheckEnergyFee {
	return &CheckEnergyFee{calc: calc}
}

// PreDispatch returns the fee the extrinsic will be charged. Calls that pay
// no fee pass through at zero.
func (c *CheckEnergyFee) PreDispatch(ext *types.Extrinsic) (uint64, error) {
	info := ext.Call.DispatchInfo()
	if !info.PaysFee {
		return 0, nil
	}

	fee, err := c.calc.ComputeFee(ext.EncodedLen(), ext.Call, 0)
	if err != nil {
		return 0, err
	}

	if err = c.calc.ValidateCallFee(ext.Signer, fee); err != nil {
		return 0, errors.Wrap(err, "extrinsic can not pay its energy fee")
	}

	return fee, nil
}
