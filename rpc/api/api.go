package api

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	rmath "github.com/vitreusNetwork/VTRS_core/shared/math"
)

// CallRequest describes a prospective call for fee and gas estimation.
type CallRequest struct {
	From  common.Address
	To    common.Address
	Value uint64
	Gas   uint64
	Input []byte
}

// FeeDetails is a fee quoted in both currencies: the energy amount itself
// and the stake currency needed to buy exactly that energy.
type FeeDetails struct {
	Vtrs *uint256.Int
	Vnrg *uint256.Int
}

// EnergyFeeAPI is the node's query surface for fee, swap and reputation
// reads. Results must agree with what on-chain execution would charge.
type EnergyFeeAPI interface {
	// EstimateGas returns the gas limit an EVM call would be given.
	EstimateGas(req *CallRequest) (*uint256.Int, error)

	// EstimateCallFee quotes the fee of the call in both currencies.
	EstimateCallFee(req *CallRequest) (*FeeDetails, error)

	// VtrsToVnrgSwapRate returns the VNRG received for one whole VTRS.
	VtrsToVnrgSwapRate() (*uint256.Int, error)

	// ReputationTierAdditionalReward returns the extra staking reward
	// share granted by the account's current reputation tier.
	ReputationTierAdditionalReward(who common.Address) (rmath.Perbill, error)

	// CurrentEnergyPerStakeCurrency returns the VNRG generated per staked
	// VTRS unit per era.
	CurrentEnergyPerStakeCurrency() uint64

	// Balance returns the VTRS balance of the account.
	Balance(who common.Address) (*uint256.Int, error)
}
