package api

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/vitreusNetwork/VTRS_core/blockchain/core/chain"
	rmath "github.com/vitreusNetwork/VTRS_core/shared/math"
	"github.com/vitreusNetwork/VTRS_core/shared/params"
	"github.com/vitreusNetwork/VTRS_core/shared/types"
)

// EnergyFeeService answers fee queries against canonical chain state.
type EnergyFeeService struct {
	chain *chain.Service
	cfg   *params.VitreusChainConfig
}

func NewEnergyFeeService(chain *chain.Service) *EnergyFeeService {
	return &EnergyFeeService{
		chain: chain,
		cfg:   params.VitreusConfig(),
	}
}

var _ EnergyFeeAPI = (*EnergyFeeService)(nil)

// EstimateGas returns the request's own gas limit, falling back to the
// constant gas limit when none is given.
func (s *EnergyFeeService) EstimateGas(req *CallRequest) (*uint256.Int, error) {
	gas := req.Gas
	if gas == 0 {
		gas = s.cfg.ConstantGasLimit
	}

	return uint256.NewInt(gas), nil
}

// EstimateCallFee prices the request as an EVM call. The VNRG side is the
// fee itself, the VTRS side is what buying exactly that energy would cost.
func (s *EnergyFeeService) EstimateCallFee(req *CallRequest) (*FeeDetails, error) {
	gas, err := s.EstimateGas(req)
	if err != nil {
		return nil, err
	}

	call := &types.Call{
		Pallet: types.PalletEVM,
		Method: types.MethodEVMCall,
		To:     req.To,
		Value:  req.Value,
		Gas:    gas.Uint64(),
		Input:  req.Input,
	}

	m, err := s.chain.Reader()
	if err != nil {
		return nil, err
	}

	fee, err := m.Calc.ComputeFee(call.EncodedLen(), call, 0)
	if err != nil {
		return nil, err
	}

	inVtrs, err := m.Engine.ConvertFromOutput(fee)
	if err != nil {
		return nil, err
	}

	return &FeeDetails{
		Vtrs: uint256.NewInt(inVtrs),
		Vnrg: uint256.NewInt(fee),
	}, nil
}

func (s *EnergyFeeService) VtrsToVnrgSwapRate() (*uint256.Int, error) {
	m, err := s.chain.Reader()
	if err != nil {
		return nil, err
	}

	out, err := m.Engine.ConvertFromInput(s.cfg.UnitsPerVtrs)
	if err != nil {
		return nil, err
	}

	return uint256.NewInt(out), nil
}

// ReputationTierAdditionalReward resolves the account's tier at the current
// block. Accounts without a record, or below the first tier, earn nothing
// extra.
func (s *EnergyFeeService) ReputationTierAdditionalReward(who common.Address) (rmath.Perbill, error) {
	m, err := s.chain.Reader()
	if err != nil {
		return 0, err
	}

	now, err := s.chain.BlockNumber()
	if err != nil {
		return 0, err
	}

	record, ok, err := m.Reputation.Reputation(who, now)
	if err != nil || !ok {
		return 0, err
	}

	tier, ok := record.Tier()
	if !ok {
		return 0, nil
	}

	return tier.AdditionalReward(), nil
}

func (s *EnergyFeeService) CurrentEnergyPerStakeCurrency() uint64 {
	return s.cfg.EnergyPerStakeCurrency
}

func (s *EnergyFeeService) Balance(who common.Address) (*uint256.Int, error) {
	m, err := s.chain.Reader()
	if err != nil {
		return nil, err
	}

	balance, err := m.Vtrs.Balance(who)
	if err != nil {
		return nil, err
	}

	return uint256.NewInt(balance), nil
}
