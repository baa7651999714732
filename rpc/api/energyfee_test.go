package api

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
	"github.com/vitreusNetwork/VTRS_core/blockchain/core/chain"
	"github.com/vitreusNetwork/VTRS_core/blockchain/runtime/reputation"
	"github.com/vitreusNetwork/VTRS_core/blockchain/state"
	"github.com/vitreusNetwork/VTRS_core/events"
	rmath "github.com/vitreusNetwork/VTRS_core/shared/math"
	"github.com/vitreusNetwork/VTRS_core/shared/params"
	"github.com/vitreusNetwork/VTRS_core/shared/types"
)

var (
	richAddr = common.HexToAddress("0x1c4")
	sudoAddr = common.HexToAddress("0x5d0")
)

func newTestAPI(t *testing.T) (*EnergyFeeService, *chain.Service) {
	srv := chain.NewService(state.NewMemory(), new(events.Bus))

	require.NoError(t, srv.ApplyGenesis(&chain.Genesis{
		SudoKey:      sudoAddr.Hex(),
		VtrsBalances: map[string]uint64{richAddr.Hex(): 5_000_000_000},
		VnrgBalances: map[string]uint64{sudoAddr.Hex(): 100_000_000_000},
	}))

	return NewEnergyFeeService(srv), srv
}

func TestEstimateGasDefaultsToConstant(t *testing.T) {
	api, _ := newTestAPI(t)
	cfg := params.VitreusConfig()

	gas, err := api.EstimateGas(&CallRequest{})
	require.NoError(t, err)
	require.Equal(t, cfg.ConstantGasLimit, gas.Uint64())

	gas, err = api.EstimateGas(&CallRequest{Gas: 42_000})
	require.NoError(t, err)
	require.Equal(t, uint64(42_000), gas.Uint64())
}

func TestEstimateCallFeeMatchesExecution(t *testing.T) {
	api, srv := newTestAPI(t)
	cfg := params.VitreusConfig()

	details, err := api.EstimateCallFee(&CallRequest{To: common.HexToAddress("0x01")})
	require.NoError(t, err)

	// EVM calls pay the multiplier-scaled constant fee; at the default
	// multiplier of one that is the constant itself.
	require.Equal(t, cfg.ConstantEnergyFee, details.Vnrg.Uint64())
	require.Equal(t, cfg.ConstantEnergyFee/10, details.Vtrs.Uint64())

	// The on-chain gate quotes the same energy amount.
	m, err := srv.Reader()
	require.NoError(t, err)

	fee, err := m.Calc.ComputeFee(0, &types.Call{
		Pallet: types.PalletEVM,
		Method: types.MethodEVMCall,
		Gas:    cfg.ConstantGasLimit,
	}, 0)
	require.NoError(t, err)
	require.Equal(t, fee, details.Vnrg.Uint64())
}

func TestVtrsToVnrgSwapRate(t *testing.T) {
	api, _ := newTestAPI(t)
	cfg := params.VitreusConfig()

	rate, err := api.VtrsToVnrgSwapRate()
	require.NoError(t, err)
	require.Equal(t, cfg.UnitsPerVtrs*cfg.ExchangeRateNum/cfg.ExchangeRateDen, rate.Uint64())
}

func TestBalance(t *testing.T) {
	api, _ := newTestAPI(t)

	balance, err := api.Balance(richAddr)
	require.NoError(t, err)
	require.Equal(t, uint64(5_000_000_000), balance.Uint64())

	balance, err = api.Balance(common.HexToAddress("0x99"))
	require.NoError(t, err)
	require.True(t, balance.IsZero())
}

func TestReputationTierAdditionalReward(t *testing.T) {
	api, srv := newTestAPI(t)

	// No record at all.
	reward, err := api.ReputationTierAdditionalReward(common.HexToAddress("0x99"))
	require.NoError(t, err)
	require.Zero(t, reward)

	// The genesis endowment created a record at block zero; one block of
	// accrual is far below the first tier.
	reward, err = api.ReputationTierAdditionalReward(richAddr)
	require.NoError(t, err)
	require.Zero(t, reward)

	// Push the account into the third Vanguard rank through governance.
	points, _ := reputation.MinPoints(reputation.Tier{Kind: reputation.Vanguard, Rank: 3})

	_, err = srv.StartBlock()
	require.NoError(t, err)
	require.NoError(t, srv.ApplyExtrinsic(&types.Extrinsic{
		Signer: sudoAddr,
		Call: &types.Call{
			Pallet: types.PalletSudo,
			Method: types.MethodSudo,
			Calls: []*types.Call{{
				Pallet: types.PalletReputation,
				Method: types.MethodForceSetPoints,
				To:     richAddr,
				Points: points,
			}},
		},
	}))
	_, err = srv.FinalizeBlock()
	require.NoError(t, err)

	reward, err = api.ReputationTierAdditionalReward(richAddr)
	require.NoError(t, err)
	require.Equal(t, rmath.PerbillFromPercent(4), reward)
}

func TestCurrentEnergyPerStakeCurrency(t *testing.T) {
	api, _ := newTestAPI(t)
	require.Equal(t, params.VitreusConfig().EnergyPerStakeCurrency, api.CurrentEnergyPerStakeCurrency())
}
