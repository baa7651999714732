package chain

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/vitreusNetwork/VTRS_core/blockchain/runtime"
	"github.com/vitreusNetwork/VTRS_core/blockchain/runtime/exchange"
	"github.com/vitreusNetwork/VTRS_core/blockchain/state"
	rmath "github.com/vitreusNetwork/VTRS_core/shared/math"
	"github.com/vitreusNetwork/VTRS_core/shared/types"
)

// dispatch routes one call to its module. Runs against the overlay every
// module in m is wired to, so a returned error rolls the whole call back.
func (s *Service) dispatch(m *Modules, store state.Store, origin runtime.Origin, call *types.Call) error {
	now, err := currentBlock(store)
	if err != nil {
		return err
	}

	switch call.Pallet {
	case types.PalletSystem:
		// Remarks carry data only.
		return nil

	case types.PalletBalances:
		return s.dispatchTransfer(m.Vtrs, origin, call)

	case types.PalletAssets:
		return s.dispatchTransfer(m.Vnrg, origin, call)

	case types.PalletReputation:
		return s.dispatchReputation(m, origin, call, now)

	case types.PalletEnergyFee:
		return s.dispatchEnergyFee(m, origin, call)

	case types.PalletEnergyBroker:
		return s.dispatchSwap(m, origin, call)

	case types.PalletUtility:
		if call.Method != types.MethodBatch {
			return runtime.ErrUnknownCall
		}
		for _, inner := range call.Calls {
			if err := s.dispatch(m, store, origin, inner); err != nil {
				return errors.Wrap(err, "batch member failed")
			}
		}
		return nil

	case types.PalletSudo:
		return s.dispatchSudo(m, store, origin, call)

	case types.PalletEVM, types.PalletEthereum:
		// Execution happens outside the runtime core; pricing and fee
		// settlement is the part handled here.
		return nil

	case types.PalletEnergyGeneration:
		// Staking lives outside the runtime core as well; its calls are
		// priced as custom-fee calls and accepted as no-ops.
		return nil

	default:
		return runtime.ErrUnknownCall
	}
}

func (s *Service) dispatchTransfer(ledger *exchange.Ledger, origin runtime.Origin, call *types.Call) error {
	if call.Method != types.MethodTransfer {
		return runtime.ErrUnknownCall
	}

	from, err := runtime.EnsureSigned(origin)
	if err != nil {
		return err
	}

	return ledger.Transfer(from, call.To, call.Amount, runtime.Expendable)
}

func (s *Service) dispatchReputation(m *Modules, origin runtime.Origin, call *types.Call, now uint64) error {
	switch call.Method {
	case types.MethodForceSetPoints:
		return m.Reputation.ForceSetPoints(origin, call.To, call.Points, now)
	case types.MethodIncreasePoints:
		return m.Reputation.IncreasePoints(origin, call.To, call.Points, now)
	case types.MethodSlash:
		return m.Reputation.Slash(origin, call.To, call.Points, now)
	case types.MethodUpdatePoints:
		return m.Reputation.UpdatePoints(origin, call.To, now)
	case types.MethodForceResetPoints:
		return m.Reputation.ForceResetPoints(origin, call.To, now)
	default:
		return runtime.ErrUnknownCall
	}
}

func (s *Service) dispatchEnergyFee(m *Modules, origin runtime.Origin, call *types.Call) error {
	switch call.Method {
	case types.MethodUpdateBurnedEnergyThreshold:
		return m.Calc.UpdateBurnedEnergyThreshold(origin, call.Amount)
	case types.MethodUpdateBlockFullnessThreshold:
		return m.Multiplier.UpdateBlockFullnessThreshold(origin, call.Amount)
	case types.MethodUpdateUpperFeeMultiplier:
		return m.Multiplier.UpdateUpperFeeMultiplier(origin, rmath.FixedFromParts(call.Amount))
	default:
		return runtime.ErrUnknownCall
	}
}

func (s *Service) dispatchSwap(m *Modules, origin runtime.Origin, call *types.Call) error {
	who, err := runtime.EnsureSigned(origin)
	if err != nil {
		return err
	}

	switch call.Method {
	case types.MethodSwapFromInput:
		_, err = m.Engine.ExchangeFromInput(who, call.Amount)
		return err
	case types.MethodSwapFromOutput:
		_, err = m.Engine.ExchangeFromOutput(who, call.Amount)
		return err
	default:
		return runtime.ErrUnknownCall
	}
}

// dispatchSudo re-dispatches the wrapped call with root origin when the
// signer is the configured sudo key.
func (s *Service) dispatchSudo(m *Modules, store state.Store, origin runtime.Origin, call *types.Call) error {
	if call.Method != types.MethodSudo || len(call.Calls) != 1 {
		return runtime.ErrUnknownCall
	}

	signer, err := runtime.EnsureSigned(origin)
	if err != nil {
		return err
	}

	sudo, err := store.Get(state.RuntimeBucket, state.SudoKeyKey)
	if err != nil {
		return err
	}
	if len(sudo) != common.AddressLength || signer != common.BytesToAddress(sudo) {
		return runtime.ErrBadOrigin
	}

	return s.dispatch(m, store, runtime.RootOrigin(), call.Calls[0])
}

func currentBlock(store state.Store) (uint64, error) {
	raw, err := store.Get(state.RuntimeBucket, state.BlockNumberKey)
	if err != nil {
		return 0, err
	}
	return state.DecodeUint64(raw), nil
}
