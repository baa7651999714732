package energyfee

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vitreusNetwork/VTRS_core/blockchain/runtime"
	"github.com/vitreusNetwork/VTRS_core/blockchain/state"
	rmath "github.com/vitreusNetwork/VTRS_core/shared/math"
	"github.com/vitreusNetwork/VTRS_core/shared/params"
	"github.com/vitreusNetwork/VTRS_core/shared/types"
)

var log = logrus.WithField("prefix", "EnergyFee")

// EnergyFeePaid is emitted after a fee has been burned from the payer.
type EnergyFeePaid struct {
	Who    common.Address
	Amount uint64
}

// BurnedEnergyThresholdUpdated is emitted on a successful cap change.
type BurnedEnergyThresholdUpdated struct {
	Threshold uint64
}

// Exchanger is the slice of the token exchange the fee path needs: quoting
// and swapping VTRS into exactly the missing VNRG.
type Exchanger interface {
	ConvertFromInput(amountIn uint64) (uint64, error)
	ConvertFromOutput(amountOut uint64) (uint64, error)
	ExchangeFromOutput(who common.Address, amountOut uint64) (uint64, error)
}

// Calculator prices calls in energy and settles the resulting fee. Fees are
// burned from the payer's VNRG, topping up from VTRS through the exchange
// when the energy balance alone does not cover the charge.
type Calculator struct {
	store      state.Store
	cfg        *params.VitreusChainConfig
	multiplier *Controller
	vtrs       runtime.FungibleLedger
	vnrg       runtime.FungibleLedger
	exchange   Exchanger
	sink       runtime.EventSink
}

func NewCalculator(
	store state.Store,
	multiplier *Controller,
	vtrs, vnrg runtime.FungibleLedger,
	exchange Exchanger,
	sink runtime.EventSink,
) *Calculator {
	if sink == nil {
		sink = runtime.DiscardSink{}
	}

	return &Calculator{
		store:      store,
		cfg:        params.VitreusConfig(),
		multiplier: multiplier,
		vtrs:       vtrs,
		vnrg:       vnrg,
		exchange:   exchange,
		sink:       sink,
	}
}

// Multiplier exposes the controller backing this calculator.
func (c *Calculator) Multiplier() *Controller {
	return c.multiplier
}

// DispatchInfoToFee classifies a call. Token, staking and reputation calls
// pay the multiplier-scaled constant energy fee regardless of weight; EVM
// calls pay the same amount under their own kind; a batch pays the sum of
// its members; everything else is priced by weight.
func (c *Calculator) DispatchInfoToFee(call *types.Call) (CallFee, error) {
	switch call.Pallet {
	case types.PalletSudo:
		return CallFee{Kind: FeeConstant}, nil

	case types.PalletEVM, types.PalletEthereum:
		amount, err := c.customFee()
		if err != nil {
			return CallFee{}, err
		}
		return CallFee{Kind: FeeEVM, Amount: amount}, nil

	case types.PalletBalances, types.PalletAssets, types.PalletReputation,
		types.PalletEnergyFee, types.PalletEnergyGeneration, types.PalletEnergyBroker:
		amount, err := c.customFee()
		if err != nil {
			return CallFee{}, err
		}
		return CallFee{Kind: FeeCustom, Amount: amount}, nil

	case types.PalletUtility:
		var total uint64
		for _, inner := range call.Calls {
			fee, err := c.ComputeFee(inner.EncodedLen(), inner, 0)
			if err != nil {
				return CallFee{}, err
			}
			total = rmath.SaturatingAdd64(total, fee)
		}
		return CallFee{Kind: FeeCustom, Amount: total}, nil

	default:
		return CallFee{Kind: FeeProportional}, nil
	}
}

// ComputeFee resolves the full fee of a call: classified amount plus tip, or
// the base, length and multiplier-scaled weight components for
// weight-priced calls.
func (c *Calculator) ComputeFee(length uint32, call *types.Call, tip uint64) (uint64, error) {
	callFee, err := c.DispatchInfoToFee(call)
	if err != nil {
		return 0, err
	}

	switch callFee.Kind {
	case FeeConstant:
		return callFee.Amount, nil
	case FeeCustom, FeeEVM:
		return rmath.SaturatingAdd64(callFee.Amount, tip), nil
	}

	info := call.DispatchInfo()
	if !info.PaysFee {
		return 0, nil
	}

	multiplier, err := c.multiplier.Current()
	if err != nil {
		return 0, err
	}

	weightFee := multiplier.MulInt(rmath.SaturatingMul64(info.Weight, c.cfg.WeightFee))
	fee := rmath.SaturatingAdd64(c.cfg.BaseFee, rmath.SaturatingMul64(uint64(length), c.cfg.LengthFee))
	fee = rmath.SaturatingAdd64(fee, weightFee)
	return rmath.SaturatingAdd64(fee, tip), nil
}

// ValidateCallFee checks the payer can settle the fee out of the combined
// VNRG and exchangeable VTRS balance, and that burning it would not push the
// block past the burned-energy cap.
func (c *Calculator) ValidateCallFee(who common.Address, fee uint64) error {
	if fee == 0 {
		return nil
	}

	if err := c.checkBurnedCap(fee); err != nil {
		return err
	}

	vnrg, err := c.vnrg.Reducible(who, runtime.Expendable)
	if err != nil {
		return err
	}
	if vnrg >= fee {
		return nil
	}

	vtrs, err := c.vtrs.Reducible(who, runtime.Protect)
	if err != nil {
		return err
	}
	convertible, err := c.exchange.ConvertFromInput(vtrs)
	if err != nil {
		return err
	}

	if rmath.SaturatingAdd64(vnrg, convertible) < fee {
		return runtime.ErrExhaustsResources
	}

	return nil
}

// WithdrawFee burns the fee from the payer's VNRG. A shortfall is first
// covered by swapping VTRS for exactly the missing energy, so the payer
// never needs a standing VNRG balance.
func (c *Calculator) WithdrawFee(who common.Address, fee uint64) error {
	if fee == 0 {
		return nil
	}

	balance, err := c.vnrg.Balance(who)
	if err != nil {
		return err
	}

	if balance < fee {
		missing := fee - balance
		if _, err = c.exchange.ExchangeFromOutput(who, missing); err != nil {
			return errors.Wrap(err, "can not cover energy fee from stake currency")
		}
	}

	if err = c.vnrg.Rescind(who, fee, runtime.Expendable); err != nil {
		return err
	}
	if err = c.addBurned(fee); err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"who": who.Hex(),
		"fee": fee,
	}).Debug("Energy fee burned")

	c.sink.Emit(&EnergyFeePaid{Who: who, Amount: fee})
	return nil
}

// BurnedEnergy returns the energy burned in the current block so far.
func (c *Calculator) BurnedEnergy() (uint64, error) {
	raw, err := c.store.Get(state.RuntimeBucket, state.BurnedEnergyKey)
	if err != nil {
		return 0, err
	}

	return state.DecodeUint64(raw), nil
}

// ResetBurnedEnergy zeroes the per-block burn counter. Called by the
// executive when a block is opened.
func (c *Calculator) ResetBurnedEnergy() error {
	return c.store.Put(state.RuntimeBucket, state.BurnedEnergyKey, state.EncodeUint64(0))
}

// UpdateBurnedEnergyThreshold replaces the per-block burn cap. Root only.
// Zero disables the cap.
func (c *Calculator) UpdateBurnedEnergyThreshold(origin runtime.Origin, threshold uint64) error {
	if err := runtime.EnsureRoot(origin); err != nil {
		return err
	}

	if err := c.store.Put(state.RuntimeBucket, state.BurnedEnergyThresholdKey, state.EncodeUint64(threshold)); err != nil {
		return err
	}

	c.sink.Emit(&BurnedEnergyThresholdUpdated{Threshold: threshold})
	return nil
}

func (c *Calculator) checkBurnedCap(fee uint64) error {
	raw, err := c.store.Get(state.RuntimeBucket, state.BurnedEnergyThresholdKey)
	if err != nil {
		return err
	}
	threshold := state.DecodeUint64(raw)
	if threshold == 0 {
		return nil
	}

	burned, err := c.BurnedEnergy()
	if err != nil {
		return err
	}
	if rmath.SaturatingAdd64(burned, fee) > threshold {
		return runtime.ErrExhaustsResources
	}

	return nil
}

func (c *Calculator) addBurned(fee uint64) error {
	burned, err := c.BurnedEnergy()
	if err != nil {
		return err
	}

	return c.store.Put(state.RuntimeBucket, state.BurnedEnergyKey, state.EncodeUint64(rmath.SaturatingAdd64(burned, fee)))
}

func (c *Calculator) customFee() (uint64, error) {
	multiplier, err := c.multiplier.Current()
	if err != nil {
		return 0, err
	}

	return multiplier.MulInt(c.cfg.ConstantEnergyFee), nil
}
