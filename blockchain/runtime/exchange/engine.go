package exchange

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vitreusNetwork/VTRS_core/blockchain/runtime"
)

var log = logrus.WithField("prefix", "Exchange")

// TokensExchanged is emitted after a settled swap.
type TokensExchanged struct {
	Who       common.Address
	AmountIn  uint64
	AmountOut uint64
}

// Engine swaps value from a source token into a target token at a fixed
// rate. The source side is burned, the target side is minted, so the swap is
// an atomic supply move rather than a trade against a pool.
type Engine struct {
	source runtime.FungibleLedger
	target runtime.FungibleLedger
	rate   runtime.RateProvider
	sink   runtime.EventSink
}

func NewEngine(source, target runtime.FungibleLedger, rate runtime.RateProvider, sink runtime.EventSink) *Engine {
	if sink == nil {
		sink = runtime.DiscardSink{}
	}

	return &Engine{
		source: source,
		target: target,
		rate:   rate,
		sink:   sink,
	}
}

// ConvertFromInput quotes the target amount for a given source amount.
func (e *Engine) ConvertFromInput(amountIn uint64) (uint64, error) {
	return e.rate.FromInput(amountIn)
}

// ConvertFromOutput quotes the source amount needed for a given target amount.
func (e *Engine) ConvertFromOutput(amountOut uint64) (uint64, error) {
	return e.rate.FromOutput(amountOut)
}

// ExchangeFromInput swaps exactly amountIn of the source token and returns
// the target amount credited.
func (e *Engine) ExchangeFromInput(who common.Address, amountIn uint64) (uint64, error) {
	if amountIn == 0 {
		return 0, nil
	}

	amountOut, err := e.rate.FromInput(amountIn)
	if err != nil {
		return 0, err
	}

	if err = e.settle(who, amountIn, amountOut); err != nil {
		return 0, err
	}

	return amountOut, nil
}

// ExchangeFromOutput swaps whatever source amount is needed to credit exactly
// amountOut of the target token and returns the source amount taken.
func (e *Engine) ExchangeFromOutput(who common.Address, amountOut uint64) (uint64, error) {
	if amountOut == 0 {
		return 0, nil
	}

	amountIn, err := e.rate.FromOutput(amountOut)
	if err != nil {
		return 0, err
	}

	if err = e.settle(who, amountIn, amountOut); err != nil {
		return 0, err
	}

	return amountIn, nil
}

// settle burns the source side and mints the target side. The burn keeps the
// account alive, so a swap can never reap the payer. Any mismatch between the
// requested burn and the observed supply drop aborts the settlement.
func (e *Engine) settle(who common.Address, amountIn, amountOut uint64) error {
	supplyBefore, err := e.source.TotalIssuance()
	if err != nil {
		return err
	}

	if err = e.source.Rescind(who, amountIn, runtime.Protect); err != nil {
		return errors.Wrap(err, "source withdrawal failed")
	}

	if err = e.target.Issue(who, amountOut); err != nil {
		return errors.Wrap(err, "target deposit failed")
	}

	supplyAfter, err := e.source.TotalIssuance()
	if err != nil {
		return err
	}
	if supplyBefore-supplyAfter != amountIn {
		log.WithFields(logrus.Fields{
			"who":      who.Hex(),
			"amountIn": amountIn,
			"burned":   supplyBefore - supplyAfter,
		}).Error("Exchange settlement produced dust")
		return runtime.ErrSettlementDust
	}

	e.sink.Emit(&TokensExchanged{
		Who:       who,
		AmountIn:  amountIn,
		AmountOut: amountOut,
	})

	return nil
}
