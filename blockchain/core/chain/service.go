package chain

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vitreusNetwork/VTRS_core/blockchain/runtime"
	"github.com/vitreusNetwork/VTRS_core/blockchain/runtime/energyfee"
	"github.com/vitreusNetwork/VTRS_core/blockchain/runtime/exchange"
	"github.com/vitreusNetwork/VTRS_core/blockchain/runtime/reputation"
	"github.com/vitreusNetwork/VTRS_core/blockchain/state"
	"github.com/vitreusNetwork/VTRS_core/events"
	"github.com/vitreusNetwork/VTRS_core/shared/params"
	"github.com/vitreusNetwork/VTRS_core/shared/types"
)

var log = logrus.WithField("prefix", "Chain")

var (
	// ErrBlockOpen is returned when a block is started twice.
	ErrBlockOpen = errors.New("Block already open")
	// ErrNoOpenBlock is returned when applying outside a block.
	ErrNoOpenBlock = errors.New("No open block")
)

// ExtrinsicApplied is emitted for every successfully executed extrinsic.
type ExtrinsicApplied struct {
	Hash common.Hash
	Fee  uint64
}

// ExtrinsicFailed is emitted when a dispatched extrinsic fails after fee
// withdrawal. Its state changes are rolled back, the fee is kept.
type ExtrinsicFailed struct {
	Hash   common.Hash
	Reason string
}

// BlockFinalized is emitted when a block is sealed.
type BlockFinalized struct {
	Number         uint64
	ConsumedWeight uint64
}

// BlockSummary is the result of finalizing a block.
type BlockSummary struct {
	Number         uint64
	ConsumedWeight uint64
	Applied        int
	Failed         int
}

// Modules is the runtime wired against one particular state view. The set is
// rebuilt per state overlay, the constructors are allocation-only.
type Modules struct {
	Vtrs       *exchange.Ledger
	Vnrg       *exchange.Ledger
	Engine     *exchange.Engine
	Reputation *reputation.Ledger
	Multiplier *energyfee.Controller
	Calc       *energyfee.Calculator
	Check      *energyfee.CheckEnergyFee
}

// Service is the block executive. It owns the canonical state store and runs
// the open -> apply -> finalize cycle, keeping every extrinsic atomic by
// executing it on a discardable overlay.
type Service struct {
	base state.Store
	bus  *events.Bus
	cfg  *params.VitreusChainConfig

	block *blockContext
}

type blockContext struct {
	overlay  *state.Buffered
	number   uint64
	consumed uint64
	applied  int
	failed   int
}

func NewService(base state.Store, bus *events.Bus) *Service {
	return &Service{
		base: base,
		bus:  bus,
		cfg:  params.VitreusConfig(),
	}
}

// modulesFor wires the full runtime module set against the given state view.
// The reputation ledger doubles as the account lifecycle hook of the stake
// currency, so reputation records follow VTRS account existence.
func (s *Service) modulesFor(store state.Store, sink runtime.EventSink) (*Modules, error) {
	rep := reputation.NewLedger(store, s.cfg.ReputationPointsPerBlock, sink)

	vtrs := exchange.NewLedger(store, state.VtrsBucket, state.VtrsIssuanceKey, s.cfg.ExistentialDeposit, rep)
	vnrg := exchange.NewLedger(store, state.VnrgBucket, state.VnrgIssuanceKey, s.cfg.ExistentialDeposit, nil)

	rate, err := exchange.NewRate(s.cfg.ExchangeRateNum, s.cfg.ExchangeRateDen)
	if err != nil {
		return nil, err
	}
	engine := exchange.NewEngine(vtrs, vnrg, rate, sink)

	multiplier := energyfee.NewController(store, sink)
	calc := energyfee.NewCalculator(store, multiplier, vtrs, vnrg, engine, sink)

	return &Modules{
		Vtrs:       vtrs,
		Vnrg:       vnrg,
		Engine:     engine,
		Reputation: rep,
		Multiplier: multiplier,
		Calc:       calc,
		Check:      energyfee.NewCheckEnergyFee(calc),
	}, nil
}

// Reader returns the module set wired read-only against canonical state, for
// query surfaces. Writes through it would bypass block execution, callers
// must not mutate.
func (s *Service) Reader() (*Modules, error) {
	return s.modulesFor(s.base, runtime.DiscardSink{})
}

// StartBlock opens the next block: bumps the block number and resets the
// per-block burned energy counter.
func (s *Service) StartBlock() (uint64, error) {
	if s.block != nil {
		return 0, ErrBlockOpen
	}

	overlay := state.NewBuffered(s.base)

	raw, err := overlay.Get(state.RuntimeBucket, state.BlockNumberKey)
	if err != nil {
		return 0, err
	}
	number := state.DecodeUint64(raw) + 1

	if err = overlay.Put(state.RuntimeBucket, state.BlockNumberKey, state.EncodeUint64(number)); err != nil {
		return 0, err
	}

	m, err := s.modulesFor(overlay, runtime.DiscardSink{})
	if err != nil {
		return 0, err
	}
	if err = m.Calc.ResetBurnedEnergy(); err != nil {
		return 0, err
	}

	s.block = &blockContext{
		overlay: overlay,
		number:  number,
	}

	log.WithField("number", number).Debug("Block opened")
	return number, nil
}

// ApplyExtrinsic executes one extrinsic inside the open block. The fee is
// settled first and survives a failing dispatch; the dispatch itself runs on
// its own overlay and is rolled back entirely on error.
func (s *Service) ApplyExtrinsic(ext *types.Extrinsic) error {
	if s.block == nil {
		return ErrNoOpenBlock
	}

	info := ext.Call.DispatchInfo()
	if s.block.consumed+info.Weight > s.cfg.MaxBlockWeight {
		return runtime.ErrExhaustsResources
	}

	fee, err := s.chargeFee(ext)
	if err != nil {
		return err
	}

	s.block.consumed += info.Weight

	if err = s.dispatchBuffered(ext); err != nil {
		s.block.failed++
		s.bus.Send(&ExtrinsicFailed{Hash: ext.Hash(), Reason: err.Error()})
		return err
	}

	s.block.applied++
	s.bus.Send(&ExtrinsicApplied{Hash: ext.Hash(), Fee: fee})
	return nil
}

// chargeFee validates and withdraws the energy fee on its own overlay. A
// rejected extrinsic leaves no trace, a charged fee is committed into the
// block regardless of the later dispatch outcome.
func (s *Service) chargeFee(ext *types.Extrinsic) (uint64, error) {
	sink := events.NewBuffer()
	overlay := state.NewBuffered(s.block.overlay)

	m, err := s.modulesFor(overlay, sink)
	if err != nil {
		return 0, err
	}

	fee, err := m.Check.PreDispatch(ext)
	if err != nil {
		return 0, err
	}
	if err = m.Calc.WithdrawFee(ext.Signer, fee); err != nil {
		return 0, err
	}

	if err = overlay.Commit(); err != nil {
		return 0, err
	}
	sink.FlushTo(s.bus)

	return fee, nil
}

// dispatchBuffered routes the call on a discardable overlay.
func (s *Service) dispatchBuffered(ext *types.Extrinsic) error {
	sink := events.NewBuffer()
	overlay := state.NewBuffered(s.block.overlay)

	m, err := s.modulesFor(overlay, sink)
	if err != nil {
		return err
	}

	if err = s.dispatch(m, overlay, runtime.SignedOrigin(ext.Signer), ext.Call); err != nil {
		sink.Drop()
		return err
	}

	if err = overlay.Commit(); err != nil {
		return err
	}
	sink.FlushTo(s.bus)

	return nil
}

// FinalizeBlock seals the open block: adjusts the fee multiplier from the
// consumed weight, accrues reputation for every tracked account and commits
// the block overlay into canonical state.
func (s *Service) FinalizeBlock() (*BlockSummary, error) {
	if s.block == nil {
		return nil, ErrNoOpenBlock
	}
	block := s.block

	m, err := s.modulesFor(block.overlay, events.FeedSink{Feed: s.bus})
	if err != nil {
		return nil, err
	}

	if err = m.Multiplier.OnFinalize(block.consumed); err != nil {
		return nil, err
	}
	if err = m.Reputation.Sweep(block.number); err != nil {
		return nil, err
	}

	if err = block.overlay.Commit(); err != nil {
		return nil, err
	}
	s.block = nil

	s.updateMetrics(m, block)

	log.WithFields(logrus.Fields{
		"number":   block.number,
		"applied":  block.applied,
		"failed":   block.failed,
		"consumed": block.consumed,
	}).Info("Block finalized")

	s.bus.Send(&BlockFinalized{Number: block.number, ConsumedWeight: block.consumed})

	return &BlockSummary{
		Number:         block.number,
		ConsumedWeight: block.consumed,
		Applied:        block.applied,
		Failed:         block.failed,
	}, nil
}

// BlockNumber returns the number of the last opened block.
func (s *Service) BlockNumber() (uint64, error) {
	raw, err := s.base.Get(state.RuntimeBucket, state.BlockNumberKey)
	if err != nil {
		return 0, err
	}
	return state.DecodeUint64(raw), nil
}

func (s *Service) updateMetrics(m *Modules, block *blockContext) {
	blockNumberGauge.Set(float64(block.number))
	consumedWeightGauge.Set(float64(block.consumed))
	appliedExtrinsics.Add(float64(block.applied))
	failedExtrinsics.Add(float64(block.failed))

	if multiplier, err := m.Multiplier.Current(); err == nil {
		feeMultiplierGauge.Set(multiplier.Float64())
	}
	if burned, err := m.Calc.BurnedEnergy(); err == nil {
		burnedEnergyGauge.Set(float64(burned))
	}
	if issuance, err := m.Vnrg.TotalIssuance(); err == nil {
		vnrgIssuanceGauge.Set(float64(issuance))
	}
	if issuance, err := m.Vtrs.TotalIssuance(); err == nil {
		vtrsIssuanceGauge.Set(float64(issuance))
	}
}
