package energyfee

import (
	"github.com/sirupsen/logrus"
	"github.com/vitreusNetwork/VTRS_core/blockchain/runtime"
	"github.com/vitreusNetwork/VTRS_core/blockchain/state"
	rmath "github.com/vitreusNetwork/VTRS_core/shared/math"
	"github.com/vitreusNetwork/VTRS_core/shared/params"
)

// FeeMultiplierUpdated is emitted at the end of every block.
type FeeMultiplierUpdated struct {
	Multiplier rmath.Fixed
	Fullness   rmath.Quintill
}

// BlockFullnessThresholdUpdated is emitted on a successful threshold change.
type BlockFullnessThresholdUpdated struct {
	Threshold rmath.Quintill
}

// UpperFeeMultiplierUpdated is emitted on a successful bound change.
type UpperFeeMultiplierUpdated struct {
	Upper rmath.Fixed
}

// Controller adjusts the fee multiplier once per block from observed block
// fullness. Below the fullness threshold the multiplier decays back toward
// the default; at or above it the multiplier snaps to the upper bound.
type Controller struct {
	store state.Store
	sink  runtime.EventSink
	cfg   *params.VitreusChainConfig
}

func NewController(store state.Store, sink runtime.EventSink) *Controller {
	if sink == nil {
		sink = runtime.DiscardSink{}
	}

	return &Controller{
		store: store,
		sink:  sink,
		cfg:   params.VitreusConfig(),
	}
}

// Current returns the multiplier in effect for the current block.
func (c *Controller) Current() (rmath.Fixed, error) {
	raw, err := c.store.Get(state.RuntimeBucket, state.FeeMultiplierKey)
	if err != nil {
		return rmath.Fixed{}, err
	}
	if len(raw) != 32 {
		return rmath.FixedFromParts(c.cfg.DefaultFeeMultiplier), nil
	}

	var b [32]byte
	copy(b[:], raw)
	return rmath.FixedFromBytes32(b), nil
}

func (c *Controller) Default() rmath.Fixed {
	return rmath.FixedFromParts(c.cfg.DefaultFeeMultiplier)
}

func (c *Controller) Lower() rmath.Fixed {
	return rmath.FixedFromParts(c.cfg.LowerFeeMultiplier)
}

// Upper returns the configured upper bound, governance-overridable.
func (c *Controller) Upper() (rmath.Fixed, error) {
	raw, err := c.store.Get(state.RuntimeBucket, state.UpperFeeMultiplierKey)
	if err != nil {
		return rmath.Fixed{}, err
	}
	if len(raw) != 32 {
		return rmath.FixedFromParts(c.cfg.UpperFeeMultiplier), nil
	}

	var b [32]byte
	copy(b[:], raw)
	return rmath.FixedFromBytes32(b), nil
}

// Threshold returns the block fullness above which the multiplier snaps to
// the upper bound, governance-overridable.
func (c *Controller) Threshold() (rmath.Quintill, error) {
	raw, err := c.store.Get(state.RuntimeBucket, state.BlockFullnessThresholdKey)
	if err != nil {
		return 0, err
	}
	if raw == nil {
		return rmath.QuintillFromParts(c.cfg.BlockFullnessThreshold), nil
	}

	return rmath.QuintillFromParts(state.DecodeUint64(raw)), nil
}

// OnFinalize recomputes the multiplier from the weight consumed by the
// finished block and persists it for the next one.
func (c *Controller) OnFinalize(consumedWeight uint64) error {
	fullness := rmath.QuintillFromRational(consumedWeight, c.cfg.MaxBlockWeight)

	threshold, err := c.Threshold()
	if err != nil {
		return err
	}
	upper, err := c.Upper()
	if err != nil {
		return err
	}
	current, err := c.Current()
	if err != nil {
		return err
	}

	var next rmath.Fixed
	if fullness >= threshold {
		next = upper
	} else {
		next = c.decay(current, threshold.Sub(fullness))
	}
	next = next.Clamp(c.Lower(), upper)

	b := next.Bytes32()
	if err = c.store.Put(state.RuntimeBucket, state.FeeMultiplierKey, b[:]); err != nil {
		return err
	}

	if next.Cmp(current) != 0 {
		log.WithFields(logrus.Fields{
			"multiplier": next.String(),
			"fullness":   fullness,
		}).Debug("Fee multiplier adjusted")
	}

	c.sink.Emit(&FeeMultiplierUpdated{Multiplier: next, Fullness: fullness})
	return nil
}

// decay moves the multiplier toward the default. The step fraction is
// v*slack + (v*slack)^2/2 capped at one, so a wide slack under a calm chain
// converges in few blocks while a near-threshold block barely moves it.
func (c *Controller) decay(current rmath.Fixed, slack rmath.Quintill) rmath.Fixed {
	v := rmath.FixedFromParts(c.cfg.AdjustmentVariable)
	t := v.Mul(slack.ToFixed())

	step := t.Add(t.Mul(t).Mul(rmath.FixedFromRational(1, 2)))
	if step.Cmp(rmath.FixedOne()) > 0 {
		step = rmath.FixedOne()
	}

	def := c.Default()
	if def.Cmp(current) >= 0 {
		return current.Add(def.Sub(current).Mul(step))
	}
	return current.Sub(current.Sub(def).Mul(step))
}

// UpdateBlockFullnessThreshold replaces the snap threshold. Root only. The
// value is given in parts per quintillion and must describe a valid share of
// the block.
func (c *Controller) UpdateBlockFullnessThreshold(origin runtime.Origin, parts uint64) error {
	if err := runtime.EnsureRoot(origin); err != nil {
		return err
	}
	if parts == 0 || parts > uint64(rmath.QuintillOne) {
		return runtime.ErrInvalidBounds
	}

	if err := c.store.Put(state.RuntimeBucket, state.BlockFullnessThresholdKey, state.EncodeUint64(parts)); err != nil {
		return err
	}

	c.sink.Emit(&BlockFullnessThresholdUpdated{Threshold: rmath.QuintillFromParts(parts)})
	return nil
}

// UpdateUpperFeeMultiplier replaces the upper bound. Root only. The bound may
// not fall below the default multiplier.
func (c *Controller) UpdateUpperFeeMultiplier(origin runtime.Origin, upper rmath.Fixed) error {
	if err := runtime.EnsureRoot(origin); err != nil {
		return err
	}
	if upper.Cmp(c.Default()) < 0 {
		return runtime.ErrInvalidBounds
	}

	b := upper.Bytes32()
	if err := c.store.Put(state.RuntimeBucket, state.UpperFeeMultiplierKey, b[:]); err != nil {
		return err
	}

	c.sink.Emit(&UpperFeeMultiplierUpdated{Upper: upper})
	return nil
}
