package reputation

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
	"github.com/vitreusNetwork/VTRS_core/blockchain/runtime"
	"github.com/vitreusNetwork/VTRS_core/blockchain/state"
)

var log = logrus.WithField("prefix", "Reputation")

// ReputationIncreased is emitted after a privileged point grant.
type ReputationIncreased struct {
	Who    common.Address
	Points uint64
}

// ReputationSlashed is emitted after a privileged point removal.
type ReputationSlashed struct {
	Who    common.Address
	Points uint64
}

// ReputationSetForcibly is emitted when points are overwritten or reset.
type ReputationSetForcibly struct {
	Who    common.Address
	Points uint64
}

// ReputationUpdated is emitted when time-based accrual is materialized on
// request.
type ReputationUpdated struct {
	Who    common.Address
	Points uint64
}

// Ledger tracks reputation records per account. Points accrue with block
// time for every tracked account; privileged calls can adjust them directly.
type Ledger struct {
	store          state.Store
	sink           runtime.EventSink
	pointsPerBlock uint64
}

func NewLedger(store state.Store, pointsPerBlock uint64, sink runtime.EventSink) *Ledger {
	if sink == nil {
		sink = runtime.DiscardSink{}
	}

	return &Ledger{
		store:          store,
		sink:           sink,
		pointsPerBlock: pointsPerBlock,
	}
}

var _ runtime.AccountHooks = (*Ledger)(nil)

// Reputation returns the record of an account, accrued up to now. The stored
// record is not modified. The second result reports whether a record exists.
func (l *Ledger) Reputation(who common.Address, now uint64) (Record, bool, error) {
	record, ok, err := l.load(who)
	if err != nil || !ok {
		return Record{}, ok, err
	}

	record.UpdateWithBlock(now, l.pointsPerBlock)
	return record, true, nil
}

// UpdatePointsForTime accrues the time-based points of an existing account
// and persists the result. Missing accounts are a no-op.
func (l *Ledger) UpdatePointsForTime(who common.Address, now uint64) error {
	record, ok, err := l.load(who)
	if err != nil || !ok {
		return err
	}

	record.UpdateWithBlock(now, l.pointsPerBlock)
	return l.save(who, record)
}

// ForceSetPoints overwrites the account's points. Root only. The account
// record is created when absent.
func (l *Ledger) ForceSetPoints(origin runtime.Origin, who common.Address, points, now uint64) error {
	if err := runtime.EnsureRoot(origin); err != nil {
		return err
	}

	if err := l.save(who, Record{Points: points, Updated: now}); err != nil {
		return err
	}

	l.sink.Emit(&ReputationSetForcibly{Who: who, Points: points})
	return nil
}

// IncreasePoints adds points on top of the accrued balance. Root only, and
// the account must already be tracked.
func (l *Ledger) IncreasePoints(origin runtime.Origin, who common.Address, points, now uint64) error {
	if err := runtime.EnsureRoot(origin); err != nil {
		return err
	}

	record, ok, err := l.load(who)
	if err != nil {
		return err
	}
	if !ok {
		return runtime.ErrAccountNotFound
	}

	record.UpdateWithBlock(now, l.pointsPerBlock)
	next := record.Points + points
	if next < record.Points {
		return runtime.ErrArithmeticOverflow
	}
	record.Points = next

	if err = l.save(who, record); err != nil {
		return err
	}

	l.sink.Emit(&ReputationIncreased{Who: who, Points: record.Points})
	return nil
}

// Slash removes points from the accrued balance, flooring at zero. Root
// only, and the account must already be tracked.
func (l *Ledger) Slash(origin runtime.Origin, who common.Address, points, now uint64) error {
	if err := runtime.EnsureRoot(origin); err != nil {
		return err
	}

	record, ok, err := l.load(who)
	if err != nil {
		return err
	}
	if !ok {
		return runtime.ErrAccountNotFound
	}

	record.UpdateWithBlock(now, l.pointsPerBlock)
	if points > record.Points {
		record.Points = 0
	} else {
		record.Points -= points
	}

	if err = l.save(who, record); err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"who":    who.Hex(),
		"points": record.Points,
	}).Warn("Reputation slashed")

	l.sink.Emit(&ReputationSlashed{Who: who, Points: record.Points})
	return nil
}

// UpdatePoints accrues time-based points for the account, creating a fresh
// record when none exists yet. Root only.
func (l *Ledger) UpdatePoints(origin runtime.Origin, who common.Address, now uint64) error {
	if err := runtime.EnsureRoot(origin); err != nil {
		return err
	}

	record, ok, err := l.load(who)
	if err != nil {
		return err
	}
	if !ok {
		record = Record{Updated: now}
	}

	record.UpdateWithBlock(now, l.pointsPerBlock)
	if err = l.save(who, record); err != nil {
		return err
	}

	l.sink.Emit(&ReputationUpdated{Who: who, Points: record.Points})
	return nil
}

// ForceResetPoints drops the account back to the first Vanguard rank. Root
// only. The record is created when absent.
func (l *Ledger) ForceResetPoints(origin runtime.Origin, who common.Address, now uint64) error {
	if err := runtime.EnsureRoot(origin); err != nil {
		return err
	}

	points, _ := MinPoints(Tier{Vanguard, 1})
	if err := l.save(who, Record{Points: points, Updated: now}); err != nil {
		return err
	}

	l.sink.Emit(&ReputationSetForcibly{Who: who, Points: points})
	return nil
}

// Sweep accrues points for every tracked account. Called once per block at
// finalization so tier lookups stay cheap during dispatch.
func (l *Ledger) Sweep(now uint64) error {
	return l.store.ForEach(state.ReputationBucket, func(k, v []byte) error {
		record, ok := unmarshalRecord(v)
		if !ok {
			log.WithField("key", common.BytesToAddress(k).Hex()).Error("Skipping malformed reputation record")
			return nil
		}

		record.UpdateWithBlock(now, l.pointsPerBlock)
		return l.store.Put(state.ReputationBucket, k, record.MarshalBytes())
	})
}

// OnNewAccount starts tracking a freshly created account from the current
// block.
func (l *Ledger) OnNewAccount(who common.Address) {
	if _, ok, err := l.load(who); err != nil || ok {
		return
	}

	raw, err := l.store.Get(state.RuntimeBucket, state.BlockNumberKey)
	if err != nil {
		log.WithError(err).Error("Can not read block number for new account")
		return
	}

	record := Record{Updated: state.DecodeUint64(raw)}
	if err := l.save(who, record); err != nil {
		log.WithError(err).WithField("who", who.Hex()).Error("Can not track new account")
	}
}

// OnKilledAccount stops tracking a reaped account. Its reputation is gone
// for good, recreating the account starts from zero.
func (l *Ledger) OnKilledAccount(who common.Address) {
	if err := l.store.Delete(state.ReputationBucket, who.Bytes()); err != nil {
		log.WithError(err).WithField("who", who.Hex()).Error("Can not drop reputation record")
	}
}

func (l *Ledger) load(who common.Address) (Record, bool, error) {
	raw, err := l.store.Get(state.ReputationBucket, who.Bytes())
	if err != nil {
		return Record{}, false, err
	}
	if raw == nil {
		return Record{}, false, nil
	}

	record, ok := unmarshalRecord(raw)
	if !ok {
		return Record{}, false, nil
	}

	return record, true, nil
}

func (l *Ledger) save(who common.Address, record Record) error {
	return l.store.Put(state.ReputationBucket, who.Bytes(), record.MarshalBytes())
}
