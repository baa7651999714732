package reputation

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
	"github.com/vitreusNetwork/VTRS_core/blockchain/runtime"
	"github.com/vitreusNetwork/VTRS_core/blockchain/state"
	rmath "github.com/vitreusNetwork/VTRS_core/shared/math"
)

func newTestLedger() *Ledger {
	return NewLedger(state.NewMemory(), PointsPerBlock, nil)
}

func TestAccrualIsMonotonic(t *testing.T) {
	ledger := newTestLedger()
	who := common.HexToAddress("0x01")

	require.NoError(t, ledger.ForceSetPoints(runtime.RootOrigin(), who, 0, 10))

	prev := uint64(0)
	for now := uint64(10); now <= 100; now += 10 {
		record, ok, err := ledger.Reputation(who, now)
		require.NoError(t, err)
		require.True(t, ok)
		require.GreaterOrEqual(t, record.Points, prev)
		prev = record.Points
	}

	// 90 blocks at PointsPerBlock each.
	require.Equal(t, uint64(90*PointsPerBlock), prev)
}

func TestReputationGetterDoesNotPersist(t *testing.T) {
	ledger := newTestLedger()
	who := common.HexToAddress("0x02")

	require.NoError(t, ledger.ForceSetPoints(runtime.RootOrigin(), who, 0, 0))

	_, _, err := ledger.Reputation(who, 1000)
	require.NoError(t, err)

	stored, ok, err := ledger.load(who)
	require.NoError(t, err)
	require.True(t, ok)
	require.Zero(t, stored.Points)
	require.Zero(t, stored.Updated)
}

func TestIncreaseRequiresExistingAccount(t *testing.T) {
	ledger := newTestLedger()
	who := common.HexToAddress("0x03")

	err := ledger.IncreasePoints(runtime.RootOrigin(), who, 100, 5)
	require.ErrorIs(t, err, runtime.ErrAccountNotFound)

	// The failed call must not have created a record.
	_, ok, err := ledger.load(who)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSlashRequiresExistingAccount(t *testing.T) {
	ledger := newTestLedger()
	who := common.HexToAddress("0x04")

	err := ledger.Slash(runtime.RootOrigin(), who, 100, 5)
	require.ErrorIs(t, err, runtime.ErrAccountNotFound)

	_, ok, err := ledger.load(who)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSlashFloorsAtZero(t *testing.T) {
	ledger := newTestLedger()
	who := common.HexToAddress("0x05")

	require.NoError(t, ledger.ForceSetPoints(runtime.RootOrigin(), who, 500, 7))
	require.NoError(t, ledger.Slash(runtime.RootOrigin(), who, 10_000, 7))

	record, ok, err := ledger.Reputation(who, 7)
	require.NoError(t, err)
	require.True(t, ok)
	require.Zero(t, record.Points)
}

func TestPrivilegedCallsNeedRoot(t *testing.T) {
	ledger := newTestLedger()
	who := common.HexToAddress("0x06")
	signed := runtime.SignedOrigin(who)

	require.ErrorIs(t, ledger.ForceSetPoints(signed, who, 1, 0), runtime.ErrBadOrigin)
	require.ErrorIs(t, ledger.IncreasePoints(signed, who, 1, 0), runtime.ErrBadOrigin)
	require.ErrorIs(t, ledger.Slash(signed, who, 1, 0), runtime.ErrBadOrigin)
	require.ErrorIs(t, ledger.UpdatePoints(signed, who, 0), runtime.ErrBadOrigin)
	require.ErrorIs(t, ledger.ForceResetPoints(signed, who, 0), runtime.ErrBadOrigin)
}

func TestUpdatePointsCreatesRecord(t *testing.T) {
	ledger := newTestLedger()
	who := common.HexToAddress("0x07")

	require.NoError(t, ledger.UpdatePoints(runtime.RootOrigin(), who, 42))

	record, ok, err := ledger.Reputation(who, 42)
	require.NoError(t, err)
	require.True(t, ok)
	require.Zero(t, record.Points)
	require.Equal(t, uint64(42), record.Updated)
}

func TestForceResetPoints(t *testing.T) {
	ledger := newTestLedger()
	who := common.HexToAddress("0x08")

	require.NoError(t, ledger.ForceSetPoints(runtime.RootOrigin(), who, 1<<60, 3))
	require.NoError(t, ledger.ForceResetPoints(runtime.RootOrigin(), who, 3))

	record, ok, err := ledger.Reputation(who, 3)
	require.NoError(t, err)
	require.True(t, ok)

	tier, hasTier := record.Tier()
	require.True(t, hasTier)
	require.Equal(t, Tier{Vanguard, 1}, tier)
}

func TestSweepAccruesAllAccounts(t *testing.T) {
	ledger := newTestLedger()

	accounts := []common.Address{
		common.HexToAddress("0x0a"),
		common.HexToAddress("0x0b"),
		common.HexToAddress("0x0c"),
	}
	for _, who := range accounts {
		require.NoError(t, ledger.ForceSetPoints(runtime.RootOrigin(), who, 0, 100))
	}

	require.NoError(t, ledger.Sweep(110))

	for _, who := range accounts {
		stored, ok, err := ledger.load(who)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, uint64(10*PointsPerBlock), stored.Points)
		require.Equal(t, uint64(110), stored.Updated)
	}
}

func TestAccountHooks(t *testing.T) {
	store := state.NewMemory()
	require.NoError(t, store.Put(state.RuntimeBucket, state.BlockNumberKey, state.EncodeUint64(77)))

	ledger := NewLedger(store, PointsPerBlock, nil)
	who := common.HexToAddress("0x0d")

	ledger.OnNewAccount(who)

	record, ok, err := ledger.load(who)
	require.NoError(t, err)
	require.True(t, ok)
	require.Zero(t, record.Points)
	require.Equal(t, uint64(77), record.Updated)

	ledger.OnKilledAccount(who)

	_, ok, err = ledger.load(who)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestTierLadder(t *testing.T) {
	_, ok := TierFromPoints(PointsPerDay - 1)
	require.False(t, ok)

	cases := []struct {
		days uint64
		want Tier
	}{
		{1, Tier{Vanguard, 1}},
		{3, Tier{Vanguard, 2}},
		{4, Tier{Vanguard, 3}},
		{10, Tier{Trailblazer, 1}},
		{32, Tier{Trailblazer, 3}},
		{64, Tier{Ultramodern, 1}},
		{256, Tier{Ultramodern, 3}},
		{512, Tier{Ultramodern, 4}},
		{1024, Tier{Ultramodern, 5}},
	}
	for _, tc := range cases {
		tier, ok := TierFromPoints(tc.days * PointsPerDay)
		require.True(t, ok)
		require.Equal(t, tc.want, tier, "days=%d", tc.days)
	}
}

func TestAdditionalReward(t *testing.T) {
	cases := []struct {
		tier    Tier
		percent uint32
	}{
		{Tier{Vanguard, 1}, 0},
		{Tier{Vanguard, 2}, 2},
		{Tier{Vanguard, 3}, 4},
		{Tier{Trailblazer, 1}, 8},
		{Tier{Trailblazer, 2}, 10},
		{Tier{Trailblazer, 3}, 12},
		{Tier{Ultramodern, 1}, 16},
		{Tier{Ultramodern, 2}, 18},
		{Tier{Ultramodern, 3}, 20},
		{Tier{Ultramodern, 5}, 22},
	}
	for _, tc := range cases {
		require.Equal(t, rmath.PerbillFromPercent(tc.percent), tc.tier.AdditionalReward(), "tier=%v", tc.tier)
	}
}

type captureSink struct {
	emitted []interface{}
}

func (c *captureSink) Emit(event interface{}) {
	c.emitted = append(c.emitted, event)
}

func TestLedgerEmitsDistinctEvents(t *testing.T) {
	sink := &captureSink{}
	ledger := NewLedger(state.NewMemory(), PointsPerBlock, sink)
	who := common.HexToAddress("0x04")

	require.NoError(t, ledger.ForceSetPoints(runtime.RootOrigin(), who, 100, 1))
	require.NoError(t, ledger.IncreasePoints(runtime.RootOrigin(), who, 50, 1))
	require.NoError(t, ledger.Slash(runtime.RootOrigin(), who, 25, 1))
	require.NoError(t, ledger.UpdatePoints(runtime.RootOrigin(), who, 2))

	require.Len(t, sink.emitted, 4)
	require.IsType(t, &ReputationSetForcibly{}, sink.emitted[0])
	require.IsType(t, &ReputationIncreased{}, sink.emitted[1])
	require.IsType(t, &ReputationSlashed{}, sink.emitted[2])
	require.IsType(t, &ReputationUpdated{}, sink.emitted[3])

	slashed := sink.emitted[2].(*ReputationSlashed)
	require.Equal(t, uint64(125), slashed.Points)
}
