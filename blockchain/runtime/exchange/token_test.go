package exchange

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
	"github.com/vitreusNetwork/VTRS_core/blockchain/runtime"
	"github.com/vitreusNetwork/VTRS_core/blockchain/state"
)

type recordingHooks struct {
	created []common.Address
	killed  []common.Address
}

func (h *recordingHooks) OnNewAccount(who common.Address)    { h.created = append(h.created, who) }
func (h *recordingHooks) OnKilledAccount(who common.Address) { h.killed = append(h.killed, who) }

func TestLedgerLifecycleHooks(t *testing.T) {
	hooks := &recordingHooks{}
	ledger := NewLedger(state.NewMemory(), state.VtrsBucket, testSourceIssuanceKey, 10, hooks)
	who := common.HexToAddress("0x10")

	// Minting below the existential deposit must not create the account.
	err := ledger.Issue(who, 5)
	require.ErrorIs(t, err, runtime.ErrBelowMinimum)
	require.Empty(t, hooks.created)

	require.NoError(t, ledger.Issue(who, 50))
	require.Equal(t, []common.Address{who}, hooks.created)

	// Topping up an existing account fires no further hook.
	require.NoError(t, ledger.Issue(who, 50))
	require.Len(t, hooks.created, 1)

	require.NoError(t, ledger.Rescind(who, 100, runtime.Expendable))
	require.Equal(t, []common.Address{who}, hooks.killed)

	issuance, err := ledger.TotalIssuance()
	require.NoError(t, err)
	require.Zero(t, issuance)
}

func TestLedgerDustReaping(t *testing.T) {
	hooks := &recordingHooks{}
	ledger := NewLedger(state.NewMemory(), state.VtrsBucket, testSourceIssuanceKey, 10, hooks)
	who := common.HexToAddress("0x11")

	require.NoError(t, ledger.Issue(who, 100))

	// An expendable withdrawal leaving a sub-existential remainder reaps
	// the account and burns the remainder with it.
	require.NoError(t, ledger.Rescind(who, 95, runtime.Expendable))
	require.Equal(t, []common.Address{who}, hooks.killed)

	balance, err := ledger.Balance(who)
	require.NoError(t, err)
	require.Zero(t, balance)

	issuance, err := ledger.TotalIssuance()
	require.NoError(t, err)
	require.Zero(t, issuance)
}

func TestLedgerRescindFailsWithoutStateChange(t *testing.T) {
	ledger := NewLedger(state.NewMemory(), state.VtrsBucket, testSourceIssuanceKey, 10, nil)
	who := common.HexToAddress("0x12")

	require.NoError(t, ledger.Issue(who, 100))

	err := ledger.Rescind(who, 200, runtime.Expendable)
	require.ErrorIs(t, err, runtime.ErrFundsUnavailable)

	err = ledger.Rescind(who, 95, runtime.Protect)
	require.ErrorIs(t, err, runtime.ErrBelowMinimum)

	balance, err := ledger.Balance(who)
	require.NoError(t, err)
	require.Equal(t, uint64(100), balance)

	issuance, err := ledger.TotalIssuance()
	require.NoError(t, err)
	require.Equal(t, uint64(100), issuance)
}

func TestLedgerTransfer(t *testing.T) {
	ledger := NewLedger(state.NewMemory(), state.VtrsBucket, testSourceIssuanceKey, 10, nil)

	from := common.HexToAddress("0x13")
	to := common.HexToAddress("0x14")

	require.NoError(t, ledger.Issue(from, 100))

	// Receiver would start below the existential deposit.
	err := ledger.Transfer(from, to, 5, runtime.Protect)
	require.ErrorIs(t, err, runtime.ErrBelowMinimum)

	require.NoError(t, ledger.Transfer(from, to, 40, runtime.Protect))

	fromBalance, err := ledger.Balance(from)
	require.NoError(t, err)
	require.Equal(t, uint64(60), fromBalance)

	toBalance, err := ledger.Balance(to)
	require.NoError(t, err)
	require.Equal(t, uint64(40), toBalance)

	// Supply is unchanged by a plain transfer.
	issuance, err := ledger.TotalIssuance()
	require.NoError(t, err)
	require.Equal(t, uint64(100), issuance)
}
