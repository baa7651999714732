package exchange

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"github.com/vitreusNetwork/VTRS_core/blockchain/runtime"
	"github.com/vitreusNetwork/VTRS_core/blockchain/state"
)

var (
	testSourceIssuanceKey = []byte("test-source-issuance")
	testTargetIssuanceKey = []byte("test-target-issuance")
)

func setupEngine(t *testing.T, num, den, existential uint64) (*Engine, *Ledger, *Ledger) {
	store := state.NewMemory()

	source := NewLedger(store, state.VtrsBucket, testSourceIssuanceKey, existential, nil)
	target := NewLedger(store, state.VnrgBucket, testTargetIssuanceKey, existential, nil)

	rate, err := NewRate(num, den)
	require.NoError(t, err)

	return NewEngine(source, target, rate, nil), source, target
}

func TestRateValidation(t *testing.T) {
	_, err := NewRate(0, 1)
	require.ErrorIs(t, err, runtime.ErrInvalidBounds)

	_, err = NewRate(1, 0)
	require.ErrorIs(t, err, runtime.ErrInvalidBounds)

	_, err = NewRate(10, 1)
	require.NoError(t, err)
}

func TestRateRounding(t *testing.T) {
	rate, err := NewRate(3, 7)
	require.NoError(t, err)

	// Forward conversion rounds down.
	out, err := rate.FromInput(10)
	require.NoError(t, err)
	require.Equal(t, uint64(4), out)

	// Back-computation rounds up.
	in, err := rate.FromOutput(4)
	require.NoError(t, err)
	require.Equal(t, uint64(10), in)

	in, err = rate.FromOutput(5)
	require.NoError(t, err)
	require.Equal(t, uint64(12), in)
}

func TestRoundTripFavorsProtocol(t *testing.T) {
	rate, err := NewRate(7, 13)
	require.NoError(t, err)

	for amountOut := uint64(1); amountOut < 500; amountOut++ {
		in, err := rate.FromOutput(amountOut)
		require.NoError(t, err)

		quoted, err := rate.FromInput(in)
		require.NoError(t, err)
		require.GreaterOrEqual(t, quoted, amountOut)
	}
}

func TestExchangeFromInput(t *testing.T) {
	engine, source, target := setupEngine(t, 10, 1, 1)
	who := common.HexToAddress("0x01")

	require.NoError(t, source.Issue(who, 1000))

	out, err := engine.ExchangeFromInput(who, 300)
	require.NoError(t, err)
	require.Equal(t, uint64(3000), out)

	balance, err := source.Balance(who)
	require.NoError(t, err)
	require.Equal(t, uint64(700), balance)

	balance, err = target.Balance(who)
	require.NoError(t, err)
	require.Equal(t, uint64(3000), balance)
}

func TestExchangeFromOutput(t *testing.T) {
	engine, source, target := setupEngine(t, 10, 1, 1)
	who := common.HexToAddress("0x02")

	require.NoError(t, source.Issue(who, 1000))

	in, err := engine.ExchangeFromOutput(who, 2500)
	require.NoError(t, err)
	require.Equal(t, uint64(250), in)

	balance, err := source.Balance(who)
	require.NoError(t, err)
	require.Equal(t, uint64(750), balance)

	balance, err = target.Balance(who)
	require.NoError(t, err)
	require.Equal(t, uint64(2500), balance)
}

func TestExchangeZeroShortCircuits(t *testing.T) {
	engine, source, _ := setupEngine(t, 10, 1, 1)
	who := common.HexToAddress("0x03")

	// No balance at all, yet a zero swap succeeds without touching state.
	out, err := engine.ExchangeFromInput(who, 0)
	require.NoError(t, err)
	require.Zero(t, out)

	in, err := engine.ExchangeFromOutput(who, 0)
	require.NoError(t, err)
	require.Zero(t, in)

	issuance, err := source.TotalIssuance()
	require.NoError(t, err)
	require.Zero(t, issuance)
}

func TestExchangeInsufficientFunds(t *testing.T) {
	engine, source, target := setupEngine(t, 10, 1, 1)
	who := common.HexToAddress("0x04")

	require.NoError(t, source.Issue(who, 100))

	_, err := engine.ExchangeFromInput(who, 200)
	require.ErrorIs(t, errors.Cause(err), runtime.ErrFundsUnavailable)

	// Failed swap leaves both sides untouched.
	balance, err := source.Balance(who)
	require.NoError(t, err)
	require.Equal(t, uint64(100), balance)

	issuance, err := target.TotalIssuance()
	require.NoError(t, err)
	require.Zero(t, issuance)
}

func TestExchangeKeepsPayerAlive(t *testing.T) {
	engine, source, _ := setupEngine(t, 10, 1, 5)
	who := common.HexToAddress("0x05")

	require.NoError(t, source.Issue(who, 100))

	// Draining below the existential deposit is rejected: the swap burns
	// with account protection.
	_, err := engine.ExchangeFromInput(who, 98)
	require.ErrorIs(t, errors.Cause(err), runtime.ErrBelowMinimum)

	out, err := engine.ExchangeFromInput(who, 95)
	require.NoError(t, err)
	require.Equal(t, uint64(950), out)

	balance, err := source.Balance(who)
	require.NoError(t, err)
	require.Equal(t, uint64(5), balance)
}

func TestSupplyConservation(t *testing.T) {
	engine, source, target := setupEngine(t, 3, 7, 1)

	alice := common.HexToAddress("0xaa")
	bob := common.HexToAddress("0xbb")

	require.NoError(t, source.Issue(alice, 10_000))
	require.NoError(t, source.Issue(bob, 10_000))

	sourceBefore, err := source.TotalIssuance()
	require.NoError(t, err)

	in1, err := engine.ExchangeFromOutput(alice, 333)
	require.NoError(t, err)
	out2, err := engine.ExchangeFromInput(bob, 777)
	require.NoError(t, err)

	sourceAfter, err := source.TotalIssuance()
	require.NoError(t, err)
	require.Equal(t, sourceBefore-in1-777, sourceAfter)

	targetAfter, err := target.TotalIssuance()
	require.NoError(t, err)
	require.Equal(t, uint64(333)+out2, targetAfter)
}
