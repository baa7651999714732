package txpool

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"github.com/vitreusNetwork/VTRS_core/shared/types"
)

type stubValidator struct {
	fees map[common.Hash]uint64
	err  error
}

func (v *stubValidator) PreDispatch(ext *types.Extrinsic) (uint64, error) {
	if v.err != nil {
		return 0, v.err
	}
	return v.fees[ext.Hash()], nil
}

func makeExt(signer byte, nonce uint64, amount uint64) *types.Extrinsic {
	return &types.Extrinsic{
		Signer: common.BytesToAddress([]byte{signer}),
		Nonce:  nonce,
		Call: &types.Call{
			Pallet: types.PalletBalances,
			Method: types.MethodTransfer,
			To:     common.BytesToAddress([]byte{0xff}),
			Amount: amount,
		},
	}
}

func newStubPool(fees map[common.Hash]uint64) (*Pool, *stubValidator) {
	v := &stubValidator{fees: fees}
	return NewPool(v), v
}

func TestRegisterAndDedupe(t *testing.T) {
	pool, _ := newStubPool(nil)
	defer pool.StopWriting()

	ext := makeExt(1, 0, 100)
	require.NoError(t, pool.Register(ext))
	require.True(t, pool.Stored(ext))

	require.ErrorIs(t, pool.Register(ext), ErrExtrinsicExists)
}

func TestRegisterRejectsUnpayable(t *testing.T) {
	pool, v := newStubPool(nil)
	defer pool.StopWriting()

	v.err = errors.New("Insufficient balance")

	ext := makeExt(1, 0, 100)
	require.Error(t, pool.Register(ext))
	require.False(t, pool.Stored(ext))

	// A transient rejection is not a ban: the same extrinsic is accepted
	// once it can pay.
	v.err = nil
	require.NoError(t, pool.Register(ext))
}

func TestNonceLock(t *testing.T) {
	pool, _ := newStubPool(nil)
	defer pool.StopWriting()

	first := makeExt(1, 7, 100)
	second := makeExt(1, 7, 200) // same signer and nonce, different call

	require.NoError(t, pool.Register(first))

	err := pool.Register(second)
	require.Error(t, err)
	require.Contains(t, err.Error(), ErrNonceLocked.Error())

	// Deleting the first frees the slot.
	require.NoError(t, pool.Delete(first))
	require.NoError(t, pool.Register(second))
}

func TestPricedQueueOrder(t *testing.T) {
	cheap := makeExt(1, 0, 10)
	middle := makeExt(2, 0, 20)
	rich := makeExt(3, 0, 30)

	pool, _ := newStubPool(map[common.Hash]uint64{
		cheap.Hash():  1_000,
		middle.Hash(): 5_000,
		rich.Hash():   9_000,
	})
	defer pool.StopWriting()

	require.NoError(t, pool.Register(middle))
	require.NoError(t, pool.Register(cheap))
	require.NoError(t, pool.Register(rich))

	queue := pool.GetPricedQueue()
	require.Len(t, queue, 3)
	require.Equal(t, rich.Hash(), queue[0].GetExtrinsic().Hash())
	require.Equal(t, middle.Hash(), queue[1].GetExtrinsic().Hash())
	require.Equal(t, cheap.Hash(), queue[2].GetExtrinsic().Hash())
	require.Equal(t, uint64(9_000), queue[0].Fee())
}

func TestReserveAndFlush(t *testing.T) {
	ext := makeExt(1, 0, 100)
	pool, _ := newStubPool(map[common.Hash]uint64{ext.Hash(): 1})
	defer pool.StopWriting()

	require.NoError(t, pool.Register(ext))
	require.NoError(t, pool.Reserve([]*types.Extrinsic{ext}))

	// Reserved extrinsics leave the priced queue but still count as stored.
	require.Empty(t, pool.GetPricedQueue())
	require.True(t, pool.Stored(ext))

	require.Error(t, pool.Reserve([]*types.Extrinsic{ext}))

	pool.FlushReserved(true)
	require.False(t, pool.Stored(ext))

	// Nonce slot was freed with the flush.
	require.NoError(t, pool.Register(makeExt(1, 0, 999)))
}

func TestRollbackReserved(t *testing.T) {
	ext := makeExt(1, 0, 100)
	pool, _ := newStubPool(map[common.Hash]uint64{ext.Hash(): 1})
	defer pool.StopWriting()

	require.NoError(t, pool.Register(ext))
	require.NoError(t, pool.Reserve([]*types.Extrinsic{ext}))

	pool.RollbackReserved()

	queue := pool.GetPricedQueue()
	require.Len(t, queue, 1)
	require.Equal(t, WaitStatus, queue[0].GetStatus())

	// The nonce slot stayed locked across the rollback.
	err := pool.Register(makeExt(1, 0, 50))
	require.Error(t, err)
}

func TestSendAfterStop(t *testing.T) {
	pool, _ := newStubPool(nil)
	pool.StopWriting()

	require.ErrorIs(t, pool.SendExtrinsic(makeExt(1, 0, 1)), ErrPoolClosed)
}
