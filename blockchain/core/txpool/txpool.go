package txpool

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vitreusNetwork/VTRS_core/shared/types"
)

var (
	ErrExtrinsicExists   = errors.New("extrinsic already exists in pool")
	ErrNonceLocked       = errors.New("signer nonce is already used by a pooled extrinsic")
	ErrExtrinsicNotFound = errors.New("extrinsic was not found in the pool")
	ErrPoolClosed        = errors.New("pool is closed for writing")
)

const (
	WaitStatus     = iota // extrinsic waits for its turn into a block
	ReservedStatus        // extrinsic is reserved for the block being built
)

var log = logrus.WithField("prefix", "TxPool")

// Validator prices and admission-checks an extrinsic. The chain's
// pre-dispatch fee gate satisfies it.
type Validator interface {
	PreDispatch(ext *types.Extrinsic) (uint64, error)
}

// Pool holds payable extrinsics ordered by the energy fee they will burn.
// One pooled extrinsic per signer nonce, so a replay can not queue behind
// the original.
type Pool struct {
	lock sync.RWMutex

	validator Validator

	// one pooled extrinsic per (signer, nonce)
	lockedNonces map[string]common.Hash

	pool     map[common.Hash]*ExtrinsicData
	priced   pricedPool
	reserved map[common.Hash]*ExtrinsicData

	dataC chan *types.Extrinsic

	ctx    context.Context
	finish context.CancelFunc
}

func NewPool(v Validator) *Pool {
	ctx, finish := context.WithCancel(context.Background())

	p := Pool{
		validator:    v,
		lockedNonces: map[string]common.Hash{},
		pool:         map[common.Hash]*ExtrinsicData{},
		priced:       make(pricedPool, 0),
		reserved:     map[common.Hash]*ExtrinsicData{},

		ctx:    ctx,
		finish: finish,

		dataC: make(chan *types.Extrinsic),
	}

	go p.ReadingLoop()

	return &p
}

// SendExtrinsic queues the extrinsic for registration.
func (p *Pool) SendExtrinsic(ext *types.Extrinsic) error {
	select {
	case <-p.ctx.Done():
		return ErrPoolClosed
	case p.dataC <- ext:
		return nil
	}
}

// ReadingLoop waits for new extrinsics and registers them. Registration
// failures only drop the extrinsic, the pool keeps accepting.
func (p *Pool) ReadingLoop() {
	for ext := range p.dataC {
		if err := p.Register(ext); err != nil {
			log.Errorf("ReadingLoop: registration error. %s", err)
		}
	}
}

// Register admits the extrinsic if it can pay its fee and its nonce slot is
// free.
func (p *Pool) Register(ext *types.Extrinsic) error {
	hash := ext.Hash()

	p.lock.RLock()
	_, exists := p.pool[hash]
	_, reserved := p.reserved[hash]
	p.lock.RUnlock()

	if exists || reserved {
		return ErrExtrinsicExists
	}

	fee, err := p.validator.PreDispatch(ext)
	if err != nil {
		return errors.Wrap(err, "extrinsic rejected")
	}

	data := &ExtrinsicData{
		ext:  ext,
		fee:  fee,
		size: int(ext.EncodedLen()),
	}

	p.lock.Lock()
	defer p.lock.Unlock()

	key := nonceKey(ext)
	if first, locked := p.lockedNonces[key]; locked {
		return errors.Errorf("%s: nonce %d of %s held by %s", ErrNonceLocked, ext.Nonce, ext.Signer.Hex(), first.Hex())
	}

	p.pool[hash] = data
	p.priced = append(p.priced, data)
	p.lockedNonces[key] = hash

	return nil
}

// GetPricedQueue returns the waiting extrinsics, most valuable first.
func (p *Pool) GetPricedQueue() []*ExtrinsicData {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.priced.Sort()

	queue := make([]*ExtrinsicData, len(p.priced))
	copy(queue, p.priced)
	return queue
}

// Reserve marks the given extrinsics as taken by the block being built.
func (p *Pool) Reserve(arr []*types.Extrinsic) error {
	p.lock.Lock()
	defer p.lock.Unlock()

	for _, ext := range arr {
		hash := ext.Hash()

		data, exists := p.pool[hash]
		if !exists {
			return ErrExtrinsicNotFound
		}
		if _, taken := p.reserved[hash]; taken {
			return errors.Errorf("Extrinsic %s already reserved", hash.Hex())
		}

		data.SetStatus(ReservedStatus)
		p.reserved[hash] = data
		delete(p.pool, hash)
		p.priced.removeByHash(hash)
	}

	return nil
}

// FlushReserved drops the reserved extrinsics after their block was sealed.
// With unlockNonces set their nonce slots open up again.
func (p *Pool) FlushReserved(unlockNonces bool) {
	p.lock.Lock()
	defer p.lock.Unlock()

	for _, data := range p.reserved {
		if unlockNonces {
			p.unlockNonce(data.ext)
		}
	}
	p.reserved = map[common.Hash]*ExtrinsicData{}
}

// RollbackReserved returns reserved extrinsics to the waiting pool, used
// when block building fails.
func (p *Pool) RollbackReserved() {
	p.lock.Lock()

	for hash, data := range p.reserved {
		if _, exists := p.pool[hash]; exists {
			log.Warnf("Can't return extrinsic %s to the pool: it is already there", hash.Hex())
			continue
		}

		data.SetStatus(WaitStatus)
		p.pool[hash] = data
		p.priced = append(p.priced, data)
	}
	p.reserved = map[common.Hash]*ExtrinsicData{}

	p.lock.Unlock()
}

// Delete removes a waiting extrinsic and frees its nonce slot.
func (p *Pool) Delete(ext *types.Extrinsic) error {
	p.lock.Lock()
	defer p.lock.Unlock()

	hash := ext.Hash()

	data, exists := p.pool[hash]
	if !exists {
		return ErrExtrinsicNotFound
	}

	delete(p.pool, hash)
	p.priced.removeByHash(hash)
	p.unlockNonce(data.ext)

	return nil
}

// Stored reports whether the extrinsic is present in any pool section.
func (p *Pool) Stored(ext *types.Extrinsic) bool {
	p.lock.RLock()
	defer p.lock.RUnlock()

	hash := ext.Hash()
	if _, exists := p.pool[hash]; exists {
		return true
	}
	_, reserved := p.reserved[hash]
	return reserved
}

// StopWriting closes the pool for new extrinsics.
func (p *Pool) StopWriting() {
	p.finish()
}

func (p *Pool) unlockNonce(ext *types.Extrinsic) {
	key := nonceKey(ext)
	if _, exists := p.lockedNonces[key]; !exists {
		log.Warnf("Trying to unlock unknown nonce slot %s", key)
		return
	}
	delete(p.lockedNonces, key)
}

func nonceKey(ext *types.Extrinsic) string {
	return fmt.Sprintf("%s_%d", ext.Signer.Hex(), ext.Nonce)
}

type pricedPool []*ExtrinsicData

func (pp pricedPool) Len() int {
	return len(pp)
}

// Less orders by fee descending; equal fees fall back to nonce, then hash,
// so the order is fully deterministic.
func (pp pricedPool) Less(i, j int) bool {
	if pp[i].fee != pp[j].fee {
		return pp[i].fee > pp[j].fee
	}
	if pp[i].ext.Nonce != pp[j].ext.Nonce {
		return pp[i].ext.Nonce < pp[j].ext.Nonce
	}
	return pp[i].ext.Hash().Hex() < pp[j].ext.Hash().Hex()
}

func (pp pricedPool) Swap(i, j int) {
	pp[i], pp[j] = pp[j], pp[i]
}

func (pp pricedPool) Sort() {
	sort.Slice(pp, pp.Less)
}

func (pp *pricedPool) removeByHash(hash common.Hash) {
	for i, data := range *pp {
		if data.ext.Hash() == hash {
			*pp = append((*pp)[:i], (*pp)[i+1:]...)
			return
		}
	}
}

// ExtrinsicData couples a pooled extrinsic with its admission fee.
type ExtrinsicData struct {
	ext    *types.Extrinsic
	fee    uint64
	size   int
	status int
}

func (d *ExtrinsicData) GetExtrinsic() *types.Extrinsic {
	return d.ext
}

func (d *ExtrinsicData) Fee() uint64 {
	return d.fee
}

func (d *ExtrinsicData) Size() int {
	return d.size
}

func (d *ExtrinsicData) SetStatus(code int) {
	d.status = code
}

func (d *ExtrinsicData) GetStatus() int {
	return d.status
}
