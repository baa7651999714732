package exchange

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/vitreusNetwork/VTRS_core/blockchain/runtime"
	"github.com/vitreusNetwork/VTRS_core/blockchain/state"
)

// Ledger keeps per-account balances of one fungible token in a store bucket.
// Every balance mutation also maintains the total issuance key, so supply can
// be audited against the sum of accounts at any time.
type Ledger struct {
	store       state.Store
	bucket      []byte
	issuanceKey []byte
	existential uint64
	hooks       runtime.AccountHooks
}

type noopHooks struct{}

func (noopHooks) OnNewAccount(common.Address)    {}
func (noopHooks) OnKilledAccount(common.Address) {}

// NewLedger binds a token ledger to its bucket. The hooks argument is
// optional and fires on account creation and reaping.
func NewLedger(store state.Store, bucket, issuanceKey []byte, existential uint64, hooks runtime.AccountHooks) *Ledger {
	if hooks == nil {
		hooks = noopHooks{}
	}

	return &Ledger{
		store:       store,
		bucket:      bucket,
		issuanceKey: issuanceKey,
		existential: existential,
		hooks:       hooks,
	}
}

var _ runtime.FungibleLedger = (*Ledger)(nil)

func (l *Ledger) Balance(who common.Address) (uint64, error) {
	raw, err := l.store.Get(l.bucket, who.Bytes())
	if err != nil {
		return 0, err
	}

	return state.DecodeUint64(raw), nil
}

// Reducible reports how much of the balance may be withdrawn under the given
// preservation requirement without violating the existential deposit.
func (l *Ledger) Reducible(who common.Address, p runtime.Preservation) (uint64, error) {
	balance, err := l.Balance(who)
	if err != nil {
		return 0, err
	}

	if p == runtime.Expendable {
		return balance, nil
	}

	if balance <= l.existential {
		return 0, nil
	}

	return balance - l.existential, nil
}

// Rescind burns exactly amount from who, or fails without touching state.
// When an expendable withdrawal leaves a remainder below the existential
// deposit the account is reaped and the remainder is burned with it, keeping
// issuance equal to the sum of live accounts.
func (l *Ledger) Rescind(who common.Address, amount uint64, p runtime.Preservation) error {
	if amount == 0 {
		return nil
	}

	balance, err := l.Balance(who)
	if err != nil {
		return err
	}
	if amount > balance {
		return runtime.ErrFundsUnavailable
	}

	reducible, err := l.Reducible(who, p)
	if err != nil {
		return err
	}
	if amount > reducible {
		return runtime.ErrBelowMinimum
	}

	remainder := balance - amount
	burned := amount

	if remainder == 0 || (p == runtime.Expendable && remainder < l.existential) {
		burned = balance
		if err = l.store.Delete(l.bucket, who.Bytes()); err != nil {
			return err
		}
		if err = l.addIssuance(-int64(burned)); err != nil {
			return err
		}

		l.hooks.OnKilledAccount(who)
		return nil
	}

	if err = l.store.Put(l.bucket, who.Bytes(), state.EncodeUint64(remainder)); err != nil {
		return err
	}

	return l.addIssuance(-int64(burned))
}

// Issue mints exactly amount to who, creating the account when needed.
func (l *Ledger) Issue(who common.Address, amount uint64) error {
	if amount == 0 {
		return nil
	}

	balance, err := l.Balance(who)
	if err != nil {
		return err
	}

	newBalance := balance + amount
	if newBalance < balance {
		return runtime.ErrArithmeticOverflow
	}
	if balance == 0 && newBalance < l.existential {
		return runtime.ErrBelowMinimum
	}

	if err = l.store.Put(l.bucket, who.Bytes(), state.EncodeUint64(newBalance)); err != nil {
		return err
	}
	if err = l.addIssuance(int64(amount)); err != nil {
		return err
	}

	if balance == 0 {
		l.hooks.OnNewAccount(who)
	}

	return nil
}

// Transfer moves amount from one account to another without changing supply,
// except for a sub-existential remainder burned when the sender is reaped.
func (l *Ledger) Transfer(from, to common.Address, amount uint64, p runtime.Preservation) error {
	if amount == 0 {
		return nil
	}
	if from == to {
		return nil
	}

	toBalance, err := l.Balance(to)
	if err != nil {
		return err
	}
	if toBalance+amount < toBalance {
		return runtime.ErrArithmeticOverflow
	}
	if toBalance == 0 && amount < l.existential {
		return runtime.ErrBelowMinimum
	}

	if err = l.Rescind(from, amount, p); err != nil {
		return err
	}

	return l.Issue(to, amount)
}

func (l *Ledger) TotalIssuance() (uint64, error) {
	raw, err := l.store.Get(state.RuntimeBucket, l.issuanceKey)
	if err != nil {
		return 0, err
	}

	return state.DecodeUint64(raw), nil
}

func (l *Ledger) addIssuance(delta int64) error {
	issuance, err := l.TotalIssuance()
	if err != nil {
		return err
	}

	var next uint64
	if delta >= 0 {
		next = issuance + uint64(delta)
		if next < issuance {
			return runtime.ErrArithmeticOverflow
		}
	} else {
		dec := uint64(-delta)
		if dec > issuance {
			return runtime.ErrArithmeticOverflow
		}
		next = issuance - dec
	}

	return l.store.Put(state.RuntimeBucket, l.issuanceKey, state.EncodeUint64(next))
}
