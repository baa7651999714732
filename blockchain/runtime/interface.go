package runtime

import "github.com/ethereum/go-ethereum/common"

// Preservation states how far a balance withdrawal may reduce an account.
type Preservation uint8

const (
	// Expendable allows the withdrawal to delete the account.
	Expendable Preservation = iota
	// Protect forbids reducing the account below the existential deposit.
	Protect
	// Preserve forbids touching the existential deposit at all.
	Preserve
)

// FungibleLedger is the balanced-fungible capability set a token must satisfy
// to participate in fee payment and exchange: inspect balances, rescind
// (burn) and issue (mint) value, with explicit existence policies.
type FungibleLedger interface {
	// Balance returns the total balance of the account.
	Balance(who common.Address) (uint64, error)

	// Reducible returns the balance that may be withdrawn under the policy.
	Reducible(who common.Address, p Preservation) (uint64, error)

	// Rescind burns exactly amount from the account. The account must hold
	// the amount withdrawable under the policy, otherwise no state changes.
	Rescind(who common.Address, amount uint64, p Preservation) error

	// Issue mints exactly amount and resolves it into the account.
	Issue(who common.Address, amount uint64) error

	// TotalIssuance returns the current total supply.
	TotalIssuance() (uint64, error)
}

// AccountHooks is notified about account lifecycle transitions.
type AccountHooks interface {
	OnNewAccount(who common.Address)
	OnKilledAccount(who common.Address)
}

// RateProvider converts between a source and a target token amount at the
// configured rate. Rounding always favors the protocol: converting an input
// rounds down, back-computing a required input rounds up.
type RateProvider interface {
	FromInput(amountIn uint64) (uint64, error)
	FromOutput(amountOut uint64) (uint64, error)
}

// EventSink receives runtime events emitted during dispatch. The executive
// buffers events per extrinsic so a rolled back dispatch emits nothing.
type EventSink interface {
	Emit(event interface{})
}

// DiscardSink drops every event. Used where no observer is wired.
type DiscardSink struct{}

func (DiscardSink) Emit(interface{}) {}
