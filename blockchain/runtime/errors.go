package runtime

import "github.com/pkg/errors"

var (
	ErrBadOrigin          = errors.New("Call requires another origin.")
	ErrAccountNotFound    = errors.New("Account not found.")
	ErrArithmeticOverflow = errors.New("Arithmetic operation would overflow.")
	ErrBelowMinimum       = errors.New("Account balance would fall below the existential deposit.")
	ErrFundsUnavailable   = errors.New("Funds are unavailable for withdrawal.")
	ErrSettlementDust     = errors.New("Exchange settlement left unattributable dust.")
	ErrExhaustsResources  = errors.New("Transaction would exhaust block resources.")
	ErrInvalidBounds      = errors.New("Degenerate configuration bounds.")
	ErrUnknownCall        = errors.New("Undefined call destination.")
)
