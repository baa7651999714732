package energyfee

// FeeKind classifies how a call is priced.
type FeeKind uint8

const (
	// FeeConstant is a fixed amount, used for calls that pay nothing.
	FeeConstant FeeKind = iota
	// FeeCustom is the multiplier-scaled constant energy fee.
	FeeCustom
	// FeeEVM prices EVM-originated calls, same scaling as FeeCustom.
	FeeEVM
	// FeeProportional is the weight-and-length based fee.
	FeeProportional
)

func (k FeeKind) String() string {
	switch k {
	case FeeConstant:
		return "constant"
	case FeeCustom:
		return "custom"
	case FeeEVM:
		return "evm"
	case FeeProportional:
		return "proportional"
	default:
		return "unknown"
	}
}

// CallFee is the resolved classification of a call. For FeeProportional the
// amount is left at zero and filled in from dispatch weight and encoded
// length at computation time.
type CallFee struct {
	Kind   FeeKind
	Amount uint64
}
