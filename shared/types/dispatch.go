package types

// Pallet identifies the runtime module a call is dispatched to.
type Pallet uint8

const (
	PalletSystem Pallet = iota
	PalletBalances
	PalletAssets
	PalletReputation
	PalletEnergyFee
	PalletEnergyGeneration
	PalletEnergyBroker
	PalletUtility
	PalletSudo
	PalletEVM
	PalletEthereum
)

func (p Pallet) String() string {
	switch p {
	case PalletSystem:
		return "System"
	case PalletBalances:
		return "Balances"
	case PalletAssets:
		return "Assets"
	case PalletReputation:
		return "Reputation"
	case PalletEnergyFee:
		return "EnergyFee"
	case PalletEnergyGeneration:
		return "EnergyGeneration"
	case PalletEnergyBroker:
		return "EnergyBroker"
	case PalletUtility:
		return "Utility"
	case PalletSudo:
		return "Sudo"
	case PalletEVM:
		return "EVM"
	case PalletEthereum:
		return "Ethereum"
	default:
		return "Unknown"
	}
}

// DispatchClass splits extrinsics by inclusion priority.
type DispatchClass uint8

const (
	ClassNormal DispatchClass = iota
	ClassOperational
	ClassMandatory
)

// DispatchInfo carries the pre-declared execution cost of a call.
type DispatchInfo struct {
	Weight  uint64
	Class   DispatchClass
	PaysFee bool
}
