package params

// MainnetConfig returns the configuration to be used in the main network.
func MainnetConfig() *VitreusChainConfig {
	return mainnetVitreusConfig
}

// UseMainnetConfig for vitreus runtime services.
func UseMainnetConfig() {
	vitreusConfig = MainnetConfig()
}

const fixedPointOne = 1_000_000_000_000_000_000

var mainnetVitreusConfig = &VitreusChainConfig{
	SlotTime:          3,
	ConstantEnergyFee: 1_000_000_000,
	BaseFee:           125_000,
	WeightFee:         8,
	LengthFee:         1,
	MaxBlockWeight:    2_000_000_000_000,
	ConstantGasLimit:  100_000,

	DefaultFeeMultiplier:   fixedPointOne,
	LowerFeeMultiplier:     fixedPointOne,
	UpperFeeMultiplier:     10 * fixedPointOne,
	AdjustmentVariable:     fixedPointOne / 2,
	BlockFullnessThreshold: fixedPointOne, // never snaps until lowered by governance

	ExchangeRateNum:    10,
	ExchangeRateDen:    1,
	ExistentialDeposit: 1,

	ReputationPointsPerBlock: 90,

	UnitsPerVtrs: 1_000_000_000,

	EnergyPerStakeCurrency: 19_909_091_036,

	GenesisPath: "",
}
