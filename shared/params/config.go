package params

import "os"

// VitreusChainConfig contains constant configs for a node to execute the Vitreus runtime.
type VitreusChainConfig struct {
	SlotTime int64 `yaml:"SLOT_TIME"` // SlotTime setups the block production timeout.

	// Fee constants. All balances are expressed in the smallest indivisible unit.
	ConstantEnergyFee uint64 `yaml:"CONSTANT_ENERGY_FEE"` // ConstantEnergyFee is the flat VNRG fee charged for custom-fee calls.
	BaseFee           uint64 `yaml:"BASE_FEE"`            // BaseFee is charged for every extrinsic regardless of weight.
	WeightFee         uint64 `yaml:"WEIGHT_FEE"`          // WeightFee defines the fee per weight unit for proportional calls.
	LengthFee         uint64 `yaml:"LENGTH_FEE"`          // LengthFee defines the fee per encoded extrinsic byte.
	MaxBlockWeight    uint64 `yaml:"MAX_BLOCK_WEIGHT"`    // MaxBlockWeight bounds the weight a single block may consume.
	ConstantGasLimit  uint64 `yaml:"CONSTANT_GAS_LIMIT"`  // ConstantGasLimit is assumed for EVM calls without an explicit gas field.

	// Fee multiplier bounds, expressed in fixed-point parts per 1e18.
	DefaultFeeMultiplier   uint64 `yaml:"DEFAULT_FEE_MULTIPLIER"`   // DefaultFeeMultiplier is the steady-state multiplier for underfull blocks.
	LowerFeeMultiplier     uint64 `yaml:"LOWER_FEE_MULTIPLIER"`     // LowerFeeMultiplier is the floor the multiplier never leaves.
	UpperFeeMultiplier     uint64 `yaml:"UPPER_FEE_MULTIPLIER"`     // UpperFeeMultiplier is the congestion plateau value.
	AdjustmentVariable     uint64 `yaml:"ADJUSTMENT_VARIABLE"`      // AdjustmentVariable scales the convergence speed for underfull blocks.
	BlockFullnessThreshold uint64 `yaml:"BLOCK_FULLNESS_THRESHOLD"` // BlockFullnessThreshold is the fullness fraction (parts per 1e18) that snaps the multiplier to its upper bound.

	// VTRS <-> VNRG exchange
	ExchangeRateNum    uint64 `yaml:"EXCHANGE_RATE_NUM"` // ExchangeRateNum is the numerator of the VTRS->VNRG rate.
	ExchangeRateDen    uint64 `yaml:"EXCHANGE_RATE_DEN"` // ExchangeRateDen is the denominator of the VTRS->VNRG rate.
	ExistentialDeposit uint64 `yaml:"EXISTENTIAL_DEPOSIT"` // ExistentialDeposit is the minimal balance keeping an account alive.

	// Reputation constants
	ReputationPointsPerBlock uint64 `yaml:"REPUTATION_POINTS_PER_BLOCK"` // ReputationPointsPerBlock accrue to every live account per elapsed block.

	// VTRS constants
	UnitsPerVtrs uint64 // UnitsPerVtrs is the amount of indivisible units corresponding to 1 VTRS.

	EnergyPerStakeCurrency uint64 `yaml:"ENERGY_PER_STAKE_CURRENCY"` // EnergyPerStakeCurrency is the VNRG generated per staked VTRS unit per era.

	GenesisPath string `yaml:"GENESIS_PATH"` // GenesisPath defines path to the genesis JSON file.
}

// VitreusIoConfig defines file permissions used for persistent storage.
type VitreusIoConfig struct {
	ReadWritePermissions        os.FileMode
	ReadWriteExecutePermissions os.FileMode
}

var vitreusIoConfig = &VitreusIoConfig{
	ReadWritePermissions:        0600,
	ReadWriteExecutePermissions: 0700,
}

// VitreusIoConf retrieves the io config.
func VitreusIoConf() *VitreusIoConfig {
	return vitreusIoConfig
}
