package types

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Call method names, matching the extrinsic names exposed to clients.
const (
	MethodTransfer                     = "transfer"
	MethodForceSetPoints               = "force_set_points"
	MethodIncreasePoints               = "increase_points"
	MethodSlash                        = "slash"
	MethodUpdatePoints                 = "update_points"
	MethodForceResetPoints             = "force_reset_points"
	MethodUpdateBurnedEnergyThreshold  = "update_burned_energy_threshold"
	MethodUpdateBlockFullnessThreshold = "update_block_fullness_threshold"
	MethodUpdateUpperFeeMultiplier     = "update_upper_fee_multiplier"
	MethodSwapFromInput                = "swap_exact_vtrs_for_vnrg"
	MethodSwapFromOutput               = "swap_vtrs_for_exact_vnrg"
	MethodSudo                         = "sudo"
	MethodBatch                        = "batch"
	MethodEVMCall                      = "call"
	MethodEthereumTransact             = "transact"
	MethodRemark                       = "remark"
)

const (
	// baseCallWeight is the weight of dispatching any call before
	// method-specific costs.
	baseCallWeight uint64 = 125_000_000
	// weightPerInputByte prices the decoding of call payload bytes.
	weightPerInputByte uint64 = 1_000
	// WeightPerGas converts EVM gas into runtime weight.
	WeightPerGas uint64 = 20_000
)

// Call is a runtime call destined for one pallet method. The zero values of
// unused fields do not contribute to the canonical encoding semantics but are
// always encoded, keeping the layout fixed-width and deterministic.
type Call struct {
	Pallet Pallet
	Method string

	To     common.Address
	Amount uint64
	Points uint64 // reputation operations
	Value  uint64 // admin operations: thresholds and multiplier raw parts

	Gas   uint64 // EVM operations
	Input []byte // EVM calldata

	Calls []*Call // utility batch members or the sudo inner call
}

// DispatchInfo derives the pre-declared cost of the call.
func (c *Call) DispatchInfo() *DispatchInfo {
	info := &DispatchInfo{
		Weight:  baseCallWeight + weightPerInputByte*uint64(len(c.Input)),
		Class:   ClassNormal,
		PaysFee: true,
	}

	switch c.Pallet {
	case PalletEVM, PalletEthereum:
		info.Weight += c.Gas * WeightPerGas
	case PalletSudo:
		info.Class = ClassOperational
		info.PaysFee = false
	case PalletUtility:
		for _, inner := range c.Calls {
			info.Weight += inner.DispatchInfo().Weight
		}
	}

	return info
}

// Encode returns the canonical deterministic binary encoding of the call.
func (c *Call) Encode() []byte {
	buf := make([]byte, 0, 64+len(c.Input))

	buf = append(buf, byte(c.Pallet))
	buf = append(buf, byte(len(c.Method)))
	buf = append(buf, c.Method...)
	buf = append(buf, c.To.Bytes()...)

	var scratch [8]byte
	for _, v := range []uint64{c.Amount, c.Points, c.Value, c.Gas} {
		binary.BigEndian.PutUint64(scratch[:], v)
		buf = append(buf, scratch[:]...)
	}

	binary.BigEndian.PutUint32(scratch[:4], uint32(len(c.Input)))
	buf = append(buf, scratch[:4]...)
	buf = append(buf, c.Input...)

	binary.BigEndian.PutUint16(scratch[:2], uint16(len(c.Calls)))
	buf = append(buf, scratch[:2]...)
	for _, inner := range c.Calls {
		buf = append(buf, inner.Encode()...)
	}

	return buf
}

// EncodedLen returns the canonical encoded length used for length fees.
func (c *Call) EncodedLen() uint32 {
	return uint32(len(c.Encode()))
}

// Extrinsic is a signed call submitted for inclusion in a block.
type Extrinsic struct {
	Signer common.Address
	Nonce  uint64
	Call   *Call
}

// Encode returns the canonical deterministic binary encoding.
func (e *Extrinsic) Encode() []byte {
	buf := make([]byte, 0, 32)
	buf = append(buf, e.Signer.Bytes()...)

	var scratch [8]byte
	binary.BigEndian.PutUint64(scratch[:], e.Nonce)
	buf = append(buf, scratch[:]...)

	return append(buf, e.Call.Encode()...)
}

// EncodedLen returns the canonical encoded length used for length fees.
func (e *Extrinsic) EncodedLen() uint32 {
	return uint32(len(e.Encode()))
}

// Hash returns the Keccak256 hash of the canonical encoding.
func (e *Extrinsic) Hash() common.Hash {
	return crypto.Keccak256Hash(e.Encode())
}
