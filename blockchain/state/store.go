package state

import (
	"encoding/binary"
)

// Bucket names for the runtime state trie. Every consensus-relevant value
// lives in exactly one of these buckets under a deterministic key.
var (
	RuntimeBucket    = []byte("runtime")
	ReputationBucket = []byte("reputation")
	VtrsBucket       = []byte("vtrs-balances")
	VnrgBucket       = []byte("vnrg-balances")
)

// Singleton keys inside RuntimeBucket.
var (
	BlockNumberKey            = []byte("block-number")
	FeeMultiplierKey          = []byte("fee-multiplier")
	BlockFullnessThresholdKey = []byte("block-fullness-threshold")
	UpperFeeMultiplierKey     = []byte("upper-fee-multiplier")
	BurnedEnergyKey           = []byte("burned-energy")
	BurnedEnergyThresholdKey  = []byte("burned-energy-threshold")
	VtrsIssuanceKey           = []byte("vtrs-issuance")
	VnrgIssuanceKey           = []byte("vnrg-issuance")
	SudoKeyKey                = []byte("sudo-key")
)

// Buckets lists every bucket a store implementation must create.
func Buckets() [][]byte {
	return [][]byte{RuntimeBucket, ReputationBucket, VtrsBucket, VnrgBucket}
}

// Store is the runtime state trie. All validating nodes must derive
// bit-identical contents from the same sequence of mutations, so
// implementations iterate in ascending key order and perform no
// background mutation of their own.
type Store interface {
	// Get returns the stored value or nil when the key is absent.
	Get(bucket, key []byte) ([]byte, error)
	Put(bucket, key, value []byte) error
	Delete(bucket, key []byte) error
	// ForEach visits every pair of the bucket in ascending key order.
	ForEach(bucket []byte, fn func(k, v []byte) error) error
}

// EncodeUint64 returns the canonical fixed-width big-endian encoding.
func EncodeUint64(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

// DecodeUint64 decodes the canonical encoding, treating absence as zero.
func DecodeUint64(b []byte) uint64 {
	if len(b) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(b)
}
