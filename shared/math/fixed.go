package math

import (
	stdmath "math"
	"math/bits"

	"github.com/holiman/uint256"
)

// fixedScale is the number of parts in one fixed-point unit.
const fixedScale uint64 = 1_000_000_000_000_000_000

// Fixed is an unsigned fixed-point number with 18 decimal places.
// All arithmetic is saturating and runs on 256-bit intermediates,
// so repeated multiplier updates can never wrap silently.
type Fixed struct {
	v uint256.Int
}

// NewFixed returns the fixed-point representation of the integer n.
func NewFixed(n uint64) Fixed {
	var f Fixed
	f.v.Mul(uint256.NewInt(n), uint256.NewInt(fixedScale))
	return f
}

// FixedFromParts builds a Fixed directly from raw 1e18 parts.
func FixedFromParts(parts uint64) Fixed {
	var f Fixed
	f.v.SetUint64(parts)
	return f
}

// FixedFromRational returns n/d as a fixed-point value.
// A zero denominator is a configuration invariant violation.
func FixedFromRational(n, d uint64) Fixed {
	if d == 0 {
		panic("fixed-point rational with zero denominator")
	}

	var f Fixed
	f.v.Mul(uint256.NewInt(n), uint256.NewInt(fixedScale))
	f.v.Div(&f.v, uint256.NewInt(d))
	return f
}

// FixedOne returns the fixed-point one.
func FixedOne() Fixed {
	return FixedFromParts(fixedScale)
}

// FixedZero returns the fixed-point zero.
func FixedZero() Fixed {
	return Fixed{}
}

// MulInt multiplies the balance b by the fixed-point value rounding down,
// saturating at the maximum balance.
func (f Fixed) MulInt(b uint64) uint64 {
	var t uint256.Int
	t.Mul(&f.v, uint256.NewInt(b))
	t.Div(&t, uint256.NewInt(fixedScale))

	if !t.IsUint64() {
		return stdmath.MaxUint64
	}

	return t.Uint64()
}

// Mul returns f*o.
func (f Fixed) Mul(o Fixed) Fixed {
	var r Fixed
	r.v.Mul(&f.v, &o.v)
	r.v.Div(&r.v, uint256.NewInt(fixedScale))
	return r
}

// Add returns f+o.
func (f Fixed) Add(o Fixed) Fixed {
	var r Fixed
	r.v.Add(&f.v, &o.v)
	return r
}

// Sub returns f-o flooring at zero.
func (f Fixed) Sub(o Fixed) Fixed {
	if f.v.Lt(&o.v) {
		return Fixed{}
	}

	var r Fixed
	r.v.Sub(&f.v, &o.v)
	return r
}

// Cmp compares two fixed-point values.
func (f Fixed) Cmp(o Fixed) int {
	return f.v.Cmp(&o.v)
}

// Clamp bounds the value into [lo, hi].
func (f Fixed) Clamp(lo, hi Fixed) Fixed {
	if f.Cmp(lo) < 0 {
		return lo
	}
	if f.Cmp(hi) > 0 {
		return hi
	}
	return f
}

// IsZero reports whether the value is zero.
func (f Fixed) IsZero() bool {
	return f.v.IsZero()
}

// Bytes32 returns the canonical 32-byte big-endian encoding.
func (f Fixed) Bytes32() [32]byte {
	return f.v.Bytes32()
}

// FixedFromBytes32 decodes the canonical encoding.
func FixedFromBytes32(b [32]byte) Fixed {
	var f Fixed
	f.v.SetBytes32(b[:])
	return f
}

func (f Fixed) String() string {
	return f.v.Dec()
}

// Float64 returns a lossy float approximation, for metrics and logs only.
func (f Fixed) Float64() float64 {
	whole := new(uint256.Int).Div(&f.v, uint256.NewInt(fixedScale))
	rem := new(uint256.Int).Mod(&f.v, uint256.NewInt(fixedScale))
	return float64(whole.Uint64()) + float64(rem.Uint64())/float64(fixedScale)
}

// Quintill is a fraction expressed in parts per 10^18, always within [0, 1].
type Quintill uint64

// QuintillOne is the whole interval.
const QuintillOne Quintill = Quintill(fixedScale)

// QuintillFromPercent builds a fraction from whole percents, capped at 100%.
func QuintillFromPercent(p uint64) Quintill {
	if p > 100 {
		p = 100
	}
	return Quintill(p * (fixedScale / 100))
}

// QuintillFromParts builds a fraction from raw parts, capped at one.
func QuintillFromParts(parts uint64) Quintill {
	if parts > fixedScale {
		return QuintillOne
	}
	return Quintill(parts)
}

// QuintillFromRational returns a/b capped at one. A zero denominator
// yields one, treating unknown capacity as a full block.
func QuintillFromRational(a, b uint64) Quintill {
	if b == 0 || a >= b {
		return QuintillOne
	}

	hi, lo := bits.Mul64(a, fixedScale)
	parts, _ := bits.Div64(hi, lo, b)
	return Quintill(parts)
}

// MulInt multiplies n by the fraction rounding down.
func (q Quintill) MulInt(n uint64) uint64 {
	hi, lo := bits.Mul64(uint64(q), n)
	r, _ := bits.Div64(hi, lo, fixedScale)
	return r
}

// Sub returns q-o flooring at zero.
func (q Quintill) Sub(o Quintill) Quintill {
	if q < o {
		return 0
	}
	return q - o
}

// ToFixed widens the fraction to a fixed-point value.
func (q Quintill) ToFixed() Fixed {
	return FixedFromParts(uint64(q))
}

// Perbill is a fraction expressed in parts per 10^9.
type Perbill uint32

// PerbillOne is the whole interval.
const PerbillOne Perbill = 1_000_000_000

// PerbillFromPercent builds a fraction from whole percents, capped at 100%.
func PerbillFromPercent(p uint32) Perbill {
	if p > 100 {
		p = 100
	}
	return Perbill(p * 10_000_000)
}

// MulInt multiplies n by the fraction rounding down.
func (p Perbill) MulInt(n uint64) uint64 {
	hi, lo := bits.Mul64(uint64(p), n)
	r, _ := bits.Div64(hi, lo, uint64(PerbillOne))
	return r
}
