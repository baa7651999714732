package math

import (
	stdmath "math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedMulInt(t *testing.T) {
	two := NewFixed(2)
	assert.Equal(t, uint64(2_000_000_000), two.MulInt(1_000_000_000))

	half := FixedFromRational(1, 2)
	assert.Equal(t, uint64(500), half.MulInt(1000))
	assert.Equal(t, uint64(0), half.MulInt(1))

	one := FixedOne()
	assert.Equal(t, uint64(stdmath.MaxUint64), one.MulInt(stdmath.MaxUint64))

	// saturates instead of wrapping
	big := NewFixed(stdmath.MaxUint64)
	assert.Equal(t, uint64(stdmath.MaxUint64), big.MulInt(2))
}

func TestFixedClamp(t *testing.T) {
	lo := NewFixed(1)
	hi := NewFixed(10)

	assert.Equal(t, 0, NewFixed(5).Clamp(lo, hi).Cmp(NewFixed(5)))
	assert.Equal(t, 0, FixedZero().Clamp(lo, hi).Cmp(lo))
	assert.Equal(t, 0, NewFixed(100).Clamp(lo, hi).Cmp(hi))
}

func TestFixedSubFloorsAtZero(t *testing.T) {
	assert.True(t, NewFixed(1).Sub(NewFixed(2)).IsZero())
	assert.Equal(t, 0, NewFixed(3).Sub(NewFixed(1)).Cmp(NewFixed(2)))
}

func TestFixedEncoding(t *testing.T) {
	f := FixedFromRational(1234, 7)
	decoded := FixedFromBytes32(f.Bytes32())
	require.Equal(t, 0, f.Cmp(decoded))
}

func TestQuintillFromRational(t *testing.T) {
	assert.Equal(t, QuintillOne, QuintillFromRational(5, 5))
	assert.Equal(t, QuintillOne, QuintillFromRational(6, 5))
	assert.Equal(t, QuintillFromPercent(50), QuintillFromRational(1, 2))
	assert.Equal(t, QuintillOne, QuintillFromRational(1, 0))
}

func TestQuintillMulInt(t *testing.T) {
	half := QuintillFromPercent(50)
	assert.Equal(t, uint64(500), half.MulInt(1000))
	// rounds down
	assert.Equal(t, uint64(0), half.MulInt(1))
	assert.Equal(t, uint64(stdmath.MaxUint64), QuintillOne.MulInt(stdmath.MaxUint64))
}

func TestPerbill(t *testing.T) {
	assert.Equal(t, Perbill(20_000_000), PerbillFromPercent(2))
	assert.Equal(t, PerbillOne, PerbillFromPercent(1000))
	assert.Equal(t, uint64(20), PerbillFromPercent(2).MulInt(1000))
}

func TestMulDiv64(t *testing.T) {
	q, ok := MulDiv64(10, 3, 4)
	require.True(t, ok)
	assert.Equal(t, uint64(7), q)

	q, ok = MulDivCeil64(10, 3, 4)
	require.True(t, ok)
	assert.Equal(t, uint64(8), q)

	_, ok = MulDiv64(stdmath.MaxUint64, stdmath.MaxUint64, 1)
	assert.False(t, ok)

	_, ok = MulDiv64(1, 1, 0)
	assert.False(t, ok)
}
