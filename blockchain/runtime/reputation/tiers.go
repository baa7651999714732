package reputation

import (
	rmath "github.com/vitreusNetwork/VTRS_core/shared/math"
)

// TierKind is the broad reputation band an account sits in.
type TierKind uint8

const (
	Vanguard TierKind = iota
	Trailblazer
	Ultramodern
)

func (k TierKind) String() string {
	switch k {
	case Vanguard:
		return "vanguard"
	case Trailblazer:
		return "trailblazer"
	case Ultramodern:
		return "ultramodern"
	default:
		return "unknown"
	}
}

// Tier is a kind plus the rank inside it. Ranks above RanksPerTier only exist
// in the open-ended Ultramodern band.
type Tier struct {
	Kind TierKind
	Rank uint8
}

const (
	// RanksPerTier is the number of ranks in each closed band.
	RanksPerTier = 3

	// PointsPerBlock is accrued by every live account each block.
	PointsPerBlock = 90

	blocksPerDay = 10 * 60 * 24

	// PointsPerDay is the accrual of one full day of uptime.
	PointsPerDay = PointsPerBlock * blocksPerDay
)

// tierLadder holds the entry threshold of each rank in whole days of accrual.
// Thresholds double per rank, so each rank costs as much time as all previous
// ranks combined.
var tierLadder = []struct {
	tier Tier
	days uint64
}{
	{Tier{Vanguard, 1}, 1},
	{Tier{Vanguard, 2}, 2},
	{Tier{Vanguard, 3}, 4},
	{Tier{Trailblazer, 1}, 8},
	{Tier{Trailblazer, 2}, 16},
	{Tier{Trailblazer, 3}, 32},
	{Tier{Ultramodern, 1}, 64},
	{Tier{Ultramodern, 2}, 128},
	{Tier{Ultramodern, 3}, 256},
}

// MinPoints returns the points required to hold the given tier, or false for
// tiers outside the ladder.
func MinPoints(t Tier) (uint64, bool) {
	if t.Kind == Ultramodern && t.Rank > RanksPerTier {
		days := uint64(256)
		for r := uint8(RanksPerTier); r < t.Rank; r++ {
			days = rmath.SaturatingMul64(days, 2)
		}
		return rmath.SaturatingMul64(days, PointsPerDay), true
	}

	for _, entry := range tierLadder {
		if entry.tier == t {
			return entry.days * PointsPerDay, true
		}
	}

	return 0, false
}

// TierFromPoints maps accrued points to the highest tier they qualify for.
// Points below the first threshold hold no tier at all.
func TierFromPoints(points uint64) (Tier, bool) {
	if points < PointsPerDay {
		return Tier{}, false
	}

	best := tierLadder[0].tier
	for _, entry := range tierLadder {
		if points < entry.days*PointsPerDay {
			return best, true
		}
		best = entry.tier
	}

	// Past the ladder the Ultramodern rank keeps growing, one rank per
	// doubling of the top threshold.
	days := uint64(256)
	rank := uint8(RanksPerTier)
	for {
		next := rmath.SaturatingMul64(days, 2)
		threshold := rmath.SaturatingMul64(next, PointsPerDay)
		if points < threshold || next == days {
			return Tier{Ultramodern, rank}, true
		}
		days = next
		rank++
	}
}

// AdditionalReward is the extra staking reward share a tier grants.
func (t Tier) AdditionalReward() rmath.Perbill {
	switch t.Kind {
	case Vanguard:
		switch t.Rank {
		case 2:
			return rmath.PerbillFromPercent(2)
		case 3:
			return rmath.PerbillFromPercent(4)
		}
	case Trailblazer:
		switch t.Rank {
		case 0:
			return rmath.PerbillFromPercent(5)
		case 1:
			return rmath.PerbillFromPercent(8)
		case 2:
			return rmath.PerbillFromPercent(10)
		case 3:
			return rmath.PerbillFromPercent(12)
		}
	case Ultramodern:
		switch t.Rank {
		case 0:
			return rmath.PerbillFromPercent(13)
		case 1:
			return rmath.PerbillFromPercent(16)
		case 2:
			return rmath.PerbillFromPercent(18)
		case 3:
			return rmath.PerbillFromPercent(20)
		default:
			return rmath.PerbillFromPercent(20 + uint32(t.Rank-RanksPerTier))
		}
	}

	return 0
}
