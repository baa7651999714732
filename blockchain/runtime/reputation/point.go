package reputation

import (
	"encoding/binary"

	rmath "github.com/vitreusNetwork/VTRS_core/shared/math"
)

const recordLen = 16

// Record is the persisted reputation of one account: the accrued points and
// the block number they were last brought up to date at.
type Record struct {
	Points  uint64
	Updated uint64
}

// UpdateWithBlock accrues the points earned between the last update and now.
// Accrual saturates instead of wrapping, so a very old record caps out rather
// than corrupting.
func (r *Record) UpdateWithBlock(now, pointsPerBlock uint64) {
	if now <= r.Updated {
		return
	}

	earned := rmath.SaturatingMul64(now-r.Updated, pointsPerBlock)
	r.Points = rmath.SaturatingAdd64(r.Points, earned)
	r.Updated = now
}

// Tier returns the reputation tier the record's points place it in.
func (r *Record) Tier() (Tier, bool) {
	return TierFromPoints(r.Points)
}

func (r *Record) MarshalBytes() []byte {
	buf := make([]byte, recordLen)
	binary.BigEndian.PutUint64(buf[:8], r.Points)
	binary.BigEndian.PutUint64(buf[8:], r.Updated)
	return buf
}

func unmarshalRecord(raw []byte) (Record, bool) {
	if len(raw) != recordLen {
		return Record{}, false
	}

	return Record{
		Points:  binary.BigEndian.Uint64(raw[:8]),
		Updated: binary.BigEndian.Uint64(raw[8:]),
	}, true
}
