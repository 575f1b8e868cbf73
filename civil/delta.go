package civil

import "github.com/ngrash/go-cal/calmath"

// Delta is a calendar-agnostic span of time: a day is always exactly
// 86400 seconds. After normalization Seconds is in [0, 86400) and Micros
// in [0, 1e6); a negative delta has a negative day count.
//
// Unlike Interval arithmetic, Delta arithmetic forms a group: adding and
// subtracting the same delta always returns the original value.
type Delta struct {
	Days    int64
	Seconds int
	Micros  int
}

// NewDelta normalizes the given components into a canonical Delta.
func NewDelta(days int64, seconds int, micros int) Delta {
	return newDeltaFromSeconds(days*86400+int64(seconds), micros)
}

func newDeltaFromSeconds(sec int64, micros int) Delta {
	mc := calmath.FloorDiv(int64(micros), 1e6)
	sec += mc
	micros -= int(mc) * 1e6
	days := calmath.FloorDiv(sec, 86400)
	return Delta{Days: days, Seconds: int(sec - days*86400), Micros: micros}
}

// Neg returns the negated delta, normalized.
func (d Delta) Neg() Delta {
	return NewDelta(-d.Days, -d.Seconds, -d.Micros)
}

// Add returns d + o.
func (d Delta) Add(o Delta) Delta {
	return NewDelta(d.Days+o.Days, d.Seconds+o.Seconds, d.Micros+o.Micros)
}

// TotalSeconds returns the delta as fractional seconds.
func (d Delta) TotalSeconds() float64 {
	return float64(d.Days)*86400 + float64(d.Seconds) + float64(d.Micros)/1e6
}

// Cmp orders two deltas by total length. It returns -1, 0 or +1.
func (d Delta) Cmp(o Delta) int {
	a := d.Days*86400*1e6 + int64(d.Seconds)*1e6 + int64(d.Micros)
	b := o.Days*86400*1e6 + int64(o.Seconds)*1e6 + int64(o.Micros)
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// AddDelta shifts dt by d on the wall clock. Zone fields are copied from
// dt, not recomputed: delta arithmetic is timezone-oblivious. Callers that
// need zone-correct arithmetic across DST transitions use AddDeltaIn.
func (dt DateTime) AddDelta(d Delta) DateTime {
	ts := dt.Timestamp()
	out := FromTimestamp(NewTimestamp(ts.Sec+d.Days*86400+int64(d.Seconds), ts.Micro+d.Micros))
	return dt.withDate(out)
}

// SubDelta shifts dt by -d. See AddDelta.
func (dt DateTime) SubDelta(d Delta) DateTime {
	return dt.AddDelta(d.Neg())
}

// Sub returns the wall-clock difference dt - o as a Delta. Zone fields of
// both operands are ignored.
func (dt DateTime) Sub(o DateTime) Delta {
	return dt.Timestamp().Sub(o.Timestamp())
}

// withDate copies the wall-clock fields of src into dt, keeping dt's zone
// fields.
func (dt DateTime) withDate(src DateTime) DateTime {
	src.UTCOffset = dt.UTCOffset
	src.IsDST = dt.IsDST
	src.OffsetKnown = dt.OffsetKnown
	src.Abbrev = dt.Abbrev
	return src
}
