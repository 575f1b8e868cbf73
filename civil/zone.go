package civil

import "errors"

// ErrAmbiguousTime reports a wall-clock reading that maps to two UTC
// instants, as happens during a fall-back transition. Callers recover by
// resolving again with the prefer-DST flag set.
var ErrAmbiguousTime = errors.New("ambiguous local time")

// ErrNonexistentTime reports a wall-clock reading skipped by a
// spring-forward transition. There is no recovery other than surfacing it.
var ErrNonexistentTime = errors.New("nonexistent local time")

// ErrNaiveDateTime reports an operation that needs an absolute instant but
// was given a value without a known offset.
var ErrNaiveDateTime = errors.New("datetime has no known utc offset")

// ZoneInfo is the answer of a timezone resolution: the offset in seconds
// west of UTC, whether daylight saving is in effect, and the zone
// abbreviation.
type ZoneInfo struct {
	OffsetSeconds int
	IsDST         bool
	Abbrev        string
}

// Resolver answers what a timezone means at a given instant. sec is in
// Unix seconds; if isUTC is false it is a local wall-clock reading and
// resolution may fail with ErrAmbiguousTime or ErrNonexistentTime, the
// former only when preferDST does not select a candidate.
//
// Implementations must be safe for concurrent use; the arithmetic layer
// shares them freely.
type Resolver interface {
	Resolve(sec int64, isUTC, preferDST bool) (ZoneInfo, error)
}

func (dt DateTime) withZoneInfo(zi ZoneInfo) DateTime {
	dt.UTCOffset = zi.OffsetSeconds
	dt.IsDST = zi.IsDST
	dt.OffsetKnown = true
	dt.Abbrev = zi.Abbrev
	return dt
}

// In converts dt to the timezone described by r, preserving the instant.
// dt must be offset-aware.
func (dt DateTime) In(r Resolver) (DateTime, error) {
	if !dt.OffsetKnown {
		return DateTime{}, ErrNaiveDateTime
	}
	utc := dt.Unix()
	zi, err := r.Resolve(utc, true, false)
	if err != nil {
		return DateTime{}, err
	}
	local := FromTimestamp(NewTimestamp(utc+unixEpochSec-int64(zi.OffsetSeconds), dt.Microsecond))
	return local.withZoneInfo(zi), nil
}

// WithZone reinterprets dt's wall-clock fields as a local time in the
// timezone described by r, without changing the fields. preferDST selects
// a candidate when the wall time is ambiguous.
func (dt DateTime) WithZone(r Resolver, preferDST bool) (DateTime, error) {
	local := dt.Timestamp().Sec - unixEpochSec
	zi, err := r.Resolve(local, false, preferDST)
	if err != nil {
		return DateTime{}, err
	}
	return dt.withZoneInfo(zi), nil
}

// AddDeltaIn shifts dt by d on the UTC timeline and renders the result in
// the timezone described by r. Unlike AddDelta this is zone-correct: the
// result carries the offset in effect at the shifted instant, so crossing
// a DST transition shows up in the rendered wall clock.
func (dt DateTime) AddDeltaIn(d Delta, r Resolver) (DateTime, error) {
	if !dt.OffsetKnown {
		return DateTime{}, ErrNaiveDateTime
	}
	shifted := dt.AddDelta(d) // same instant shifted on the wall clock, offset copied
	return shifted.In(r)
}
