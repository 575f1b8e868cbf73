// Package tzone is the unified timezone handle over the two rule
// backends: parsed POSIX TZ strings and decoded TZif files. A Handle
// answers, for an instant, the offset, DST flag and abbreviation in
// effect, and implements civil.Resolver for the arithmetic layer.
package tzone

import (
	"fmt"
	"sort"

	"github.com/ngrash/go-cal/civil"
	"github.com/ngrash/go-cal/tzif"
	"github.com/ngrash/go-cal/tzposix"
)

// Handle is a tagged union over the two backends. Handles are immutable
// after construction and safe for concurrent use.
type Handle struct {
	posix *tzposix.RuleSet
	olson *olsonZone
}

type olsonZone struct {
	block tzif.Block

	// footer extrapolates beyond the last recorded transition. Nil when
	// the file has no footer rule.
	footer *tzposix.RuleSet
}

// NewPosix wraps a parsed POSIX rule set.
func NewPosix(rs *tzposix.RuleSet) *Handle {
	return &Handle{posix: rs}
}

// NewOlson wraps decoded TZif data, selecting the extended block for
// version 2 and later files and parsing the footer TZ string if present.
func NewOlson(d tzif.Data) (*Handle, error) {
	z := &olsonZone{block: d.Block()}
	if d.Footer != "" {
		rs, err := tzposix.Parse(d.Footer)
		if err != nil {
			return nil, fmt.Errorf("tzone: footer: %w", err)
		}
		z.footer = rs
	}
	if len(z.block.Types) == 0 {
		return nil, fmt.Errorf("tzone: data block has no local time types")
	}
	return &Handle{olson: z}, nil
}

// UTC returns the fixed zero-offset handle.
func UTC() *Handle {
	return &Handle{posix: &tzposix.RuleSet{StdName: "UTC"}}
}

func zoneInfo(t tzif.LocalTimeType) civil.ZoneInfo {
	// TZif offsets are seconds east of UT; ZoneInfo is west positive.
	return civil.ZoneInfo{OffsetSeconds: int(-t.UTOff), IsDST: t.DST, Abbrev: t.Abbrev}
}

// lookupUTC returns the zone information in effect at a UTC instant. The
// first time type covers instants before recorded history; the footer
// rule, when present, covers instants after the last transition.
func (z *olsonZone) lookupUTC(sec int64) civil.ZoneInfo {
	b := z.block
	if len(b.TransitionTimes) == 0 {
		if z.footer != nil {
			return z.footer.Lookup(sec)
		}
		return zoneInfo(b.Types[0])
	}
	// The footer extrapolates strictly beyond the last transition; the
	// instant at the transition itself belongs to the recorded type.
	if sec > b.TransitionTimes[len(b.TransitionTimes)-1] && z.footer != nil {
		return z.footer.Lookup(sec)
	}
	// First index whose transition is after sec; the period owner is the
	// transition before it. Instants before the first transition use the
	// first time type, per RFC 8536 section 3.2.
	j := sort.Search(len(b.TransitionTimes), func(i int) bool {
		return b.TransitionTimes[i] > sec
	})
	if j == 0 {
		return zoneInfo(b.Types[0])
	}
	return zoneInfo(b.Types[b.TransitionTypes[j-1]])
}

// resolveLocal interprets sec as a wall-clock reading. Every candidate
// offset the zone can produce is tried: a candidate survives when
// converting the reading to UTC with its offset resolves back to the
// same zone information.
func (z *olsonZone) resolveLocal(sec int64, preferDST bool) (civil.ZoneInfo, error) {
	var cands []civil.ZoneInfo
	for _, t := range z.block.Types {
		cands = append(cands, zoneInfo(t))
	}
	if z.footer != nil {
		cands = append(cands, civil.ZoneInfo{OffsetSeconds: z.footer.StdOffset, Abbrev: z.footer.StdName})
		if z.footer.HasDST {
			cands = append(cands, civil.ZoneInfo{OffsetSeconds: z.footer.DSTOffset, IsDST: true, Abbrev: z.footer.DSTName})
		}
	}

	var matches []civil.ZoneInfo
	seen := map[int64]bool{}
	for _, c := range cands {
		utc := sec + int64(c.OffsetSeconds)
		if seen[utc] {
			continue
		}
		if z.lookupUTC(utc) == c {
			seen[utc] = true
			matches = append(matches, c)
		}
	}

	switch len(matches) {
	case 0:
		return civil.ZoneInfo{}, civil.ErrNonexistentTime
	case 1:
		return matches[0], nil
	}
	if preferDST {
		for _, m := range matches {
			if m.IsDST {
				return m, nil
			}
		}
	}
	return civil.ZoneInfo{}, civil.ErrAmbiguousTime
}

// Resolve implements civil.Resolver.
func (h *Handle) Resolve(sec int64, isUTC, preferDST bool) (civil.ZoneInfo, error) {
	if h.posix != nil {
		return h.posix.Resolve(sec, isUTC, preferDST)
	}
	if isUTC {
		return h.olson.lookupUTC(sec), nil
	}
	return h.olson.resolveLocal(sec, preferDST)
}

// LeapCorrection returns the cumulative leap-second correction in effect
// at the instant, and whether the instant sits exactly on an inserted
// leap second. POSIX-rule handles have no leap table and report zero.
func (h *Handle) LeapCorrection(sec int64) (int32, bool) {
	if h.olson == nil {
		return 0, false
	}
	leaps := h.olson.block.LeapSeconds
	j := sort.Search(len(leaps), func(i int) bool {
		return leaps[i].Occur > sec
	})
	if j == 0 {
		return 0, false
	}
	rec := leaps[j-1]
	var prev int32
	if j >= 2 {
		prev = leaps[j-2].Corr
	}
	onLeap := sec == rec.Occur && rec.Corr == prev+1
	return rec.Corr, onLeap
}

// DateTimeAt converts a UNIX leap-time instant to a broken-down UTC
// reading, applying the handle's leap-second table. An instant that
// lands exactly on an inserted leap second renders as second 60.
func (h *Handle) DateTimeAt(sec int64, micro int) civil.DateTime {
	corr, onLeap := h.LeapCorrection(sec)
	dt := civil.FromUnix(sec-int64(corr), micro)
	if onLeap {
		dt.Second++
	}
	return dt
}
