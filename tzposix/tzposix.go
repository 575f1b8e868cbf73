// Package tzposix parses POSIX TZ environment strings of the form
// "std offset[dst[offset][,start[/time],end[/time]]]" and resolves the
// offset, DST flag and abbreviation in effect at a given instant.
//
// Offsets follow the POSIX sign convention: a positive value means west
// of UTC, so "EST5" is five hours behind. This is the opposite of the
// ISO display convention and is kept as-is.
package tzposix

import (
	"fmt"

	"github.com/ngrash/go-cal/calmath"
	"github.com/ngrash/go-cal/civil"
)

// RuleForm selects how a transition Rule names its day of year.
type RuleForm int

const (
	// JulianOne is the Jn form: day 1..365 where February 29th is never
	// counted, so day 60 is March 1st even in leap years.
	JulianOne RuleForm = iota
	// JulianZero is the bare n form: day 0..365 counting every day
	// including February 29th.
	JulianZero
	// MonthWeekDay is the Mm.w.d form: the d-th weekday (0 = Sunday) of
	// week w in month m, where week 5 means the last such weekday.
	MonthWeekDay
)

// Rule is one DST transition boundary.
type Rule struct {
	Form    RuleForm
	Day     int // JulianOne, JulianZero
	Month   int // MonthWeekDay
	Week    int
	Weekday int

	// Time is the transition wall-clock time in seconds after local
	// midnight. The POSIX extension allows negative values and values
	// beyond 24 hours.
	Time int
}

// defaultRuleTime is 02:00:00 local, the transition time used when a rule
// carries no /time suffix.
const defaultRuleTime = 2 * 3600

// RuleSet is a parsed TZ string. A set without DST describes a constant
// offset. Values are immutable after Parse and safe for concurrent use.
type RuleSet struct {
	StdName   string
	StdOffset int // seconds west of UTC
	DSTName   string
	DSTOffset int
	HasDST    bool
	Start     Rule
	End       Rule
}

// Parse reads a POSIX TZ string. A DST name without an explicit offset
// gets the standard offset minus one hour; a DST name without rules gets
// the default rules M3.5.0,M10.5.0 (last Sunday in March to last Sunday
// in October at 02:00:00).
func Parse(s string) (*RuleSet, error) {
	p := &parser{s: s}
	rs := &RuleSet{}
	var err error

	if rs.StdName, err = p.name(); err != nil {
		return nil, fmt.Errorf("tzposix: parse %q: %w", s, err)
	}
	if rs.StdOffset, err = p.offset(2); err != nil {
		return nil, fmt.Errorf("tzposix: parse %q: %w", s, err)
	}

	if !p.done() && p.s[p.pos] != ',' {
		rs.DSTName, err = p.name()
		if err != nil {
			return nil, fmt.Errorf("tzposix: parse %q: %w", s, err)
		}
		rs.HasDST = true
		if !p.done() && p.s[p.pos] != ',' {
			if rs.DSTOffset, err = p.offset(2); err != nil {
				return nil, fmt.Errorf("tzposix: parse %q: %w", s, err)
			}
		} else {
			rs.DSTOffset = rs.StdOffset - 3600
		}
	}

	if p.eat(',') {
		if !rs.HasDST {
			return nil, fmt.Errorf("tzposix: parse %q: transition rules without a dst name", s)
		}
		if rs.Start, err = p.rule(); err != nil {
			return nil, fmt.Errorf("tzposix: parse %q: %w", s, err)
		}
		if !p.eat(',') {
			return nil, fmt.Errorf("tzposix: parse %q: missing end rule", s)
		}
		if rs.End, err = p.rule(); err != nil {
			return nil, fmt.Errorf("tzposix: parse %q: %w", s, err)
		}
	} else if rs.HasDST {
		rs.Start = Rule{Form: MonthWeekDay, Month: 3, Week: 5, Weekday: 0, Time: defaultRuleTime}
		rs.End = Rule{Form: MonthWeekDay, Month: 10, Week: 5, Weekday: 0, Time: defaultRuleTime}
	}

	if !p.done() {
		return nil, fmt.Errorf("tzposix: parse %q: trailing input %q", s, p.s[p.pos:])
	}
	return rs, nil
}

type parser struct {
	s   string
	pos int
}

func (p *parser) done() bool { return p.pos >= len(p.s) }

func (p *parser) eat(c byte) bool {
	if !p.done() && p.s[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func isAlpha(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// name reads a zone abbreviation: either a run of at least three letters,
// or an arbitrary <...>-quoted form for names containing signs or digits.
func (p *parser) name() (string, error) {
	if p.eat('<') {
		start := p.pos
		for !p.done() && p.s[p.pos] != '>' {
			p.pos++
		}
		if p.done() {
			return "", fmt.Errorf("unterminated quoted name")
		}
		n := p.s[start:p.pos]
		p.pos++
		if len(n) < 3 {
			return "", fmt.Errorf("zone name %q shorter than three characters", n)
		}
		return n, nil
	}
	start := p.pos
	for !p.done() && isAlpha(p.s[p.pos]) {
		p.pos++
	}
	n := p.s[start:p.pos]
	if len(n) < 3 {
		return "", fmt.Errorf("zone name %q shorter than three characters", n)
	}
	return n, nil
}

// offset reads [+-]h[:mm[:ss]] with up to maxHourDigits hour digits and
// returns signed seconds, positive west of UTC.
func (p *parser) offset(maxHourDigits int) (int, error) {
	sign := 1
	if p.eat('-') {
		sign = -1
	} else {
		p.eat('+')
	}
	h, _, err := p.digits(maxHourDigits)
	if err != nil {
		return 0, fmt.Errorf("offset: %w", err)
	}
	total := h * 3600
	if p.eat(':') {
		m, _, err := p.digits(2)
		if err != nil {
			return 0, fmt.Errorf("offset minutes: %w", err)
		}
		total += m * 60
		if p.eat(':') {
			s, _, err := p.digits(2)
			if err != nil {
				return 0, fmt.Errorf("offset seconds: %w", err)
			}
			total += s
		}
	}
	return sign * total, nil
}

func (p *parser) digits(max int) (int, int, error) {
	v, n := 0, 0
	for !p.done() && n < max && p.s[p.pos] >= '0' && p.s[p.pos] <= '9' {
		v = v*10 + int(p.s[p.pos]-'0')
		p.pos++
		n++
	}
	if n == 0 {
		return 0, 0, fmt.Errorf("expected digits at %q", p.s[p.pos:])
	}
	return v, n, nil
}

func (p *parser) rule() (Rule, error) {
	var r Rule
	switch {
	case p.eat('J'):
		r.Form = JulianOne
		d, _, err := p.digits(3)
		if err != nil {
			return r, fmt.Errorf("julian rule: %w", err)
		}
		if d < 1 || d > 365 {
			return r, fmt.Errorf("julian day %d out of range 1..365", d)
		}
		r.Day = d
	case p.eat('M'):
		r.Form = MonthWeekDay
		m, _, err := p.digits(2)
		if err != nil {
			return r, fmt.Errorf("month rule: %w", err)
		}
		if !p.eat('.') {
			return r, fmt.Errorf("month rule: missing week")
		}
		w, _, err := p.digits(1)
		if err != nil {
			return r, fmt.Errorf("month rule week: %w", err)
		}
		if !p.eat('.') {
			return r, fmt.Errorf("month rule: missing weekday")
		}
		d, _, err := p.digits(1)
		if err != nil {
			return r, fmt.Errorf("month rule weekday: %w", err)
		}
		if m < 1 || m > 12 || w < 1 || w > 5 || d > 6 {
			return r, fmt.Errorf("month rule M%d.%d.%d out of range", m, w, d)
		}
		r.Month, r.Week, r.Weekday = m, w, d
	default:
		r.Form = JulianZero
		d, _, err := p.digits(3)
		if err != nil {
			return r, fmt.Errorf("zero-based julian rule: %w", err)
		}
		if d > 365 {
			return r, fmt.Errorf("zero-based julian day %d out of range 0..365", d)
		}
		r.Day = d
	}

	r.Time = defaultRuleTime
	if p.eat('/') {
		sign := 1
		if p.eat('-') {
			sign = -1
		} else {
			p.eat('+')
		}
		h, _, err := p.digits(3)
		if err != nil {
			return r, fmt.Errorf("rule time: %w", err)
		}
		t := h * 3600
		if p.eat(':') {
			m, _, err := p.digits(2)
			if err != nil {
				return r, fmt.Errorf("rule time minutes: %w", err)
			}
			t += m * 60
			if p.eat(':') {
				s, _, err := p.digits(2)
				if err != nil {
					return r, fmt.Errorf("rule time seconds: %w", err)
				}
				t += s
			}
		}
		r.Time = sign * t
	}
	return r, nil
}

// ordinal returns the proleptic-Gregorian ordinal of the rule's day in
// the given year.
func (r Rule) ordinal(year int) int64 {
	jan1 := calmath.OrdinalFromYMD(year, 1, 1)
	switch r.Form {
	case JulianOne:
		ord := jan1 + int64(r.Day) - 1
		if calmath.IsLeapYear(year) && r.Day >= 60 {
			ord++
		}
		return ord
	case JulianZero:
		return jan1 + int64(r.Day)
	}
	if r.Week == 5 {
		last := calmath.OrdinalFromYMD(year, r.Month, calmath.DaysInMonth(year, r.Month))
		ord, _ := calmath.NthKDay(-1, r.Weekday, last)
		return ord
	}
	first := calmath.OrdinalFromYMD(year, r.Month, 1)
	ord, _ := calmath.NthKDay(r.Week, r.Weekday, first)
	return ord
}

// transition returns the UTC instant, in Unix seconds, at which the rule
// fires in the given year. A rule's time is a wall-clock reading in the
// offset in effect just before the transition, so off is the standard
// offset for the start boundary and the DST offset for the end boundary.
func (rs *RuleSet) transition(r Rule, year, off int) int64 {
	wall := (r.ordinal(year)-calmath.UnixEpochOrdinal)*86400 + int64(r.Time)
	return wall + int64(off)
}

// DSTInterval returns the UTC start and end instants of the DST period
// whose rules fall in year y. For a southern-hemisphere zone the end
// precedes the start within the year; callers test membership with the
// wrapped comparison.
func (rs *RuleSet) DSTInterval(y int) (start, end int64) {
	return rs.transition(rs.Start, y, rs.StdOffset), rs.transition(rs.End, y, rs.DSTOffset)
}

// Lookup returns the zone information in effect at the given UTC instant.
func (rs *RuleSet) Lookup(sec int64) civil.ZoneInfo {
	std := civil.ZoneInfo{OffsetSeconds: rs.StdOffset, Abbrev: rs.StdName}
	if !rs.HasDST {
		return std
	}
	y, _, _ := calmath.YMDFromOrdinal(calmath.FloorDiv(sec, 86400) + calmath.UnixEpochOrdinal)
	start, end := rs.DSTInterval(y)
	var inDST bool
	if start <= end {
		inDST = sec >= start && sec < end
	} else {
		inDST = sec >= start || sec < end
	}
	if inDST {
		return civil.ZoneInfo{OffsetSeconds: rs.DSTOffset, IsDST: true, Abbrev: rs.DSTName}
	}
	return std
}

// Resolve implements civil.Resolver. A UTC instant resolves directly. A
// local wall-clock reading is tried against both the standard and the DST
// offset: no viable candidate is a nonexistent time, two candidates are
// ambiguous unless preferDST picks the DST one.
func (rs *RuleSet) Resolve(sec int64, isUTC, preferDST bool) (civil.ZoneInfo, error) {
	if isUTC || !rs.HasDST {
		return rs.Lookup(sec), nil
	}
	var stdZI, dstZI civil.ZoneInfo
	var stdOK, dstOK bool
	if zi := rs.Lookup(sec + int64(rs.StdOffset)); !zi.IsDST {
		stdZI, stdOK = zi, true
	}
	if zi := rs.Lookup(sec + int64(rs.DSTOffset)); zi.IsDST {
		dstZI, dstOK = zi, true
	}
	switch {
	case stdOK && dstOK:
		if preferDST {
			return dstZI, nil
		}
		return civil.ZoneInfo{}, civil.ErrAmbiguousTime
	case stdOK:
		return stdZI, nil
	case dstOK:
		return dstZI, nil
	}
	return civil.ZoneInfo{}, civil.ErrNonexistentTime
}
