package strtime

import (
	"fmt"

	"github.com/ngrash/go-cal/calmath"
	"github.com/ngrash/go-cal/civil"
	"github.com/ngrash/go-cal/internal/names"
)

type parseOptions struct {
	twoDigitYears bool
	baseCentury   int
}

// Option configures Parse.
type Option func(*parseOptions)

// TwoDigitYears allows the %y directive, resolving a two-digit year yy to
// century*100 + yy. Without this option %y is rejected: a four-digit year
// is mandatory.
func TwoDigitYears(century int) Option {
	return func(o *parseOptions) {
		o.twoDigitYears = true
		o.baseCentury = century
	}
}

type parseState struct {
	year, month, day  int
	isoYear, isoWeek  int
	isoWeekday        int
	hasISO            bool
	dayOfYear         int
	hasDayOfYear      bool
	hasMonth, hasDay  bool
	hour, minute, sec int
	micro             int
	hour12            int
	has12, pm         bool
	offset            int
	offsetKnown       bool
}

// Parse interprets s according to layout and returns the resulting
// date-time. Missing date fields default to 1900-01-01, missing time
// fields to midnight. An ISO week-date directive (%G, %V or %u) switches
// the final date resolution to the ISO week calendar, overriding any
// month or day directives.
func Parse(s, layout string, opts ...Option) (civil.DateTime, error) {
	var o parseOptions
	for _, opt := range opts {
		opt(&o)
	}

	st := parseState{year: 1900, month: 1, day: 1, isoYear: 1900, isoWeek: 1, isoWeekday: 1}
	pos := 0
	rest := layout
	for len(rest) > 0 {
		switch rest[0] {
		case '%':
			if len(rest) < 2 {
				return civil.DateTime{}, fmt.Errorf("strtime: trailing %% in layout %q", layout)
			}
			n, err := parseDirective(&st, s[pos:], rest[1], o)
			if err != nil {
				return civil.DateTime{}, fmt.Errorf("strtime: parse %q as %q: %w", s, layout, err)
			}
			pos += n
			rest = rest[2:]
		case '$':
			word := alphaRun(rest[1:])
			rest = rest[1+len(word):]
			if word == "rfc3339" {
				dt, n := parseRFC3339(s[pos:])
				st.year, st.month, st.day = dt.Year, dt.Month, dt.Day
				st.hasMonth, st.hasDay = true, true
				st.hour, st.minute, st.sec = dt.Hour, dt.Minute, dt.Second
				st.micro = dt.Microsecond
				st.offset, st.offsetKnown = dt.UTCOffset, dt.OffsetKnown
				pos += n
			} else if exp, ok := shortcuts[word]; ok {
				rest = exp + rest
			} else {
				return civil.DateTime{}, fmt.Errorf("strtime: unknown shortcut $%s", word)
			}
		default:
			if pos >= len(s) || s[pos] != rest[0] {
				return civil.DateTime{}, fmt.Errorf("strtime: parse %q as %q: expected %q at offset %d", s, layout, rest[0], pos)
			}
			pos++
			rest = rest[1:]
		}
	}
	if pos != len(s) {
		return civil.DateTime{}, fmt.Errorf("strtime: parse %q as %q: trailing input %q", s, layout, s[pos:])
	}
	return st.assemble()
}

func (st parseState) assemble() (civil.DateTime, error) {
	y, m, d := st.year, st.month, st.day
	switch {
	case st.hasISO:
		ord, err := calmath.OrdinalFromISOWeek(st.isoYear, st.isoWeek, st.isoWeekday)
		if err != nil {
			return civil.DateTime{}, fmt.Errorf("strtime: %w", err)
		}
		y, m, d = calmath.YMDFromOrdinal(ord)
	case st.hasDayOfYear && !st.hasMonth && !st.hasDay:
		ord := calmath.OrdinalFromYMD(st.year, 1, 1) + int64(st.dayOfYear) - 1
		y, m, d = calmath.YMDFromOrdinal(ord)
	}

	hour := st.hour
	if st.has12 {
		hour = st.hour12 % 12
		if st.pm {
			hour += 12
		}
	}

	dt, err := civil.New(y, m, d, hour, st.minute, st.sec, st.micro)
	if err != nil {
		return civil.DateTime{}, fmt.Errorf("strtime: %w", err)
	}
	dt.UTCOffset = st.offset
	dt.OffsetKnown = st.offsetKnown
	return dt, nil
}

func parseDirective(st *parseState, s string, d byte, o parseOptions) (int, error) {
	switch d {
	case 'a', 'A':
		_, n, ok := names.MatchWeekday(s)
		if !ok {
			return 0, fmt.Errorf("%%%c: no weekday name in %q", d, s)
		}
		return n, nil
	case 'b', 'B':
		m, n, ok := names.MatchMonth(s)
		if !ok {
			return 0, fmt.Errorf("%%%c: no month name in %q", d, s)
		}
		st.month = m
		st.hasMonth = true
		return n, nil
	case 'C', 'U', 'W':
		// Parsed for layout compatibility, not used in assembly.
		_, n, err := readNum(s, 2)
		return n, err
	case 'w':
		_, n, err := readNum(s, 1)
		return n, err
	case 'd':
		v, n, err := readNum(s, 2)
		if err != nil {
			return 0, err
		}
		st.day = v
		st.hasDay = true
		return n, nil
	case 'f':
		v, n, err := readNum(s, 6)
		if err != nil {
			return 0, err
		}
		for i := n; i < 6; i++ {
			v *= 10
		}
		st.micro = v
		return n, nil
	case 'F':
		return parseComposite(st, s, "%Y-%m-%d", o)
	case 'g':
		if !o.twoDigitYears {
			return 0, fmt.Errorf("%%g: two-digit years need the TwoDigitYears option")
		}
		v, n, err := readNum(s, 2)
		if err != nil {
			return 0, err
		}
		st.isoYear = o.baseCentury*100 + v
		st.hasISO = true
		return n, nil
	case 'G':
		v, n, err := readYear(s)
		if err != nil {
			return 0, err
		}
		st.isoYear = v
		st.hasISO = true
		return n, nil
	case 'H':
		v, n, err := readNum(s, 2)
		if err != nil {
			return 0, err
		}
		st.hour = v
		return n, nil
	case 'I':
		v, n, err := readNum(s, 2)
		if err != nil {
			return 0, err
		}
		st.hour12 = v
		st.has12 = true
		return n, nil
	case 'j':
		v, n, err := readNum(s, 3)
		if err != nil {
			return 0, err
		}
		st.dayOfYear = v
		st.hasDayOfYear = true
		return n, nil
	case 'm':
		v, n, err := readNum(s, 2)
		if err != nil {
			return 0, err
		}
		st.month = v
		st.hasMonth = true
		return n, nil
	case 'M':
		v, n, err := readNum(s, 2)
		if err != nil {
			return 0, err
		}
		st.minute = v
		return n, nil
	case 'p':
		if len(s) < 2 {
			return 0, fmt.Errorf("%%p: input too short")
		}
		switch {
		case (s[0] == 'A' || s[0] == 'a') && (s[1] == 'M' || s[1] == 'm'):
			st.pm = false
		case (s[0] == 'P' || s[0] == 'p') && (s[1] == 'M' || s[1] == 'm'):
			st.pm = true
		default:
			return 0, fmt.Errorf("%%p: no AM/PM in %q", s)
		}
		return 2, nil
	case 'S':
		v, n, err := readNum(s, 2)
		if err != nil {
			return 0, err
		}
		st.sec = v
		return n, nil
	case 'T':
		return parseComposite(st, s, "%H:%M:%S", o)
	case 'u':
		v, n, err := readNum(s, 1)
		if err != nil {
			return 0, err
		}
		st.isoWeekday = v
		st.hasISO = true
		return n, nil
	case 'V':
		v, n, err := readNum(s, 2)
		if err != nil {
			return 0, err
		}
		st.isoWeek = v
		st.hasISO = true
		return n, nil
	case 'y':
		if !o.twoDigitYears {
			return 0, fmt.Errorf("%%y: two-digit years are rejected without the TwoDigitYears option")
		}
		v, n, err := readNum(s, 2)
		if err != nil {
			return 0, err
		}
		st.year = o.baseCentury*100 + v
		return n, nil
	case 'Y':
		v, n, err := readYear(s)
		if err != nil {
			return 0, err
		}
		st.year = v
		return n, nil
	case 'z':
		off, known, n, err := readOffset(s)
		if err != nil {
			return 0, err
		}
		st.offset, st.offsetKnown = off, known
		return n, nil
	case '%':
		if len(s) == 0 || s[0] != '%' {
			return 0, fmt.Errorf("%%%%: expected literal %% in %q", s)
		}
		return 1, nil
	}
	return 0, fmt.Errorf("unknown directive %%%c", d)
}

func parseComposite(st *parseState, s, layout string, o parseOptions) (int, error) {
	pos := 0
	rest := layout
	for len(rest) > 0 {
		if rest[0] == '%' {
			n, err := parseDirective(st, s[pos:], rest[1], o)
			if err != nil {
				return 0, err
			}
			pos += n
			rest = rest[2:]
			continue
		}
		if pos >= len(s) || s[pos] != rest[0] {
			return 0, fmt.Errorf("expected %q at offset %d", rest[0], pos)
		}
		pos++
		rest = rest[1:]
	}
	return pos, nil
}

// readNum reads 1 to max decimal digits.
func readNum(s string, max int) (int, int, error) {
	n := 0
	v := 0
	for n < len(s) && n < max && s[n] >= '0' && s[n] <= '9' {
		v = v*10 + int(s[n]-'0')
		n++
	}
	if n == 0 {
		return 0, 0, fmt.Errorf("expected digits in %q", s)
	}
	return v, n, nil
}

// readYear reads an optional sign followed by exactly four digits.
func readYear(s string) (int, int, error) {
	pos := 0
	neg := false
	if pos < len(s) && (s[pos] == '-' || s[pos] == '+') {
		neg = s[pos] == '-'
		pos++
	}
	v := 0
	for i := 0; i < 4; i++ {
		if pos >= len(s) || s[pos] < '0' || s[pos] > '9' {
			return 0, 0, fmt.Errorf("expected a four-digit year in %q", s)
		}
		v = v*10 + int(s[pos]-'0')
		pos++
	}
	if neg {
		v = -v
	}
	return v, pos, nil
}

// readOffset reads a timezone offset: Z or z for UTC, or a sign followed
// by hh[:mm[:ss]] with colons, or a bare digit run of one to six digits
// interpreted by length (h, hh, hmm, hhmm, hmmss, hhmmss). The parsed
// value uses the ISO sign convention (east positive) and is stored with
// the internal west-positive convention.
func readOffset(s string) (offset int, known bool, n int, err error) {
	if len(s) == 0 {
		return 0, false, 0, fmt.Errorf("%%z: input too short")
	}
	if s[0] == 'Z' || s[0] == 'z' {
		return 0, true, 1, nil
	}
	sign := 1
	switch s[0] {
	case '+':
	case '-':
		sign = -1
	default:
		return 0, false, 0, fmt.Errorf("%%z: expected sign or Z in %q", s)
	}
	pos := 1

	digits := func() (int, int) {
		v, c := 0, 0
		for pos < len(s) && s[pos] >= '0' && s[pos] <= '9' {
			v = v*10 + int(s[pos]-'0')
			pos++
			c++
		}
		return v, c
	}

	h, hc := digits()
	if hc == 0 {
		return 0, false, 0, fmt.Errorf("%%z: expected digits in %q", s)
	}
	var m, sec int
	if pos < len(s) && s[pos] == ':' {
		if hc > 2 {
			return 0, false, 0, fmt.Errorf("%%z: malformed offset in %q", s)
		}
		pos++
		var mc int
		m, mc = digits()
		if mc != 2 {
			return 0, false, 0, fmt.Errorf("%%z: malformed offset in %q", s)
		}
		if pos < len(s) && s[pos] == ':' {
			pos++
			var sc int
			sec, sc = digits()
			if sc != 2 {
				return 0, false, 0, fmt.Errorf("%%z: malformed offset in %q", s)
			}
		}
	} else {
		// Bare run, split by length.
		switch hc {
		case 1, 2:
		case 3:
			h, m = h/100, h%100
		case 4:
			h, m = h/100, h%100
		case 5:
			h, m, sec = h/10000, h/100%100, h%100
		case 6:
			h, m, sec = h/10000, h/100%100, h%100
		default:
			return 0, false, 0, fmt.Errorf("%%z: offset run too long in %q", s)
		}
	}
	east := sign * (h*3600 + m*60 + sec)
	return -east, true, pos, nil
}
