// Package tokenfmt converts civil date-times to and from strings using a
// compact token vocabulary: repeated letters select a field and its
// padding (d, dd, dddd, h, hh, H, HH, m, mm, M, MM, MMM, MMMM, s, ss, t,
// tt, yyyy, z, zz, zzz). Text in single quotes is literal; a small set of
// punctuation characters passes through unquoted.
//
// The token engine and the %-directive engine in package strtime are
// deliberately separate: their escaping and token-length rules differ
// enough that a merged grammar would be harder to hold right than two
// small ones.
package tokenfmt

import (
	"fmt"
	"strings"

	"github.com/ngrash/go-cal/civil"
	"github.com/ngrash/go-cal/internal/names"
)

// punct passes through a layout unquoted. Anything else that is not a
// token must be quoted.
const punct = " ,.:;-/()"

type token struct {
	letter byte
	count  int
	lit    string // literal text, letter == 0
}

// scan splits layout into tokens. Runs of the same letter form one token;
// quoted text and passthrough punctuation become literals.
func scan(layout string) ([]token, error) {
	var toks []token
	for i := 0; i < len(layout); {
		c := layout[i]
		switch {
		case c == '\'':
			end := strings.IndexByte(layout[i+1:], '\'')
			if end < 0 {
				return nil, fmt.Errorf("tokenfmt: unterminated quote in layout %q", layout)
			}
			toks = append(toks, token{lit: layout[i+1 : i+1+end]})
			i += end + 2
		case c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z':
			j := i
			for j < len(layout) && layout[j] == c {
				j++
			}
			t := token{letter: c, count: j - i}
			if !validToken(t) {
				return nil, fmt.Errorf("tokenfmt: unknown token %q in layout %q", layout[i:j], layout)
			}
			toks = append(toks, t)
			i = j
		case strings.IndexByte(punct, c) >= 0:
			toks = append(toks, token{lit: layout[i : i+1]})
			i++
		default:
			return nil, fmt.Errorf("tokenfmt: unexpected character %q in layout %q; quote it with '...'", c, layout)
		}
	}
	return toks, nil
}

func validToken(t token) bool {
	switch t.letter {
	case 'd':
		return t.count == 1 || t.count == 2 || t.count == 4
	case 'h', 'H', 'm', 's', 't':
		return t.count <= 2
	case 'M':
		return t.count <= 4
	case 'y':
		return t.count == 4
	case 'z':
		return t.count <= 3
	}
	return false
}

// Format renders dt according to layout.
func Format(dt civil.DateTime, layout string) (string, error) {
	toks, err := scan(layout)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, t := range toks {
		if t.letter == 0 {
			b.WriteString(t.lit)
			continue
		}
		if err := formatToken(&b, dt, t); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

func formatToken(b *strings.Builder, dt civil.DateTime, t token) error {
	pad := func(v, width int) {
		fmt.Fprintf(b, "%0*d", width, v)
	}
	switch t.letter {
	case 'd':
		switch t.count {
		case 4:
			b.WriteString(names.Weekdays[dt.Weekday()])
		default:
			pad(dt.Day, t.count)
		}
	case 'h':
		h := dt.Hour % 12
		if h == 0 {
			h = 12
		}
		pad(h, t.count)
	case 'H':
		pad(dt.Hour, t.count)
	case 'm':
		pad(dt.Minute, t.count)
	case 'M':
		switch t.count {
		case 3:
			b.WriteString(names.Abbrev(names.Months[dt.Month-1]))
		case 4:
			b.WriteString(names.Months[dt.Month-1])
		default:
			pad(dt.Month, t.count)
		}
	case 's':
		pad(dt.Second, t.count)
	case 't':
		ampm := "AM"
		if dt.Hour >= 12 {
			ampm = "PM"
		}
		b.WriteString(ampm[:t.count])
	case 'y':
		y := dt.Year
		if y < 0 {
			b.WriteByte('-')
			y = -y
		}
		pad(y, 4)
	case 'z':
		if !dt.OffsetKnown {
			return fmt.Errorf("tokenfmt: z token with unknown utc offset")
		}
		east := -dt.UTCOffset
		sign := byte('+')
		if east < 0 {
			sign, east = '-', -east
		}
		b.WriteByte(sign)
		switch t.count {
		case 1:
			fmt.Fprintf(b, "%d", east/3600)
		case 2:
			pad(east/3600, 2)
		case 3:
			fmt.Fprintf(b, "%02d:%02d", east/3600, east%3600/60)
		}
	}
	return nil
}

// Parse interprets s according to layout. Missing date fields default to
// 1900-01-01, missing time fields to midnight.
func Parse(s, layout string) (civil.DateTime, error) {
	toks, err := scan(layout)
	if err != nil {
		return civil.DateTime{}, err
	}
	st := state{year: 1900, month: 1, day: 1}
	pos := 0
	for _, t := range toks {
		n, err := st.parseToken(s[pos:], t)
		if err != nil {
			return civil.DateTime{}, fmt.Errorf("tokenfmt: parse %q as %q: %w", s, layout, err)
		}
		pos += n
	}
	if pos != len(s) {
		return civil.DateTime{}, fmt.Errorf("tokenfmt: parse %q as %q: trailing input %q", s, layout, s[pos:])
	}

	hour := st.hour
	if st.has12 {
		hour = st.hour12 % 12
		if st.pm {
			hour += 12
		}
	}
	dt, err := civil.New(st.year, st.month, st.day, hour, st.minute, st.sec, 0)
	if err != nil {
		return civil.DateTime{}, fmt.Errorf("tokenfmt: %w", err)
	}
	dt.UTCOffset = st.offset
	dt.OffsetKnown = st.offsetKnown
	return dt, nil
}

type state struct {
	year, month, day  int
	hour, minute, sec int
	hour12            int
	has12, pm         bool
	offset            int
	offsetKnown       bool
}

func (st *state) parseToken(s string, t token) (int, error) {
	if t.letter == 0 {
		if !strings.HasPrefix(s, t.lit) {
			return 0, fmt.Errorf("expected %q, have %q", t.lit, s)
		}
		return len(t.lit), nil
	}
	switch t.letter {
	case 'd':
		if t.count == 4 {
			_, n, ok := names.MatchWeekday(s)
			if !ok {
				return 0, fmt.Errorf("dddd: no weekday name in %q", s)
			}
			return n, nil
		}
		return st.num(s, t, &st.day)
	case 'h':
		st.has12 = true
		return st.num(s, t, &st.hour12)
	case 'H':
		return st.num(s, t, &st.hour)
	case 'm':
		return st.num(s, t, &st.minute)
	case 'M':
		if t.count >= 3 {
			m, n, ok := names.MatchMonth(s)
			if !ok {
				return 0, fmt.Errorf("%s: no month name in %q", strings.Repeat("M", t.count), s)
			}
			st.month = m
			return n, nil
		}
		return st.num(s, t, &st.month)
	case 's':
		return st.num(s, t, &st.sec)
	case 't':
		if len(s) < t.count {
			return 0, fmt.Errorf("t: input too short")
		}
		switch s[0] {
		case 'A', 'a':
			st.pm = false
		case 'P', 'p':
			st.pm = true
		default:
			return 0, fmt.Errorf("t: no AM/PM in %q", s)
		}
		if t.count == 2 && s[1] != 'M' && s[1] != 'm' {
			return 0, fmt.Errorf("tt: no AM/PM in %q", s)
		}
		return t.count, nil
	case 'y':
		return st.readYear(s)
	case 'z':
		return st.readOffset(s, t.count)
	}
	return 0, fmt.Errorf("unknown token %c", t.letter)
}

// num reads digits for a numeric token: a doubled token requires exactly
// two digits, a single token takes one or two.
func (st *state) num(s string, t token, dst *int) (int, error) {
	max := 2
	v, n := 0, 0
	for n < len(s) && n < max && s[n] >= '0' && s[n] <= '9' {
		v = v*10 + int(s[n]-'0')
		n++
	}
	if n == 0 || (t.count == 2 && n != 2) {
		return 0, fmt.Errorf("%s: expected digits in %q", strings.Repeat(string(t.letter), t.count), s)
	}
	*dst = v
	return n, nil
}

func (st *state) readYear(s string) (int, error) {
	pos := 0
	neg := false
	if pos < len(s) && (s[pos] == '-' || s[pos] == '+') {
		neg = s[pos] == '-'
		pos++
	}
	v := 0
	for i := 0; i < 4; i++ {
		if pos >= len(s) || s[pos] < '0' || s[pos] > '9' {
			return 0, fmt.Errorf("yyyy: expected a four-digit year in %q", s)
		}
		v = v*10 + int(s[pos]-'0')
		pos++
	}
	if neg {
		v = -v
	}
	st.year = v
	return pos, nil
}

// readOffset accepts Z or z for UTC, otherwise a sign followed by hours
// (z, zz) or hh:mm (zzz). The displayed sign is east positive; storage is
// west positive.
func (st *state) readOffset(s string, count int) (int, error) {
	if len(s) == 0 {
		return 0, fmt.Errorf("z: input too short")
	}
	if s[0] == 'Z' || s[0] == 'z' {
		st.offset, st.offsetKnown = 0, true
		return 1, nil
	}
	sign := 1
	switch s[0] {
	case '+':
	case '-':
		sign = -1
	default:
		return 0, fmt.Errorf("z: expected sign or Z in %q", s)
	}
	pos := 1
	h, n := 0, 0
	for pos < len(s) && n < 2 && s[pos] >= '0' && s[pos] <= '9' {
		h = h*10 + int(s[pos]-'0')
		pos++
		n++
	}
	if n == 0 {
		return 0, fmt.Errorf("z: expected digits in %q", s)
	}
	m := 0
	if count == 3 {
		if pos+2 >= len(s) || s[pos] != ':' {
			return 0, fmt.Errorf("zzz: expected :mm in %q", s)
		}
		pos++
		for i := 0; i < 2; i++ {
			if s[pos] < '0' || s[pos] > '9' {
				return 0, fmt.Errorf("zzz: expected :mm in %q", s)
			}
			m = m*10 + int(s[pos]-'0')
			pos++
		}
	}
	st.offset = -sign * (h*3600 + m*60)
	st.offsetKnown = true
	return pos, nil
}
