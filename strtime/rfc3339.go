package strtime

import (
	"strings"

	"github.com/ngrash/go-cal/civil"
)

// FormatRFC3339 renders dt as YYYY-MM-DDTHH:MM:SS[.ffffff][Z|±hh:mm].
// Fractional seconds appear only when the microsecond field is nonzero,
// with trailing zeros trimmed. The offset designator is omitted entirely
// when the offset is unknown.
func FormatRFC3339(dt civil.DateTime) string {
	var b strings.Builder
	writeYear(&b, dt.Year)
	b.WriteByte('-')
	write2(&b, dt.Month)
	b.WriteByte('-')
	write2(&b, dt.Day)
	b.WriteByte('T')
	write2(&b, dt.Hour)
	b.WriteByte(':')
	write2(&b, dt.Minute)
	b.WriteByte(':')
	write2(&b, dt.Second)
	if dt.Microsecond != 0 {
		frac := []byte{'.', '0', '0', '0', '0', '0', '0'}
		us := dt.Microsecond
		for i := 6; i >= 1; i-- {
			frac[i] += byte(us % 10)
			us /= 10
		}
		n := len(frac)
		for frac[n-1] == '0' {
			n--
		}
		b.Write(frac[:n])
	}
	if dt.OffsetKnown {
		east := -dt.UTCOffset
		if east == 0 {
			b.WriteByte('Z')
		} else {
			sign := byte('+')
			if east < 0 {
				sign, east = '-', -east
			}
			b.WriteByte(sign)
			write2(&b, east/3600)
			b.WriteByte(':')
			write2(&b, east%3600/60)
		}
	}
	return b.String()
}

func write2(b *strings.Builder, v int) {
	b.WriteByte('0' + byte(v/10%10))
	b.WriteByte('0' + byte(v%10))
}

// ParseRFC3339 scans s digit by digit against the fixed grammar
// YYYY-MM-DDTHH:MM:SS[.ffffff][Z|±hh:mm]. Scanning stops at the first
// deviation from the grammar and the fields read so far are returned
// as-is, so a malformed tail yields a truncated rather than rejected
// result. Field values are not range checked.
func ParseRFC3339(s string) civil.DateTime {
	dt, _ := parseRFC3339(s)
	return dt
}

// parseRFC3339 additionally reports how many bytes were consumed, which
// embeds the fast path into layout-driven parsing.
func parseRFC3339(s string) (civil.DateTime, int) {
	dt := civil.DateTime{Year: 1900, Month: 1, Day: 1}
	pos := 0

	fixed := func(n int) (int, bool) {
		v := 0
		for i := 0; i < n; i++ {
			if pos >= len(s) || s[pos] < '0' || s[pos] > '9' {
				return 0, false
			}
			v = v*10 + int(s[pos]-'0')
			pos++
		}
		return v, true
	}
	sep := func(c byte) bool {
		if pos < len(s) && s[pos] == c {
			pos++
			return true
		}
		return false
	}

	v, ok := fixed(4)
	if !ok {
		return dt, pos
	}
	dt.Year = v
	if !sep('-') {
		return dt, pos
	}
	if v, ok = fixed(2); !ok {
		return dt, pos
	}
	dt.Month = v
	if !sep('-') {
		return dt, pos
	}
	if v, ok = fixed(2); !ok {
		return dt, pos
	}
	dt.Day = v
	if pos >= len(s) || (s[pos] != 'T' && s[pos] != 't' && s[pos] != ' ') {
		return dt, pos
	}
	pos++
	if v, ok = fixed(2); !ok {
		return dt, pos
	}
	dt.Hour = v
	if !sep(':') {
		return dt, pos
	}
	if v, ok = fixed(2); !ok {
		return dt, pos
	}
	dt.Minute = v
	if !sep(':') {
		return dt, pos
	}
	if v, ok = fixed(2); !ok {
		return dt, pos
	}
	dt.Second = v

	if sep('.') {
		us, digits := 0, 0
		for pos < len(s) && s[pos] >= '0' && s[pos] <= '9' {
			if digits < 6 {
				us = us*10 + int(s[pos]-'0')
				digits++
			}
			pos++
		}
		for digits < 6 {
			us *= 10
			digits++
		}
		dt.Microsecond = us
	}

	if pos < len(s) {
		switch s[pos] {
		case 'Z', 'z':
			pos++
			dt.OffsetKnown = true
		case '+', '-':
			mark := pos
			neg := s[pos] == '-'
			pos++
			h, ok := fixed(2)
			if !ok {
				return dt, mark
			}
			if !sep(':') {
				return dt, mark
			}
			m, ok := fixed(2)
			if !ok {
				return dt, mark
			}
			east := h*3600 + m*60
			if neg {
				east = -east
			}
			dt.UTCOffset = -east
			dt.OffsetKnown = true
		}
	}
	return dt, pos
}
