// Package strtime converts civil date-times to and from strings using the
// POSIX strftime/strptime %-directive vocabulary, with $-prefixed
// shortcuts for common composite formats and a dedicated RFC 3339 fast
// path.
//
// Supported directives: %a %A %b %B %C %d %f %F %g %G %H %I %j %m %M %p
// %S %T %u %U %V %w %W %y %Y %z and %% for a literal percent sign.
package strtime

import (
	"fmt"
	"strings"

	"github.com/ngrash/go-cal/calmath"
	"github.com/ngrash/go-cal/civil"
	"github.com/ngrash/go-cal/internal/names"
)

// shortcuts expand to composite directive strings. $rfc3339 is handled
// separately because its fractional seconds and offset designator do not
// map onto single directives.
var shortcuts = map[string]string{
	"iso":     "%Y-%m-%dT%H:%M:%S",
	"wiso":    "%G-W%V-%u",
	"rfc1123": "%a, %d %b %Y %H:%M:%S %z",
	"rfc850":  "%A, %d-%b-%y %H:%M:%S GMT",
	"http":    "%a, %d %b %Y %H:%M:%S GMT",
	"ctime":   "%a %b %d %H:%M:%S %Y",
	"asctime": "%a %b %d %H:%M:%S %Y",
}

func alphaRun(s string) string {
	n := 0
	for n < len(s) && (s[n] >= 'a' && s[n] <= 'z' || s[n] >= '0' && s[n] <= '9') {
		n++
	}
	return s[:n]
}

// Format renders dt according to the given layout.
func Format(dt civil.DateTime, layout string) (string, error) {
	var b strings.Builder
	rest := layout
	for len(rest) > 0 {
		switch rest[0] {
		case '%':
			if len(rest) < 2 {
				return "", fmt.Errorf("strtime: trailing %% in layout %q", layout)
			}
			if err := formatDirective(&b, dt, rest[1]); err != nil {
				return "", err
			}
			rest = rest[2:]
		case '$':
			word := alphaRun(rest[1:])
			rest = rest[1+len(word):]
			if word == "rfc3339" {
				b.WriteString(FormatRFC3339(dt))
			} else if exp, ok := shortcuts[word]; ok {
				rest = exp + rest
			} else {
				return "", fmt.Errorf("strtime: unknown shortcut $%s", word)
			}
		default:
			b.WriteByte(rest[0])
			rest = rest[1:]
		}
	}
	return b.String(), nil
}

func formatDirective(b *strings.Builder, dt civil.DateTime, d byte) error {
	switch d {
	case 'a':
		b.WriteString(names.Abbrev(names.Weekdays[dt.Weekday()]))
	case 'A':
		b.WriteString(names.Weekdays[dt.Weekday()])
	case 'b':
		b.WriteString(names.Abbrev(names.Months[dt.Month-1]))
	case 'B':
		b.WriteString(names.Months[dt.Month-1])
	case 'C':
		fmt.Fprintf(b, "%02d", dt.Year/100)
	case 'd':
		fmt.Fprintf(b, "%02d", dt.Day)
	case 'f':
		fmt.Fprintf(b, "%06d", dt.Microsecond)
	case 'F':
		formatDirective(b, dt, 'Y')
		b.WriteByte('-')
		formatDirective(b, dt, 'm')
		b.WriteByte('-')
		formatDirective(b, dt, 'd')
	case 'g':
		y, _, _ := dt.ISOWeek()
		fmt.Fprintf(b, "%02d", calmath.FloorMod(y, 100))
	case 'G':
		y, _, _ := dt.ISOWeek()
		writeYear(b, y)
	case 'H':
		fmt.Fprintf(b, "%02d", dt.Hour)
	case 'I':
		h := dt.Hour % 12
		if h == 0 {
			h = 12
		}
		fmt.Fprintf(b, "%02d", h)
	case 'j':
		fmt.Fprintf(b, "%03d", dt.DayOfYear())
	case 'm':
		fmt.Fprintf(b, "%02d", dt.Month)
	case 'M':
		fmt.Fprintf(b, "%02d", dt.Minute)
	case 'p':
		if dt.Hour < 12 {
			b.WriteString("AM")
		} else {
			b.WriteString("PM")
		}
	case 'S':
		fmt.Fprintf(b, "%02d", dt.Second)
	case 'T':
		fmt.Fprintf(b, "%02d:%02d:%02d", dt.Hour, dt.Minute, dt.Second)
	case 'u':
		fmt.Fprintf(b, "%d", calmath.ISOWeekday(dt.Ordinal()))
	case 'U':
		fmt.Fprintf(b, "%02d", (dt.DayOfYear()+6-dt.Weekday())/7)
	case 'V':
		_, w, _ := dt.ISOWeek()
		fmt.Fprintf(b, "%02d", w)
	case 'w':
		fmt.Fprintf(b, "%d", dt.Weekday())
	case 'W':
		wd := (dt.Weekday() + 6) % 7 // Monday-based
		fmt.Fprintf(b, "%02d", (dt.DayOfYear()+6-wd)/7)
	case 'y':
		fmt.Fprintf(b, "%02d", calmath.FloorMod(dt.Year, 100))
	case 'Y':
		writeYear(b, dt.Year)
	case 'z':
		if !dt.OffsetKnown {
			return fmt.Errorf("strtime: %%z with unknown utc offset")
		}
		east := -dt.UTCOffset
		sign := byte('+')
		if east < 0 {
			sign, east = '-', -east
		}
		b.WriteByte(sign)
		fmt.Fprintf(b, "%02d%02d", east/3600, east%3600/60)
	case '%':
		b.WriteByte('%')
	default:
		return fmt.Errorf("strtime: unknown directive %%%c", d)
	}
	return nil
}

func writeYear(b *strings.Builder, y int) {
	if y < 0 {
		b.WriteByte('-')
		y = -y
	}
	fmt.Fprintf(b, "%04d", y)
}
