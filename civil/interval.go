package civil

import (
	"math"

	"github.com/ngrash/go-cal/calmath"
)

// Interval is a calendar-aware span: months and years follow the calendar,
// so adding an Interval is not a linear shift and not generally invertible.
//
// The fields are float64 so that Normalize can carry across units, but
// arithmetic consumes them as whole units: AddInterval and the rounding
// functions truncate each field toward zero, so a fractional part below a
// field's own unit is dropped. Express sub-unit spans in the next smaller
// field, e.g. Minutes(90) rather than Hours(1.5).
//
// Calculated marks intervals derived by subtracting two date-times. For
// those, the day of month is applied as an offset from the first of the
// month instead of being clamped to the month's length, which is what
// makes the subtraction exactly invertible. User-built intervals clamp:
// adding one month to January 31st lands on the last day of February.
type Interval struct {
	Years        float64
	Months       float64
	Days         float64
	Hours        float64
	Minutes      float64
	Seconds      float64
	Microseconds float64

	Calculated bool
}

// Years returns an interval of n calendar years.
func Years(n float64) Interval { return Interval{Years: n} }

// Months returns an interval of n calendar months.
func Months(n float64) Interval { return Interval{Months: n} }

// Days returns an interval of n days.
func Days(n float64) Interval { return Interval{Days: n} }

// Hours returns an interval of n hours.
func Hours(n float64) Interval { return Interval{Hours: n} }

// Minutes returns an interval of n minutes.
func Minutes(n float64) Interval { return Interval{Minutes: n} }

// Seconds returns an interval of n seconds.
func Seconds(n float64) Interval { return Interval{Seconds: n} }

// Microseconds returns an interval of n microseconds.
func Microseconds(n float64) Interval { return Interval{Microseconds: n} }

// Normalize carries microseconds up through seconds, minutes, hours and
// days, and months into years, using truncating division so that the signs
// of the fields are preserved. Days are never carried into months: a month
// has no fixed day count.
func (iv Interval) Normalize() Interval {
	carry := func(from *float64, to *float64, unit float64) {
		c := math.Trunc(*from / unit)
		*from -= c * unit
		*to += c
	}
	carry(&iv.Microseconds, &iv.Seconds, 1e6)
	carry(&iv.Seconds, &iv.Minutes, 60)
	carry(&iv.Minutes, &iv.Hours, 60)
	carry(&iv.Hours, &iv.Days, 24)
	carry(&iv.Months, &iv.Years, 12)
	return iv
}

// Neg returns the negated interval. Calculated is preserved.
func (iv Interval) Neg() Interval {
	return Interval{
		Years:        -iv.Years,
		Months:       -iv.Months,
		Days:         -iv.Days,
		Hours:        -iv.Hours,
		Minutes:      -iv.Minutes,
		Seconds:      -iv.Seconds,
		Microseconds: -iv.Microseconds,
		Calculated:   iv.Calculated,
	}
}

// Add returns the field-wise sum of two intervals, normalized. The result
// is Calculated only if both operands are.
func (iv Interval) Add(o Interval) Interval {
	sum := Interval{
		Years:        iv.Years + o.Years,
		Months:       iv.Months + o.Months,
		Days:         iv.Days + o.Days,
		Hours:        iv.Hours + o.Hours,
		Minutes:      iv.Minutes + o.Minutes,
		Seconds:      iv.Seconds + o.Seconds,
		Microseconds: iv.Microseconds + o.Microseconds,
		Calculated:   iv.Calculated && o.Calculated,
	}
	return sum.Normalize()
}

// IsZero reports whether every span field is zero.
func (iv Interval) IsZero() bool {
	return iv.Years == 0 && iv.Months == 0 && iv.Days == 0 &&
		iv.Hours == 0 && iv.Minutes == 0 && iv.Seconds == 0 && iv.Microseconds == 0
}

// ToInterval returns the degenerate interval whose fields equal dt's
// fields verbatim, marked Calculated.
func (dt DateTime) ToInterval() Interval {
	return Interval{
		Years:        float64(dt.Year),
		Months:       float64(dt.Month),
		Days:         float64(dt.Day),
		Hours:        float64(dt.Hour),
		Minutes:      float64(dt.Minute),
		Seconds:      float64(dt.Second),
		Microseconds: float64(dt.Microsecond),
		Calculated:   true,
	}
}

// AddInterval shifts dt by iv: years and months move the month coordinate,
// then days, then the time of day as linear time. For user intervals the
// day of month is clamped to the target month's length; the documented
// consequence is that adding and subtracting the same interval across a
// month-length boundary does not return the original date. Calculated
// intervals apply the day as an offset instead and remain exactly
// invertible. Zone fields are copied from dt.
func (dt DateTime) AddInterval(iv Interval) DateTime {
	iv = iv.Normalize()

	months := int64(dt.Year)*12 + int64(dt.Month) - 1 +
		int64(iv.Years)*12 + int64(iv.Months)
	y := calmath.FloorDiv(months, 12)
	m := int(months-y*12) + 1

	var ord int64
	if iv.Calculated {
		ord = calmath.OrdinalFromYMD(int(y), m, 1) + int64(dt.Day-1)
	} else {
		day := dt.Day
		if dim := calmath.DaysInMonth(int(y), m); day > dim {
			day = dim
		}
		ord = calmath.OrdinalFromYMD(int(y), m, day)
	}
	ord += int64(iv.Days)

	sec := (ord-1)*86400 +
		int64(dt.Hour)*3600 + int64(dt.Minute)*60 + int64(dt.Second) +
		int64(iv.Hours)*3600 + int64(iv.Minutes)*60 + int64(iv.Seconds)
	out := FromTimestamp(NewTimestamp(sec, dt.Microsecond+int(iv.Microseconds)))
	return dt.withDate(out)
}

// SubInterval shifts dt by -iv. See AddInterval.
func (dt DateTime) SubInterval(iv Interval) DateTime {
	return dt.AddInterval(iv.Neg())
}

// IntervalBetween returns the calendar-aware difference from a to b as a
// Calculated interval: the exact month difference, a day component that
// may carry the opposite sign, and the linear time-of-day remainder. For
// every pair, a.AddInterval(IntervalBetween(a, b)) equals b and
// b.SubInterval(IntervalBetween(a, b)) equals a, exactly.
func IntervalBetween(a, b DateTime) Interval {
	neg := a.Compare(b) > 0
	if neg {
		a, b = b, a
	}

	months := int64(b.Year-a.Year)*12 + int64(b.Month-a.Month)
	days := int64(b.Day - a.Day)

	tod := func(dt DateTime) int64 {
		return (int64(dt.Hour)*3600+int64(dt.Minute)*60+int64(dt.Second))*1e6 +
			int64(dt.Microsecond)
	}
	rem := tod(b) - tod(a)
	if rem < 0 {
		rem += 86400 * 1e6
		days--
	}

	iv := Interval{
		Months:       float64(months),
		Days:         float64(days),
		Hours:        float64(rem / 3600e6),
		Minutes:      float64(rem % 3600e6 / 60e6),
		Seconds:      float64(rem % 60e6 / 1e6),
		Microseconds: float64(rem % 1e6),
		Calculated:   true,
	}
	iv = iv.Normalize()
	if neg {
		iv = iv.Neg()
	}
	return iv
}
