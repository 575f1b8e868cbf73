// Package civil implements civil (wall-clock) date-times in the proleptic
// Gregorian calendar, absolute timestamps counted from the calendar epoch
// 0001-01-01T00:00:00, and the calendar-agnostic and calendar-aware
// arithmetic between them.
//
// A DateTime on its own is a naive wall-clock reading. It becomes a point
// on the UTC timeline once OffsetKnown is set, either directly or through
// a timezone Resolver.
package civil

import (
	"errors"
	"fmt"
	"math"

	"github.com/ngrash/go-cal/calmath"
)

// DateTime is a broken-down civil time. The numeric fields always hold a
// valid calendar value; operations return new values instead of mutating.
//
// UTCOffset follows the POSIX sign convention: positive seconds are west of
// UTC, so a zone ahead of UTC stores a negative offset.
type DateTime struct {
	Year        int
	Month       int // 1..12
	Day         int // 1..31, valid for Month/Year
	Hour        int // 0..23
	Minute      int // 0..59
	Second      int // 0..60; 60 only to render an inserted leap second
	Microsecond int // 0..999999

	UTCOffset   int // seconds west of UTC
	IsDST       bool
	OffsetKnown bool
	Abbrev      string
}

// Date returns a DateTime for midnight of the given date.
func Date(year, month, day int) DateTime {
	return DateTime{Year: year, Month: month, Day: day}
}

// New builds a validated DateTime from its numeric fields.
func New(year, month, day, hour, min, sec, usec int) (DateTime, error) {
	dt := DateTime{
		Year: year, Month: month, Day: day,
		Hour: hour, Minute: min, Second: sec, Microsecond: usec,
	}
	if err := dt.Validate(); err != nil {
		return DateTime{}, err
	}
	return dt, nil
}

// Validate checks the numeric fields against the calendar and reports every
// violation.
func (dt DateTime) Validate() error {
	var errs []error
	if dt.Month < 1 || dt.Month > 12 {
		errs = append(errs, fmt.Errorf("month %d out of range", dt.Month))
	} else if dim := calmath.DaysInMonth(dt.Year, dt.Month); dt.Day < 1 || dt.Day > dim {
		errs = append(errs, fmt.Errorf("day %d out of range for %d-%02d", dt.Day, dt.Year, dt.Month))
	}
	if dt.Hour < 0 || dt.Hour > 23 {
		errs = append(errs, fmt.Errorf("hour %d out of range", dt.Hour))
	}
	if dt.Minute < 0 || dt.Minute > 59 {
		errs = append(errs, fmt.Errorf("minute %d out of range", dt.Minute))
	}
	if dt.Second < 0 || dt.Second > 60 {
		errs = append(errs, fmt.Errorf("second %d out of range", dt.Second))
	}
	if dt.Microsecond < 0 || dt.Microsecond > 999999 {
		errs = append(errs, fmt.Errorf("microsecond %d out of range", dt.Microsecond))
	}
	return errors.Join(errs...)
}

// Ordinal returns the ordinal day of dt's date. Day 1 is 0001-01-01.
func (dt DateTime) Ordinal() int64 {
	return calmath.OrdinalFromYMD(dt.Year, dt.Month, dt.Day)
}

// Weekday returns the day of week, 0 = Sunday .. 6 = Saturday.
func (dt DateTime) Weekday() int {
	return calmath.Weekday(dt.Ordinal())
}

// DayOfYear returns the 1-based day of year.
func (dt DateTime) DayOfYear() int {
	return calmath.DayOfYear(dt.Year, dt.Month, dt.Day)
}

// ISOWeek returns the ISO 8601 week date of dt. The ISO year may differ
// from dt.Year around January 1st.
func (dt DateTime) ISOWeek() (year, week, weekday int) {
	return calmath.ISOWeekFromOrdinal(dt.Ordinal())
}

// Compare orders two values by their wall-clock fields, ignoring zone
// fields. It returns -1, 0 or +1.
func (dt DateTime) Compare(o DateTime) int {
	a, b := dt.Timestamp(), o.Timestamp()
	switch {
	case a.Sec != b.Sec:
		if a.Sec < b.Sec {
			return -1
		}
		return 1
	case a.Micro != b.Micro:
		if a.Micro < b.Micro {
			return -1
		}
		return 1
	}
	return 0
}

// String formats dt for debugging.
func (dt DateTime) String() string {
	s := fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d", dt.Year, dt.Month, dt.Day, dt.Hour, dt.Minute, dt.Second)
	if dt.Microsecond != 0 {
		s += fmt.Sprintf(".%06d", dt.Microsecond)
	}
	if dt.OffsetKnown {
		east := -dt.UTCOffset
		sign := "+"
		if east < 0 {
			sign, east = "-", -east
		}
		s += fmt.Sprintf("%s%02d:%02d", sign, east/3600, east%3600/60)
	}
	return s
}

// Timestamp is an absolute instant counted from the calendar epoch
// 0001-01-01T00:00:00, not from the Unix epoch. Micro is normalized to
// [0, 1e6) after every operation.
type Timestamp struct {
	Sec   int64
	Micro int
}

// NewTimestamp normalizes the microsecond field into [0, 1e6), carrying
// into seconds.
func NewTimestamp(sec int64, micro int) Timestamp {
	carry := calmath.FloorDiv(int64(micro), 1e6)
	return Timestamp{Sec: sec + carry, Micro: micro - int(carry)*1e6}
}

// Sub returns the delta ts - o.
func (ts Timestamp) Sub(o Timestamp) Delta {
	return newDeltaFromSeconds(ts.Sec-o.Sec, ts.Micro-o.Micro)
}

// Timestamp converts the wall-clock fields of dt to an absolute timestamp.
// Zone fields are ignored: the conversion treats dt as a plain calendar
// reading. A leap second (second 60) maps to the same timestamp as second
// zero of the following minute.
func (dt DateTime) Timestamp() Timestamp {
	sec := (dt.Ordinal()-1)*86400 +
		int64(dt.Hour)*3600 + int64(dt.Minute)*60 + int64(dt.Second)
	return Timestamp{Sec: sec, Micro: dt.Microsecond}
}

// FromTimestamp converts an absolute timestamp back to broken-down fields.
// The result is naive: zone fields are zero.
func FromTimestamp(ts Timestamp) DateTime {
	ts = NewTimestamp(ts.Sec, ts.Micro)
	days := calmath.FloorDiv(ts.Sec, 86400)
	rem := ts.Sec - days*86400
	y, m, d := calmath.YMDFromOrdinal(days + 1)
	return DateTime{
		Year: y, Month: m, Day: d,
		Hour:        int(rem / 3600),
		Minute:      int(rem % 3600 / 60),
		Second:      int(rem % 60),
		Microsecond: ts.Micro,
	}
}

// unixEpochSec is the calendar-epoch timestamp of 1970-01-01T00:00:00.
const unixEpochSec = (calmath.UnixEpochOrdinal - 1) * 86400

// FromUnix converts Unix seconds and microseconds to a UTC DateTime with
// OffsetKnown set.
func FromUnix(sec int64, micro int) DateTime {
	dt := FromTimestamp(NewTimestamp(sec+unixEpochSec, micro))
	dt.OffsetKnown = true
	return dt
}

// Unix returns dt as Unix seconds, discarding microseconds. A naive value
// is interpreted as UTC; an offset-aware value is converted using its
// stored offset.
func (dt DateTime) Unix() int64 {
	sec := dt.Timestamp().Sec - unixEpochSec
	if dt.OffsetKnown {
		sec += int64(dt.UTCOffset)
	}
	return sec
}

// Clock supplies the current time as fractional seconds since the Unix
// epoch. It is the only host dependency of the package and is always
// passed in explicitly.
type Clock func() float64

// Now reads the clock and returns the current time in UTC.
func Now(clock Clock) DateTime {
	f := clock()
	sec := int64(math.Floor(f))
	micro := int(math.Round((f - float64(sec)) * 1e6))
	if micro >= 1e6 {
		sec++
		micro -= 1e6
	}
	return FromUnix(sec, micro)
}
