package civil

import (
	"fmt"

	"github.com/ngrash/go-cal/calmath"
)

// Unit names a truncation resolution for Trunc.
type Unit int

const (
	UnitSecond Unit = iota
	UnitMinute
	UnitHour
	UnitDay
	UnitWeek
	UnitMonth
	UnitQuarter
	UnitYear
	UnitDecade
	UnitCentury
)

var unitNames = map[Unit]string{
	UnitSecond:  "second",
	UnitMinute:  "minute",
	UnitHour:    "hour",
	UnitDay:     "day",
	UnitWeek:    "week",
	UnitMonth:   "month",
	UnitQuarter: "quarter",
	UnitYear:    "year",
	UnitDecade:  "decade",
	UnitCentury: "century",
}

func (u Unit) String() string {
	if s, ok := unitNames[u]; ok {
		return s
	}
	return fmt.Sprintf("Unit(%d)", int(u))
}

// Trunc zeroes the fields of dt below the given unit. UnitWeek steps to
// the ISO Monday of the week, backward for nonnegative years and forward
// for negative years. UnitQuarter snaps the month down to 1, 4, 7 or 10;
// UnitDecade and UnitCentury snap the year down by floor-modulo. Zone
// fields are copied from dt.
func Trunc(dt DateTime, u Unit) (DateTime, error) {
	out := dt
	out.Microsecond = 0
	switch u {
	case UnitSecond:
	case UnitMinute:
		out.Second = 0
	case UnitHour:
		out.Minute, out.Second = 0, 0
	case UnitDay:
		out.Hour, out.Minute, out.Second = 0, 0, 0
	case UnitWeek:
		out.Hour, out.Minute, out.Second = 0, 0, 0
		ord := out.Ordinal()
		w := int64(calmath.ISOWeekday(ord))
		if dt.Year >= 0 {
			ord -= w - 1
		} else {
			ord += calmath.FloorMod(1-w, 7)
		}
		out.Year, out.Month, out.Day = calmath.YMDFromOrdinal(ord)
	case UnitMonth:
		out.Day = 1
		out.Hour, out.Minute, out.Second = 0, 0, 0
	case UnitQuarter:
		out.Month = 3*((dt.Month-1)/3) + 1
		out.Day = 1
		out.Hour, out.Minute, out.Second = 0, 0, 0
	case UnitYear:
		out.Month, out.Day = 1, 1
		out.Hour, out.Minute, out.Second = 0, 0, 0
	case UnitDecade:
		out.Year = dt.Year - calmath.FloorMod(dt.Year, 10)
		out.Month, out.Day = 1, 1
		out.Hour, out.Minute, out.Second = 0, 0, 0
	case UnitCentury:
		out.Year = dt.Year - calmath.FloorMod(dt.Year, 100)
		out.Month, out.Day = 1, 1
		out.Hour, out.Minute, out.Second = 0, 0, 0
	default:
		return DateTime{}, fmt.Errorf("truncate: unknown unit %v", u)
	}
	return out, nil
}
