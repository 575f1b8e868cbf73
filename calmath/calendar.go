package calmath

import "fmt"

const (
	// daysPerCycle is the number of days in a full 400-year Gregorian cycle.
	daysPerCycle = 146097

	// UnixEpochOrdinal is the ordinal day of 1970-01-01.
	UnixEpochOrdinal int64 = 719163

	// unixDayShift converts between Unix-epoch days and the day count used
	// by the era decomposition, which is anchored at 0000-03-01.
	unixDayShift = 719468
)

var monthDays = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// cumDays[m] is the number of days before month m in a non-leap year.
var cumDays = [13]int{0, 0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334}

// IsLeapYear reports whether y is a leap year in the proleptic Gregorian
// calendar. The test is phrased against y mod 400 so it holds for negative
// years as well.
func IsLeapYear(y int) bool {
	r := FloorMod(y, 400)
	return r%4 == 0 && r != 100 && r != 200 && r != 300
}

// DaysInMonth returns the number of days in the given month. The month must
// be in 1..12.
func DaysInMonth(y, m int) int {
	if m == 2 && IsLeapYear(y) {
		return 29
	}
	return monthDays[m-1]
}

// DaysBeforeMonth returns the number of days in year y that precede the
// first day of month m.
func DaysBeforeMonth(y, m int) int {
	d := cumDays[m]
	if m > 2 && IsLeapYear(y) {
		d++
	}
	return d
}

// DayOfYear returns the 1-based day of year of the given date.
func DayOfYear(y, m, d int) int {
	return DaysBeforeMonth(y, m) + d
}

// OrdinalFromYMD returns the ordinal day of the given proleptic Gregorian
// date. Day 1 is 0001-01-01; dates before that yield zero or negative
// ordinals.
func OrdinalFromYMD(y, m, d int) int64 {
	yy := int64(y) - 1
	n := 365*yy + FloorDiv(yy, 4) - FloorDiv(yy, 100) + FloorDiv(yy, 400)
	return n + int64(DaysBeforeMonth(y, m)) + int64(d)
}

// YMDFromOrdinal is the inverse of OrdinalFromYMD. It decomposes the ordinal
// into 400-year, 100-year, 4-year and 1-year buckets.
func YMDFromOrdinal(ord int64) (y, m, d int) {
	n := ord - 1
	n400 := FloorDiv(n, int64(daysPerCycle))
	n -= n400 * daysPerCycle
	year := n400*400 + 1

	n100 := n / 36524
	n -= n100 * 36524
	n4 := n / 1461
	n -= n4 * 1461
	n1 := n / 365
	n -= n1 * 365
	year += n100*100 + n4*4 + n1
	if n1 == 4 || n100 == 4 {
		// Last day of a leap year at a 4-year or 400-year cycle boundary.
		return int(year - 1), 12, 31
	}

	month := int((n + 50) >> 5)
	pre := int64(DaysBeforeMonth(int(year), month))
	if pre > n {
		month--
		pre -= int64(DaysInMonth(int(year), month))
	}
	return int(year), month, int(n-pre) + 1
}

// DaysFromYMD returns the number of days between the Unix epoch and the
// given date, negative for dates before 1970-01-01. It deliberately uses a
// different decomposition (era / year-of-era / day-of-era, with years
// starting in March) than OrdinalFromYMD so the two can be checked against
// each other.
func DaysFromYMD(y, m, d int) int64 {
	yy := int64(y)
	if m <= 2 {
		yy--
	}
	era := FloorDiv(yy, 400)
	yoe := yy - era*400
	var mp int64
	if m > 2 {
		mp = int64(m) - 3
	} else {
		mp = int64(m) + 9
	}
	doy := (153*mp+2)/5 + int64(d) - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*daysPerCycle + doe - unixDayShift
}

// YMDFromDays is the inverse of DaysFromYMD.
func YMDFromDays(days int64) (y, m, d int) {
	z := days + unixDayShift
	era := FloorDiv(z, int64(daysPerCycle))
	doe := z - era*daysPerCycle
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
	year := yoe + era*400
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153
	day := int(doy - (153*mp+2)/5 + 1)
	month := int(mp)
	if mp < 10 {
		month += 3
	} else {
		month -= 9
	}
	if month <= 2 {
		year++
	}
	return int(year), month, day
}

// Weekday returns the day of week of an ordinal day: 0 is Sunday, 1 is
// Monday, ..., 6 is Saturday. Ordinal day 1 (0001-01-01) is a Monday.
func Weekday(ord int64) int {
	return int(FloorMod(ord, 7))
}

// NthKDay returns the ordinal of the n-th occurrence of weekday k
// (0=Sunday..6=Saturday) counting from the anchor ordinal: for n > 0 the
// n-th such weekday on or after the anchor, for n < 0 the |n|-th such
// weekday on or before it. n = 0 is an error.
func NthKDay(n, k int, anchor int64) (int64, error) {
	if n == 0 {
		return 0, fmt.Errorf("nth weekday: n must not be zero")
	}
	if k < 0 || k > 6 {
		return 0, fmt.Errorf("nth weekday: weekday %d out of range", k)
	}
	if n > 0 {
		fwd := FloorMod(int64(k)-anchor, 7)
		return anchor + fwd + int64(n-1)*7, nil
	}
	back := FloorMod(anchor-int64(k), 7)
	return anchor - back + int64(n+1)*7, nil
}
