package calmath

import "fmt"

// ISOWeekday returns the ISO 8601 weekday of an ordinal day: 1 is Monday,
// 7 is Sunday.
func ISOWeekday(ord int64) int {
	w := Weekday(ord)
	if w == 0 {
		return 7
	}
	return w
}

// week1Monday returns the ordinal of the Monday starting week 1 of the given
// ISO year. Week 1 is the week containing the year's first Thursday, which
// is also the week containing January 4th.
func week1Monday(year int) int64 {
	jan4 := OrdinalFromYMD(year, 1, 4)
	return jan4 - int64(ISOWeekday(jan4)-1)
}

// ISOWeekFromOrdinal returns the ISO week date of an ordinal day. The ISO
// year may differ from the Gregorian year for days close to January 1st.
func ISOWeekFromOrdinal(ord int64) (year, week, weekday int) {
	y, _, _ := YMDFromOrdinal(ord)
	start := week1Monday(y)
	if ord < start {
		y--
		start = week1Monday(y)
	} else if next := week1Monday(y + 1); ord >= next {
		y++
		start = next
	}
	return y, int((ord-start)/7) + 1, ISOWeekday(ord)
}

// OrdinalFromISOWeek returns the ordinal day of an ISO week date.
// The week must be in 1..53 and the weekday in 1..7.
func OrdinalFromISOWeek(year, week, weekday int) (int64, error) {
	if week < 1 || week > 53 {
		return 0, fmt.Errorf("iso week %d out of range", week)
	}
	if weekday < 1 || weekday > 7 {
		return 0, fmt.Errorf("iso weekday %d out of range", weekday)
	}
	return week1Monday(year) + int64(week-1)*7 + int64(weekday-1), nil
}
