// Package calmath implements the integer and proleptic Gregorian calendar
// arithmetic that the civil time types are built on.
//
// All day counts use the ordinal scale where day 1 is 0001-01-01. A second,
// independent day count relative to the Unix epoch is provided by
// DaysFromYMD and YMDFromDays; the two scales differ by UnixEpochOrdinal-1
// days for every date.
package calmath

import "golang.org/x/exp/constraints"

// FloorDiv divides m by n, rounding the quotient towards negative infinity.
//
// Host integer division truncates towards zero, which is wrong for every
// calendar computation that crosses year 1 or any other period boundary
// with negative operands.
func FloorDiv[T constraints.Signed](m, n T) T {
	q := m / n
	if m%n != 0 && (m < 0) != (n < 0) {
		q--
	}
	return q
}

// FloorMod returns x - FloorDiv(x, y)*y. The result has the sign of y.
func FloorMod[T constraints.Signed](x, y T) T {
	return x - FloorDiv(x, y)*y
}

// TruncDiv divides m by n, rounding the quotient towards zero.
func TruncDiv[T constraints.Signed](m, n T) T {
	return m / n
}

// TruncMod returns the remainder of truncating division. The result has
// the sign of x.
func TruncMod[T constraints.Signed](x, y T) T {
	return x % y
}

// AMod is the adjusted modulo: it maps x into 1..y instead of 0..y-1.
func AMod[T constraints.Signed](x, y T) T {
	return y + FloorMod(x, -y)
}
