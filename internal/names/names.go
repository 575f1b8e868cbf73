// Package names holds the fixed English month and weekday tables shared by
// the string conversion packages, together with the prefix matching used
// when parsing names.
package names

// Months are the full English month names, indexed by month-1.
var Months = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// Weekdays are the full English weekday names, indexed by weekday number
// with 0 = Sunday.
var Weekdays = [7]string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

// Abbrev returns the conventional three-letter abbreviation of a name.
func Abbrev(name string) string {
	return name[:3]
}

// match reports how many characters of s are a case-insensitive prefix of
// name. At least min characters must match; longer matches win so that
// e.g. "June" is not cut short at "Jun".
func match(s, name string, min int) (int, bool) {
	n := 0
	for n < len(s) && n < len(name) {
		if lower(s[n]) != lower(name[n]) {
			break
		}
		n++
	}
	if n < min {
		return 0, false
	}
	return n, true
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}

// MatchMonth matches a month name at the start of s, case-insensitively,
// accepting any prefix of at least three letters. It returns the month
// number and the number of bytes consumed.
func MatchMonth(s string) (month, n int, ok bool) {
	return matchTable(s, Months[:], 1)
}

// MatchWeekday matches a weekday name at the start of s. It returns the
// weekday number (0 = Sunday) and the number of bytes consumed.
func MatchWeekday(s string) (weekday, n int, ok bool) {
	return matchTable(s, Weekdays[:], 0)
}

func matchTable(s string, table []string, base int) (int, int, bool) {
	best, bestN := -1, 0
	for i, name := range table {
		if n, ok := match(s, name, 3); ok && n > bestN {
			best, bestN = i+base, n
		}
	}
	if best < 0 {
		return 0, 0, false
	}
	return best, bestN, true
}
