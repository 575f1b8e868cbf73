package civil

import (
	"errors"

	"github.com/ngrash/go-cal/calmath"
)

// ErrZeroInterval is returned by Floor, Ceil and Round when the interval
// has no usable nonzero field.
var ErrZeroInterval = errors.New("interval resolution has no nonzero field")

// roundingEpochOrdinal is the ordinal of 0000-01-01, the fixed anchor for
// day and sub-day flooring. Anchoring at a fixed date keeps e.g. weekly
// buckets stable across calendar years.
const roundingEpochOrdinal int64 = -365

// resolution returns the largest nonzero field of iv as a step count and a
// single-field step interval. Fields are consulted in the order years,
// months, days, hours, minutes, seconds; all smaller fields are ignored
// and a fractional step is truncated to its whole part.
func resolution(iv Interval) (n int64, unitSec int64, step Interval, err error) {
	iv = iv.Normalize()
	switch {
	case iv.Years != 0:
		return int64(iv.Years), 0, Years(iv.Years), nil
	case iv.Months != 0:
		return int64(iv.Months), 0, Months(iv.Months), nil
	case iv.Days != 0:
		return int64(iv.Days), 86400, Days(iv.Days), nil
	case iv.Hours != 0:
		return int64(iv.Hours), 3600, Hours(iv.Hours), nil
	case iv.Minutes != 0:
		return int64(iv.Minutes), 60, Minutes(iv.Minutes), nil
	case iv.Seconds != 0:
		return int64(iv.Seconds), 1, Seconds(iv.Seconds), nil
	}
	return 0, 0, Interval{}, ErrZeroInterval
}

// Floor rounds dt down to the period boundary given by the largest nonzero
// field of iv. Year and month periods are anchored by floor-division on
// the year or month number; day and finer periods are anchored at the
// fixed date 0000-01-01. Fields below the resolution are zeroed. Zone
// fields are copied from dt.
func Floor(dt DateTime, iv Interval) (DateTime, error) {
	f, _, err := floorStep(dt, iv)
	return f, err
}

func floorStep(dt DateTime, iv Interval) (DateTime, Interval, error) {
	n, unitSec, step, err := resolution(iv)
	if err != nil {
		return DateTime{}, Interval{}, err
	}
	if n <= 0 {
		return DateTime{}, Interval{}, ErrZeroInterval
	}

	var out DateTime
	switch {
	case step.Years != 0:
		y := calmath.FloorDiv(int64(dt.Year), n) * n
		out = Date(int(y), 1, 1)
	case step.Months != 0:
		total := int64(dt.Year)*12 + int64(dt.Month) - 1
		total = calmath.FloorDiv(total, n) * n
		y := calmath.FloorDiv(total, 12)
		out = Date(int(y), int(total-y*12)+1, 1)
	case step.Days != 0:
		ord := dt.Ordinal()
		ord = roundingEpochOrdinal + calmath.FloorDiv(ord-roundingEpochOrdinal, n)*n
		y, m, d := calmath.YMDFromOrdinal(ord)
		out = Date(y, m, d)
	default:
		period := n * unitSec
		total := (dt.Ordinal()-roundingEpochOrdinal)*86400 +
			int64(dt.Hour)*3600 + int64(dt.Minute)*60 + int64(dt.Second)
		total = calmath.FloorDiv(total, period) * period
		epochSec := (roundingEpochOrdinal - 1) * 86400
		out = FromTimestamp(Timestamp{Sec: epochSec + total})
	}
	return dt.withDate(out), step, nil
}

// Ceil rounds dt up to the next period boundary, or returns dt unchanged
// if it already lies exactly on one.
func Ceil(dt DateTime, iv Interval) (DateTime, error) {
	f, step, err := floorStep(dt, iv)
	if err != nil {
		return DateTime{}, err
	}
	if f.Compare(dt) == 0 {
		return dt, nil
	}
	return f.AddInterval(step), nil
}

// Round rounds dt to the nearest period boundary, ties going up.
func Round(dt DateTime, iv Interval) (DateTime, error) {
	f, step, err := floorStep(dt, iv)
	if err != nil {
		return DateTime{}, err
	}
	if f.Compare(dt) == 0 {
		return dt, nil
	}
	c := f.AddInterval(step)
	down := dt.Sub(f)
	up := c.Sub(dt)
	if up.Cmp(down) <= 0 {
		return c, nil
	}
	return f, nil
}
