// Package tzif reads and writes the TZif binary file format defined by
// RFC 8536 and tzfile(5), versions 1 through 4.
// https://datatracker.ietf.org/doc/html/rfc8536
package tzif

import (
	"encoding/binary"
	"fmt"
)

// All multi-octet integer values are stored in network octet order with
// two's complement signed representation.
var order = binary.BigEndian

// Magic is the four-octet ASCII sequence "TZif" identifying the file
// format.
var Magic = [4]byte{'T', 'Z', 'i', 'f'}

// Version identifies the version of a TZif file. In V1, time values are
// four octets; from V2 upwards they are eight octets, the file carries a
// second data block with the wide times, and a footer holds a POSIX TZ
// string extrapolating beyond the last transition.
type Version byte

const (
	// V1 files contain only the version 1 header and data block.
	V1 Version = 0x00
	// V2 files additionally contain a version 2+ header, data block and
	// footer; the footer TZ string follows POSIX TZ grammar.
	V2 Version = 0x32 // '2'
	// V3 files are V2 files whose footer may use the extended TZ grammar
	// of RFC 8536 section 3.3.1 (sub-day and beyond-24h rule times).
	V3 Version = 0x33 // '3'
	// V4 is not in RFC 8536 but is specified by tzfile(5): the first leap
	// second record may carry a correction other than ±1 to represent
	// truncation, and a repeated final correction marks expiration of the
	// leap second table.
	V4 Version = 0x34 // '4'
)

func (v Version) String() string {
	switch v {
	case V1:
		return "V1 (0x00)"
	case V2:
		return "V2 (0x32)"
	case V3:
		return "V3 (0x33)"
	case V4:
		return "V4 (0x34)"
	default:
		return fmt.Sprintf("<undefined version (%d)>", v)
	}
}

// header is the fixed-size on-disk header: magic and version followed by
// fifteen reserved octets and six four-octet unsigned counts (isutcnt,
// isstdcnt, leapcnt, timecnt, typecnt, charcnt). It exists only during
// encoding and decoding; Data carries slices whose lengths replace the
// counts.
type header struct {
	Version  Version
	Reserved [15]byte
	Isutcnt  uint32
	Isstdcnt uint32
	Leapcnt  uint32
	Timecnt  uint32
	Typecnt  uint32
	Charcnt  uint32
}

// LocalTimeType is one local time type record: the number of seconds to
// add to UT to determine local time, the DST flag, and the index of the
// type's designation in the designation buffer. Abbrev is the resolved
// NUL-terminated string at that index, filled in during decoding.
type LocalTimeType struct {
	UTOff  int32
	DST    bool
	Index  uint8
	Abbrev string
}

// LeapSecond is one leap-second record: the occurrence time as a UNIX
// leap time value and the cumulative UTC-to-TAI correction in effect on
// or after it.
type LeapSecond struct {
	Occur int64
	Corr  int32
}

// Block is one TZif data block. The on-disk width of transition and
// leap-second occurrence times (four or eight octets) is a property of
// the surrounding file section, not of the block value: both widths
// decode into the same representation.
type Block struct {
	// TransitionTimes is sorted in strictly ascending order; each value
	// is an instant at which the rules for computing local time change.
	TransitionTimes []int64

	// TransitionTypes holds, per transition, a zero-based index into
	// Types.
	TransitionTypes []uint8

	// Types are the local time type records. It must not be empty.
	Types []LocalTimeType

	// Designations is the raw buffer of NUL-terminated zone abbreviation
	// strings indexed by LocalTimeType.Index. Two designations may
	// overlap when one is a suffix of the other.
	Designations []byte

	// LeapSeconds is sorted by occurrence time in strictly ascending
	// order.
	LeapSeconds []LeapSecond

	// StandardIndicators records, per local time type, whether the
	// transition times of that type were specified as standard time
	// rather than wall-clock time. Either empty or one entry per type.
	StandardIndicators []bool

	// UTIndicators records, per local time type, whether the transition
	// times of that type were specified as UT rather than local time.
	// Either empty or one entry per type.
	UTIndicators []bool
}

// Data is a decoded TZif file. V2 and Footer are only meaningful for
// version 2 and later.
type Data struct {
	Version Version
	V1      Block
	V2      Block

	// Footer is the POSIX TZ string from the file footer, empty when the
	// file has none or the footer is blank.
	Footer string
}

// Block returns the data block a resolver should use: the extended
// 64-bit block for version 2 and later, the version 1 block otherwise.
func (d Data) Block() Block {
	if d.Version > V1 {
		return d.V2
	}
	return d.V1
}

// abbrev resolves the NUL-terminated designation starting at idx, or ""
// when idx is out of range or unterminated.
func abbrev(designations []byte, idx uint8) string {
	if int(idx) >= len(designations) {
		return ""
	}
	for i := int(idx); i < len(designations); i++ {
		if designations[i] == 0 {
			return string(designations[int(idx):i])
		}
	}
	return ""
}
