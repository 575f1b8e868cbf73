package tzif

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Decode reads a TZif file in one sequential pass. For version 2 and
// later files both data blocks and the footer are read. Decode checks
// only what it needs to make progress; use Validate for the full RFC
// 8536 invariants.
func Decode(r io.Reader) (Data, error) {
	br := bufio.NewReader(r)

	var d Data
	h, err := readHeader(br)
	if err != nil {
		return d, fmt.Errorf("tzif: read v1 header: %w", err)
	}
	d.Version = h.Version

	if d.V1, err = readBlock(br, h, 4); err != nil {
		return d, fmt.Errorf("tzif: read v1 data block: %w", err)
	}
	if d.Version == V1 {
		return d, nil
	}

	h2, err := readHeader(br)
	if err != nil {
		return d, fmt.Errorf("tzif: read v2 header: %w", err)
	}
	if h2.Version != h.Version {
		return d, fmt.Errorf("tzif: inconsistent version: v1 header = %v, v2 header = %v", h.Version, h2.Version)
	}
	if d.V2, err = readBlock(br, h2, 8); err != nil {
		return d, fmt.Errorf("tzif: read v2 data block: %w", err)
	}
	if d.Footer, err = readFooter(br); err != nil {
		return d, fmt.Errorf("tzif: read footer: %w", err)
	}
	return d, nil
}

func readHeader(r io.Reader) (header, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return header{}, fmt.Errorf("reading magic: %w", err)
	}
	if magic != Magic {
		return header{}, fmt.Errorf("invalid magic: %v", magic[:])
	}
	var h header
	if err := binary.Read(r, order, &h); err != nil {
		return header{}, err
	}
	switch h.Version {
	case V1, V2, V3, V4:
	default:
		return header{}, fmt.Errorf("unsupported version octet %#02x", byte(h.Version))
	}
	return h, nil
}

// readBlock reads one data block. timeSize is the width in octets of
// transition and leap-second occurrence times, 4 for the version 1 block
// and 8 for the version 2+ block.
func readBlock(r io.Reader, h header, timeSize int) (Block, error) {
	var b Block
	readTime := func() (int64, error) {
		if timeSize == 4 {
			var v int32
			err := binary.Read(r, order, &v)
			return int64(v), err
		}
		var v int64
		err := binary.Read(r, order, &v)
		return v, err
	}

	if h.Timecnt > 0 {
		b.TransitionTimes = make([]int64, h.Timecnt)
		for i := range b.TransitionTimes {
			v, err := readTime()
			if err != nil {
				return b, fmt.Errorf("reading transition times: %w", err)
			}
			b.TransitionTimes[i] = v
		}
		b.TransitionTypes = make([]uint8, h.Timecnt)
		if _, err := io.ReadFull(r, b.TransitionTypes); err != nil {
			return b, fmt.Errorf("reading transition types: %w", err)
		}
	}
	if h.Typecnt > 0 {
		b.Types = make([]LocalTimeType, h.Typecnt)
		var rec [6]byte
		for i := range b.Types {
			if _, err := io.ReadFull(r, rec[:]); err != nil {
				return b, fmt.Errorf("reading local time type record: %w", err)
			}
			b.Types[i] = LocalTimeType{
				UTOff: int32(order.Uint32(rec[:4])),
				DST:   rec[4] != 0,
				Index: rec[5],
			}
		}
	}
	if h.Charcnt > 0 {
		b.Designations = make([]byte, h.Charcnt)
		if _, err := io.ReadFull(r, b.Designations); err != nil {
			return b, fmt.Errorf("reading time zone designations: %w", err)
		}
	}
	for i := range b.Types {
		b.Types[i].Abbrev = abbrev(b.Designations, b.Types[i].Index)
	}
	if h.Leapcnt > 0 {
		b.LeapSeconds = make([]LeapSecond, h.Leapcnt)
		for i := range b.LeapSeconds {
			occur, err := readTime()
			if err != nil {
				return b, fmt.Errorf("reading leap second record: %w", err)
			}
			var corr int32
			if err := binary.Read(r, order, &corr); err != nil {
				return b, fmt.Errorf("reading leap second record: %w", err)
			}
			b.LeapSeconds[i] = LeapSecond{Occur: occur, Corr: corr}
		}
	}
	var err error
	if b.StandardIndicators, err = readIndicators(r, h.Isstdcnt); err != nil {
		return b, fmt.Errorf("reading standard/wall indicators: %w", err)
	}
	if b.UTIndicators, err = readIndicators(r, h.Isutcnt); err != nil {
		return b, fmt.Errorf("reading UT/local indicators: %w", err)
	}
	return b, nil
}

func readIndicators(r io.Reader, n uint32) ([]bool, error) {
	if n == 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	out := make([]bool, n)
	for i, v := range buf {
		out[i] = v != 0
	}
	return out, nil
}

func readFooter(r *bufio.Reader) (string, error) {
	nl, err := r.ReadByte()
	if err != nil {
		return "", fmt.Errorf("reading newline: %w", err)
	}
	if nl != '\n' {
		return "", fmt.Errorf("expected newline, have %#02x", nl)
	}
	line, err := r.ReadBytes('\n')
	if err != nil {
		return "", fmt.Errorf("reading TZ string: %w", err)
	}
	return string(bytes.TrimSuffix(line, []byte{'\n'})), nil
}

// Encode writes d in TZif format. Header counts are derived from the
// slice lengths. A version 1 file consists of the narrow block only; the
// version 1 block of a version 2+ file must hold times representable in
// 32 bits.
func (d Data) Encode(w io.Writer) error {
	if err := writeHeader(w, d.Version, d.V1); err != nil {
		return fmt.Errorf("tzif: write v1 header: %w", err)
	}
	if err := writeBlock(w, d.V1, 4); err != nil {
		return fmt.Errorf("tzif: write v1 data block: %w", err)
	}
	if d.Version == V1 {
		return nil
	}
	if err := writeHeader(w, d.Version, d.V2); err != nil {
		return fmt.Errorf("tzif: write v2 header: %w", err)
	}
	if err := writeBlock(w, d.V2, 8); err != nil {
		return fmt.Errorf("tzif: write v2 data block: %w", err)
	}
	if _, err := fmt.Fprintf(w, "\n%s\n", d.Footer); err != nil {
		return fmt.Errorf("tzif: write footer: %w", err)
	}
	return nil
}

func writeHeader(w io.Writer, v Version, b Block) error {
	if _, err := w.Write(Magic[:]); err != nil {
		return err
	}
	return binary.Write(w, order, header{
		Version:  v,
		Isutcnt:  uint32(len(b.UTIndicators)),
		Isstdcnt: uint32(len(b.StandardIndicators)),
		Leapcnt:  uint32(len(b.LeapSeconds)),
		Timecnt:  uint32(len(b.TransitionTimes)),
		Typecnt:  uint32(len(b.Types)),
		Charcnt:  uint32(len(b.Designations)),
	})
}

func writeBlock(w io.Writer, b Block, timeSize int) error {
	writeTime := func(v int64) error {
		if timeSize == 4 {
			if v < math.MinInt32 || v > math.MaxInt32 {
				return fmt.Errorf("time value %d does not fit in 32 bits", v)
			}
			return binary.Write(w, order, int32(v))
		}
		return binary.Write(w, order, v)
	}

	for _, t := range b.TransitionTimes {
		if err := writeTime(t); err != nil {
			return fmt.Errorf("writing transition times: %w", err)
		}
	}
	if len(b.TransitionTypes) > 0 {
		if _, err := w.Write(b.TransitionTypes); err != nil {
			return fmt.Errorf("writing transition types: %w", err)
		}
	}
	for _, t := range b.Types {
		var rec [6]byte
		order.PutUint32(rec[:4], uint32(t.UTOff))
		if t.DST {
			rec[4] = 1
		}
		rec[5] = t.Index
		if _, err := w.Write(rec[:]); err != nil {
			return fmt.Errorf("writing local time type record: %w", err)
		}
	}
	if len(b.Designations) > 0 {
		if _, err := w.Write(b.Designations); err != nil {
			return fmt.Errorf("writing time zone designations: %w", err)
		}
	}
	for _, l := range b.LeapSeconds {
		if err := writeTime(l.Occur); err != nil {
			return fmt.Errorf("writing leap second record: %w", err)
		}
		if err := binary.Write(w, order, l.Corr); err != nil {
			return fmt.Errorf("writing leap second record: %w", err)
		}
	}
	if err := writeIndicators(w, b.StandardIndicators); err != nil {
		return fmt.Errorf("writing standard/wall indicators: %w", err)
	}
	if err := writeIndicators(w, b.UTIndicators); err != nil {
		return fmt.Errorf("writing UT/local indicators: %w", err)
	}
	return nil
}

func writeIndicators(w io.Writer, ind []bool) error {
	if len(ind) == 0 {
		return nil
	}
	buf := make([]byte, len(ind))
	for i, v := range ind {
		if v {
			buf[i] = 1
		}
	}
	_, err := w.Write(buf)
	return err
}
