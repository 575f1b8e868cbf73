package tzif

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// rawV1 builds the smallest well-formed version 1 file: one local time
// type, no transitions.
func rawV1(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.Write(Magic[:])
	buf.WriteByte(0x00)         // version
	buf.Write(make([]byte, 15)) // reserved
	for _, cnt := range []uint32{0, 0, 0, 0, 1, 4} { // isutcnt..charcnt
		if err := binary.Write(&buf, order, cnt); err != nil {
			t.Fatal(err)
		}
	}
	buf.Write([]byte{0, 0, 0, 0, 0, 0}) // type record: utoff 0, dst 0, idx 0
	buf.WriteString("UTC\x00")
	return buf.Bytes()
}

func TestDecodeV1(t *testing.T) {
	got, err := Decode(bytes.NewReader(rawV1(t)))
	if err != nil {
		t.Fatal(err)
	}
	want := Data{
		Version: V1,
		V1: Block{
			Types:        []LocalTimeType{{UTOff: 0, DST: false, Index: 0, Abbrev: "UTC"}},
			Designations: []byte("UTC\x00"),
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Decode mismatch (-want +got):\n%s", diff)
	}
	if err := Validate(got); err != nil {
		t.Errorf("Validate = %v, want nil", err)
	}
}

// easternData is a version 2 file for US eastern time around the 2017
// transitions, with the usual footer rule.
func easternData() Data {
	types := []LocalTimeType{
		{UTOff: -18000, DST: false, Index: 0, Abbrev: "EST"},
		{UTOff: -14400, DST: true, Index: 4, Abbrev: "EDT"},
	}
	block := Block{
		TransitionTimes:    []int64{1489302000, 1509861600}, // 2017 spring forward, fall back
		TransitionTypes:    []uint8{1, 0},
		Types:              types,
		Designations:       []byte("EST\x00EDT\x00"),
		LeapSeconds:        []LeapSecond{{Occur: 78796800, Corr: 1}, {Occur: 94694400, Corr: 2}},
		StandardIndicators: []bool{false, false},
		UTIndicators:       []bool{false, false},
	}
	return Data{
		Version: V2,
		V1:      block,
		V2:      block,
		Footer:  "EST5EDT,M3.2.0,M11.1.0",
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	d := easternData()
	var buf bytes.Buffer
	if err := d.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(d, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	if err := Validate(got); err != nil {
		t.Errorf("Validate = %v, want nil", err)
	}
}

func TestBlockSelector(t *testing.T) {
	d := Data{Version: V2}
	d.V1.Designations = []byte("a\x00")
	d.V2.Designations = []byte("b\x00")
	if got := d.Block(); !bytes.Equal(got.Designations, d.V2.Designations) {
		t.Error("version 2 file did not select the extended block")
	}
	d.Version = V1
	if got := d.Block(); !bytes.Equal(got.Designations, d.V1.Designations) {
		t.Error("version 1 file did not select the v1 block")
	}
}

func TestDecodeErrors(t *testing.T) {
	raw := rawV1(t)

	bad := append([]byte{}, raw...)
	copy(bad, "FZif")
	if _, err := Decode(bytes.NewReader(bad)); err == nil {
		t.Error("want error for bad magic, got nil")
	}

	bad = append([]byte{}, raw...)
	bad[4] = 0x39 // '9'
	if _, err := Decode(bytes.NewReader(bad)); err == nil {
		t.Error("want error for undefined version octet, got nil")
	}

	if _, err := Decode(bytes.NewReader(raw[:30])); err == nil {
		t.Error("want error for truncated header, got nil")
	}
	if _, err := Decode(bytes.NewReader(raw[:len(raw)-2])); err == nil {
		t.Error("want error for truncated data block, got nil")
	}
}

func TestEncodeNarrowBlockRejectsWideTimes(t *testing.T) {
	d := easternData()
	d.V1.TransitionTimes[0] = 1 << 40
	var buf bytes.Buffer
	if err := d.Encode(&buf); err == nil {
		t.Error("want error for 64-bit time in the v1 block, got nil")
	}
}

func TestValidateReportsAllViolations(t *testing.T) {
	d := easternData()
	d.V2.TransitionTimes = []int64{100, 100} // not strictly ascending
	d.V2.TransitionTypes = []uint8{1, 9}     // index out of range
	d.V2.Designations = []byte("EST\x00EDT") // missing terminator
	d.V2.StandardIndicators = []bool{true}   // wrong count
	err := Validate(d)
	if err == nil {
		t.Fatal("Validate = nil, want violations")
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		t.Fatalf("Validate error %T does not unwrap to a list", err)
	}
	if n := len(joined.Unwrap()); n != 4 {
		t.Errorf("Validate reported %d violations, want 4: %v", n, err)
	}
}

func TestValidateVersionConsistency(t *testing.T) {
	d := easternData()
	d.Version = V1 // still carries a v2 block and footer
	if err := Validate(d); err == nil {
		t.Fatal("Validate = nil, want violations")
	}
}
