package tzone

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ngrash/go-cal/civil"
	"github.com/ngrash/go-cal/tzif"
	"github.com/ngrash/go-cal/tzposix"
)

var (
	est = civil.ZoneInfo{OffsetSeconds: 18000, Abbrev: "EST"}
	edt = civil.ZoneInfo{OffsetSeconds: 14400, IsDST: true, Abbrev: "EDT"}
)

// easternData covers the 2017 and early 2018 US eastern transitions and
// carries the usual footer rule for extrapolation.
func easternData() tzif.Data {
	block := tzif.Block{
		TransitionTimes: []int64{
			1489302000, // 2017-03-12 07:00Z, to EDT
			1509861600, // 2017-11-05 06:00Z, to EST
			1520751600, // 2018-03-11 07:00Z, to EDT
		},
		TransitionTypes: []uint8{1, 0, 1},
		Types: []tzif.LocalTimeType{
			{UTOff: -18000, DST: false, Index: 0, Abbrev: "EST"},
			{UTOff: -14400, DST: true, Index: 4, Abbrev: "EDT"},
		},
		Designations: []byte("EST\x00EDT\x00"),
	}
	return tzif.Data{Version: tzif.V2, V1: block, V2: block, Footer: "EST5EDT,M3.2.0,M11.1.0"}
}

func easternHandle(t *testing.T) *Handle {
	t.Helper()
	h, err := NewOlson(easternData())
	if err != nil {
		t.Fatal(err)
	}
	return h
}

func TestResolveUTC(t *testing.T) {
	h := easternHandle(t)
	cases := []struct {
		name string
		sec  int64
		want civil.ZoneInfo
	}{
		{"before recorded history", 1489301999, est},
		{"at spring transition", 1489302000, edt},
		{"midsummer", 1500076800, edt},
		{"at fall transition", 1509861600, est},
		{"midwinter", 1514764800, est},
		{"footer extrapolation summer 2050", 2540246400, edt},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			zi, err := h.Resolve(c.sec, true, false)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(c.want, zi); diff != "" {
				t.Errorf("Resolve(%d) mismatch (-want +got):\n%s", c.sec, diff)
			}
		})
	}
}

func TestResolveLocal(t *testing.T) {
	h := easternHandle(t)

	// A winter wall reading has exactly one viable offset.
	zi, err := h.Resolve(1484438400, false, false) // 2017-01-15 00:00 wall
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(est, zi); diff != "" {
		t.Errorf("winter reading mismatch (-want +got):\n%s", diff)
	}

	// 2017-03-12 02:30 wall was skipped by the spring-forward jump.
	if _, err := h.Resolve(1489285800, false, false); !errors.Is(err, civil.ErrNonexistentTime) {
		t.Errorf("gap reading = %v, want ErrNonexistentTime", err)
	}

	// 2017-11-05 01:30 wall happened twice.
	if _, err := h.Resolve(1509845400, false, false); !errors.Is(err, civil.ErrAmbiguousTime) {
		t.Errorf("overlap reading = %v, want ErrAmbiguousTime", err)
	}
	zi, err = h.Resolve(1509845400, false, true)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(edt, zi); diff != "" {
		t.Errorf("overlap with preferDST mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveLocalAtFooterSeam(t *testing.T) {
	// The recorded history ends exactly at the 2017 fall-back, so the
	// standard candidate of the overlapped hour is answered by the footer
	// while the DST candidate is answered by the table. Both must survive
	// for the reading to come out ambiguous.
	d := easternData()
	d.V2.TransitionTimes = d.V2.TransitionTimes[:2]
	d.V2.TransitionTypes = d.V2.TransitionTypes[:2]
	h, err := NewOlson(d)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := h.Resolve(1509845400, false, false); !errors.Is(err, civil.ErrAmbiguousTime) {
		t.Errorf("overlap reading at seam = %v, want ErrAmbiguousTime", err)
	}
	zi, err := h.Resolve(1509845400, false, true)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(edt, zi); diff != "" {
		t.Errorf("seam overlap with preferDST mismatch (-want +got):\n%s", diff)
	}
}

func TestLookupFooterBoundary(t *testing.T) {
	// The instant exactly at the last transition belongs to the recorded
	// type; the footer extrapolates only strictly beyond it. The footer
	// here deliberately disagrees with the table to pin the boundary down.
	d := easternData()
	d.Footer = "XST4"
	h, err := NewOlson(d)
	if err != nil {
		t.Fatal(err)
	}
	last := d.V2.TransitionTimes[len(d.V2.TransitionTimes)-1]

	zi, err := h.Resolve(last, true, false)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(edt, zi); diff != "" {
		t.Errorf("at last transition mismatch (-want +got):\n%s", diff)
	}

	zi, err = h.Resolve(last+1, true, false)
	if err != nil {
		t.Fatal(err)
	}
	want := civil.ZoneInfo{OffsetSeconds: 14400, Abbrev: "XST"}
	if diff := cmp.Diff(want, zi); diff != "" {
		t.Errorf("past last transition mismatch (-want +got):\n%s", diff)
	}
}

func TestNewOlsonRejectsBadFooter(t *testing.T) {
	d := easternData()
	d.Footer = "not a tz string"
	if _, err := NewOlson(d); err == nil {
		t.Error("want error for malformed footer, got nil")
	}
}

func TestNewOlsonRejectsEmptyTypeTable(t *testing.T) {
	d := tzif.Data{Version: tzif.V1}
	if _, err := NewOlson(d); err == nil {
		t.Error("want error for missing local time types, got nil")
	}
}

func TestPosixHandle(t *testing.T) {
	rs, err := tzposix.Parse("EST5EDT,M3.2.0,M11.1.0")
	if err != nil {
		t.Fatal(err)
	}
	h := NewPosix(rs)
	zi, err := h.Resolve(1489302000, true, false)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(edt, zi); diff != "" {
		t.Errorf("Resolve mismatch (-want +got):\n%s", diff)
	}
}

func TestUTCHandle(t *testing.T) {
	h := UTC()
	zi, err := h.Resolve(1489302000, false, false)
	if err != nil {
		t.Fatal(err)
	}
	want := civil.ZoneInfo{Abbrev: "UTC"}
	if diff := cmp.Diff(want, zi); diff != "" {
		t.Errorf("Resolve mismatch (-want +got):\n%s", diff)
	}
}

func TestInConversion(t *testing.T) {
	h := easternHandle(t)
	dt := civil.FromUnix(1489302000, 0) // 2017-03-12 07:00Z
	local, err := dt.In(h)
	if err != nil {
		t.Fatal(err)
	}
	want := civil.DateTime{
		Year: 2017, Month: 3, Day: 12, Hour: 3,
		UTCOffset: 14400, IsDST: true, OffsetKnown: true, Abbrev: "EDT",
	}
	if diff := cmp.Diff(want, local); diff != "" {
		t.Errorf("In mismatch (-want +got):\n%s", diff)
	}
}

func leapHandle(t *testing.T) *Handle {
	t.Helper()
	d := easternData()
	d.V2.LeapSeconds = []tzif.LeapSecond{
		{Occur: 78796800, Corr: 1}, // 1972-06-30 23:59:60
		{Occur: 94694401, Corr: 2}, // 1972-12-31 23:59:60
	}
	h, err := NewOlson(d)
	if err != nil {
		t.Fatal(err)
	}
	return h
}

func TestLeapCorrection(t *testing.T) {
	h := leapHandle(t)
	cases := []struct {
		sec    int64
		corr   int32
		onLeap bool
	}{
		{78796799, 0, false},
		{78796800, 1, true},
		{78796801, 1, false},
		{94694401, 2, true},
		{94694402, 2, false},
	}
	for _, c := range cases {
		corr, onLeap := h.LeapCorrection(c.sec)
		if corr != c.corr || onLeap != c.onLeap {
			t.Errorf("LeapCorrection(%d) = (%d, %t), want (%d, %t)", c.sec, corr, onLeap, c.corr, c.onLeap)
		}
	}
}

func TestDateTimeAt(t *testing.T) {
	h := leapHandle(t)

	got := h.DateTimeAt(78796800, 0)
	want := civil.DateTime{Year: 1972, Month: 6, Day: 30, Hour: 23, Minute: 59, Second: 60, OffsetKnown: true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("leap second render mismatch (-want +got):\n%s", diff)
	}

	got = h.DateTimeAt(78796801, 0)
	want = civil.DateTime{Year: 1972, Month: 7, Day: 1, OffsetKnown: true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("post-leap render mismatch (-want +got):\n%s", diff)
	}
}
