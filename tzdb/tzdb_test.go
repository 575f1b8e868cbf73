package tzdb

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"

	"github.com/ngrash/go-cal/civil"
	"github.com/ngrash/go-cal/tzif"
)

// easternTZif encodes a small version 2 zone file for US eastern time.
func easternTZif(t *testing.T) []byte {
	t.Helper()
	block := tzif.Block{
		TransitionTimes: []int64{1489302000, 1509861600},
		TransitionTypes: []uint8{1, 0},
		Types: []tzif.LocalTimeType{
			{UTOff: -18000, DST: false, Index: 0, Abbrev: "EST"},
			{UTOff: -14400, DST: true, Index: 4, Abbrev: "EDT"},
		},
		Designations: []byte("EST\x00EDT\x00"),
	}
	d := tzif.Data{Version: tzif.V2, V1: block, V2: block, Footer: "EST5EDT,M3.2.0,M11.1.0"}
	var buf bytes.Buffer
	if err := d.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func checkEastern(t *testing.T, zi civil.ZoneInfo, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
	if !zi.IsDST || zi.Abbrev != "EDT" || zi.OffsetSeconds != 14400 {
		t.Errorf("resolved %+v, want EDT", zi)
	}
}

func TestLoadFromMap(t *testing.T) {
	src := MapSource{"America/New_York": easternTZif(t)}
	h, err := Load("America/New_York", src)
	if err != nil {
		t.Fatal(err)
	}
	zi, err := h.Resolve(1489302000, true, false)
	checkEastern(t, zi, err)
}

func TestLoadTriesSourcesInOrder(t *testing.T) {
	empty := MapSource{}
	src := MapSource{"America/New_York": easternTZif(t)}
	if _, err := Load("America/New_York", empty, src); err != nil {
		t.Fatal(err)
	}
}

func TestLoadZoneNotFound(t *testing.T) {
	_, err := Load("Mars/Olympus_Mons", MapSource{})
	if !errors.Is(err, ErrZoneNotFound) {
		t.Errorf("Load = %v, want ErrZoneNotFound", err)
	}
}

func TestLoadRejectsBadNames(t *testing.T) {
	src := MapSource{}
	for _, name := range []string{"", "/etc/localtime", "../secrets", "a//b", "America/..", `a\b`} {
		if _, err := Load(name, src); err == nil || errors.Is(err, ErrZoneNotFound) {
			t.Errorf("Load(%q) = %v, want a name validation error", name, err)
		}
	}
}

func TestLoadRejectsCorruptZone(t *testing.T) {
	src := MapSource{"Bad/Zone": []byte("definitely not TZif")}
	if _, err := Load("Bad/Zone", src); err == nil {
		t.Error("want error for corrupt zone data, got nil")
	}
}

func TestZipSource(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("America/New_York")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Write(easternTZif(t)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	src, err := NewZipSource(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatal(err)
	}
	h, err := Load("America/New_York", src)
	if err != nil {
		t.Fatal(err)
	}
	zi, err := h.Resolve(1489302000, true, false)
	checkEastern(t, zi, err)

	if _, err := Load("Europe/Berlin", src); !errors.Is(err, ErrZoneNotFound) {
		t.Errorf("Load = %v, want ErrZoneNotFound", err)
	}
}

func TestTarGzSource(t *testing.T) {
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)
	data := easternTZif(t)
	if err := tw.WriteHeader(&tar.Header{
		Name: "./America/New_York", Mode: 0o644, Size: int64(len(data)), Typeflag: tar.TypeReg,
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := tw.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gw.Close(); err != nil {
		t.Fatal(err)
	}

	src, err := NewTarGzSource(&buf)
	if err != nil {
		t.Fatal(err)
	}
	h, err := Load("America/New_York", src)
	if err != nil {
		t.Fatal(err)
	}
	zi, err := h.Resolve(1489302000, true, false)
	checkEastern(t, zi, err)
}

func TestLoadTZ(t *testing.T) {
	h, err := LoadTZ("EST5EDT,M3.2.0,M11.1.0")
	if err != nil {
		t.Fatal(err)
	}
	zi, err := h.Resolve(1489302000, true, false)
	checkEastern(t, zi, err)

	if _, err := LoadTZ("E5"); err == nil {
		t.Error("want error for malformed TZ string, got nil")
	}
}

func TestLoadOrUTC(t *testing.T) {
	var warn strings.Builder
	h := LoadOrUTC("Mars/Olympus_Mons", &warn, MapSource{})
	zi, err := h.Resolve(0, true, false)
	if err != nil {
		t.Fatal(err)
	}
	if zi.OffsetSeconds != 0 || zi.Abbrev != "UTC" {
		t.Errorf("fallback handle resolved %+v, want UTC", zi)
	}
	if !strings.Contains(warn.String(), "Mars/Olympus_Mons") {
		t.Errorf("warning %q does not name the missing zone", warn.String())
	}

	warn.Reset()
	h = LoadOrUTC("America/New_York", &warn, MapSource{"America/New_York": easternTZif(t)})
	zi, err = h.Resolve(1489302000, true, false)
	checkEastern(t, zi, err)
	if warn.Len() != 0 {
		t.Errorf("unexpected warning on success: %q", warn.String())
	}
}
