// Package tzdb locates compiled TZif zone files in a set of byte-stream
// sources and builds timezone handles from them. It deliberately has no
// opinion about where the data comes from: a directory tree, a
// zoneinfo.zip archive, a compiled tzdata tarball and an in-memory map
// all satisfy the same Source interface.
package tzdb

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/ngrash/go-cal/tzif"
	"github.com/ngrash/go-cal/tzone"
	"github.com/ngrash/go-cal/tzposix"
)

// ErrZoneNotFound reports that no source carries the requested zone
// name.
var ErrZoneNotFound = errors.New("zone not found")

// validName rejects names that could escape a source's root. Zone names
// use forward slashes regardless of platform.
func validName(name string) error {
	if name == "" {
		return fmt.Errorf("tzdb: empty zone name")
	}
	if strings.HasPrefix(name, "/") || strings.Contains(name, `\`) {
		return fmt.Errorf("tzdb: invalid zone name %q", name)
	}
	for _, part := range strings.Split(name, "/") {
		if part == "" || part == "." || part == ".." {
			return fmt.Errorf("tzdb: invalid zone name %q", name)
		}
	}
	return nil
}

// Load finds the named zone in the given sources, in order, decodes and
// validates the TZif data and builds a handle. A source that does not
// carry the name is skipped; any other source error aborts the search.
// When no source carries the name, the returned error wraps
// ErrZoneNotFound.
func Load(name string, sources ...Source) (*tzone.Handle, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	for _, src := range sources {
		rc, err := src.Open(name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("tzdb: open %q: %w", name, err)
		}
		d, err := tzif.Decode(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("tzdb: zone %q: %w", name, err)
		}
		if err := tzif.Validate(d); err != nil {
			return nil, fmt.Errorf("tzdb: zone %q: %w", name, err)
		}
		h, err := tzone.NewOlson(d)
		if err != nil {
			return nil, fmt.Errorf("tzdb: zone %q: %w", name, err)
		}
		return h, nil
	}
	return nil, fmt.Errorf("tzdb: %q: %w", name, ErrZoneNotFound)
}

// LoadTZ builds a handle from a POSIX TZ string.
func LoadTZ(tz string) (*tzone.Handle, error) {
	rs, err := tzposix.Parse(tz)
	if err != nil {
		return nil, err
	}
	return tzone.NewPosix(rs), nil
}

// LoadOrUTC is the explicit fallback variant of Load: on any failure it
// writes a warning to warn and returns the fixed UTC handle. The
// fallback is always observable through the warning; it never happens
// silently.
func LoadOrUTC(name string, warn io.Writer, sources ...Source) *tzone.Handle {
	h, err := Load(name, sources...)
	if err != nil {
		fmt.Fprintf(warn, "tzdb: using UTC: %v\n", err)
		return tzone.UTC()
	}
	return h
}
