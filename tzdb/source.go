package tzdb

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Source supplies zone files by name. Open returns an error satisfying
// errors.Is(err, fs.ErrNotExist) when the source does not carry the
// name, which makes Load move on to the next source.
type Source interface {
	Open(name string) (io.ReadCloser, error)
}

// DirSource reads zone files from a directory tree laid out like
// /usr/share/zoneinfo, with region subdirectories.
type DirSource string

func (d DirSource) Open(name string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(string(d), filepath.FromSlash(name)))
}

// ZipSource reads zone files from a zoneinfo.zip archive, the layout the
// Go distribution ships in lib/time.
type ZipSource struct {
	zr *zip.Reader
}

// NewZipSource reads the archive directory from r.
func NewZipSource(r io.ReaderAt, size int64) (*ZipSource, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("tzdb: read zip: %w", err)
	}
	return &ZipSource{zr: zr}, nil
}

func (s *ZipSource) Open(name string) (io.ReadCloser, error) {
	f, err := s.zr.Open(name)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// TarGzSource reads zone files from a gzip-compressed tar archive, as in
// the compiled tzdata distributions. The whole archive is unpacked into
// memory when the source is built.
type TarGzSource struct {
	files map[string][]byte
}

// NewTarGzSource unpacks every regular file in the archive.
func NewTarGzSource(r io.Reader) (*TarGzSource, error) {
	gunzip, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("tzdb: read gzip: %w", err)
	}
	tr := tar.NewReader(gunzip)

	files := make(map[string][]byte)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("tzdb: read tar: %w", err)
		}
		if header.Typeflag != tar.TypeReg {
			continue
		}
		data := make([]byte, header.Size)
		if _, err := io.ReadFull(tr, data); err != nil {
			return nil, fmt.Errorf("tzdb: read tar entry %q: %w", header.Name, err)
		}
		files[strings.TrimPrefix(header.Name, "./")] = data
	}
	if err := gunzip.Close(); err != nil {
		return nil, fmt.Errorf("tzdb: close gzip: %w", err)
	}
	return &TarGzSource{files: files}, nil
}

func (s *TarGzSource) Open(name string) (io.ReadCloser, error) {
	data, ok := s.files[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, fs.ErrNotExist)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// MapSource serves zone files from an in-memory map, mainly for tests.
type MapSource map[string][]byte

func (m MapSource) Open(name string) (io.ReadCloser, error) {
	data, ok := m[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, fs.ErrNotExist)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}
