// Package container unwraps the on-disk packaging around a capture. Logs
// arrive bare, zipped (the common case for uploads) or gzipped, and the
// compression is detected from content, not the file name, since renamed
// files are everywhere in practice.
package container

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrEmptyArchive is returned for a zip container with no file entries.
var ErrEmptyArchive = errors.New("container: archive holds no files")

// magic numbers of the supported containers. An archive with no entries
// starts directly with the end-of-central-directory record.
var (
	zipMagic      = []byte{'P', 'K', 0x03, 0x04}
	zipEmptyMagic = []byte{'P', 'K', 0x05, 0x06}
	gzipMagic     = []byte{0x1F, 0x8B}
)

// Kind identifies the detected packaging.
type Kind uint8

const (
	KindPlain Kind = iota
	KindZip
	KindGzip
)

func (k Kind) String() string {
	switch k {
	case KindZip:
		return "zip"
	case KindGzip:
		return "gzip"
	}
	return "plain"
}

// Detect sniffs the container kind from the first bytes of the data.
func Detect(data []byte) Kind {
	switch {
	case bytes.HasPrefix(data, zipMagic), bytes.HasPrefix(data, zipEmptyMagic):
		return KindZip
	case bytes.HasPrefix(data, gzipMagic):
		return KindGzip
	}
	return KindPlain
}

// Unwrap returns the raw capture bytes inside the container. Plain data
// passes through untouched. For zip archives the first file entry is the
// capture; the uploaders never pack more than one.
func Unwrap(data []byte) ([]byte, error) {
	switch Detect(data) {
	case KindZip:
		return unzip(data)
	case KindGzip:
		return gunzip(data)
	}
	return data, nil
}

// ReadFile reads a capture file and unwraps its container.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	out, err := Unwrap(data)
	if err != nil {
		return nil, fmt.Errorf("unwrapping %s: %w", path, err)
	}
	return out, nil
}

func unzip(data []byte) ([]byte, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("container: opening zip: %w", err)
	}
	if len(r.File) == 0 {
		return nil, ErrEmptyArchive
	}
	f, err := r.File[0].Open()
	if err != nil {
		return nil, fmt.Errorf("container: opening zip entry %s: %w", r.File[0].Name, err)
	}
	defer f.Close()
	out, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("container: reading zip entry %s: %w", r.File[0].Name, err)
	}
	return out, nil
}

func gunzip(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("container: opening gzip: %w", err)
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("container: reading gzip: %w", err)
	}
	return out, nil
}

// IsLogFile reports whether the file name looks like a capture, packed or
// not. Used by directory scans to skip unrelated files.
func IsLogFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".evtc", ".zevtc":
		return true
	}
	// Double extensions like .evtc.zip or .evtc.gz.
	lower := strings.ToLower(path)
	return strings.Contains(lower, ".evtc.")
}
