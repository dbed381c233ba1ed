package container

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

var capture = []byte("EVTC20200101 pretend payload")

func zipped(t *testing.T, name string, payload []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create(name)
	if err != nil {
		t.Fatalf("zip create failed: %v", err)
	}
	if _, err := f.Write(payload); err != nil {
		t.Fatalf("zip write failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("zip close failed: %v", err)
	}
	return buf.Bytes()
}

func emptyZip(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := zip.NewWriter(&buf).Close(); err != nil {
		t.Fatalf("zip close failed: %v", err)
	}
	return buf.Bytes()
}

func gzipped(t *testing.T, payload []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(payload); err != nil {
		t.Fatalf("gzip write failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("gzip close failed: %v", err)
	}
	return buf.Bytes()
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Kind
	}{
		{"plain", capture, KindPlain},
		{"zip", zipped(t, "log.evtc", capture), KindZip},
		{"zip without entries", emptyZip(t), KindZip},
		{"gzip", gzipped(t, capture), KindGzip},
		{"empty", nil, KindPlain},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.data); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"plain passthrough", capture},
		{"zip", zipped(t, "log.evtc", capture)},
		{"gzip", gzipped(t, capture)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Unwrap(tt.data)
			if err != nil {
				t.Fatalf("Unwrap failed: %v", err)
			}
			if !bytes.Equal(got, capture) {
				t.Errorf("Payload mismatch: %q", got)
			}
		})
	}
}

func TestUnwrap_EmptyZip(t *testing.T) {
	_, err := Unwrap(emptyZip(t))
	if !errors.Is(err, ErrEmptyArchive) {
		t.Fatalf("Expected ErrEmptyArchive, got %v", err)
	}
}

func TestUnwrap_CorruptGzip(t *testing.T) {
	data := append([]byte{0x1F, 0x8B}, []byte("not actually gzip")...)
	if _, err := Unwrap(data); err == nil {
		t.Fatal("Expected an error for a corrupt gzip stream")
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.zevtc")
	if err := os.WriteFile(path, zipped(t, "inner.evtc", capture), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !bytes.Equal(got, capture) {
		t.Errorf("Payload mismatch: %q", got)
	}

	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.evtc")); err == nil {
		t.Fatal("Expected an error for a missing file")
	}
}

func TestIsLogFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"20200101-120000.evtc", true},
		{"20200101-120000.zevtc", true},
		{"20200101-120000.EVTC", true},
		{"upload.evtc.zip", true},
		{"upload.evtc.gz", true},
		{"notes.txt", false},
		{"evtc", false},
		{"archive.zip", false},
	}
	for _, tt := range tests {
		if got := IsLogFile(tt.path); got != tt.want {
			t.Errorf("IsLogFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
