package fetch

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/snappy"
	"github.com/pierrec/lz4/v4"
)

// Compression selects how a persisted document is encoded on disk.
type Compression string

const (
	CompressionAuto   Compression = ""
	CompressionNone   Compression = "none"
	CompressionSnappy Compression = "snappy"
	CompressionLZ4    Compression = "lz4"
)

// ParseCompression parses a compression name. The empty string and "auto"
// select by file extension.
func ParseCompression(s string) (Compression, error) {
	switch c := Compression(strings.ToLower(strings.TrimSpace(s))); c {
	case CompressionAuto, "auto":
		return CompressionAuto, nil
	case CompressionNone, CompressionSnappy, CompressionLZ4:
		return c, nil
	default:
		return "", fmt.Errorf("unknown compression %q (none, snappy, lz4)", s)
	}
}

// Resolve picks the compression for path. Explicit choices win; otherwise
// ".sz" selects snappy and ".lz4" selects lz4.
func (c Compression) Resolve(path string) Compression {
	if c != CompressionAuto {
		return c
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".sz", ".snappy":
		return CompressionSnappy
	case ".lz4":
		return CompressionLZ4
	default:
		return CompressionNone
	}
}

// Persist writes body to path. The data is staged in a temporary file in the
// same directory and renamed into place, so readers never see a partial
// document.
func Persist(path string, body []byte, c Compression) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	w, err := compressor(tmp, c.Resolve(path))
	if err != nil {
		return err
	}
	if _, err = w.Write(body); err != nil {
		return err
	}
	if err = w.Close(); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Load reads a document written by Persist.
func Load(path string, c Compression) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var r io.Reader
	switch c.Resolve(path) {
	case CompressionSnappy:
		r = snappy.NewReader(f)
	case CompressionLZ4:
		r = lz4.NewReader(f)
	default:
		r = f
	}
	return io.ReadAll(r)
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func compressor(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case CompressionNone:
		return nopWriteCloser{w}, nil
	case CompressionSnappy:
		return snappy.NewBufferedWriter(w), nil
	case CompressionLZ4:
		return lz4.NewWriter(w), nil
	default:
		return nil, fmt.Errorf("unknown compression %q", c)
	}
}
