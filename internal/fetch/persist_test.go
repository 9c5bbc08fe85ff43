package fetch

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestPersistRoundTrip(t *testing.T) {
	t.Parallel()

	body := bytes.Repeat([]byte(`{"pk":12345,"name":"sodium chloride"},`), 200)
	tests := []struct {
		file string
		c    Compression
		want Compression
	}{
		{"out.json", CompressionAuto, CompressionNone},
		{"out.json.sz", CompressionAuto, CompressionSnappy},
		{"out.json.lz4", CompressionAuto, CompressionLZ4},
		{"forced.json", CompressionLZ4, CompressionLZ4},
		{"plain.lz4", CompressionNone, CompressionNone},
	}
	for _, tc := range tests {
		dir := t.TempDir()
		path := filepath.Join(dir, "nested", tc.file)
		if got := tc.c.Resolve(path); got != tc.want {
			t.Fatalf("%s: resolve got %q want %q", tc.file, got, tc.want)
		}
		if err := Persist(path, body, tc.c); err != nil {
			t.Fatalf("%s: persist: %v", tc.file, err)
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("%s: read: %v", tc.file, err)
		}
		if (tc.want == CompressionNone) != bytes.Equal(raw, body) {
			t.Fatalf("%s: on-disk bytes verbatim=%v, want verbatim only for none", tc.file, bytes.Equal(raw, body))
		}
		got, err := Load(path, tc.c)
		if err != nil {
			t.Fatalf("%s: load: %v", tc.file, err)
		}
		if !bytes.Equal(got, body) {
			t.Fatalf("%s: round trip mismatch", tc.file)
		}
		ents, err := os.ReadDir(filepath.Dir(path))
		if err != nil {
			t.Fatalf("%s: readdir: %v", tc.file, err)
		}
		if len(ents) != 1 {
			t.Fatalf("%s: staging file left behind: %v", tc.file, ents)
		}
	}
}

func TestParseCompression(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Compression{"": CompressionAuto, "auto": CompressionAuto, "LZ4": CompressionLZ4, "snappy": CompressionSnappy, "none": CompressionNone} {
		got, err := ParseCompression(in)
		if err != nil || got != want {
			t.Fatalf("%q: got %q, %v want %q", in, got, err, want)
		}
	}
	if _, err := ParseCompression("gzip"); err == nil {
		t.Fatalf("expected error for unsupported compression")
	}
}
