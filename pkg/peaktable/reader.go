package peaktable

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// maxPrealloc bounds the capacity reserved from an untrusted header count.
const maxPrealloc = 1 << 16

// Table is the result of scanning a peak table.
type Table struct {
	// Declared is the record count stored in the header.
	Declared uint64
	// Records holds the decoded records in file order.
	Records []Record
	// Truncated reports that the scan stopped at an incomplete chunk before
	// Declared records were read.
	Truncated bool
	// PartialChunkBytes is the number of bytes found in the incomplete chunk.
	PartialChunkBytes int
}

// Len returns the number of decoded records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// Warnings describes recoverable problems found while scanning.
func (t *Table) Warnings() []string {
	if t == nil || !t.Truncated {
		return nil
	}
	next := len(t.Records) + 1
	if t.PartialChunkBytes == 0 {
		return []string{fmt.Sprintf("no chunk present for record %d; read %d of %d declared records",
			next, len(t.Records), t.Declared)}
	}
	return []string{fmt.Sprintf("chunk %d is incomplete (%d of %d bytes); read %d of %d declared records",
		next, t.PartialChunkBytes, ChunkSize, len(t.Records), t.Declared)}
}

// Parse decodes a peak table from r.
//
// The header count is read from offset 0, the cursor is moved to
// PaddingSize and up to Declared chunks are read in order. A chunk the source
// cannot fully supply ends the scan without error. Any other read or seek
// failure aborts the parse and no table is returned.
func Parse(r io.ReadSeeker) (*Table, error) {
	var hdr [HeaderSize]byte
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek to header: %w", err)
	}
	n, err := io.ReadFull(r, hdr[:])
	if err != nil {
		if isShortRead(err) {
			return nil, &FormatError{Op: "read header", Offset: 0, Got: int64(n), Err: ErrTruncatedHeader}
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	declared := binary.LittleEndian.Uint64(hdr[:])

	if _, err := r.Seek(PaddingSize, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek past padding: %w", err)
	}

	t := &Table{
		Declared: declared,
		Records:  make([]Record, 0, min(declared, maxPrealloc)),
	}
	chunk := make([]byte, ChunkSize)
	for i := uint64(0); i < declared; i++ {
		n, err := io.ReadFull(r, chunk)
		if err != nil {
			if isShortRead(err) {
				t.Truncated = true
				t.PartialChunkBytes = n
				break
			}
			return nil, fmt.Errorf("read chunk %d: %w", i, err)
		}
		rec, err := decodeRecord(chunk)
		if err != nil {
			return nil, fmt.Errorf("decode chunk %d: %w", i, err)
		}
		t.Records = append(t.Records, rec)
	}
	return t, nil
}

// ParseBytes decodes a peak table held in memory.
func ParseBytes(data []byte) (*Table, error) {
	return Parse(bytes.NewReader(data))
}

// ParseFile opens, decodes and closes the peak table at path.
func ParseFile(path string) (*Table, error) {
	f, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return f.Table()
}

func isShortRead(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}
