package peaktable

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

// EncodeOptions adjusts the file produced by Encode.
type EncodeOptions struct {
	// DeclaredCount overrides the header count. Nil writes len(records).
	DeclaredCount *uint64
	// TrailingBytes appends an incomplete chunk of this many bytes.
	TrailingBytes int
}

// trailingFill marks bytes that no reader should interpret.
const trailingFill = 0xA5

// Encode writes records as a peak table. Padding and reserved chunk bytes are
// zero.
func Encode(w io.Writer, records []Record, opts EncodeOptions) error {
	if opts.TrailingBytes < 0 || opts.TrailingBytes >= ChunkSize {
		return fmt.Errorf("trailing bytes must be in [0, %d), got %d", ChunkSize, opts.TrailingBytes)
	}
	declared := uint64(len(records))
	if opts.DeclaredCount != nil {
		declared = *opts.DeclaredCount
	}

	bw := bufio.NewWriter(w)
	var lead [PaddingSize]byte
	binary.LittleEndian.PutUint64(lead[:HeaderSize], declared)
	if _, err := bw.Write(lead[:]); err != nil {
		return err
	}

	var reserved [reservedSize]byte
	for i, rec := range records {
		if err := encodeRecord(bw, rec); err != nil {
			return fmt.Errorf("encode record %d: %w", i, err)
		}
		if _, err := bw.Write(reserved[:]); err != nil {
			return err
		}
	}

	if opts.TrailingBytes > 0 {
		tail := make([]byte, opts.TrailingBytes)
		for i := range tail {
			tail[i] = trailingFill
		}
		if _, err := bw.Write(tail); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// EncodedSize returns the length Encode produces for n records.
func EncodedSize(n int, opts EncodeOptions) int64 {
	return PaddingSize + int64(n)*ChunkSize + int64(opts.TrailingBytes)
}
