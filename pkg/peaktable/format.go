// Package peaktable reads peak-table record files.
//
// A peak table is a flat little-endian file. The first 8 bytes hold the
// number of records the writer intended to store. The first 312 bytes of the
// file (count included) are a fixed leading region; records follow as
// 168-byte chunks, of which only the first 40 bytes are defined.
//
//	offset          size  field
//	0               8     record count (uint64)
//	8               304   reserved
//	312 + 168*n     8     x (float64)
//	+8              8     y (float64)
//	+16             8     z (float64)
//	+24             8     r (float64)
//	+32             8     i (int64)
//	+40             128   reserved
//
// The header count is advisory. Readers decode at most that many records and
// stop quietly at the first chunk the file cannot fully supply.
package peaktable

// Layout constants must never change; there is no version field to select
// another layout.
const (
	// HeaderSize is the size of the record count at the start of the file.
	HeaderSize = 8

	// PaddingSize is the offset of the first chunk. It includes HeaderSize.
	PaddingSize = 312

	// ChunkSize is the on-disk stride of a single record.
	ChunkSize = 168

	// RecordSize is the number of defined bytes at the start of each chunk.
	RecordSize = 40

	reservedSize = ChunkSize - RecordSize
)
