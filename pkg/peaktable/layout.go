package peaktable

import "fmt"

// Layout is the size analysis of a peak table, computed from its length
// alone.
type Layout struct {
	FileSize      int64 `json:"file_size"`
	PaddingSize   int64 `json:"padding_size"`
	DataSize      int64 `json:"data_size"`
	ChunkCount    int64 `json:"chunk_count"`
	TrailingBytes int64 `json:"trailing_bytes"`
}

// Analyze splits a source of totalLength bytes into the padding region, the
// complete chunks and any trailing partial chunk.
func Analyze(totalLength int64) (Layout, error) {
	dataSize := totalLength - PaddingSize
	if dataSize < 0 {
		return Layout{}, &FormatError{Op: "analyze size", Offset: PaddingSize, Got: totalLength, Err: ErrMalformedFile}
	}
	return Layout{
		FileSize:      totalLength,
		PaddingSize:   PaddingSize,
		DataSize:      dataSize,
		ChunkCount:    dataSize / ChunkSize,
		TrailingBytes: dataSize % ChunkSize,
	}, nil
}

// Expected returns how many records a parser should decode from this layout
// given the header count.
func (l Layout) Expected(declared uint64) int64 {
	if declared < uint64(l.ChunkCount) {
		return int64(declared)
	}
	return l.ChunkCount
}

// Check cross-references the layout with a parsed table and describes every
// disagreement the table's own Warnings do not already cover. A nil result
// means the header, the file size and the parse all agree.
func (l Layout) Check(t *Table) []string {
	var out []string
	truncated := t != nil && t.Truncated
	if l.TrailingBytes > 0 && !truncated {
		out = append(out, fmt.Sprintf("%d trailing bytes after the last complete chunk", l.TrailingBytes))
	}
	if t == nil {
		return out
	}
	switch {
	case t.Declared > uint64(l.ChunkCount) && !truncated:
		out = append(out, fmt.Sprintf("header declares %d records but only %d complete chunks are present", t.Declared, l.ChunkCount))
	case t.Declared < uint64(l.ChunkCount):
		out = append(out, fmt.Sprintf("header declares %d records; %d complete chunks are ignored", t.Declared, uint64(l.ChunkCount)-t.Declared))
	}
	if want := l.Expected(t.Declared); int64(t.Len()) != want {
		out = append(out, fmt.Sprintf("decoded %d records, size analysis expects %d", t.Len(), want))
	}
	return out
}
