package peaktable

import (
	"bytes"
	"fmt"
	"io"

	"github.com/lunixbochs/struc"
)

// Record is one decoded peak. I is a signed 64-bit integer on disk, not a
// double like the other four fields.
type Record struct {
	X float64 `json:"x" struc:"float64,little"`
	Y float64 `json:"y" struc:"float64,little"`
	Z float64 `json:"z" struc:"float64,little"`
	R float64 `json:"r" struc:"float64,little"`
	I int64   `json:"i" struc:"int64,little"`
}

func decodeRecord(chunk []byte) (Record, error) {
	var rec Record
	if len(chunk) < RecordSize {
		return rec, fmt.Errorf("record needs %d bytes, have %d", RecordSize, len(chunk))
	}
	if err := struc.Unpack(bytes.NewReader(chunk[:RecordSize]), &rec); err != nil {
		return rec, err
	}
	return rec, nil
}

func encodeRecord(w io.Writer, rec Record) error {
	return struc.Pack(w, &rec)
}
