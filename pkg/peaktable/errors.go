package peaktable

import (
	"errors"
	"fmt"
)

var (
	// ErrTruncatedHeader is returned when a source cannot supply the 8-byte
	// record count.
	ErrTruncatedHeader = errors.New("peak table shorter than header")

	// ErrMalformedFile is returned by size analysis when a source is shorter
	// than the fixed leading region.
	ErrMalformedFile = errors.New("peak table shorter than padding region")

	// ErrNoData is returned when statistics or plots are requested for an
	// empty record set.
	ErrNoData = errors.New("no data")
)

// FormatError describes a fatal layout problem at a position in the source.
type FormatError struct {
	Op     string
	Offset int64
	Got    int64
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s at offset %d (%d bytes available): %v", e.Op, e.Offset, e.Got, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}
