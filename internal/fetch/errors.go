package fetch

import (
	"errors"
	"fmt"
)

var (
	ErrAuthentication = errors.New("authentication failed")
	ErrQuery          = errors.New("search failed")
)

// StatusError is returned when the service answers with an unexpected HTTP
// status.
type StatusError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %v: HTTP %d", e.Op, e.Err, e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}
