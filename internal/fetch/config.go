// Package fetch queries a remote search service and stores the JSON it
// returns.
//
// The service is a form-based endpoint: a login form issues a session cookie
// and a search form takes a table name, an output format and a list of
// criteria. The response body is persisted exactly as received.
package fetch

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	DefaultLoginPath  = "/login"
	DefaultSearchPath = "/performSearch"
	DefaultFormat     = "json"
	DefaultTimeout    = 60 * time.Second

	// DefaultMaxBodyBytes bounds how much of a response is read.
	DefaultMaxBodyBytes = 64 << 20
)

// Criterion is one key/value filter of a search. Order is significant: the
// i-th criterion is referenced as [i] in the query expression.
type Criterion struct {
	Key   string
	Value string
}

// ParseCriterion parses "key=value".
func ParseCriterion(s string) (Criterion, error) {
	key, value, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return Criterion{}, fmt.Errorf("invalid criterion %q: want key=value", s)
	}
	return Criterion{Key: key, Value: strings.TrimSpace(value)}, nil
}

// Config describes the remote service and the query to run.
type Config struct {
	BaseURL    string
	LoginPath  string
	SearchPath string

	Username string
	Password string
	// SessionToken is a raw Cookie header value for an existing session.
	// When set, no login is performed.
	SessionToken string

	Table    string
	Format   string
	Criteria []Criterion

	Timeout      time.Duration
	MaxBodyBytes int64
	UserAgent    string
}

func (c Config) withDefaults() Config {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.LoginPath == "" {
		c.LoginPath = DefaultLoginPath
	}
	if c.SearchPath == "" {
		c.SearchPath = DefaultSearchPath
	}
	if c.Format == "" {
		c.Format = DefaultFormat
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return c
}

// Validate reports configuration that can never produce a successful search.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("fetch: base URL is required")
	}
	if c.Table == "" {
		return errors.New("fetch: table is required")
	}
	if c.SessionToken == "" && (c.Username == "" || c.Password == "") {
		return fmt.Errorf("%w: credentials not configured", ErrAuthentication)
	}
	return nil
}
