package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/samcharles93/peaktable/internal/logger"
	"github.com/tidwall/gjson"
)

// Client runs searches against the remote service. A Client holds session
// state and is not safe for concurrent use.
type Client struct {
	cfg     Config
	http    *http.Client
	log     logger.Logger
	cookies string
}

// NewClient validates cfg and returns a client. A nil log discards output.
func NewClient(cfg Config, log logger.Logger) (*Client, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Timeout: cfg.Timeout,
			// The login form answers with a redirect that carries the session
			// cookie; it must be seen, not followed.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		log:     log.With("component", "fetch"),
		cookies: cfg.SessionToken,
	}, nil
}

// Authenticated reports whether the client holds a session.
func (c *Client) Authenticated() bool {
	return c.cookies != ""
}

// Authenticate logs in with the configured credentials and keeps the session
// cookies for later searches.
func (c *Client) Authenticate(ctx context.Context) error {
	if c.cfg.Username == "" || c.cfg.Password == "" {
		return fmt.Errorf("%w: credentials not configured", ErrAuthentication)
	}
	form := url.Values{
		"user":         {c.cfg.Username},
		"password":     {c.cfg.Password},
		"preventSaml2": {"true"},
	}
	c.log.Info("authenticating", "user", c.cfg.Username)

	resp, err := c.postForm(ctx, c.cfg.LoginPath, form)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAuthentication, err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusFound {
		return &StatusError{Op: "login", StatusCode: resp.StatusCode, Err: ErrAuthentication}
	}
	parts := make([]string, 0, len(resp.Cookies()))
	for _, ck := range resp.Cookies() {
		parts = append(parts, ck.Name+"="+ck.Value)
	}
	if len(parts) == 0 {
		return fmt.Errorf("%w: no session cookies returned", ErrAuthentication)
	}
	c.cookies = strings.Join(parts, "; ")
	c.log.Info("authenticated", "cookies", len(parts))
	return nil
}

// Search runs the configured query and returns the response body unchanged.
// It logs in first if the client has no session. The body must be
// well-formed JSON; its structure is not checked.
func (c *Client) Search(ctx context.Context) ([]byte, error) {
	if !c.Authenticated() {
		if err := c.Authenticate(ctx); err != nil {
			return nil, err
		}
	}

	form := SearchForm(c.cfg.Table, c.cfg.Format, c.cfg.Criteria)
	c.log.Debug("search", "table", c.cfg.Table, "criteria", len(c.cfg.Criteria))

	resp, err := c.postForm(ctx, c.cfg.SearchPath, form)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQuery, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Op: "search", StatusCode: resp.StatusCode, Err: ErrQuery}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.cfg.MaxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrQuery, err)
	}
	if int64(len(body)) > c.cfg.MaxBodyBytes {
		return nil, fmt.Errorf("%w: response larger than %d bytes", ErrQuery, c.cfg.MaxBodyBytes)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: invalid JSON response", ErrQuery)
	}
	return body, nil
}

// SearchForm builds the form fields of a search. Criteria are numbered in
// order and joined with AND.
func SearchForm(table, format string, criteria []Criterion) url.Values {
	form := url.Values{
		"table":  {table},
		"format": {format},
	}
	refs := make([]string, len(criteria))
	for i, crit := range criteria {
		n := strconv.Itoa(i)
		refs[i] = "[" + n + "]"
		form.Set("crit"+n, crit.Key)
		form.Set("val"+n, crit.Value)
	}
	form.Set("query", strings.Join(refs, "+AND+"))
	return form
}

// CountResults returns the number of elements when body is a JSON array.
func CountResults(body []byte) (int, bool) {
	res := gjson.ParseBytes(body)
	if !res.IsArray() {
		return 0, false
	}
	return len(res.Array()), true
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	if c.cookies != "" {
		req.Header.Set("Cookie", c.cookies)
	}
	return c.http.Do(req)
}
