// Package omdb provides a client for the OMDb movie metadata API.
package omdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/cinemetrics/internal/model"
)

// DefaultBaseURL is the public OMDb endpoint.
const DefaultBaseURL = "http://www.omdbapi.com/"

// ErrAbsent is returned when a lookup yields no usable record: a non-200
// status, an undecodable body, a "not found" response or a transport failure.
var ErrAbsent = errors.New("omdb: record absent")

// Client defines the OMDb lookup operations.
type Client interface {
	// Lookup fetches a single movie by exact title.
	Lookup(ctx context.Context, title string) (*model.MovieRecord, error)
}

// Option configures the OMDb client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a new OMDb client. The default HTTP client has no timeout;
// pass WithHTTPClient to bound lookups.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AbsentError describes why a lookup produced no record. It matches ErrAbsent
// under errors.Is.
type AbsentError struct {
	Title      string
	StatusCode int
	Reason     string
	Err        error
}

func (e *AbsentError) Error() string {
	msg := fmt.Sprintf("omdb: %q absent: %s", e.Title, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *AbsentError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrAbsent.
func (e *AbsentError) Is(target error) bool {
	return target == ErrAbsent
}

// IsAbsent returns true if err (or any error in its chain) is an absence signal.
func IsAbsent(err error) bool {
	return errors.Is(err, ErrAbsent)
}

func (c *httpClient) requestURL(title string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", eris.Wrap(err, "omdb: parse base url")
	}
	q := u.Query()
	q.Set("t", title)
	q.Set("apikey", c.apiKey)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *httpClient) Lookup(ctx context.Context, title string) (*model.MovieRecord, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, eris.New("omdb: title is required")
	}

	reqURL, err := c.requestURL(title)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "omdb: create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, eris.Wrap(ctx.Err(), "omdb: lookup cancelled")
		}
		return nil, &AbsentError{Title: title, Reason: "request failed", Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &AbsentError{Title: title, StatusCode: resp.StatusCode, Reason: "read body", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &AbsentError{
			Title:      title,
			StatusCode: resp.StatusCode,
			Reason:     fmt.Sprintf("unexpected status %d", resp.StatusCode),
		}
	}

	var rec model.MovieRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, &AbsentError{Title: title, StatusCode: resp.StatusCode, Reason: "decode response", Err: err}
	}

	if !rec.Found() {
		reason := rec.Error
		if reason == "" {
			reason = fmt.Sprintf("response flag %q", rec.Response)
		}
		return nil, &AbsentError{Title: title, StatusCode: resp.StatusCode, Reason: reason}
	}

	return &rec, nil
}
