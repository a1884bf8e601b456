package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client is the storefront backend client. All SDK packages go through it
// so the token header, timeout and error taxonomy live in one place.
type Client struct {
	baseURL string
	http    *http.Client
	// token returns the active auth token, or "" when unauthenticated.
	// Injected by the session manager so the client stays stateless.
	token func() string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		token:   func() string { return "" },
	}
}

// SetTokenSource installs the function consulted for the Authorization header.
func (c *Client) SetTokenSource(fn func() string) {
	if fn != nil {
		c.token = fn
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Do issues a request and returns the status code plus raw body. A
// transport failure comes back as *NetworkError; non-2xx statuses are
// returned to the caller, which decides how to surface them (the session
// manager raises, the cart reconciler falls back).
func (c *Client) Do(ctx context.Context, method, path string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Token "+tok)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return 0, nil, &NetworkError{Err: err}
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return res.StatusCode, nil, &NetworkError{Err: err}
	}
	return res.StatusCode, raw, nil
}

// Get is shorthand for Do with GET and no body.
func (c *Client) Get(ctx context.Context, path string) (int, []byte, error) {
	return c.Do(ctx, http.MethodGet, path, nil)
}

// Success reports whether an HTTP status is in the 2xx range.
func Success(status int) bool { return status >= 200 && status < 300 }

// ErrorMessage pulls the backend-provided message out of an error body,
// accepting both {message} and DRF-style {detail} payloads.
func ErrorMessage(raw []byte, fallback string) string {
	var body struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Detail != "" {
			return body.Detail
		}
	}
	return fallback
}
