// Package realauth provides an HTTP implementation of the AuthClient port.
package realauth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/acolita/media-login/internal/ports"
)

// Endpoint paths relative to the server base URL.
const (
	AuthPath = "/api/v1/auth/jellyfin"
	MePath   = "/api/v1/auth/me"
)

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 4 << 10

// Client implements ports.AuthClient over HTTP. The session cookie set by
// a successful Authenticate is kept in a cookie jar and sent by CurrentUser.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its Jar is used as-is.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// New returns a client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Jar:     jar,
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Authenticate posts the credentials as JSON.
func (c *Client) Authenticate(ctx context.Context, req ports.AuthRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal auth request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+AuthPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create auth request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// CurrentUser fetches the signed-in user.
func (c *Client) CurrentUser(ctx context.Context) (ports.User, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+MePath, nil)
	if err != nil {
		return ports.User{}, fmt.Errorf("create session request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return ports.User{}, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return ports.User{}, err
	}

	var user ports.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return ports.User{}, fmt.Errorf("decode user: %w", err)
	}
	return user, nil
}

// errorBody is the error shape the server returns.
type errorBody struct {
	Message string `json:"message"`
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var cause error
	var eb errorBody
	if json.Unmarshal(raw, &eb) == nil && eb.Message != "" {
		cause = errors.New(eb.Message)
	}
	return &ports.StatusError{Code: resp.StatusCode, Err: cause}
}

// Ensure Client implements ports.AuthClient.
var _ ports.AuthClient = (*Client)(nil)
