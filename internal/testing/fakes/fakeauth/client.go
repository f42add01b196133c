// Package fakeauth provides a controllable fake for ports.AuthClient.
package fakeauth

import (
	"context"
	"sync"

	"github.com/acolita/media-login/internal/ports"
)

// Client is a controllable fake AuthClient for testing.
type Client struct {
	mu sync.Mutex

	// Err is returned by Authenticate.
	Err error
	// OnAuthenticate, when set, runs inside Authenticate before Err is returned.
	OnAuthenticate func(ports.AuthRequest)

	// User and UserErr are returned by CurrentUser.
	User    ports.User
	UserErr error

	requests  []ports.AuthRequest
	ctxErrs   []error
	userCalls int
}

// New returns a fake that accepts every request.
func New() *Client {
	return &Client{}
}

// Authenticate records req and returns Err.
func (c *Client) Authenticate(ctx context.Context, req ports.AuthRequest) error {
	c.mu.Lock()
	c.requests = append(c.requests, req)
	c.ctxErrs = append(c.ctxErrs, ctx.Err())
	hook := c.OnAuthenticate
	err := c.Err
	c.mu.Unlock()

	if hook != nil {
		hook(req)
	}
	return err
}

// CurrentUser returns User and UserErr.
func (c *Client) CurrentUser(ctx context.Context) (ports.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userCalls++
	return c.User, c.UserErr
}

// Requests returns every request received so far.
func (c *Client) Requests() []ports.AuthRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]ports.AuthRequest, len(c.requests))
	copy(out, c.requests)
	return out
}

// ContextErrors returns ctx.Err() as seen by each Authenticate call.
func (c *Client) ContextErrors() []error {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]error, len(c.ctxErrs))
	copy(out, c.ctxErrs)
	return out
}

// UserCalls returns how many times CurrentUser ran.
func (c *Client) UserCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userCalls
}
