// Package ports defines interfaces for external dependencies (Ports and Adapters pattern).
package ports

import (
	"context"
	"fmt"
	"net/http"
)

// AuthRequest is the JSON body posted to the media server auth endpoint.
// Hostname and ServerType are only sent during initial setup.
type AuthRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	Hostname   string `json:"hostname,omitempty"`
	Email      string `json:"email"`
	ServerType int    `json:"serverType,omitempty"`
}

// User is the account reported by the session check.
type User struct {
	ID          int    `json:"id"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

// AuthClient abstracts the authentication transport.
type AuthClient interface {
	// Authenticate submits credentials. A non-2xx response is reported as
	// a *StatusError; transport failures are returned unchanged.
	Authenticate(ctx context.Context, req AuthRequest) error

	// CurrentUser returns the signed-in user, or a *StatusError with
	// http.StatusUnauthorized (or 403) when no session exists.
	CurrentUser(ctx context.Context) (User, error)
}

// StatusError is a failed request that got an HTTP response.
type StatusError struct {
	Code int
	Err  error
}

func (e *StatusError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("request failed with status code %d: %v", e.Code, e.Err)
	}
	return fmt.Sprintf("request failed with status code %d", e.Code)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// Unauthorized reports whether the server rejected the credentials.
func (e *StatusError) Unauthorized() bool {
	return e.Code == http.StatusUnauthorized
}
