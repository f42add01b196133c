// Package security guards the sign-in surface against repeated guessing.
package security

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/acolita/media-login/internal/ports"
)

// AuthRateLimiter tracks rejected credentials and enforces a lockout once
// too many are rejected for the same account.
type AuthRateLimiter struct {
	mu              sync.Mutex
	clock           ports.Clock
	failures        map[string]*authFailure
	maxFailures     int
	lockoutDuration time.Duration
}

type authFailure struct {
	count     int
	firstFail time.Time
	lockedAt  time.Time
}

// DefaultMaxAuthFailures is the default number of rejections before lockout.
const DefaultMaxAuthFailures = 5

// DefaultAuthLockoutDuration is the default lockout duration.
const DefaultAuthLockoutDuration = 5 * time.Minute

// NewAuthRateLimiter creates a new auth rate limiter.
func NewAuthRateLimiter(clock ports.Clock, maxFailures int, lockoutDuration time.Duration) *AuthRateLimiter {
	if maxFailures <= 0 {
		maxFailures = DefaultMaxAuthFailures
	}
	if lockoutDuration <= 0 {
		lockoutDuration = DefaultAuthLockoutDuration
	}

	return &AuthRateLimiter{
		clock:           clock,
		failures:        make(map[string]*authFailure),
		maxFailures:     maxFailures,
		lockoutDuration: lockoutDuration,
	}
}

// key identifies an account. Usernames are matched case-insensitively.
func key(server, user string) string {
	return strings.ToLower(user) + "@" + server
}

// IsLocked reports whether sign-in is locked for the account and for how long.
func (r *AuthRateLimiter) IsLocked(server, user string) (bool, time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.failures[key(server, user)]
	if !ok || f.lockedAt.IsZero() {
		return false, 0
	}

	elapsed := r.clock.Now().Sub(f.lockedAt)
	if elapsed >= r.lockoutDuration {
		return false, 0
	}
	return true, r.lockoutDuration - elapsed
}

// RecordFailure records a rejected sign-in.
func (r *AuthRateLimiter) RecordFailure(server, user string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	k := key(server, user)
	f, ok := r.failures[k]
	if !ok {
		f = &authFailure{firstFail: now}
		r.failures[k] = f
	}

	// Reset if lockout has expired
	if !f.lockedAt.IsZero() && now.Sub(f.lockedAt) >= r.lockoutDuration {
		f.count = 0
		f.firstFail = now
		f.lockedAt = time.Time{}
	}

	f.count++
	if f.count >= r.maxFailures {
		f.lockedAt = now
	}
}

// RecordSuccess forgets the account's failures.
func (r *AuthRateLimiter) RecordSuccess(server, user string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.failures, key(server, user))
}

// Cleanup removes expired entries.
func (r *AuthRateLimiter) Cleanup() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	for k, f := range r.failures {
		if !f.lockedAt.IsZero() && now.Sub(f.lockedAt) >= r.lockoutDuration {
			delete(r.failures, k)
			continue
		}
		// No recent activity
		if now.Sub(f.firstFail) >= 2*r.lockoutDuration {
			delete(r.failures, k)
		}
	}
}

// RunCleanup calls Cleanup every interval until ctx is done. A
// non-positive interval uses the lockout duration.
func (r *AuthRateLimiter) RunCleanup(ctx context.Context, every time.Duration) {
	if every <= 0 {
		every = r.lockoutDuration
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Cleanup()
		}
	}
}

// Len returns the number of tracked accounts.
func (r *AuthRateLimiter) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.failures)
}
