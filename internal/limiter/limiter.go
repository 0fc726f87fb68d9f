// Package limiter rate-limits login attempts per (username, client IP).
package limiter

import (
	"context"
	"time"
)

// Limiter tracks failed logins and enforces temporary lockouts. Keys are the
// presented username and a hash of the client IP, so a lockout on one account
// does not take the whole address offline.
type Limiter interface {
	// Allow reports whether a login attempt may proceed and, when blocked,
	// how long until the lockout lifts.
	Allow(ctx context.Context, username string, ipHash []byte) (bool, time.Duration, error)
	// Success resets counters after a successful login.
	Success(ctx context.Context, username string, ipHash []byte) error
	// Failure records a failed attempt; may place a temporary block.
	Failure(ctx context.Context, username string, ipHash []byte) (bool, time.Duration, error)
}
