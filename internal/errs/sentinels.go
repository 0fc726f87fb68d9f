// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Sentinels shared by repo/service layers. The HTTP boundary is the only
// place these are translated to status codes.
var (
	// ErrValidation indicates malformed caller input.
	ErrValidation = errors.New("validation failed")

	// ErrBadCredentials indicates a failed login (unknown user or wrong
	// password — the two are deliberately indistinguishable to callers).
	ErrBadCredentials = errors.New("bad credentials")

	// ErrNoToken indicates a protected request without a bearer token.
	ErrNoToken = errors.New("no token")

	// ErrInvalidToken indicates a token that fails signature or structural checks.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken indicates a well-signed token past its expiry.
	ErrExpiredToken = errors.New("token expired")

	// ErrUnknownSubject indicates a valid token whose subject no longer resolves
	// to an account (e.g. deleted after issuance).
	ErrUnknownSubject = errors.New("unknown subject")

	// ErrPermissionDenied indicates an authenticated caller acting on someone
	// else's account.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrAlreadyExists indicates a unique constraint violation (username taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrRateLimited indicates a temporary login lock due to rate limiting.
	ErrRateLimited = errors.New("rate limited")

	// ErrStoreUnavailable indicates the persistence backend is unreachable.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// IsAuthFailure reports whether err belongs to the authentication failure
// family. All of these surface externally as one generic 401 so the response
// does not leak which check failed; logs keep the specific sentinel.
func IsAuthFailure(err error) bool {
	return errors.Is(err, ErrBadCredentials) ||
		errors.Is(err, ErrNoToken) ||
		errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrExpiredToken) ||
		errors.Is(err, ErrUnknownSubject)
}
