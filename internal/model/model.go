// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// Tokens collects issued session credentials.
type Tokens struct {
	AccessToken string
	ExpiresAt   time.Time // access token expiry (for diagnostics and response bodies)
}

// User represents a registered account. The raw password is never stored;
// PwdHash and SaltAuth are the only credential material that persists.
type User struct {
	ID        uuid.UUID // PK, stable token subject
	Username  string    // unique, resource key in URLs
	PwdHash   []byte    // Argon2id(password, SaltAuth)
	SaltAuth  []byte    // per-user salt
	Email     string
	Birthday  *time.Time // optional
	Favorites []string   // movie refs, insertion order preserved, no duplicates
	CreatedAt time.Time
}

// Identity is the authenticated principal resolved from a session token.
// Ownership checks compare Identity.Username against the username in the
// request path, never ambient request state.
type Identity struct {
	ID       uuid.UUID
	Username string
}

// HasFavorite reports whether ref is already in the favorites list.
func (u *User) HasFavorite(ref string) bool {
	for _, f := range u.Favorites {
		if f == ref {
			return true
		}
	}
	return false
}
