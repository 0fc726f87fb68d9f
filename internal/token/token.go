// Package token issues and verifies signed session tokens.
//
// Tokens are stateless HS256 JWTs: validity is decided purely by signature
// and expiry, never by a server-side lookup.
package token

import (
	"errors"
	"time"

	"github.com/cinelist/cinelist/internal/errs"
	"github.com/cinelist/cinelist/internal/model"
	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"
)

// Leeway tolerated when validating exp/nbf, to absorb clock skew.
const verifyLeeway = 30 * time.Second

// Manager signs and verifies session tokens with a process-wide key.
type Manager struct {
	key []byte
	ttl time.Duration
}

// NewManager constructs a Manager. The signing key must be non-empty; this is
// checked once at startup, so Issue itself cannot fail on key absence.
func NewManager(key []byte, ttl time.Duration) (*Manager, error) {
	if len(key) == 0 {
		return nil, errors.New("empty signing key")
	}
	if ttl <= 0 {
		return nil, errors.New("non-positive token ttl")
	}
	return &Manager{key: key, ttl: ttl}, nil
}

// Issue creates a signed HS256 JWT for the given subject.
func (m *Manager) Issue(subject uuid.UUID) (model.Tokens, error) {
	now := time.Now()
	exp := now.Add(m.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   subject.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(m.key)
	if err != nil {
		return model.Tokens{}, err
	}
	return model.Tokens{AccessToken: signed, ExpiresAt: exp}, nil
}

// Verify checks signature and expiry and returns the token subject.
// Expired-but-well-signed tokens yield errs.ErrExpiredToken; every other
// failure (bad signature, wrong method, garbled subject) yields
// errs.ErrInvalidToken. Pure computation, no I/O.
func (m *Manager) Verify(raw string) (uuid.UUID, error) {
	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return m.key, nil
	}, jwt.WithLeeway(verifyLeeway))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, errs.ErrExpiredToken
		}
		return uuid.Nil, errs.ErrInvalidToken
	}
	if !parsed.Valid {
		return uuid.Nil, errs.ErrInvalidToken
	}

	id, err := uuid.FromString(claims.Subject)
	if err != nil {
		return uuid.Nil, errs.ErrInvalidToken
	}
	return id, nil
}
