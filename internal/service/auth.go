// Package service contains application services for accounts and favorites.
package service

import (
	"context"
	"errors"
	"time"

	pkgcrypto "github.com/cinelist/cinelist/internal/crypto"
	"github.com/cinelist/cinelist/internal/errs"
	"github.com/cinelist/cinelist/internal/limiter"
	"github.com/cinelist/cinelist/internal/model"
	"github.com/cinelist/cinelist/internal/repository"
	"github.com/cinelist/cinelist/internal/token"
	"github.com/gofrs/uuid/v5"
)

// RegisterInput carries a registration request.
type RegisterInput struct {
	Username string
	Password string
	Email    string
	Birthday *time.Time
}

// AuthService defines registration, login and request authentication.
type AuthService interface {
	// Register creates a new account with secure password hashing.
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	// Login applies rate-limiting, verifies credentials and issues a token.
	Login(ctx context.Context, username, password, ip string) (model.Tokens, *model.User, error)
	// Authenticate resolves a bearer token to an account identity.
	Authenticate(ctx context.Context, raw string) (model.Identity, error)
}

type AuthServiceImpl struct {
	users  repository.UserRepository
	tokens *token.Manager
	lim    limiter.Limiter
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(users repository.UserRepository, tokens *token.Manager, lim limiter.Limiter) *AuthServiceImpl {
	return &AuthServiceImpl{users: users, tokens: tokens, lim: lim}
}

// Register validates input, hashes the password with a fresh salt and stores
// the account. The raw password never leaves this scope.
func (s *AuthServiceImpl) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	if err := validateUsername(in.Username); err != nil {
		return nil, err
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}
	if err := validateEmail(in.Email); err != nil {
		return nil, err
	}

	uid, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	hash, salt, err := pkgcrypto.HashSecret(in.Password)
	if err != nil {
		return nil, err
	}

	u := &model.User{
		ID:        uid,
		Username:  in.Username,
		PwdHash:   hash,
		SaltAuth:  salt,
		Email:     in.Email,
		Birthday:  in.Birthday,
		Favorites: []string{},
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login authenticates with rate limiting by (username, ip).
func (s *AuthServiceImpl) Login(ctx context.Context, username, password, ip string) (model.Tokens, *model.User, error) {
	ipHash := limiter.HashIP(ip)

	allowed, _, err := s.lim.Allow(ctx, username, ipHash)
	if err != nil {
		return model.Tokens{}, nil, err
	}
	if !allowed {
		return model.Tokens{}, nil, errs.ErrRateLimited
	}

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil || !pkgcrypto.VerifySecret(password, u.SaltAuth, u.PwdHash) {
		// Record failure; if the threshold is reached, report the lockout.
		if blocked, _, ferr := s.lim.Failure(ctx, username, ipHash); ferr == nil && blocked {
			return model.Tokens{}, nil, errs.ErrRateLimited
		}
		// Unknown user and wrong password collapse into one answer.
		return model.Tokens{}, nil, errs.ErrBadCredentials
	}

	// Success: reset counters (best-effort).
	_ = s.lim.Success(ctx, username, ipHash)

	tok, err := s.tokens.Issue(u.ID)
	if err != nil {
		return model.Tokens{}, nil, err
	}
	return tok, u, nil
}

// Authenticate runs the ordered checks on a presented bearer token:
// presence, signature, expiry, then subject resolution. It never mutates
// state and is safe to run on every protected request.
func (s *AuthServiceImpl) Authenticate(ctx context.Context, raw string) (model.Identity, error) {
	if raw == "" {
		return model.Identity{}, errs.ErrNoToken
	}
	sub, err := s.tokens.Verify(raw)
	if err != nil {
		return model.Identity{}, err
	}
	u, err := s.users.GetByID(ctx, sub)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.Identity{}, errs.ErrUnknownSubject
		}
		return model.Identity{}, err
	}
	return model.Identity{ID: u.ID, Username: u.Username}, nil
}
