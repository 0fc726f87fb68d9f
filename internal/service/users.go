package service

import (
	"context"
	"fmt"
	"time"

	pkgcrypto "github.com/cinelist/cinelist/internal/crypto"
	"github.com/cinelist/cinelist/internal/errs"
	"github.com/cinelist/cinelist/internal/model"
	"github.com/cinelist/cinelist/internal/repository"
)

// UpdateInput carries a profile update. An empty Password means the stored
// credential is kept as-is.
type UpdateInput struct {
	Username string
	Password string
	Email    string
	Birthday *time.Time
}

// UserService defines profile and favorites operations. Ownership is checked
// at the HTTP boundary before any of these run; movie refs are opaque and
// never validated against the catalog.
type UserService interface {
	// Get loads an account by username.
	Get(ctx context.Context, username string) (*model.User, error)
	// Update applies a profile update, re-hashing the password only when one
	// is supplied.
	Update(ctx context.Context, username string, in UpdateInput) (*model.User, error)
	// Delete removes the account and everything keyed on it.
	Delete(ctx context.Context, username string) error

	// AddFavorite inserts a movie ref into the favorites set (idempotent).
	AddFavorite(ctx context.Context, username, ref string) (*model.User, error)
	// RemoveFavorite removes a movie ref from the favorites set (idempotent).
	RemoveFavorite(ctx context.Context, username, ref string) (*model.User, error)
	// ListFavorites returns the favorites in insertion order.
	ListFavorites(ctx context.Context, username string) ([]string, error)
}

type UserServiceImpl struct {
	users repository.UserRepository
}

// NewUserService constructs UserService.
func NewUserService(users repository.UserRepository) *UserServiceImpl {
	return &UserServiceImpl{users: users}
}

// Get loads an account by username.
func (s *UserServiceImpl) Get(ctx context.Context, username string) (*model.User, error) {
	return s.users.GetByUsername(ctx, username)
}

// Update validates and applies a profile update. When Password is empty the
// stored hash and salt pass through untouched; an update must never overwrite
// the credential with an empty or unhashed value.
func (s *UserServiceImpl) Update(ctx context.Context, username string, in UpdateInput) (*model.User, error) {
	if err := validateUsername(in.Username); err != nil {
		return nil, err
	}
	if err := validateEmail(in.Email); err != nil {
		return nil, err
	}

	upd := repository.UserUpdate{
		Username: in.Username,
		Email:    in.Email,
		Birthday: in.Birthday,
	}
	if in.Password != "" {
		if err := validatePassword(in.Password); err != nil {
			return nil, err
		}
		hash, salt, err := pkgcrypto.HashSecret(in.Password)
		if err != nil {
			return nil, err
		}
		upd.PwdHash = hash
		upd.SaltAuth = salt
	}
	return s.users.Update(ctx, username, upd)
}

// Delete removes the account.
func (s *UserServiceImpl) Delete(ctx context.Context, username string) error {
	return s.users.Delete(ctx, username)
}

// AddFavorite inserts ref iff absent; adding a present ref succeeds without
// changing the set.
func (s *UserServiceImpl) AddFavorite(ctx context.Context, username, ref string) (*model.User, error) {
	if ref == "" {
		return nil, fmt.Errorf("%w: empty movie reference", errs.ErrValidation)
	}
	return s.users.AddFavorite(ctx, username, ref)
}

// RemoveFavorite removes ref; removing an absent ref succeeds without
// changing the set.
func (s *UserServiceImpl) RemoveFavorite(ctx context.Context, username, ref string) (*model.User, error) {
	if ref == "" {
		return nil, fmt.Errorf("%w: empty movie reference", errs.ErrValidation)
	}
	return s.users.RemoveFavorite(ctx, username, ref)
}

// ListFavorites returns the favorites in insertion order.
func (s *UserServiceImpl) ListFavorites(ctx context.Context, username string) ([]string, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return u.Favorites, nil
}
