// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"
	"time"

	"github.com/cinelist/cinelist/internal/model"
	"github.com/gofrs/uuid/v5"
)

// UserUpdate describes a profile update. PwdHash/SaltAuth nil means the
// stored credential material is left untouched.
type UserUpdate struct {
	Username string
	Email    string
	Birthday *time.Time
	PwdHash  []byte
	SaltAuth []byte
}

// UserRepository provides account persistence. All favorites mutations are
// single atomic statements so concurrent requests cannot corrupt the set.
type UserRepository interface {
	// Create inserts a new account. Duplicate username yields errs.ErrAlreadyExists.
	Create(ctx context.Context, u *model.User) error
	// GetByID loads an account by its stable ID (token subject).
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	// GetByUsername loads an account by username.
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	// Update applies a profile update and returns the updated account.
	Update(ctx context.Context, username string, upd UserUpdate) (*model.User, error)
	// Delete removes an account. Unknown username yields errs.ErrNotFound.
	Delete(ctx context.Context, username string) error

	// AddFavorite appends ref to the favorites set iff absent and returns the
	// updated account. Adding a present ref is a no-op success.
	AddFavorite(ctx context.Context, username, ref string) (*model.User, error)
	// RemoveFavorite removes ref from the favorites set and returns the
	// updated account. Removing an absent ref is a no-op success.
	RemoveFavorite(ctx context.Context, username, ref string) (*model.User, error)
}
