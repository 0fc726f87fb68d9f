package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/cinelist/cinelist/internal/errs"
	"github.com/cinelist/cinelist/internal/model"
	"github.com/cinelist/cinelist/internal/repository"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
)

// UserRepo implements UserRepository using PostgreSQL. Favorites live in a
// text[] column; every mutation is one conditional UPDATE, so the set stays
// duplicate-free under concurrent requests without in-process locking.
type UserRepo struct{ db *DB }

// NewUserRepo constructs a user repository.
func NewUserRepo(db *DB) *UserRepo { return &UserRepo{db: db} }

const userColumns = `id, username, pwd_hash, salt_auth, email, birthday, favorites, created_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.PwdHash, &u.SaltAuth, &u.Email, &u.Birthday, &u.Favorites, &u.CreatedAt)
	switch {
	case err == nil:
		return &u, nil
	case errors.Is(err, pgx.ErrNoRows):
		return nil, errs.ErrNotFound
	case isUniqueViolation(err):
		return nil, errs.ErrAlreadyExists
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		return nil, err
	default:
		return nil, fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
	}
}

// Create inserts a new account row.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	const q = `
INSERT INTO users (id, username, pwd_hash, salt_auth, email, birthday, favorites)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Pool.Exec(ctx, q, u.ID, u.Username, u.PwdHash, u.SaltAuth, u.Email, u.Birthday, u.Favorites)
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return errs.ErrAlreadyExists
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
	}
}

// GetByID selects an account by ID.
func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return scanUser(r.db.Pool.QueryRow(ctx, q, id))
}

// GetByUsername selects an account by username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE username=$1`
	return scanUser(r.db.Pool.QueryRow(ctx, q, username))
}

// Update applies a profile update in a single statement. A nil PwdHash keeps
// the stored hash and salt untouched (COALESCE), so an update without a new
// password can never wipe the credential.
func (r *UserRepo) Update(ctx context.Context, username string, upd repository.UserUpdate) (*model.User, error) {
	const q = `
UPDATE users
SET username=$2,
    email=$3,
    birthday=$4,
    pwd_hash=COALESCE($5, pwd_hash),
    salt_auth=COALESCE($6, salt_auth)
WHERE username=$1
RETURNING ` + userColumns
	return scanUser(r.db.Pool.QueryRow(ctx, q, username, upd.Username, upd.Email, upd.Birthday, upd.PwdHash, upd.SaltAuth))
}

// Delete removes an account row.
func (r *UserRepo) Delete(ctx context.Context, username string) error {
	const q = `DELETE FROM users WHERE username=$1`
	tag, err := r.db.Pool.Exec(ctx, q, username)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// AddFavorite appends ref iff absent. The guard and the append happen in one
// UPDATE, so two concurrent adds of the same ref cannot both append.
func (r *UserRepo) AddFavorite(ctx context.Context, username, ref string) (*model.User, error) {
	const q = `
UPDATE users
SET favorites = CASE WHEN $2 = ANY(favorites) THEN favorites ELSE array_append(favorites, $2) END
WHERE username=$1
RETURNING ` + userColumns
	return scanUser(r.db.Pool.QueryRow(ctx, q, username, ref))
}

// RemoveFavorite removes all occurrences of ref; removing an absent ref is a
// no-op that still returns the current row.
func (r *UserRepo) RemoveFavorite(ctx context.Context, username, ref string) (*model.User, error) {
	const q = `
UPDATE users
SET favorites = array_remove(favorites, $2)
WHERE username=$1
RETURNING ` + userColumns
	return scanUser(r.db.Pool.QueryRow(ctx, q, username, ref))
}
