package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cinelist/cinelist/internal/errs"
	"github.com/cinelist/cinelist/internal/model"
	"github.com/cinelist/cinelist/internal/repository"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
)

var _ repository.UserRepository = (*UserRepo)(nil)

func newDB(t *testing.T) (*DB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return &DB{Pool: mock}, mock
}

func userRow(id uuid.UUID, username string, favorites []string) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "username", "pwd_hash", "salt_auth", "email", "birthday", "favorites", "created_at"}).
		AddRow(id, username, []byte("h"), []byte("s"), username+"@example.com", nil, favorites, time.Now())
}

func TestUserRepo_Create_OK_and_UniqueViolation(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewUserRepo(db)
	ctx := context.Background()
	u := &model.User{
		ID:        uuid.Must(uuid.NewV4()),
		Username:  "alice12",
		PwdHash:   []byte("h"),
		SaltAuth:  []byte("s"),
		Email:     "alice@example.com",
		Favorites: []string{},
	}

	// OK
	mock.ExpectExec(`INSERT INTO users \(id, username, pwd_hash, salt_auth, email, birthday, favorites\)`).
		WithArgs(u.ID, u.Username, u.PwdHash, u.SaltAuth, u.Email, u.Birthday, u.Favorites).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	require.NoError(t, r.Create(ctx, u))

	// Unique violation
	mock.ExpectExec(`INSERT INTO users \(id, username, pwd_hash, salt_auth, email, birthday, favorites\)`).
		WithArgs(u.ID, u.Username, u.PwdHash, u.SaltAuth, u.Email, u.Birthday, u.Favorites).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	err := r.Create(ctx, u)
	require.ErrorIs(t, err, errs.ErrAlreadyExists)
}

func TestUserRepo_GetByUsername(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewUserRepo(db)
	ctx := context.Background()
	id := uuid.Must(uuid.NewV4())

	mock.ExpectQuery(`SELECT id, username, pwd_hash, salt_auth, email, birthday, favorites, created_at FROM users WHERE username=\$1`).
		WithArgs("alice12").
		WillReturnRows(userRow(id, "alice12", []string{"m1", "m2"}))
	u, err := r.GetByUsername(ctx, "alice12")
	require.NoError(t, err)
	require.Equal(t, id, u.ID)
	require.Equal(t, []string{"m1", "m2"}, u.Favorites)

	mock.ExpectQuery(`SELECT id, username, pwd_hash, salt_auth, email, birthday, favorites, created_at FROM users WHERE username=\$1`).
		WithArgs("nobody").
		WillReturnError(pgx.ErrNoRows)
	_, err = r.GetByUsername(ctx, "nobody")
	require.ErrorIs(t, err, errs.ErrNotFound)

	// Backend connectivity failures surface as the retryable store sentinel.
	mock.ExpectQuery(`SELECT id, username, pwd_hash, salt_auth, email, birthday, favorites, created_at FROM users WHERE username=\$1`).
		WithArgs("alice12").
		WillReturnError(errors.New("connection refused"))
	_, err = r.GetByUsername(ctx, "alice12")
	require.ErrorIs(t, err, errs.ErrStoreUnavailable)
}

func TestUserRepo_GetByID(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewUserRepo(db)
	ctx := context.Background()
	id := uuid.Must(uuid.NewV4())

	mock.ExpectQuery(`SELECT id, username, pwd_hash, salt_auth, email, birthday, favorites, created_at FROM users WHERE id=\$1`).
		WithArgs(id).
		WillReturnRows(userRow(id, "alice12", nil))
	u, err := r.GetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "alice12", u.Username)

	mock.ExpectQuery(`SELECT id, username, pwd_hash, salt_auth, email, birthday, favorites, created_at FROM users WHERE id=\$1`).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)
	_, err = r.GetByID(ctx, id)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestUserRepo_Update_KeepsHashWhenNil(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewUserRepo(db)
	ctx := context.Background()
	id := uuid.Must(uuid.NewV4())

	upd := repository.UserUpdate{Username: "alice12", Email: "new@example.com"}
	mock.ExpectQuery(`pwd_hash=COALESCE\(\$5, pwd_hash\)`).
		WithArgs("alice12", upd.Username, upd.Email, upd.Birthday, upd.PwdHash, upd.SaltAuth).
		WillReturnRows(userRow(id, "alice12", []string{"m1"}))
	u, err := r.Update(ctx, "alice12", upd)
	require.NoError(t, err)
	require.Equal(t, "alice12", u.Username)

	// Username change colliding with an existing account.
	upd2 := repository.UserUpdate{Username: "bob9999", Email: "new@example.com"}
	mock.ExpectQuery(`pwd_hash=COALESCE\(\$5, pwd_hash\)`).
		WithArgs("alice12", upd2.Username, upd2.Email, upd2.Birthday, upd2.PwdHash, upd2.SaltAuth).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	_, err = r.Update(ctx, "alice12", upd2)
	require.ErrorIs(t, err, errs.ErrAlreadyExists)
}

func TestUserRepo_Delete(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewUserRepo(db)
	ctx := context.Background()

	mock.ExpectExec(`DELETE FROM users WHERE username=\$1`).
		WithArgs("alice12").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	require.NoError(t, r.Delete(ctx, "alice12"))

	mock.ExpectExec(`DELETE FROM users WHERE username=\$1`).
		WithArgs("nobody").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	require.ErrorIs(t, r.Delete(ctx, "nobody"), errs.ErrNotFound)
}

func TestUserRepo_AddFavorite_ConditionalAppend(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewUserRepo(db)
	ctx := context.Background()
	id := uuid.Must(uuid.NewV4())

	mock.ExpectQuery(`SET favorites = CASE WHEN \$2 = ANY\(favorites\) THEN favorites ELSE array_append\(favorites, \$2\) END`).
		WithArgs("alice12", "m1").
		WillReturnRows(userRow(id, "alice12", []string{"m1"}))
	u, err := r.AddFavorite(ctx, "alice12", "m1")
	require.NoError(t, err)
	require.Equal(t, []string{"m1"}, u.Favorites)

	mock.ExpectQuery(`SET favorites = CASE WHEN \$2 = ANY\(favorites\)`).
		WithArgs("nobody", "m1").
		WillReturnError(pgx.ErrNoRows)
	_, err = r.AddFavorite(ctx, "nobody", "m1")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestUserRepo_RemoveFavorite(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewUserRepo(db)
	ctx := context.Background()
	id := uuid.Must(uuid.NewV4())

	mock.ExpectQuery(`SET favorites = array_remove\(favorites, \$2\)`).
		WithArgs("alice12", "m1").
		WillReturnRows(userRow(id, "alice12", []string{}))
	u, err := r.RemoveFavorite(ctx, "alice12", "m1")
	require.NoError(t, err)
	require.Empty(t, u.Favorites)

	mock.ExpectQuery(`SET favorites = array_remove\(favorites, \$2\)`).
		WithArgs("nobody", "m1").
		WillReturnError(pgx.ErrNoRows)
	_, err = r.RemoveFavorite(ctx, "nobody", "m1")
	require.ErrorIs(t, err, errs.ErrNotFound)
}
