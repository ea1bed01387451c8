package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aussiebroadwan/doorman/internal/auth/domain"
	"github.com/aussiebroadwan/doorman/internal/auth/store"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*Store, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return NewStoreWithPool(mock, "postgres://doorman@localhost/doorman"), mock
}

func TestMigrationURL(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{"postgres://u:p@db:5432/doorman?sslmode=disable", "pgx5://u:p@db:5432/doorman?sslmode=disable"},
		{"postgresql://db/doorman", "pgx5://db/doorman"},
		{"pgx5://db/doorman", "pgx5://db/doorman"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, migrationURL(tt.dsn))
	}
}

func TestUsers_CreateUser(t *testing.T) {
	st, mock := newMockStore(t)
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("sue", "hash").
		WillReturnRows(mock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), created))

	user, err := st.Users().CreateUser(context.Background(), "sue", "hash")
	require.NoError(t, err)
	require.Equal(t, domain.User{ID: 1, Username: "sue", PasswordHash: "hash", CreatedAt: created}, user)
}

func TestUsers_CreateUser_UniqueViolation(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("sue", "hash").
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_username_key"})

	_, err := st.Users().CreateUser(context.Background(), "sue", "hash")
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestUsers_CreateUser_OtherErrorsPassThrough(t *testing.T) {
	st, mock := newMockStore(t)
	boom := errors.New("connection reset")

	mock.ExpectQuery(`INSERT INTO users`).WithArgs("sue", "hash").WillReturnError(boom)

	_, err := st.Users().CreateUser(context.Background(), "sue", "hash")
	require.ErrorIs(t, err, boom)
	require.NotErrorIs(t, err, store.ErrAlreadyExists)
}

func TestUsers_GetUserByUsername(t *testing.T) {
	st, mock := newMockStore(t)
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(`SELECT id, username, password_hash, created_at FROM users WHERE username = \$1`).
		WithArgs("sue").
		WillReturnRows(mock.NewRows([]string{"id", "username", "password_hash", "created_at"}).
			AddRow(int64(7), "sue", "hash", created))

	user, err := st.Users().GetUserByUsername(context.Background(), "sue")
	require.NoError(t, err)
	require.Equal(t, int64(7), user.ID)
	require.Equal(t, "hash", user.PasswordHash)
}

func TestUsers_NotFound(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectQuery(`FROM users WHERE username`).WithArgs("nobody").WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(`FROM users WHERE id`).WithArgs(int64(42)).WillReturnError(pgx.ErrNoRows)

	_, err := st.Users().GetUserByUsername(context.Background(), "nobody")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = st.Users().GetUserByID(context.Background(), 42)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUsers_ListUsers(t *testing.T) {
	st, mock := newMockStore(t)
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(`FROM users ORDER BY id`).
		WillReturnRows(mock.NewRows([]string{"id", "username", "password_hash", "created_at"}).
			AddRow(int64(1), "sue", "h1", created).
			AddRow(int64(2), "bob", "h2", created))

	users, err := st.Users().ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, "sue", users[0].Username)
	require.Equal(t, "bob", users[1].Username)
}

func TestSessions_CreateAndGet(t *testing.T) {
	st, mock := newMockStore(t)
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	sess := domain.Session{
		ID:        "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV",
		TokenHash: "fingerprint",
		UserID:    1,
		Username:  "sue",
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}

	mock.ExpectExec(`INSERT INTO sessions`).
		WithArgs(sess.ID, sess.TokenHash, sess.UserID, sess.Username, sess.CreatedAt, sess.ExpiresAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery(`FROM sessions WHERE token_hash = \$1`).
		WithArgs("fingerprint").
		WillReturnRows(mock.NewRows([]string{"id", "token_hash", "user_id", "username", "created_at", "expires_at"}).
			AddRow(sess.ID, sess.TokenHash, sess.UserID, sess.Username, sess.CreatedAt, sess.ExpiresAt))

	require.NoError(t, st.Sessions().CreateSession(context.Background(), sess))

	got, err := st.Sessions().GetSessionByTokenHash(context.Background(), "fingerprint")
	require.NoError(t, err)
	require.Equal(t, sess, got)
}

func TestSessions_GetMissing(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectQuery(`FROM sessions WHERE token_hash`).WithArgs("nope").WillReturnError(pgx.ErrNoRows)

	_, err := st.Sessions().GetSessionByTokenHash(context.Background(), "nope")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestSessions_DeleteExpired(t *testing.T) {
	st, mock := newMockStore(t)
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectExec(`DELETE FROM sessions WHERE expires_at <= \$1`).
		WithArgs(now).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	n, err := st.Sessions().DeleteExpiredSessions(context.Background(), now)
	require.NoError(t, err)
	require.Equal(t, int64(3), n)
}

func TestSessions_Delete(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectExec(`DELETE FROM sessions WHERE token_hash = \$1`).
		WithArgs("fingerprint").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, st.Sessions().DeleteSession(context.Background(), "fingerprint"))
}

func TestStore_Ping(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer mock.Close()
	st := NewStoreWithPool(mock, "")

	mock.ExpectPing()
	mock.ExpectPing().WillReturnError(errors.New("down"))

	require.NoError(t, st.Ping(context.Background()))
	require.Error(t, st.Sessions().Ping(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}
