package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/doorman/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite, postgres)
// implement this and expose sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Users() Users
	Sessions() Sessions

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Users is the credential store. Lookups are exact, case-sensitive matches on
// username and always read the latest committed row.
type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id int64) (domain.User, error)

	// GetUserByUsername returns ErrNotFound when no user has that username.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser inserts a new user; the id is assigned by the store.
	// Returns ErrAlreadyExists when the username unique constraint fires.
	CreateUser(ctx context.Context, username, passwordHash string) (domain.User, error)

	// ListUsers returns every user ordered by id.
	ListUsers(ctx context.Context) ([]domain.User, error)
}

// Sessions persists authenticated sessions keyed by token fingerprint. Each
// call is a single atomic operation against the backing store.
type Sessions interface {
	// CreateSession stores a new session.
	CreateSession(ctx context.Context, s domain.Session) error

	// GetSessionByTokenHash returns ErrNotFound when no session matches.
	GetSessionByTokenHash(ctx context.Context, hash string) (domain.Session, error)

	// DeleteSession removes a session. Deleting an absent session is not an error.
	DeleteSession(ctx context.Context, hash string) error

	// DeleteExpiredSessions removes sessions expired at now and reports how many went.
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)

	// Ping verifies the session backend is reachable.
	Ping(ctx context.Context) error
}
