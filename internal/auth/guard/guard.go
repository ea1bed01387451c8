// Package guard implements the ordered checks that gate the auth operations.
// A chain runs its guards in order and stops at the first one that fails.
package guard

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/aussiebroadwan/doorman/internal/auth/domain"
	"github.com/aussiebroadwan/doorman/internal/auth/store"
)

// Failure is an expected, user-facing rejection. Status is an HTTP status code
// and Message is returned to the caller verbatim.
type Failure struct {
	Status  int
	Message string
}

func (f *Failure) Error() string { return f.Message }

var (
	ErrNotAuthenticated   = &Failure{Status: http.StatusUnauthorized, Message: "You shall not pass!"}
	ErrUsernameTaken      = &Failure{Status: http.StatusUnprocessableEntity, Message: "Username taken"}
	ErrInvalidCredentials = &Failure{Status: http.StatusUnauthorized, Message: "Invalid credentials"}
	ErrPasswordTooShort   = &Failure{Status: http.StatusUnprocessableEntity, Message: "Password must be longer than 3 chars"}
)

// AsFailure reports whether err is, or wraps, a Failure.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// Credentials are the submitted username and password.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Request is the in-flight state a chain operates on. Guards may attach
// derived data (the found User) for later guards and the terminal action.
type Request struct {
	Credentials Credentials
	Session     *domain.Session
	User        *domain.User
}

// Guard passes by returning nil. A non-nil error halts the chain; it is either
// a *Failure or an infrastructure error.
type Guard func(ctx context.Context, req *Request) error

// Run executes guards in order, stopping at the first error. A cancelled
// context halts the chain before the next guard starts.
func Run(ctx context.Context, req *Request, guards ...Guard) error {
	for _, g := range guards {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := g(ctx, req); err != nil {
			return err
		}
	}
	return nil
}

// UserFinder looks up users by exact username.
type UserFinder interface {
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)
}

// Restricted requires an authenticated session on the request.
func Restricted(_ context.Context, req *Request) error {
	if req.Session == nil {
		return ErrNotAuthenticated
	}
	return nil
}

// CheckUsernameFree fails when a user with the submitted username exists.
func CheckUsernameFree(users UserFinder) Guard {
	return func(ctx context.Context, req *Request) error {
		_, err := users.GetUserByUsername(ctx, req.Credentials.Username)
		switch {
		case err == nil:
			return ErrUsernameTaken
		case errors.Is(err, store.ErrNotFound):
			return nil
		default:
			return err
		}
	}
}

// CheckUsernameExists fails when no user has the submitted username and
// otherwise attaches the found user to the request.
func CheckUsernameExists(users UserFinder) Guard {
	return func(ctx context.Context, req *Request) error {
		user, err := users.GetUserByUsername(ctx, req.Credentials.Username)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidCredentials
			}
			return err
		}
		req.User = &user
		return nil
	}
}

// MinPasswordLength is the shortest accepted password, counted in characters
// after trimming surrounding whitespace.
const MinPasswordLength = 4

// CheckPasswordLength rejects missing passwords and passwords of three
// characters or fewer once whitespace is trimmed.
func CheckPasswordLength(_ context.Context, req *Request) error {
	if utf8.RuneCountInString(strings.TrimSpace(req.Credentials.Password)) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}
