package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/doorman/internal/auth/domain"
	"github.com/aussiebroadwan/doorman/internal/auth/guard"
	"github.com/aussiebroadwan/doorman/internal/auth/metrics"
	"github.com/aussiebroadwan/doorman/internal/auth/session"
	"github.com/aussiebroadwan/doorman/internal/auth/store"
	"github.com/aussiebroadwan/doorman/pkg/cryptox"
	"github.com/aussiebroadwan/doorman/pkg/slogx"
)

// Logout results.
const (
	MessageLoggedOut = "logged out"
	MessageNoSession = "no session"
)

// dummyPassword is hashed once and verified against when a login names an
// unknown user, so both failure paths cost one hash verification.
const dummyPassword = "doorman-dummy-password"

// AuthService runs register, login and logout. Each operation is a guard
// chain followed by a terminal action that only runs when every guard passed.
type AuthService struct {
	Store    store.Store
	Hasher   cryptox.PasswordHasher
	Sessions *session.Manager
	Metrics  *metrics.Metrics

	dummyOnce sync.Once
	dummyHash string
}

// Register creates a user after checking the username is free and the
// password long enough. The username unique constraint settles races between
// concurrent registrations of the same name.
func (s *AuthService) Register(ctx context.Context, creds guard.Credentials) (user domain.User, err error) {
	defer s.observe(metrics.OpRegister, time.Now(), &err)
	l := slogx.FromContext(ctx)

	users := s.Store.Users()
	req := &guard.Request{Credentials: creds}
	if err := guard.Run(ctx, req,
		guard.CheckUsernameFree(users),
		guard.CheckPasswordLength,
	); err != nil {
		return domain.User{}, s.logFailure(l, "register rejected", creds.Username, err)
	}

	hash, err := s.Hasher.Hash(creds.Password)
	if err != nil {
		l.Error("failed to hash password", slog.Any("error", err))
		return domain.User{}, err
	}

	// Hashing is slow; don't insert for a request that has gone away.
	if err := ctx.Err(); err != nil {
		return domain.User{}, err
	}

	user, err = users.CreateUser(ctx, creds.Username, hash)
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			l.Info("register lost username race", slog.String("username", creds.Username))
			return domain.User{}, guard.ErrUsernameTaken
		}
		l.Error("failed to create user", slog.String("username", creds.Username), slog.Any("error", err))
		return domain.User{}, err
	}

	l.Info("user registered", slog.Int64("user_id", user.ID), slog.String("username", user.Username))
	return user, nil
}

// Login verifies credentials and establishes a new session. An unknown
// username and a wrong password fail identically. When currentToken names an
// existing session it is retired once the new one is in place.
func (s *AuthService) Login(ctx context.Context, creds guard.Credentials, currentToken string) (sess domain.Session, token string, err error) {
	defer s.observe(metrics.OpLogin, time.Now(), &err)
	l := slogx.FromContext(ctx)

	req := &guard.Request{Credentials: creds}
	if err := guard.Run(ctx, req, guard.CheckUsernameExists(s.Store.Users())); err != nil {
		if errors.Is(err, guard.ErrInvalidCredentials) {
			s.burnVerify(creds.Password)
		}
		return domain.Session{}, "", s.logFailure(l, "login rejected", creds.Username, err)
	}

	ok, err := s.Hasher.Verify(creds.Password, req.User.PasswordHash)
	if err != nil {
		l.Error("stored password hash unreadable", slog.Int64("user_id", req.User.ID), slog.Any("error", err))
		return domain.Session{}, "", err
	}
	if !ok {
		return domain.Session{}, "", s.logFailure(l, "login rejected", creds.Username, guard.ErrInvalidCredentials)
	}

	if err := ctx.Err(); err != nil {
		return domain.Session{}, "", err
	}

	sess, token, err = s.Sessions.Establish(ctx, *req.User)
	if err != nil {
		l.Error("failed to establish session", slog.Int64("user_id", req.User.ID), slog.Any("error", err))
		return domain.Session{}, "", err
	}

	if currentToken != "" {
		if err := s.Sessions.Destroy(ctx, currentToken); err != nil && !errors.Is(err, session.ErrNoSession) {
			l.Warn("failed to retire previous session", slog.Any("error", err))
		}
	}

	l.Info("user logged in", slog.Int64("user_id", sess.UserID), slog.String("session_id", sess.ID))
	return sess, token, nil
}

// Logout destroys the session named by token. It reports MessageNoSession
// when there is none. A failed destroy is returned as an error and the
// session stays as it was.
func (s *AuthService) Logout(ctx context.Context, token string) (msg string, err error) {
	start := time.Now()
	defer func() {
		if msg == MessageNoSession {
			s.Metrics.Observe(metrics.OpLogout, metrics.OutcomeNoop, time.Since(start))
			return
		}
		s.observe(metrics.OpLogout, start, &err)
	}()
	l := slogx.FromContext(ctx)

	sess, err := s.Sessions.Lookup(ctx, token)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return MessageNoSession, nil
		}
		l.Error("failed to look up session", slog.Any("error", err))
		return "", err
	}

	if err := s.Sessions.Destroy(ctx, token); err != nil {
		l.Error("failed to destroy session", slog.String("session_id", sess.ID), slog.Any("error", err))
		return "", err
	}

	l.Info("user logged out", slog.Int64("user_id", sess.UserID), slog.String("session_id", sess.ID))
	return MessageLoggedOut, nil
}

// CurrentSession returns the live session for token, or nil when there is none.
func (s *AuthService) CurrentSession(ctx context.Context, token string) (*domain.Session, error) {
	sess, err := s.Sessions.Lookup(ctx, token)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return nil, nil
		}
		return nil, err
	}
	return &sess, nil
}

// ListUsers returns every user. It requires an authenticated session.
func (s *AuthService) ListUsers(ctx context.Context, sess *domain.Session) (users []domain.User, err error) {
	defer s.observe(metrics.OpListUsers, time.Now(), &err)

	if err := guard.Run(ctx, &guard.Request{Session: sess}, guard.Restricted); err != nil {
		return nil, err
	}
	return s.Store.Users().ListUsers(ctx)
}

// burnVerify spends one verification on a throwaway hash.
func (s *AuthService) burnVerify(password string) {
	s.dummyOnce.Do(func() {
		hash, err := s.Hasher.Hash(dummyPassword)
		if err != nil {
			slog.Default().Error("failed to prepare dummy hash", slog.Any("error", err))
			return
		}
		s.dummyHash = hash
	})
	if s.dummyHash != "" {
		_, _ = s.Hasher.Verify(password, s.dummyHash)
	}
}

func (s *AuthService) logFailure(l *slog.Logger, msg, username string, err error) error {
	if f, ok := guard.AsFailure(err); ok {
		l.Info(msg, slog.String("username", username), slog.String("reason", f.Message))
		return err
	}
	l.Error(msg, slog.String("username", username), slog.Any("error", err))
	return err
}

func (s *AuthService) observe(op string, start time.Time, err *error) {
	outcome := metrics.OutcomeSuccess
	if *err != nil {
		outcome = metrics.OutcomeError
		if _, ok := guard.AsFailure(*err); ok {
			outcome = metrics.OutcomeRejected
		}
	}
	s.Metrics.Observe(op, outcome, time.Since(start))
}
