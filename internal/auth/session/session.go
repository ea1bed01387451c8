// Package session owns the server-side session lifecycle: established on
// login, looked up on every request, destroyed on logout.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/doorman/internal/auth/domain"
	"github.com/aussiebroadwan/doorman/internal/auth/store"
	"github.com/aussiebroadwan/doorman/pkg/cryptox"
	"github.com/aussiebroadwan/doorman/pkg/idx"
	"github.com/aussiebroadwan/doorman/pkg/slogx"
)

// DefaultTTL is used when a Manager is built with a zero TTL.
const DefaultTTL = 24 * time.Hour

// ErrNoSession means the token does not resolve to a live session.
var ErrNoSession = errors.New("session: no session")

type Manager struct {
	Store store.Sessions
	TTL   time.Duration

	now func() time.Time
}

func NewManager(sessions store.Sessions, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{Store: sessions, TTL: ttl, now: time.Now}
}

func (m *Manager) clock() time.Time {
	if m.now != nil {
		return m.now()
	}
	return time.Now()
}

// Establish creates a session for user and returns it with the plaintext
// token to hand to the client. Nothing is stored when an error is returned.
func (m *Manager) Establish(ctx context.Context, user domain.User) (domain.Session, string, error) {
	token, fingerprint, err := cryptox.NewSessionToken()
	if err != nil {
		return domain.Session{}, "", err
	}

	now := m.clock().UTC().Truncate(time.Second)
	ttl := m.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	sess := domain.Session{
		ID:        idx.NewAt(now).String(),
		TokenHash: fingerprint,
		UserID:    user.ID,
		Username:  user.Username,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := m.Store.CreateSession(ctx, sess); err != nil {
		return domain.Session{}, "", fmt.Errorf("create session: %w", err)
	}
	return sess, token, nil
}

// Lookup resolves a token to its session. Unknown, empty and expired tokens
// all yield ErrNoSession; expired sessions are removed on the way.
func (m *Manager) Lookup(ctx context.Context, token string) (domain.Session, error) {
	if token == "" {
		return domain.Session{}, ErrNoSession
	}

	fingerprint := cryptox.FingerprintToken(token)
	sess, err := m.Store.GetSessionByTokenHash(ctx, fingerprint)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Session{}, ErrNoSession
		}
		return domain.Session{}, fmt.Errorf("get session: %w", err)
	}

	if sess.IsExpiredAt(m.clock()) {
		if err := m.Store.DeleteSession(ctx, fingerprint); err != nil {
			slogx.FromContext(ctx).Warn("failed to delete expired session", "session_id", sess.ID, "error", err)
		}
		return domain.Session{}, ErrNoSession
	}
	return sess, nil
}

// Destroy removes the session for token. Store failures are returned so the
// caller never reports a logout that did not happen.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return ErrNoSession
	}
	if err := m.Store.DeleteSession(ctx, cryptox.FingerprintToken(token)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
