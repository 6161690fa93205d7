// Package auth issues and checks bearer tokens backed by stored sessions.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/alexivanou/weather-requests-api/internal/apperr"
	"github.com/alexivanou/weather-requests-api/internal/model"
	"github.com/alexivanou/weather-requests-api/internal/repository"
)

const tokenBytes = 32

// SessionStore maps opaque tokens to users until they expire.
type SessionStore struct {
	repo repository.SessionRepository
	ttl  time.Duration
	now  func() time.Time
}

func NewSessionStore(repo repository.SessionRepository, ttl time.Duration) *SessionStore {
	return &SessionStore{repo: repo, ttl: ttl, now: time.Now}
}

// WithClock replaces the time source used for expiry.
func (s *SessionStore) WithClock(now func() time.Time) *SessionStore {
	s.now = now
	return s
}

func newToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Issue starts a session for userID and returns its token.
func (s *SessionStore) Issue(ctx context.Context, userID int64) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}
	now := s.now().UTC()
	session := model.Session{
		Token:     token,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return token, nil
}

var errBadToken = apperr.New(apperr.Unauthorized, "Unauthorized", "invalid or expired token")

// Lookup returns the user a live token belongs to.
func (s *SessionStore) Lookup(ctx context.Context, token string) (int64, error) {
	if token == "" {
		return 0, errBadToken
	}
	session, err := s.repo.GetSession(ctx, token)
	if err != nil {
		return 0, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil {
		return 0, errBadToken
	}
	if session.Expired(s.now()) {
		_ = s.repo.DeleteSession(ctx, token)
		return 0, errBadToken
	}
	return session.UserID, nil
}

// Revoke ends the session behind token. Unknown tokens are ignored.
func (s *SessionStore) Revoke(ctx context.Context, token string) error {
	if err := s.repo.DeleteSession(ctx, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Sweep removes every expired session and returns how many were removed.
func (s *SessionStore) Sweep(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpiredSessions(ctx, s.now().UTC())
}
