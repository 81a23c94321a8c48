package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fisioklinik/fisioklinik/internal/shared"
)

// SessionLifetime is the fixed absolute lifetime of a login session.
const SessionLifetime = 8 * time.Hour

// Store creates, resolves and revokes login sessions. Expiry is enforced
// lazily on read; physically removing expired rows is left to SweepExpired.
type Store struct {
	repo Repository
	now  func() time.Time
}

// NewStore constructs a session store over the given repository.
func NewStore(repo Repository) *Store {
	return &Store{repo: repo, now: time.Now}
}

// Create generates an unguessable session identifier, stamps the fixed
// lifetime and persists the record.
func (s *Store) Create(ctx context.Context, userID int64) (*Session, error) {
	now := s.now().UTC()
	sess := Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: now.Add(SessionLifetime),
		CreatedAt: now,
	}
	if err := s.repo.CreateSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("auth: create session: %w", err)
	}
	return &sess, nil
}

// Get returns the session only while it has not expired. An expired row is
// reported as absent even when still physically present.
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	sess, err := s.repo.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Expired(s.now()) {
		return nil, shared.ErrSessionExpired
	}
	return sess, nil
}

// ResolveUser composes Get with an active-user lookup. A deactivated user
// invalidates all their sessions from the caller's perspective even though
// the rows are not eagerly deleted.
func (s *Store) ResolveUser(ctx context.Context, id string) (*User, *Session, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	user, err := s.repo.FindActiveUser(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil, shared.ErrNotFound
		}
		return nil, nil, fmt.Errorf("auth: resolve session user: %w", err)
	}
	return user, sess, nil
}

// Delete revokes one session explicitly.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.repo.DeleteSession(ctx, id)
}

// DeleteAllForUser revokes every session of the user, used on logout-all,
// password change and deactivation.
func (s *Store) DeleteAllForUser(ctx context.Context, userID int64) error {
	return s.repo.DeleteUserSessions(ctx, userID)
}

// SweepExpired garbage-collects rows whose expiry has passed. Purely
// housekeeping: Get never depends on it.
func (s *Store) SweepExpired(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpiredSessions(ctx, s.now())
}
