package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/fisioklinik/fisioklinik/internal/audit"
	"github.com/fisioklinik/fisioklinik/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	repo   Repository
	store  *Store
	audit  *audit.Writer
	logger *slog.Logger
}

// NewService constructs a new Service.
func NewService(repo Repository, store *Store, auditWriter *audit.Writer, logger *slog.Logger) *Service {
	return &Service{repo: repo, store: store, audit: auditWriter, logger: logger}
}

// Authenticate validates username/password credentials. Unknown username,
// wrong password and inactive account all collapse into
// shared.ErrInvalidCredentials so responses cannot be used for account
// enumeration.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) && s.logger != nil {
			s.logger.Error("lookup user", slog.Any("error", err))
		}
		return nil, shared.ErrInvalidCredentials
	}
	if !VerifyPassword(user.PasswordHash, password) {
		if s.logger != nil {
			s.logger.Warn("login gagal", slog.String("username", username))
		}
		return nil, shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		if s.logger != nil {
			s.logger.Warn("login akun nonaktif", slog.String("username", username))
		}
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// Login authenticates and opens a session, recording a LOGIN audit entry.
func (s *Service) Login(ctx context.Context, username, password, ip, userAgent string) (*User, *Session, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return nil, nil, err
	}
	sess, err := s.store.Create(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	s.audit.Record(ctx, audit.Entry{
		ActorID:   &user.ID,
		Action:    audit.ActionLogin,
		TableName: "sessions",
		IPAddress: ip,
		UserAgent: userAgent,
	})
	return user, sess, nil
}

// Logout revokes the session and records a LOGOUT audit entry for the actor.
func (s *Service) Logout(ctx context.Context, actorID *int64, sessionID, ip, userAgent string) error {
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return err
	}
	s.audit.Record(ctx, audit.Entry{
		ActorID:   actorID,
		Action:    audit.ActionLogout,
		TableName: "sessions",
		IPAddress: ip,
		UserAgent: userAgent,
	})
	return nil
}
