package staff

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fisioklinik/fisioklinik/internal/audit"
	"github.com/fisioklinik/fisioklinik/internal/auth"
	"github.com/fisioklinik/fisioklinik/internal/platform/httpx"
	"github.com/fisioklinik/fisioklinik/internal/shared"
)

type Service struct {
	repo     Repository
	sessions *auth.Store
	audit    *audit.Writer
	logger   *slog.Logger
}

func NewService(repo Repository, sessions *auth.Store, auditWriter *audit.Writer, logger *slog.Logger) *Service {
	return &Service{repo: repo, sessions: sessions, audit: auditWriter, logger: logger}
}

func (s *Service) Create(ctx context.Context, req CreateUserRequest, actorID int64) (*auth.User, error) {
	role := auth.Role(req.Role)
	if !role.Valid() {
		return nil, fmt.Errorf("%w: role %q", shared.ErrUnknownRole, req.Role)
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := auth.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
		NamaLengkap:  req.NamaLengkap,
		NoTelepon:    req.NoTelepon,
		IsActive:     true,
	}
	user.ID, err = s.repo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.audit.RecordActivity(ctx, &actorID, audit.ActionCreate, "users", &user.ID, nil, user)
	return &user, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*auth.User, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, page shared.Page) ([]auth.User, int, error) {
	return s.repo.List(ctx, page)
}

// Update changes profile fields. A role change revokes the user's sessions so
// stale permissions cannot outlive it.
func (s *Service) Update(ctx context.Context, actorID int64, id int64, req UpdateUserRequest) (*auth.User, error) {
	before, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]any)
	roleChanged := false
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Role != nil {
		role := auth.Role(*req.Role)
		if !role.Valid() {
			return nil, fmt.Errorf("%w: role %q", shared.ErrUnknownRole, *req.Role)
		}
		updates["role"] = *req.Role
		roleChanged = role != before.Role
	}
	if req.NamaLengkap != nil {
		updates["nama_lengkap"] = *req.NamaLengkap
	}
	if req.NoTelepon != nil {
		updates["no_telepon"] = *req.NoTelepon
	}
	if len(updates) == 0 {
		return before, nil
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if roleChanged {
		if err := s.sessions.DeleteAllForUser(ctx, id); err != nil {
			s.logger.Warn("revoke sessions after role change", slog.Int64("user_id", id), slog.Any("error", err))
		}
	}

	after, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.audit.RecordActivity(ctx, &actorID, audit.ActionUpdate, "users", &id, before, after)
	return after, nil
}

// ChangePassword rehashes and revokes every session of the user.
func (s *Service) ChangePassword(ctx context.Context, actorID int64, id int64, password string) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.repo.SetPasswordHash(ctx, id, hash); err != nil {
		return fmt.Errorf("set password: %w", err)
	}
	if err := s.sessions.DeleteAllForUser(ctx, id); err != nil {
		s.logger.Warn("revoke sessions after password change", slog.Int64("user_id", id), slog.Any("error", err))
	}
	s.audit.RecordActivity(ctx, &actorID, audit.ActionUpdate, "users", &id, nil, map[string]any{"password_diubah": true})
	return nil
}

// Deactivate soft-disables the account and revokes its sessions.
func (s *Service) Deactivate(ctx context.Context, actorID int64, id int64) error {
	before, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.SetActive(ctx, id, false); err != nil {
		return fmt.Errorf("deactivate user: %w", err)
	}
	if err := s.sessions.DeleteAllForUser(ctx, id); err != nil {
		s.logger.Warn("revoke sessions on deactivate", slog.Int64("user_id", id), slog.Any("error", err))
	}
	s.audit.RecordActivity(ctx, &actorID, audit.ActionUpdate, "users", &id, before, map[string]any{"is_active": false})
	return nil
}

func (s *Service) Reactivate(ctx context.Context, actorID int64, id int64) error {
	before, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.SetActive(ctx, id, true); err != nil {
		return fmt.Errorf("reactivate user: %w", err)
	}
	s.audit.RecordActivity(ctx, &actorID, audit.ActionUpdate, "users", &id, before, map[string]any{"is_active": true})
	return nil
}

// Delete removes the row outright. Allowed only when nothing in the audit
// trail or clinical record references the user; otherwise deactivate.
func (s *Service) Delete(ctx context.Context, actorID int64, id int64) error {
	before, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	refs, err := s.repo.CountReferences(ctx, id)
	if err != nil {
		return fmt.Errorf("count user references: %w", err)
	}
	if refs > 0 {
		return fmt.Errorf("%w: pengguna masih direferensikan oleh %d catatan, gunakan nonaktifkan", httpx.ErrConflict, refs)
	}
	if err := s.sessions.DeleteAllForUser(ctx, id); err != nil {
		s.logger.Warn("revoke sessions on delete", slog.Int64("user_id", id), slog.Any("error", err))
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	s.audit.RecordActivity(ctx, &actorID, audit.ActionDelete, "users", &id, before, nil)
	return nil
}
