package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fisioklinik/fisioklinik/internal/shared"
)

// Repository defines persistence operations for the auth module.
type Repository interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindActiveUser(ctx context.Context, id int64) (*User, error)
	CreateSession(ctx context.Context, sess Session) error
	GetSession(ctx context.Context, id string) (*Session, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteUserSessions(ctx context.Context, userID int64) error
	DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error)
}

// PGRepository implements Repository using PostgreSQL. Session expiry is
// stored as epoch milliseconds to match the audit-facing schema.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const selectUser = `
SELECT id, username, email, password_hash, role, nama_lengkap, no_telepon, is_active, created_at, updated_at
FROM users`

// FindByUsername fetches a user by username regardless of active flag; the
// caller decides how inactivity is surfaced.
func (r *PGRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	row := r.pool.QueryRow(ctx, selectUser+` WHERE username = $1`, username)
	return scanUser(row)
}

// FindActiveUser fetches a user by id, filtered to active accounts only.
func (r *PGRepository) FindActiveUser(ctx context.Context, id int64) (*User, error) {
	row := r.pool.QueryRow(ctx, selectUser+` WHERE id = $1 AND is_active`, id)
	return scanUser(row)
}

// CreateSession persists a new session row. Identifier uniqueness is
// enforced by the primary key.
func (r *PGRepository) CreateSession(ctx context.Context, sess Session) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO sessions (id, user_id, expires_at, created_at) VALUES ($1, $2, $3, $4)`,
		sess.ID, sess.UserID, sess.ExpiresAt.UnixMilli(), sess.CreatedAt.UTC(),
	)
	return err
}

// GetSession returns the raw session row if present, expired or not. Expiry
// is a store-level concern so it stays testable without a database.
func (r *PGRepository) GetSession(ctx context.Context, id string) (*Session, error) {
	var sess Session
	var expiresAt int64
	var createdAt pgtype.Timestamptz
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, expires_at, created_at FROM sessions WHERE id = $1`, id,
	).Scan(&sess.ID, &sess.UserID, &expiresAt, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	sess.ExpiresAt = time.UnixMilli(expiresAt)
	if createdAt.Valid {
		sess.CreatedAt = createdAt.Time
	}
	return &sess, nil
}

// DeleteSession removes one session row.
func (r *PGRepository) DeleteSession(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	return err
}

// DeleteUserSessions removes every session belonging to the user.
func (r *PGRepository) DeleteUserSessions(ctx context.Context, userID int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID)
	return err
}

// DeleteExpiredSessions removes rows whose expiry is at or before the cutoff.
func (r *PGRepository) DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, before.UnixMilli())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanUser(row pgx.Row) (*User, error) {
	var user User
	var role string
	var noTelepon pgtype.Text
	var createdAt, updatedAt pgtype.Timestamptz
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &role,
		&user.NamaLengkap, &noTelepon, &user.IsActive, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	user.Role = Role(role)
	if noTelepon.Valid {
		user.NoTelepon = &noTelepon.String
	}
	if createdAt.Valid {
		user.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		user.UpdatedAt = updatedAt.Time
	}
	return &user, nil
}

var _ Repository = (*PGRepository)(nil)
