package staff

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fisioklinik/fisioklinik/internal/audit"
	"github.com/fisioklinik/fisioklinik/internal/auth"
	"github.com/fisioklinik/fisioklinik/internal/platform/httpx"
	"github.com/fisioklinik/fisioklinik/internal/shared"
)

type stubRepo struct {
	users  map[int64]*auth.User
	refs   map[int64]int64
	nextID int64
}

func newStubRepo() *stubRepo {
	return &stubRepo{users: make(map[int64]*auth.User), refs: make(map[int64]int64)}
}

func (r *stubRepo) Get(ctx context.Context, id int64) (*auth.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *stubRepo) List(ctx context.Context, page shared.Page) ([]auth.User, int, error) {
	var out []auth.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, len(out), nil
}

func (r *stubRepo) Create(ctx context.Context, user auth.User) (int64, error) {
	r.nextID++
	user.ID = r.nextID
	r.users[user.ID] = &user
	return user.ID, nil
}

func (r *stubRepo) Update(ctx context.Context, id int64, updates map[string]any) error {
	u, ok := r.users[id]
	if !ok {
		return shared.ErrNotFound
	}
	if v, ok := updates["role"]; ok {
		u.Role = auth.Role(v.(string))
	}
	if v, ok := updates["nama_lengkap"]; ok {
		u.NamaLengkap = v.(string)
	}
	return nil
}

func (r *stubRepo) SetPasswordHash(ctx context.Context, id int64, hash string) error {
	u, ok := r.users[id]
	if !ok {
		return shared.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (r *stubRepo) SetActive(ctx context.Context, id int64, active bool) error {
	u, ok := r.users[id]
	if !ok {
		return shared.ErrNotFound
	}
	u.IsActive = active
	return nil
}

func (r *stubRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.users[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *stubRepo) CountReferences(ctx context.Context, id int64) (int64, error) {
	return r.refs[id], nil
}

// sessionRepo backs an auth.Store with per-user session tracking.
type sessionRepo struct {
	sessions map[string]auth.Session
	revoked  []int64
}

func newSessionRepo() *sessionRepo {
	return &sessionRepo{sessions: make(map[string]auth.Session)}
}

func (r *sessionRepo) FindByUsername(ctx context.Context, username string) (*auth.User, error) {
	return nil, shared.ErrNotFound
}

func (r *sessionRepo) FindActiveUser(ctx context.Context, id int64) (*auth.User, error) {
	return nil, shared.ErrNotFound
}

func (r *sessionRepo) CreateSession(ctx context.Context, sess auth.Session) error {
	r.sessions[sess.ID] = sess
	return nil
}

func (r *sessionRepo) GetSession(ctx context.Context, id string) (*auth.Session, error) {
	sess, ok := r.sessions[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &sess, nil
}

func (r *sessionRepo) DeleteSession(ctx context.Context, id string) error {
	delete(r.sessions, id)
	return nil
}

func (r *sessionRepo) DeleteUserSessions(ctx context.Context, userID int64) error {
	r.revoked = append(r.revoked, userID)
	for id, sess := range r.sessions {
		if sess.UserID == userID {
			delete(r.sessions, id)
		}
	}
	return nil
}

func (r *sessionRepo) DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

type auditCapture struct {
	actions []string
}

func (c *auditCapture) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	c.actions = append(c.actions, args[1].(string))
	return pgconn.CommandTag{}, nil
}

func newTestService() (*Service, *stubRepo, *sessionRepo, *auditCapture) {
	repo := newStubRepo()
	sessions := newSessionRepo()
	capture := &auditCapture{}
	svc := NewService(repo, auth.NewStore(sessions), audit.NewWriter(capture, nil), slog.Default())
	return svc, repo, sessions, capture
}

func TestCreateHashesPasswordAndActivates(t *testing.T) {
	svc, repo, _, capture := newTestService()

	user, err := svc.Create(context.Background(), CreateUserRequest{
		Username:    "dokter1",
		Email:       "dokter1@klinik.local",
		Password:    "rahasia123",
		Role:        "fisioterapis",
		NamaLengkap: "Dewi Lestari",
	}, 1)
	require.NoError(t, err)

	stored := repo.users[user.ID]
	assert.True(t, stored.IsActive)
	assert.NotEqual(t, "rahasia123", stored.PasswordHash)
	assert.True(t, auth.VerifyPassword(stored.PasswordHash, "rahasia123"))
	assert.Equal(t, []string{"CREATE"}, capture.actions)
}

func TestCreateRejectsUnknownRole(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.Create(context.Background(), CreateUserRequest{
		Username:    "x",
		Email:       "x@klinik.local",
		Password:    "rahasia123",
		Role:        "superuser",
		NamaLengkap: "X",
	}, 1)
	assert.ErrorIs(t, err, shared.ErrUnknownRole)
}

func TestChangePasswordRevokesSessions(t *testing.T) {
	svc, repo, sessions, _ := newTestService()
	repo.users[5] = &auth.User{ID: 5, Username: "dokter1", Role: auth.RoleFisioterapis}

	require.NoError(t, svc.ChangePassword(context.Background(), 1, 5, "barubanget"))
	assert.Equal(t, []int64{5}, sessions.revoked)
	assert.True(t, auth.VerifyPassword(repo.users[5].PasswordHash, "barubanget"))
}

func TestRoleChangeRevokesSessions(t *testing.T) {
	svc, repo, sessions, _ := newTestService()
	repo.users[5] = &auth.User{ID: 5, Username: "dokter1", Role: auth.RoleFisioterapis}

	role := "admin"
	_, err := svc.Update(context.Background(), 1, 5, UpdateUserRequest{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, []int64{5}, sessions.revoked)
}

func TestUpdateSameRoleKeepsSessions(t *testing.T) {
	svc, repo, sessions, _ := newTestService()
	repo.users[5] = &auth.User{ID: 5, Username: "dokter1", Role: auth.RoleFisioterapis}

	nama := "Dewi Lestari, S.Ft"
	role := "fisioterapis"
	_, err := svc.Update(context.Background(), 1, 5, UpdateUserRequest{NamaLengkap: &nama, Role: &role})
	require.NoError(t, err)
	assert.Empty(t, sessions.revoked)
}

func TestDeactivateRevokesSessions(t *testing.T) {
	svc, repo, sessions, capture := newTestService()
	repo.users[5] = &auth.User{ID: 5, IsActive: true}

	require.NoError(t, svc.Deactivate(context.Background(), 1, 5))
	assert.False(t, repo.users[5].IsActive)
	assert.Equal(t, []int64{5}, sessions.revoked)
	assert.Equal(t, []string{"UPDATE"}, capture.actions)
}

func TestDeleteBlockedWhileReferenced(t *testing.T) {
	svc, repo, _, capture := newTestService()
	repo.users[5] = &auth.User{ID: 5}
	repo.refs[5] = 12

	err := svc.Delete(context.Background(), 1, 5)
	assert.ErrorIs(t, err, httpx.ErrConflict)
	assert.Contains(t, repo.users, int64(5))
	assert.Empty(t, capture.actions)
}

func TestDeleteUnreferencedUser(t *testing.T) {
	svc, repo, sessions, capture := newTestService()
	repo.users[5] = &auth.User{ID: 5}

	require.NoError(t, svc.Delete(context.Background(), 1, 5))
	assert.NotContains(t, repo.users, int64(5))
	assert.Equal(t, []int64{5}, sessions.revoked)
	assert.Equal(t, []string{"DELETE"}, capture.actions)
}
