package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fisioklinik/fisioklinik/internal/shared"
)

type memoryRepo struct {
	users    map[int64]*User
	sessions map[string]Session
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		users:    make(map[int64]*User),
		sessions: make(map[string]Session),
	}
}

func (m *memoryRepo) FindByUsername(ctx context.Context, username string) (*User, error) {
	for _, u := range m.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *memoryRepo) FindActiveUser(ctx context.Context, id int64) (*User, error) {
	u, ok := m.users[id]
	if !ok || !u.IsActive {
		return nil, shared.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *memoryRepo) CreateSession(ctx context.Context, sess Session) error {
	m.sessions[sess.ID] = sess
	return nil
}

func (m *memoryRepo) GetSession(ctx context.Context, id string) (*Session, error) {
	sess, ok := m.sessions[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &sess, nil
}

func (m *memoryRepo) DeleteSession(ctx context.Context, id string) error {
	delete(m.sessions, id)
	return nil
}

func (m *memoryRepo) DeleteUserSessions(ctx context.Context, userID int64) error {
	for id, sess := range m.sessions {
		if sess.UserID == userID {
			delete(m.sessions, id)
		}
	}
	return nil
}

func (m *memoryRepo) DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error) {
	var removed int64
	for id, sess := range m.sessions {
		if !sess.ExpiresAt.After(before) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed, nil
}

func newTestStore(repo Repository, at time.Time) (*Store, *time.Time) {
	clock := at
	store := NewStore(repo)
	store.now = func() time.Time { return clock }
	return store, &clock
}

func TestSessionLifecycle(t *testing.T) {
	repo := newMemoryRepo()
	repo.users[1] = &User{ID: 1, Username: "admin", Role: RoleAdmin, IsActive: true}
	start := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)
	store, clock := newTestStore(repo, start)
	ctx := context.Background()

	sess, err := store.Create(ctx, 1)
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, start.Add(SessionLifetime), sess.ExpiresAt)

	// Retrievable just before expiry.
	*clock = start.Add(SessionLifetime - time.Minute)
	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)

	// Absent at expiry even though the row still exists.
	*clock = start.Add(SessionLifetime)
	_, err = store.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, shared.ErrSessionExpired)
	_, stillThere := repo.sessions[sess.ID]
	assert.True(t, stillThere, "lazy expiry must not delete the row")
}

func TestSessionIdentifiersAreUnique(t *testing.T) {
	repo := newMemoryRepo()
	store, _ := newTestStore(repo, time.Now())
	ctx := context.Background()

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		sess, err := store.Create(ctx, int64(i))
		require.NoError(t, err)
		_, dup := seen[sess.ID]
		require.False(t, dup, "duplicate session id")
		seen[sess.ID] = struct{}{}
	}
}

func TestResolveUserInactiveAccount(t *testing.T) {
	repo := newMemoryRepo()
	repo.users[2] = &User{ID: 2, Username: "sari", Role: RoleFisioterapis, IsActive: true}
	start := time.Now()
	store, _ := newTestStore(repo, start)
	ctx := context.Background()

	sess, err := store.Create(ctx, 2)
	require.NoError(t, err)

	user, resolved, err := store.ResolveUser(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "sari", user.Username)
	assert.Equal(t, sess.ID, resolved.ID)

	// Deactivation invalidates all the user's sessions from the caller's
	// perspective, while Get still returns the non-expired record.
	repo.users[2].IsActive = false
	_, _, err = store.ResolveUser(ctx, sess.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
}

func TestDeleteAllForUser(t *testing.T) {
	repo := newMemoryRepo()
	store, _ := newTestStore(repo, time.Now())
	ctx := context.Background()

	first, err := store.Create(ctx, 5)
	require.NoError(t, err)
	second, err := store.Create(ctx, 5)
	require.NoError(t, err)
	other, err := store.Create(ctx, 6)
	require.NoError(t, err)

	require.NoError(t, store.DeleteAllForUser(ctx, 5))
	_, err = store.Get(ctx, first.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	_, err = store.Get(ctx, second.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	_, err = store.Get(ctx, other.ID)
	assert.NoError(t, err)
}

func TestSweepExpired(t *testing.T) {
	repo := newMemoryRepo()
	start := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)
	store, clock := newTestStore(repo, start)
	ctx := context.Background()

	expired, err := store.Create(ctx, 1)
	require.NoError(t, err)

	*clock = start.Add(SessionLifetime + time.Minute)
	fresh, err := store.Create(ctx, 1)
	require.NoError(t, err)

	removed, err := store.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
	_, stillPresent := repo.sessions[expired.ID]
	assert.False(t, stillPresent)
	_, kept := repo.sessions[fresh.ID]
	assert.True(t, kept)

	// Idempotent with zero matching rows.
	removed, err = store.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)
}
