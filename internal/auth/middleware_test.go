package auth

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fisioklinik/fisioklinik/internal/shared"
)

// trackingRepo counts lookups so tests can assert the origin check happens
// before any session resolution.
type trackingRepo struct {
	*memoryRepo
	sessionLookups int
}

func (tr *trackingRepo) GetSession(ctx context.Context, id string) (*Session, error) {
	tr.sessionLookups++
	return tr.memoryRepo.GetSession(ctx, id)
}

func newTestGate(t *testing.T) (*Gate, *trackingRepo, *Store) {
	t.Helper()
	repo := &trackingRepo{memoryRepo: newMemoryRepo()}
	store := NewStore(repo)
	gate := NewGate(GateConfig{
		Logger:         slog.Default(),
		Store:          store,
		AllowedOrigins: []string{"http://localhost:5173", "https://klinik.example.id"},
		PublicPaths:    []string{"/auth/login", "/auth/register", "/healthz"},
	})
	return gate, repo, store
}

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestGateRejectsForeignOriginBeforeSessionLookup(t *testing.T) {
	gate, repo, _ := newTestGate(t)
	var called bool

	req := httptest.NewRequest(http.MethodPost, "/patients", strings.NewReader("nama=x"))
	req.Header.Set("Origin", "https://evil.example")
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "some-session"})
	res := httptest.NewRecorder()

	gate.Middleware(okHandler(&called)).ServeHTTP(res, req)

	assert.Equal(t, http.StatusForbidden, res.Code)
	assert.False(t, called)
	assert.Zero(t, repo.sessionLookups, "origin rejection must precede session resolution")
}

func TestGateAllowsListedOrigin(t *testing.T) {
	gate, repo, store := newTestGate(t)
	repo.users[1] = &User{ID: 1, Username: "admin", Role: RoleAdmin, IsActive: true}
	sess, err := store.Create(context.Background(), 1)
	require.NoError(t, err)

	var called bool
	req := httptest.NewRequest(http.MethodPost, "/patients", nil)
	req.Header.Set("Origin", "https://klinik.example.id")
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sess.ID})
	res := httptest.NewRecorder()

	gate.Middleware(okHandler(&called)).ServeHTTP(res, req)
	assert.True(t, called)
}

func TestGateNoOriginHeaderPasses(t *testing.T) {
	// Legacy and non-browser clients send no Origin header.
	gate, repo, store := newTestGate(t)
	repo.users[1] = &User{ID: 1, Username: "admin", Role: RoleAdmin, IsActive: true}
	sess, err := store.Create(context.Background(), 1)
	require.NoError(t, err)

	var called bool
	req := httptest.NewRequest(http.MethodDelete, "/patients/3", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sess.ID})
	res := httptest.NewRecorder()

	gate.Middleware(okHandler(&called)).ServeHTTP(res, req)
	assert.True(t, called)
}

func TestGateRedirectsAnonymousToLogin(t *testing.T) {
	gate, _, _ := newTestGate(t)
	var called bool

	req := httptest.NewRequest(http.MethodGet, "/patients", nil)
	res := httptest.NewRecorder()
	gate.Middleware(okHandler(&called)).ServeHTTP(res, req)

	assert.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, "/auth/login", res.Header().Get("Location"))
	assert.False(t, called)
}

func TestGatePublicRouteBypass(t *testing.T) {
	gate, _, _ := newTestGate(t)
	var called bool

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	res := httptest.NewRecorder()
	gate.Middleware(okHandler(&called)).ServeHTTP(res, req)
	assert.True(t, called)
}

func TestGatePopulatesIdentityAndRefreshesCookie(t *testing.T) {
	gate, repo, store := newTestGate(t)
	repo.users[7] = &User{ID: 7, Username: "sari", NamaLengkap: "Sari Lestari", Role: RoleFisioterapis, IsActive: true}
	sess, err := store.Create(context.Background(), 7)
	require.NoError(t, err)

	var actor *shared.Actor
	var info *shared.SessionInfo
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor = shared.ActorFromContext(r.Context())
		info = shared.SessionFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/appointments", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sess.ID})
	res := httptest.NewRecorder()
	gate.Middleware(handler).ServeHTTP(res, req)

	require.NotNil(t, actor)
	assert.Equal(t, int64(7), actor.ID)
	assert.Equal(t, string(RoleFisioterapis), actor.Role)
	require.NotNil(t, info)
	assert.Equal(t, sess.ID, info.ID)

	cookies := res.Result().Cookies()
	require.NotEmpty(t, cookies)
	refreshed := cookies[0]
	assert.Equal(t, SessionCookieName, refreshed.Name)
	assert.Equal(t, sess.ID, refreshed.Value)
	assert.Equal(t, int(SessionLifetime.Seconds()), refreshed.MaxAge)
	assert.True(t, refreshed.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, refreshed.SameSite)
}

func TestGateClearsStaleCookie(t *testing.T) {
	gate, repo, store := newTestGate(t)
	repo.users[1] = &User{ID: 1, Username: "admin", Role: RoleAdmin, IsActive: true}
	sess, err := store.Create(context.Background(), 1)
	require.NoError(t, err)
	require.NoError(t, store.Delete(context.Background(), sess.ID))

	req := httptest.NewRequest(http.MethodGet, "/patients", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sess.ID})
	res := httptest.NewRecorder()
	var called bool
	gate.Middleware(okHandler(&called)).ServeHTTP(res, req)

	assert.Equal(t, http.StatusSeeOther, res.Code)
	cookies := res.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, SessionCookieName, cookies[0].Name)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestGateRedirectsAuthenticatedAwayFromLogin(t *testing.T) {
	gate, repo, store := newTestGate(t)
	repo.users[1] = &User{ID: 1, Username: "admin", Role: RoleAdmin, IsActive: true}
	sess, err := store.Create(context.Background(), 1)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/auth/login", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sess.ID})
	res := httptest.NewRecorder()
	var called bool
	gate.Middleware(okHandler(&called)).ServeHTTP(res, req)

	assert.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, "/", res.Header().Get("Location"))
	assert.False(t, called)
}

func TestRequireAccess(t *testing.T) {
	var called bool
	protected := RequireAccess("users", "write")(okHandler(&called))

	// Anonymous request.
	req := httptest.NewRequest(http.MethodPost, "/staff", nil)
	res := httptest.NewRecorder()
	protected.ServeHTTP(res, req)
	assert.Equal(t, http.StatusForbidden, res.Code)
	assert.False(t, called)

	// Clinician lacks users:write.
	req = httptest.NewRequest(http.MethodPost, "/staff", nil)
	req = req.WithContext(shared.ContextWithActor(req.Context(), &shared.Actor{ID: 2, Role: string(RoleFisioterapis)}))
	res = httptest.NewRecorder()
	protected.ServeHTTP(res, req)
	assert.Equal(t, http.StatusForbidden, res.Code)
	assert.False(t, called)

	// Admin passes.
	req = httptest.NewRequest(http.MethodPost, "/staff", nil)
	req = req.WithContext(shared.ContextWithActor(req.Context(), &shared.Actor{ID: 1, Role: string(RoleAdmin)}))
	res = httptest.NewRecorder()
	protected.ServeHTTP(res, req)
	assert.True(t, called)
}

func TestSessionExpiredMidFlight(t *testing.T) {
	gate, repo, store := newTestGate(t)
	repo.users[1] = &User{ID: 1, Username: "admin", Role: RoleAdmin, IsActive: true}

	start := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)
	clock := start
	store.now = func() time.Time { return clock }

	sess, err := store.Create(context.Background(), 1)
	require.NoError(t, err)
	clock = start.Add(SessionLifetime + time.Second)

	req := httptest.NewRequest(http.MethodGet, "/patients", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sess.ID})
	res := httptest.NewRecorder()
	var called bool
	gate.Middleware(okHandler(&called)).ServeHTTP(res, req)

	assert.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, "/auth/login", res.Header().Get("Location"))
	assert.False(t, called)
}
