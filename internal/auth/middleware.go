package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/fisioklinik/fisioklinik/internal/platform/httpx"
	"github.com/fisioklinik/fisioklinik/internal/shared"
)

// Gate runs once per inbound request, before route logic, and establishes
// the identity context the rest of the system trusts.
type Gate struct {
	logger      *slog.Logger
	store       *Store
	origins     map[string]struct{}
	publicPaths []string
	secure      bool
}

// GateConfig collects the request gate dependencies.
type GateConfig struct {
	Logger         *slog.Logger
	Store          *Store
	AllowedOrigins []string
	// PublicPaths are path prefixes reachable without authentication.
	PublicPaths []string
	Secure      bool
}

// NewGate constructs the request gate middleware.
func NewGate(cfg GateConfig) *Gate {
	origins := make(map[string]struct{}, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		origins[o] = struct{}{}
	}
	return &Gate{
		logger:      cfg.Logger,
		store:       cfg.Store,
		origins:     origins,
		publicPaths: cfg.PublicPaths,
		secure:      cfg.Secure,
	}
}

// Middleware applies, in order: origin allow-list check for mutating
// methods, session resolution with a sliding cookie refresh, and route
// gating with a login redirect for protected routes.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if mutating(r.Method) {
			// Before any session lookup or side effect. Requests without an
			// Origin header pass: non-browser clients do not send one.
			if origin := r.Header.Get("Origin"); origin != "" {
				if _, ok := g.origins[origin]; !ok {
					g.logger.Warn("origin ditolak", slog.String("origin", origin), slog.String("path", r.URL.Path))
					httpx.Problem(w, http.StatusForbidden, "Forbidden", "Cross-site form submissions are forbidden")
					return
				}
			}
		}

		ctx := r.Context()
		var actor *shared.Actor

		if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
			user, sess, err := g.store.ResolveUser(ctx, cookie.Value)
			if err == nil {
				actor = &shared.Actor{
					ID:       user.ID,
					Username: user.Username,
					FullName: user.NamaLengkap,
					Email:    user.Email,
					Role:     string(user.Role),
				}
				ctx = shared.ContextWithActor(ctx, actor)
				ctx = shared.ContextWithSession(ctx, &shared.SessionInfo{
					ID:        sess.ID,
					UserID:    sess.UserID,
					ExpiresAt: sess.ExpiresAt,
				})
				// Sliding window: re-issue the cookie with the full max-age.
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookieName,
					Value:    cookie.Value,
					Path:     "/",
					MaxAge:   int(SessionLifetime.Seconds()),
					HttpOnly: true,
					Secure:   g.secure,
					SameSite: http.SameSiteStrictMode,
				})
			} else {
				// Expired, revoked or inactive user: drop the stale cookie.
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookieName,
					Value:    "",
					Path:     "/",
					MaxAge:   -1,
					HttpOnly: true,
					Secure:   g.secure,
					SameSite: http.SameSiteStrictMode,
				})
			}
		}

		if actor == nil && !g.isPublic(r.URL.Path) {
			http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
			return
		}
		if actor != nil && strings.HasPrefix(r.URL.Path, "/auth/login") {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAccess authorizes the resource/action pair against the actor's role
// before any mutation is attempted. Anonymous requests and roles without the
// permission get a forbidden response.
func RequireAccess(resource, action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := shared.ActorFromContext(r.Context())
			if actor == nil {
				httpx.Problem(w, http.StatusForbidden, "Forbidden", "autentikasi diperlukan")
				return
			}
			if !CanAccess(Role(actor.Role), resource, action) {
				httpx.Problem(w, http.StatusForbidden, "Forbidden", "Anda tidak memiliki izin untuk aksi ini")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (g *Gate) isPublic(path string) bool {
	for _, prefix := range g.publicPaths {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
