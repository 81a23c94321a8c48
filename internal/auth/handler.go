package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/fisioklinik/fisioklinik/internal/platform/httpx"
	"github.com/fisioklinik/fisioklinik/internal/shared"
)

// SessionCookieName is the fixed cookie carrying the opaque session id.
const SessionCookieName = "session"

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	secure    bool
	validator *validator.Validate
}

// NewHandler constructs a Handler instance. secure controls the cookie's
// Secure attribute and should be true in production.
func NewHandler(logger *slog.Logger, service *Service, secure bool) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		secure:    secure,
		validator: validator.New(),
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
	r.Get("/me", h.handleMe)
}

type loginForm struct {
	Username string `validate:"required,min=3,max=50"`
	Password string `validate:"required,min=6"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "form tidak dapat dibaca")
		return
	}
	form := loginForm{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}
	if err := h.validator.Struct(form); err != nil {
		fields := make(map[string]string)
		for _, fieldErr := range err.(validator.ValidationErrors) {
			fields[fieldErr.Field()] = "Username dan password harus diisi"
		}
		httpx.ValidationProblem(w, fields)
		return
	}

	user, sess, err := h.service.Login(r.Context(), form.Username, form.Password, r.RemoteAddr, r.UserAgent())
	if err != nil {
		// Same message for unknown username and wrong password.
		httpx.Problem(w, http.StatusBadRequest, "Login Gagal", "Username atau password salah")
		return
	}

	http.SetCookie(w, h.SessionCookie(sess.ID))
	h.logger.Info("login", slog.String("username", user.Username))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(SessionCookieName)
	if err == nil && cookie.Value != "" {
		var actorID *int64
		if actor := shared.ActorFromContext(r.Context()); actor != nil {
			actorID = &actor.ID
		}
		if err := h.service.Logout(r.Context(), actorID, cookie.Value, r.RemoteAddr, r.UserAgent()); err != nil {
			h.logger.Warn("logout", slog.Any("error", err))
		}
	}
	http.SetCookie(w, h.ClearedSessionCookie())
	http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	if actor == nil {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"id":           actor.ID,
		"username":     actor.Username,
		"nama_lengkap": actor.FullName,
		"email":        actor.Email,
		"role":         actor.Role,
		"permissions":  PermissionsFor(Role(actor.Role)),
	})
}

// SessionCookie builds the session cookie with the full lifetime window.
func (h *Handler) SessionCookie(sessionID string) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(SessionLifetime.Seconds()),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// ClearedSessionCookie expires the session cookie immediately.
func (h *Handler) ClearedSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteStrictMode,
	}
}
