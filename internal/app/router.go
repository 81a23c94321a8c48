package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/fisioklinik/fisioklinik/internal/appointments"
	audithttp "github.com/fisioklinik/fisioklinik/internal/audit/http"
	"github.com/fisioklinik/fisioklinik/internal/auth"
	"github.com/fisioklinik/fisioklinik/internal/billing"
	"github.com/fisioklinik/fisioklinik/internal/clinical"
	"github.com/fisioklinik/fisioklinik/internal/observability"
	"github.com/fisioklinik/fisioklinik/internal/patients"
	"github.com/fisioklinik/fisioklinik/internal/platform/httpx"
	"github.com/fisioklinik/fisioklinik/internal/reports"
	"github.com/fisioklinik/fisioklinik/internal/shared"
	"github.com/fisioklinik/fisioklinik/internal/staff"
	"github.com/fisioklinik/fisioklinik/internal/treatments"
	"github.com/fisioklinik/fisioklinik/jobs"
)

// PublicPaths are reachable without a session. Everything else behind the
// gate redirects anonymous browsers to the login page.
var PublicPaths = []string{"/auth/login", "/auth/register", "/healthz", "/metrics"}

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger              *slog.Logger
	Config              *Config
	Gate                *auth.Gate
	AuthHandler         *auth.Handler
	PatientsHandler     *patients.Handler
	AppointmentsHandler *appointments.Handler
	ClinicalHandler     *clinical.Handler
	TreatmentsHandler   *treatments.Handler
	BillingHandler      *billing.Handler
	StaffHandler        *staff.Handler
	ReportsHandler      *reports.Handler
	AuditHandler        *audithttp.Handler
	JobsHandler         *jobs.Handler
	Metrics             *observability.Metrics
}

// NewRouter constructs the chi.Router with clinic defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Gate:    params.Gate,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		actor := shared.ActorFromContext(r.Context())
		httpx.JSON(w, http.StatusOK, map[string]any{
			"aplikasi": "fisioklinik",
			"user":     actor.Username,
			"role":     actor.Role,
		})
	})

	r.Route("/auth", func(r chi.Router) {
		// The gate redirects anonymous browsers here.
		r.Get("/login", func(w http.ResponseWriter, _ *http.Request) {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "silakan login terlebih dahulu")
		})
		params.AuthHandler.MountRoutes(r)
	})

	if params.PatientsHandler != nil {
		params.PatientsHandler.MountRoutes(r)
	}
	if params.AppointmentsHandler != nil {
		params.AppointmentsHandler.MountRoutes(r)
	}
	if params.ClinicalHandler != nil {
		params.ClinicalHandler.MountRoutes(r)
	}
	if params.TreatmentsHandler != nil {
		params.TreatmentsHandler.MountRoutes(r)
	}
	if params.BillingHandler != nil {
		params.BillingHandler.MountRoutes(r)
	}
	if params.StaffHandler != nil {
		params.StaffHandler.MountRoutes(r)
	}
	if params.ReportsHandler != nil {
		params.ReportsHandler.MountRoutes(r)
	}
	if params.AuditHandler != nil {
		r.Route("/audit-logs", func(r chi.Router) {
			r.Use(auth.RequireAccess(auth.ResourceUsers, auth.ActionRead))
			params.AuditHandler.MountRoutes(r)
		})
	}
	if params.JobsHandler != nil {
		r.Route("/jobs", func(r chi.Router) {
			r.Use(auth.RequireAccess(auth.ResourceUsers, auth.ActionRead))
			params.JobsHandler.MountRoutes(r)
		})
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
