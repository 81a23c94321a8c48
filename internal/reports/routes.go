package reports

import (
	"github.com/go-chi/chi/v5"

	"github.com/fisioklinik/fisioklinik/internal/auth"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAccess(auth.ResourceReports, auth.ActionRead))
		r.Get("/reports/summary", h.handleSummary)
		r.Get("/reports/pendapatan", h.handleRevenue)
		r.Get("/reports/status-janji", h.handleAppointmentStatuses)
		r.Get("/reports/pasien-baru", h.handleNewPatients)
		r.Get("/reports/beban-terapis", h.handleTherapistWorkload)
	})
}
