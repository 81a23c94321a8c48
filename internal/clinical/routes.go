package clinical

import (
	"github.com/go-chi/chi/v5"

	"github.com/fisioklinik/fisioklinik/internal/auth"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAccess(auth.ResourceClinical, auth.ActionRead))
		r.Get("/assessments/{id}", h.handleShowAssessment)
		r.Get("/patients/{patientID}/assessments", h.handleListAssessments)
		r.Get("/session-notes/{id}", h.handleShowSessionNote)
		r.Get("/patients/{patientID}/session-notes", h.handleListSessionNotes)
		r.Get("/patients/{patientID}/outcome-measures", h.handleListOutcomeMeasures)
	})
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAccess(auth.ResourceClinical, auth.ActionWrite))
		r.Post("/assessments", h.handleCreateAssessment)
		r.Put("/assessments/{id}", h.handleUpdateAssessment)
		r.Post("/session-notes", h.handleCreateSessionNote)
		r.Post("/outcome-measures", h.handleCreateOutcomeMeasure)
	})
}
