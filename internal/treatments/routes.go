package treatments

import (
	"github.com/go-chi/chi/v5"

	"github.com/fisioklinik/fisioklinik/internal/auth"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAccess(auth.ResourceTreatments, auth.ActionRead))
		r.Get("/treatment-plans/{id}", h.handleShow)
		r.Get("/patients/{patientID}/treatment-plans", h.handleListByPatient)
	})
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAccess(auth.ResourceTreatments, auth.ActionWrite))
		r.Post("/treatment-plans", h.handleCreate)
		r.Put("/treatment-plans/{id}", h.handleUpdate)
	})
}
