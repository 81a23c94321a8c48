package patients

import (
	"github.com/go-chi/chi/v5"

	"github.com/fisioklinik/fisioklinik/internal/auth"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAccess(auth.ResourcePatients, auth.ActionRead))
		r.Get("/patients", h.handleList)
		r.Get("/patients/{id}", h.handleShow)
	})
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAccess(auth.ResourcePatients, auth.ActionWrite))
		r.Post("/patients", h.handleCreate)
		r.Put("/patients/{id}", h.handleUpdate)
	})
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAccess(auth.ResourcePatients, auth.ActionDelete))
		r.Delete("/patients/{id}", h.handleDelete)
	})
}
