package appointments

import (
	"github.com/go-chi/chi/v5"

	"github.com/fisioklinik/fisioklinik/internal/auth"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAccess(auth.ResourceAppointments, auth.ActionRead))
		r.Get("/appointments", h.handleList)
		r.Get("/appointments/{id}", h.handleShow)
	})
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAccess(auth.ResourceAppointments, auth.ActionWrite))
		r.Post("/appointments", h.handleCreate)
		r.Put("/appointments/{id}", h.handleUpdate)
		r.Post("/appointments/{id}/status", h.handleTransition)
	})
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAccess(auth.ResourceAppointments, auth.ActionDelete))
		r.Delete("/appointments/{id}", h.handleDelete)
	})
}
