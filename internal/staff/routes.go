package staff

import (
	"github.com/go-chi/chi/v5"

	"github.com/fisioklinik/fisioklinik/internal/auth"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAccess(auth.ResourceUsers, auth.ActionRead))
		r.Get("/users", h.handleList)
		r.Get("/users/{id}", h.handleShow)
	})
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAccess(auth.ResourceUsers, auth.ActionWrite))
		r.Post("/users", h.handleCreate)
		r.Put("/users/{id}", h.handleUpdate)
		r.Post("/users/{id}/password", h.handleChangePassword)
		r.Post("/users/{id}/deactivate", h.handleDeactivate)
		r.Post("/users/{id}/reactivate", h.handleReactivate)
		r.Delete("/users/{id}", h.handleDelete)
	})
}
