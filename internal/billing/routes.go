package billing

import (
	"github.com/go-chi/chi/v5"

	"github.com/fisioklinik/fisioklinik/internal/auth"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAccess(auth.ResourceBilling, auth.ActionRead))
		r.Get("/invoices", h.handleListInvoices)
		r.Get("/invoices/{id}", h.handleShowInvoice)
		r.Get("/invoices/{id}/payments", h.handleListPayments)
	})
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAccess(auth.ResourceBilling, auth.ActionWrite))
		r.Post("/invoices", h.handleCreateInvoice)
		r.Post("/invoices/{id}/payments", h.handleRecordPayment)
	})
}
