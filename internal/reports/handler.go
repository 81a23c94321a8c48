package reports

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/fisioklinik/fisioklinik/internal/platform/httpx"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// dateRange validates the optional dari/sampai query parameters.
func dateRange(r *http.Request) (string, string, bool) {
	q := r.URL.Query()
	dari, sampai := q.Get("dari"), q.Get("sampai")
	for _, v := range []string{dari, sampai} {
		if v == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", v); err != nil {
			return "", "", false
		}
	}
	return dari, sampai, true
}

func (h *Handler) respond(w http.ResponseWriter, data any, err error, what string) {
	if err != nil {
		h.logger.Error(what, slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": data})
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	dari, sampai, ok := dateRange(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "format tanggal harus YYYY-MM-DD")
		return
	}
	sum, err := h.service.Summary(r.Context(), dari, sampai)
	h.respond(w, sum, err, "report summary")
}

func (h *Handler) handleRevenue(w http.ResponseWriter, r *http.Request) {
	dari, sampai, ok := dateRange(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "format tanggal harus YYYY-MM-DD")
		return
	}
	rows, err := h.service.Revenue(r.Context(), dari, sampai)
	h.respond(w, rows, err, "report revenue")
}

func (h *Handler) handleAppointmentStatuses(w http.ResponseWriter, r *http.Request) {
	dari, sampai, ok := dateRange(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "format tanggal harus YYYY-MM-DD")
		return
	}
	rows, err := h.service.AppointmentStatuses(r.Context(), dari, sampai)
	h.respond(w, rows, err, "report appointment statuses")
}

func (h *Handler) handleNewPatients(w http.ResponseWriter, r *http.Request) {
	dari, sampai, ok := dateRange(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "format tanggal harus YYYY-MM-DD")
		return
	}
	rows, err := h.service.NewPatients(r.Context(), dari, sampai)
	h.respond(w, rows, err, "report new patients")
}

func (h *Handler) handleTherapistWorkload(w http.ResponseWriter, r *http.Request) {
	dari, sampai, ok := dateRange(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "format tanggal harus YYYY-MM-DD")
		return
	}
	rows, err := h.service.TherapistWorkload(r.Context(), dari, sampai)
	h.respond(w, rows, err, "report therapist workload")
}
