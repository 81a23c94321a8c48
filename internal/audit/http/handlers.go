// Package audithttp mengekspos audit timeline sebagai endpoint baca untuk admin.
package audithttp

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/fisioklinik/fisioklinik/internal/audit"
	"github.com/fisioklinik/fisioklinik/internal/platform/httpx"
)

// Handler melayani permintaan audit timeline.
type Handler struct {
	logger  *slog.Logger
	service *audit.Service
}

// NewHandler membuat handler audit baru.
func NewHandler(logger *slog.Logger, service *audit.Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) handleTimeline(w http.ResponseWriter, r *http.Request) {
	filters := parseFilters(r)
	result, err := h.service.Timeline(r.Context(), filters)
	if err != nil {
		h.logger.Error("audit timeline", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func parseFilters(r *http.Request) audit.TimelineFilters {
	q := r.URL.Query()
	filters := audit.TimelineFilters{
		Action:    q.Get("aksi"),
		TableName: q.Get("tabel"),
	}
	if raw := q.Get("dari"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			filters.From = t
		}
	}
	if raw := q.Get("sampai"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			// inclusive through end of day
			filters.To = t.Add(24*time.Hour - time.Nanosecond)
		}
	}
	if raw := q.Get("user_id"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filters.UserID = &id
		}
	}
	if raw := q.Get("page"); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil {
			filters.Page = page
		}
	}
	if raw := q.Get("page_size"); raw != "" {
		if size, err := strconv.Atoi(raw); err == nil {
			filters.PageSize = size
		}
	}
	return filters
}
