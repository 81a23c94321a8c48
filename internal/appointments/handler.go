package appointments

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/fisioklinik/fisioklinik/internal/platform/httpx"
	"github.com/fisioklinik/fisioklinik/internal/shared"
)

type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePage(r)
	req := ListAppointmentsRequest{Limit: page.Limit, Offset: page.Offset}
	q := r.URL.Query()
	if tanggal := q.Get("tanggal"); tanggal != "" {
		req.Tanggal = &tanggal
	}
	if raw := q.Get("fisioterapis_id"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			req.FisioterapisID = &id
		}
	}
	if raw := q.Get("patient_id"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			req.PatientID = &id
		}
	}
	if status := q.Get("status"); status != "" {
		req.Status = &status
	}

	items, total, err := h.service.List(r.Context(), req)
	if err != nil {
		h.logger.Error("list appointments", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"data":   items,
		"total":  total,
		"limit":  req.Limit,
		"offset": req.Offset,
	})
}

func (h *Handler) handleShow(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "id tidak valid")
		return
	}
	appt, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, appt)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "body JSON tidak dapat dibaca")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.ValidationProblem(w, fieldErrors(err))
		return
	}
	actor := shared.ActorFromContext(r.Context())

	appt, err := h.service.Create(r.Context(), req, actor.ID)
	if err != nil {
		h.logger.Error("create appointment", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, appt)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "id tidak valid")
		return
	}
	var req UpdateAppointmentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "body JSON tidak dapat dibaca")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.ValidationProblem(w, fieldErrors(err))
		return
	}
	actor := shared.ActorFromContext(r.Context())

	appt, err := h.service.Update(r.Context(), actor.ID, id, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, appt)
}

func (h *Handler) handleTransition(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "id tidak valid")
		return
	}
	var req TransitionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "body JSON tidak dapat dibaca")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.ValidationProblem(w, fieldErrors(err))
		return
	}
	actor := shared.ActorFromContext(r.Context())

	appt, err := h.service.Transition(r.Context(), actor.ID, id, Status(req.Status))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, appt)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "id tidak valid")
		return
	}
	actor := shared.ActorFromContext(r.Context())

	if err := h.service.Delete(r.Context(), actor.ID, id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func fieldErrors(err error) map[string]string {
	fields := make(map[string]string)
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
	} else {
		fields["_"] = err.Error()
	}
	return fields
}
