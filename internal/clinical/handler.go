package clinical

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

func (h *Handler) handleCreateAssessment(w http.ResponseWriter, r *http.Request) {
	var req CreateAssessmentRequest
	if !h.decode(w, r, &req) {
		return
	}
	actor := shared.ActorFromContext(r.Context())

	a, err := h.service.CreateAssessment(r.Context(), req, actor.ID)
	if err != nil {
		h.logger.Error("create assessment", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, a)
}

func (h *Handler) handleShowAssessment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "id tidak valid")
		return
	}
	a, err := h.service.GetAssessment(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, a)
}

func (h *Handler) handleListAssessments(w http.ResponseWriter, r *http.Request) {
	patientID, err := pathID(r, "patientID")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "patient id tidak valid")
		return
	}
	items, err := h.service.ListAssessments(r.Context(), patientID, shared.ParsePage(r))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": items})
}

func (h *Handler) handleUpdateAssessment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "id tidak valid")
		return
	}
	var req UpdateAssessmentRequest
	if !h.decode(w, r, &req) {
		return
	}
	actor := shared.ActorFromContext(r.Context())

	a, err := h.service.UpdateAssessment(r.Context(), actor.ID, id, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, a)
}

func (h *Handler) handleCreateSessionNote(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionNoteRequest
	if !h.decode(w, r, &req) {
		return
	}
	actor := shared.ActorFromContext(r.Context())

	n, err := h.service.CreateSessionNote(r.Context(), req, actor.ID)
	if err != nil {
		h.logger.Error("create session note", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, n)
}

func (h *Handler) handleShowSessionNote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "id tidak valid")
		return
	}
	n, err := h.service.GetSessionNote(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, n)
}

func (h *Handler) handleListSessionNotes(w http.ResponseWriter, r *http.Request) {
	patientID, err := pathID(r, "patientID")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "patient id tidak valid")
		return
	}
	items, err := h.service.ListSessionNotes(r.Context(), patientID, shared.ParsePage(r))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": items})
}

func (h *Handler) handleCreateOutcomeMeasure(w http.ResponseWriter, r *http.Request) {
	var req CreateOutcomeMeasureRequest
	if !h.decode(w, r, &req) {
		return
	}
	actor := shared.ActorFromContext(r.Context())

	m, err := h.service.CreateOutcomeMeasure(r.Context(), req, actor.ID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, m)
}

func (h *Handler) handleListOutcomeMeasures(w http.ResponseWriter, r *http.Request) {
	patientID, err := pathID(r, "patientID")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "patient id tidak valid")
		return
	}
	items, err := h.service.ListOutcomeMeasures(r.Context(), patientID, r.URL.Query().Get("measure_type"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": items})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := httpx.DecodeJSON(r, target); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "body JSON tidak dapat dibaca")
		return false
	}
	if err := h.validator.Struct(target); err != nil {
		fields := make(map[string]string)
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}
		} else {
			fields["_"] = err.Error()
		}
		httpx.ValidationProblem(w, fields)
		return false
	}
	return true
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}
