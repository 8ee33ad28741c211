package leads

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	httpmiddleware "github.com/wolfman30/leadflow/internal/http/middleware"
	"github.com/wolfman30/leadflow/internal/http/respond"
	"github.com/wolfman30/leadflow/pkg/logging"
)

const maxBodyBytes = 16 << 10

// Handler handles HTTP requests for lead submissions
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a new leads handler
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if service == nil {
		panic("leads: service required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// CreateLead handles POST /leads requests
func (h *Handler) CreateLead(w http.ResponseWriter, r *http.Request) {
	var req LeadInput
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.logger.Warn("failed to decode lead", "error", err)
		respond.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.service.Submit(r.Context(), req)
	if err != nil {
		var verrs ValidationErrors
		switch {
		case errors.As(err, &verrs):
			respond.Fail(w, http.StatusBadRequest, "validation failed", toFieldErrors(verrs)...)
		case errors.Is(err, ErrConfirmerUnreachable):
			respond.Fail(w, http.StatusBadGateway, "confirmation service unavailable, please try again")
		default:
			h.logger.Error("lead submission failed", "error", err)
			respond.Fail(w, http.StatusInternalServerError, "we could not complete your signup, please try again")
		}
		return
	}

	respond.JSON(w, http.StatusCreated, result)
}

// ListSubmissionsResponse is the response for listing submissions
type ListSubmissionsResponse struct {
	Submissions []*Submission `json:"submissions"`
	Count       int           `json:"count"`
	Offset      int           `json:"offset"`
	Limit       int           `json:"limit"`
}

// ListSubmissions handles GET /admin/leads requests
func (h *Handler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{
		Limit:  50,
		Offset: 0,
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 && limit <= 100 {
			filter.Limit = limit
		}
	}

	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			filter.Offset = offset
		}
	}

	subs, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list submissions", "error", err, "admin", httpmiddleware.AdminSubject(r.Context()))
		respond.Fail(w, http.StatusInternalServerError, "failed to list submissions")
		return
	}

	h.logger.Info("admin listed submissions", "admin", httpmiddleware.AdminSubject(r.Context()), "count", len(subs), "offset", filter.Offset)
	respond.JSON(w, http.StatusOK, ListSubmissionsResponse{
		Submissions: subs,
		Count:       len(subs),
		Offset:      filter.Offset,
		Limit:       filter.Limit,
	})
}

// GetSubmission handles GET /admin/leads/{id} requests
func (h *Handler) GetSubmission(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		respond.Fail(w, http.StatusNotFound, "submission not found")
		return
	}

	sub, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrSubmissionNotFound) {
			respond.Fail(w, http.StatusNotFound, "submission not found")
			return
		}
		h.logger.Error("failed to get submission", "error", err, "id", id)
		respond.Fail(w, http.StatusInternalServerError, "failed to get submission")
		return
	}

	h.logger.Info("admin viewed submission", "admin", httpmiddleware.AdminSubject(r.Context()), "id", id)
	respond.JSON(w, http.StatusOK, sub)
}

func toFieldErrors(errs []ValidationError) []respond.FieldError {
	out := make([]respond.FieldError, 0, len(errs))
	for _, e := range errs {
		out = append(out, respond.FieldError{Field: e.Field, Message: e.Message})
	}
	return out
}
