package confirmation

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wolfman30/leadflow/internal/http/respond"
	"github.com/wolfman30/leadflow/internal/leads"
	"github.com/wolfman30/leadflow/pkg/logging"
)

const maxBodyBytes = 16 << 10

// Handler serves POST /send-confirmation.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if service == nil {
		panic("confirmation: service required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var in leads.LeadInput
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&in); err != nil {
		h.logger.Warn("failed to decode confirmation request", "error", err)
		respond.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.service.Send(r.Context(), in)
	if err != nil {
		var verrs leads.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]respond.FieldError, 0, len(verrs))
			for _, v := range verrs {
				fields = append(fields, respond.FieldError{Field: v.Field, Message: v.Message})
			}
			respond.Fail(w, http.StatusBadRequest, "validation failed", fields...)
			return
		}
		respond.Fail(w, http.StatusInternalServerError, err.Error())
		return
	}

	respond.JSON(w, http.StatusOK, result)
}
