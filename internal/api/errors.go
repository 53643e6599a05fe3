package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"cosmic-blueprint/internal/domain"
	"cosmic-blueprint/internal/service"
	"cosmic-blueprint/internal/storage"
)

// Error codes of the JSON error body.
const (
	CodeInvalidJSON         = "invalid_json"
	CodeInvalidRequest      = "invalid_request"
	CodeInvalidTime         = "invalid_time"
	CodeNotFound            = "not_found"
	CodePhysicsModel        = "physics_model_error"
	CodePersistenceDisabled = "persistence_disabled"
	CodeInternal            = "internal_error"
)

// ErrorBody is the JSON error response.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes one failure.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// classify maps an error to its HTTP status and body.
func classify(err error) (int, ErrorDetail) {
	var (
		fe  *fieldError
		ite *domain.InvalidTimeError
		pme *domain.PhysicsModelError
	)

	switch {
	case errors.As(err, &fe):
		return http.StatusBadRequest, ErrorDetail{Code: CodeInvalidRequest, Message: fe.Message, Field: fe.Field}
	case errors.As(err, &ite):
		return http.StatusUnprocessableEntity, ErrorDetail{Code: CodeInvalidTime, Message: err.Error(), Field: ite.Field}
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, ErrorDetail{Code: CodeNotFound, Message: err.Error()}
	case errors.Is(err, service.ErrUserIDRequired):
		return http.StatusBadRequest, ErrorDetail{Code: CodeInvalidRequest, Message: err.Error(), Field: "user_id"}
	case errors.Is(err, service.ErrPersistenceDisabled):
		return http.StatusServiceUnavailable, ErrorDetail{Code: CodePersistenceDisabled, Message: err.Error()}
	case errors.As(err, &pme):
		return http.StatusInternalServerError, ErrorDetail{Code: CodePhysicsModel, Message: err.Error()}
	default:
		return http.StatusInternalServerError, ErrorDetail{Code: CodeInternal, Message: "internal error"}
	}
}

func (h *handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, detail := classify(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Error(err),
		)
	}
	writeJSON(w, status, ErrorBody{Error: detail})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
