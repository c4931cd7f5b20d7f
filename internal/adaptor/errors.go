package adaptor

import (
	"errors"
	"net/http"

	"catalog-review/internal/usecase"
	"catalog-review/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// handleServiceError maps service errors to HTTP responses.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	message, fields := describeError(err)

	switch {
	case errors.Is(err, usecase.ErrValidation):
		log.Warn(operation+" validation failed", zap.Error(err))
		if len(fields) == 0 {
			utils.ResponseBadRequest(w, message, nil)
			return
		}
		utils.ResponseBadRequest(w, message, fields)

	case errors.Is(err, usecase.ErrUnauthenticated),
		errors.Is(err, usecase.ErrInvalidCredentials):
		log.Warn(operation+" failed - unauthorized", zap.Error(err))
		utils.ResponseUnauthorized(w, message)

	case errors.Is(err, usecase.ErrForbidden):
		log.Warn(operation+" failed - forbidden", zap.Error(err))
		utils.ResponseForbidden(w, message)

	case errors.Is(err, usecase.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, message)

	default:
		log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

func describeError(err error) (string, map[string]string) {
	var svcErr *usecase.Error
	if errors.As(err, &svcErr) {
		if svcErr.Message != "" {
			return svcErr.Message, svcErr.Fields
		}
		return svcErr.Kind.Error(), svcErr.Fields
	}
	return err.Error(), nil
}

// pathID parses the {id} URL parameter.
func pathID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}

// decodeBody writes a 400 and returns false when the body is not valid JSON.
// An empty body decodes to the zero value.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := utils.DecodeJSON(w, r, dst)
	if err == nil || errors.Is(err, utils.ErrEmptyBody) {
		return true
	}

	utils.ResponseBadRequest(w, "Invalid request body", nil)
	return false
}

func optionalQuery(r *http.Request, key string) *string {
	value := r.URL.Query().Get(key)
	if value == "" {
		return nil
	}
	return &value
}
