package errorhandler

import (
	"context"
	"net/http"

	"github.com/focalfinder/focalfinder-api/internal/pkg/logger"
	"github.com/focalfinder/focalfinder-api/internal/pkg/response"
)

// HandleError logs err with the request context and sends an error response.
// The client only ever sees message; err stays in the logs.
func HandleError(ctx context.Context, w http.ResponseWriter, status int, code, message string, err error) {
	l := logger.FromContext(ctx)
	event := l.Error()
	if status < http.StatusInternalServerError {
		event = l.Warn()
	}

	event.
		Str("error_code", code).
		Str("error_message", message).
		Int("status_code", status).
		Err(err).
		Msg("Request error")

	response.Error(w, status, code, message)
}

// Internal logs an unexpected failure of operation and answers with a generic 500.
func Internal(ctx context.Context, w http.ResponseWriter, operation string, err error) {
	logger.FromContext(ctx).Error().
		Str("operation", operation).
		Err(err).
		Msg("Unexpected error")

	response.InternalError(w)
}

// LogValidationError logs validation failures at warn level.
func LogValidationError(ctx context.Context, fieldErrors map[string]string) {
	logger.FromContext(ctx).Warn().
		Interface("validation_errors", fieldErrors).
		Msg("Validation error")
}
