package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/focalfinder/focalfinder-api/internal/pkg/logger"
)

const requestIDHeader = "X-Request-ID"

// RequestID assigns each request an id, echoes it in the response and
// attaches a request-scoped logger to the context.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" || len(requestID) > 64 {
			requestID = uuid.NewString()
		}

		w.Header().Set(requestIDHeader, requestID)

		ctx := logger.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
