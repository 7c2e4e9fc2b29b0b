// Package request assigns every inbound request an identifier that is echoed
// back to the caller and attached to all log lines of the request.
package request

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"pwpolicy/pkg/requestcontext"
)

// HeaderRequestID is read from the caller when present and always written back.
const HeaderRequestID = "X-Request-ID"

const maxRequestIDLength = 128

// RequestID reuses a caller-supplied request ID or generates a new UUID.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, requestID)

		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	return requestcontext.RequestID(ctx)
}
