package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// CorrelationIDHeader is the fixed header name carrying the correlation id on
// every request and response.
const CorrelationIDHeader = "X-Correlation-ID"

const correlationIDKey contextKey = "correlation_id"

// CorrelationID ensures every request/response pair shares one correlation
// identifier. A missing header is backfilled with a fresh uuid as if the
// client had sent it; the same value is stamped on the response and stored in
// the request context for downstream components.
func CorrelationID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		correlationID := r.Header.Get(CorrelationIDHeader)
		if correlationID == "" {
			correlationID = uuid.NewString()
			r.Header.Set(CorrelationIDHeader, correlationID)
		}

		// Response headers must be in place before any handler writes.
		if w.Header().Get(CorrelationIDHeader) == "" {
			w.Header().Set(CorrelationIDHeader, correlationID)
		}

		ctx := context.WithValue(r.Context(), correlationIDKey, correlationID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetCorrelationID extracts the correlation id from the request context
func GetCorrelationID(ctx context.Context) (string, bool) {
	correlationID, ok := ctx.Value(correlationIDKey).(string)
	return correlationID, ok
}
