package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"product-catalog/internal/validation"

	"go.uber.org/zap"
)

// BodyValidation validates inbound JSON bodies before the handler runs. It is
// a static registry built at startup: each route expecting a body registers
// the payload shape it deserializes into, and the middleware resolves the
// matching rule set from that shape at request time.
type BodyValidation struct {
	targets map[string]func() interface{}
	logger  *zap.Logger
}

// NewBodyValidation creates an empty registry
func NewBodyValidation(logger *zap.Logger) *BodyValidation {
	return &BodyValidation{
		targets: make(map[string]func() interface{}),
		logger:  logger,
	}
}

// Register declares that requests matching method and path deserialize their
// body into the shape produced by newTarget.
func (v *BodyValidation) Register(method, path string, newTarget func() interface{}) {
	v.targets[method+" "+path] = newTarget
}

// Middleware performs early rejection of invalid bodies. Requests without a
// registered shape or with an empty body pass through untouched; a body that
// violates any field rule short-circuits with 400 and the grouped error
// shape, collecting every violation. Valid bodies are restored so the
// downstream handler reads them unaltered.
func (v *BodyValidation) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			newTarget, ok := v.targets[r.Method+" "+r.URL.Path]
			if !ok || r.Body == nil {
				next.ServeHTTP(w, r)
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				v.logger.Error("Failed to read request body", zap.Error(err))
				RespondWithError(w, http.StatusBadRequest, "invalid request body")
				return
			}
			// The handler needs to read the same bytes again.
			r.Body = io.NopCloser(bytes.NewReader(body))

			if strings.TrimSpace(string(body)) == "" {
				next.ServeHTTP(w, r)
				return
			}

			target := newTarget()
			if err := json.Unmarshal(body, target); err != nil {
				v.logger.Debug("Body deserialization failed", zap.Error(err))
				RespondWithError(w, http.StatusBadRequest, "invalid request body")
				return
			}

			if fieldErrs := validation.Check(target); fieldErrs != nil {
				v.logger.Debug("Request body failed validation",
					zap.String("path", r.URL.Path),
					zap.Error(fieldErrs),
				)
				RespondWithFieldErrors(w, fieldErrs)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
