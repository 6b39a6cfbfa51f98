package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"product-catalog/internal/repository"
	"product-catalog/internal/validation"

	"go.uber.org/zap"
)

// ProblemResponse is the stable error envelope: {title, status, detail}.
type ProblemResponse struct {
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

// statusTitle maps an HTTP status to the envelope title.
func statusTitle(statusCode int) string {
	switch statusCode {
	case http.StatusBadRequest:
		return "Invalid Data"
	case http.StatusNotFound:
		return "Resource Not Found"
	case http.StatusConflict:
		return "Conflict Error"
	case http.StatusInternalServerError:
		return "Server Error"
	default:
		return "Error"
	}
}

// RespondWithError sends the problem envelope for the given status
func RespondWithError(w http.ResponseWriter, statusCode int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	json.NewEncoder(w).Encode(ProblemResponse{
		Title:  statusTitle(statusCode),
		Status: statusCode,
		Detail: detail,
	})
}

// RespondWithFieldErrors sends the grouped validation body:
// {"errors": {"<field>": ["message", ...]}}
func RespondWithFieldErrors(w http.ResponseWriter, fieldErrs *validation.FieldErrors) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(fieldErrs)
}

// RespondWithServiceError translates a service-layer failure into the matching
// status, ordered by specificity: field validation 400, not found 404,
// conflict 409, everything else 500.
func RespondWithServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var fieldErrs *validation.FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		RespondWithFieldErrors(w, fieldErrs)
	case errors.Is(err, repository.ErrProductNotFound):
		RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, repository.ErrDuplicateProduct):
		RespondWithError(w, http.StatusConflict, err.Error())
	default:
		logger.Error("Unhandled service error", zap.Error(err))
		RespondWithError(w, http.StatusInternalServerError, err.Error())
	}
}

// ErrorHandling is the single catch boundary for the pipeline: any panic from
// a downstream handler is logged with its stack and converted into the 500
// envelope instead of killing the process.
func ErrorHandling(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("Panic recovered",
						zap.Any("error", rec),
						zap.String("path", r.URL.Path),
						zap.String("method", r.Method),
						zap.Stack("stack"),
					)

					RespondWithError(w, http.StatusInternalServerError, fmt.Sprintf("%v", rec))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// RespondWithJSON sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}
