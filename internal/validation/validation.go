package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator instance shared by the middleware and the service layer, so both
// enforce exactly the same rule set.
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// FieldErrors groups every violated rule by field name. It is the error type
// the boundary maps to a 400 response.
type FieldErrors struct {
	Fields map[string][]string `json:"errors"`
}

func (e *FieldErrors) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+strings.Join(e.Fields[field], "; "))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Check runs every rule declared on v via struct tags and collects all
// failures instead of stopping at the first one. A nil return means v is
// valid.
func Check(v interface{}) *FieldErrors {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		// Non-rule failure (e.g. v is not a struct); report it under a
		// catch-all key so callers still get the grouped shape.
		return &FieldErrors{Fields: map[string][]string{"_": {err.Error()}}}
	}

	fields := make(map[string][]string)
	for _, e := range validationErrors {
		fields[e.Field()] = append(fields[e.Field()], getErrorMessage(e))
	}
	return &FieldErrors{Fields: fields}
}

func getErrorMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " cannot be empty."
	case "max":
		return e.Field() + " can be at most " + e.Param() + " characters."
	case "gte":
		if e.Param() == "0" {
			return e.Field() + " cannot be less than zero."
		}
		return e.Field() + " must be greater than or equal to " + e.Param() + "."
	case "lte":
		return e.Field() + " must be less than or equal to " + e.Param() + "."
	default:
		return fmt.Sprintf("%s is invalid (%s).", e.Field(), e.Tag())
	}
}
