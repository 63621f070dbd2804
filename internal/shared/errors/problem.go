// Package errors provides RFC 7807 Problem Details for the webshop API and
// the rule violation kinds raised by application services.
package errors

import (
	"fmt"
	"maps"
	"net/http"
)

// ProblemDetail represents an RFC 7807 Problem Details response.
// See: https://www.rfc-editor.org/rfc/rfc7807
type ProblemDetail struct {
	Type       string         `json:"type"`
	Title      string         `json:"title"`
	Status     int            `json:"status"`
	Detail     string         `json:"detail,omitempty"`
	Instance   string         `json:"instance,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

func (p ProblemDetail) Error() string {
	if p.Detail != "" {
		return fmt.Sprintf("%s: %s", p.Title, p.Detail)
	}
	return p.Title
}

// WithDetail returns a copy with the given detail message.
func (p ProblemDetail) WithDetail(detail string) ProblemDetail {
	p.Detail = detail
	return p
}

// WithExtension returns a copy with an additional extension property. The
// receiver's extensions are never modified.
func (p ProblemDetail) WithExtension(key string, value any) ProblemDetail {
	extensions := maps.Clone(p.Extensions)
	if extensions == nil {
		extensions = make(map[string]any, 1)
	}
	extensions[key] = value
	p.Extensions = extensions
	return p
}

const (
	TypeValidation = "/problems/validation-error"
	TypeNotFound   = "/problems/not-found"
	TypeConflict   = "/problems/conflict"
	TypeInternal   = "/problems/internal-error"
	TypeBadRequest = "/problems/bad-request"
)

var (
	ErrNotFound = ProblemDetail{
		Type:   TypeNotFound,
		Title:  "Resource Not Found",
		Status: http.StatusNotFound,
	}

	// ErrValidation covers rule violations and rejected request fields.
	ErrValidation = ProblemDetail{
		Type:   TypeValidation,
		Title:  "Validation Error",
		Status: http.StatusBadRequest,
	}

	ErrBadRequest = ProblemDetail{
		Type:   TypeBadRequest,
		Title:  "Bad Request",
		Status: http.StatusBadRequest,
	}

	ErrConflict = ProblemDetail{
		Type:   TypeConflict,
		Title:  "Conflict",
		Status: http.StatusConflict,
	}

	ErrInternal = ProblemDetail{
		Type:   TypeInternal,
		Title:  "Internal Server Error",
		Status: http.StatusInternalServerError,
	}
)

// NewRuleViolationProblem reports a business rule violation. The message is
// surfaced verbatim as the detail and the kind is exposed as an extension.
func NewRuleViolationProblem(err *ValidationError) ProblemDetail {
	return ErrValidation.
		WithDetail(err.Message).
		WithExtension("kind", KindName(err))
}

// NewFieldValidationProblem lists request fields that failed binding rules.
func NewFieldValidationProblem(fieldErrors map[string]string) ProblemDetail {
	return ErrValidation.WithExtension("fields", fieldErrors)
}

// NewParameterProblem reports a malformed path or query parameter.
func NewParameterProblem(name, detail string) ProblemDetail {
	return ErrBadRequest.
		WithDetail(detail).
		WithExtension("parameter", name)
}
