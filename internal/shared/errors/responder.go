package errors

import (
	"errors"

	"github.com/gin-gonic/gin"
)

// ContentTypeProblemJSON is the media type for Problem Details responses.
const ContentTypeProblemJSON = "application/problem+json"

// ErrorMapper turns an application error into a problem, reporting false
// when it does not recognise err.
type ErrorMapper func(err error) (ProblemDetail, bool)

// Responder writes Problem Details responses. Errors are passed through its
// mappers in order; the first match wins.
type Responder struct {
	mappers []ErrorMapper
	// RequestIDHeader names a response header whose value is echoed as the
	// requestId extension. Empty disables it.
	RequestIDHeader string
}

// NewResponder creates a responder with the given error mappers.
func NewResponder(mappers ...ErrorMapper) *Responder {
	return &Responder{mappers: mappers}
}

// Respond sends problem, filling the instance from the request path.
func (r *Responder) Respond(c *gin.Context, problem ProblemDetail) {
	if problem.Instance == "" {
		problem.Instance = c.Request.URL.Path
	}
	if r.RequestIDHeader != "" {
		if id := c.Writer.Header().Get(r.RequestIDHeader); id != "" {
			problem = problem.WithExtension("requestId", id)
		}
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.JSON(problem.Status, problem)
}

// RespondError maps err to a problem. Unmapped errors that are not already
// problems become 500s.
func (r *Responder) RespondError(c *gin.Context, err error) {
	for _, mapper := range r.mappers {
		if problem, ok := mapper(err); ok {
			r.Respond(c, problem)
			return
		}
	}
	var problem ProblemDetail
	if errors.As(err, &problem) {
		r.Respond(c, problem)
		return
	}
	r.Respond(c, ErrInternal.WithDetail(err.Error()))
}

// BadRequest sends a 400 with detail.
func (r *Responder) BadRequest(c *gin.Context, detail string) {
	r.Respond(c, ErrBadRequest.WithDetail(detail))
}

// ValidationFailed sends a 400 listing the rejected fields.
func (r *Responder) ValidationFailed(c *gin.Context, fieldErrors map[string]string) {
	r.Respond(c, NewFieldValidationProblem(fieldErrors))
}

// ValidationMapper maps rule violations raised by application services to 400 responses.
func ValidationMapper(err error) (ProblemDetail, bool) {
	var verr *ValidationError
	if !errors.As(err, &verr) {
		return ProblemDetail{}, false
	}
	return NewRuleViolationProblem(verr), true
}

// SentinelMapper reports any error matching one of sentinels using template,
// with the error text as detail.
func SentinelMapper(template ProblemDetail, sentinels ...error) ErrorMapper {
	return func(err error) (ProblemDetail, bool) {
		for _, sentinel := range sentinels {
			if errors.Is(err, sentinel) {
				return template.WithDetail(err.Error()), true
			}
		}
		return ProblemDetail{}, false
	}
}
