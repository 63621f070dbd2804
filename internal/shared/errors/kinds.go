package errors

import "errors"

// Validation kinds. Every rule violation raised by an application service
// matches exactly one of these with errors.Is.
var (
	ErrNullInput    = errors.New("null input")
	ErrInvalidState = errors.New("invalid state")
	ErrArgument     = errors.New("invalid argument")
)

// ValidationError is a rule violation carrying a human readable message.
// Error returns the message verbatim so callers can surface it unchanged.
type ValidationError struct {
	Kind    error
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Is matches the kind sentinel as well as identical validation errors.
func (e *ValidationError) Is(target error) bool {
	if target == e.Kind {
		return true
	}
	other, ok := target.(*ValidationError)
	return ok && other.Kind == e.Kind && other.Message == e.Message
}

// NullInput builds a validation error for a missing input entity.
func NullInput(message string) *ValidationError {
	return &ValidationError{Kind: ErrNullInput, Message: message}
}

// InvalidState builds a validation error for an entity in a state the operation rejects.
func InvalidState(message string) *ValidationError {
	return &ValidationError{Kind: ErrInvalidState, Message: message}
}

// Argument builds a validation error for a missing or malformed argument.
func Argument(message string) *ValidationError {
	return &ValidationError{Kind: ErrArgument, Message: message}
}

// KindName returns a stable label for the kind of err, or "" when err is not a validation error.
func KindName(err error) string {
	switch {
	case errors.Is(err, ErrNullInput):
		return "NullInput"
	case errors.Is(err, ErrInvalidState):
		return "InvalidState"
	case errors.Is(err, ErrArgument):
		return "Argument"
	default:
		return ""
	}
}

// FromKindName rebuilds a validation error from a label produced by KindName.
// It returns nil for unknown labels.
func FromKindName(name, message string) *ValidationError {
	switch name {
	case "NullInput":
		return NullInput(message)
	case "InvalidState":
		return InvalidState(message)
	case "Argument":
		return Argument(message)
	default:
		return nil
	}
}
