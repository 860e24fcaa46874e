package shared

import "errors"

var (
	// ErrNotFound indicates an absent resource. Tenant-mismatched resources
	// surface as this same error so callers cannot probe other tenants.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized indicates an authentication or authorization failure.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrConflict indicates a uniqueness or state conflict.
	ErrConflict = errors.New("conflict")
	// ErrValidation indicates a business-rule violation in the request.
	ErrValidation = errors.New("validation failed")
)

// Error pairs a caller-facing message with an error kind so the HTTP layer
// can classify with errors.Is while the message reaches the client verbatim.
type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.kind }

// NotFound builds a not-found error with the given message.
func NotFound(msg string) error { return &Error{kind: ErrNotFound, msg: msg} }

// Unauthorized builds an unauthorized error with the given message.
func Unauthorized(msg string) error { return &Error{kind: ErrUnauthorized, msg: msg} }

// Conflict builds a conflict error with the given message.
func Conflict(msg string) error { return &Error{kind: ErrConflict, msg: msg} }

// Validation builds a validation error with the given message.
func Validation(msg string) error { return &Error{kind: ErrValidation, msg: msg} }

// UserSafeMessage returns a message suitable for API clients. Classified
// errors carry curated messages; anything else collapses to a generic one.
func UserSafeMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.msg
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrConflict) || errors.Is(err, ErrValidation) {
		return err.Error()
	}
	return "internal error"
}
