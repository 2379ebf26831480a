package model

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnsupported  = errors.New("operation not supported")
)

// DomainError carries a stable user-facing message for one of the sentinel
// error kinds above. errors.Is matches against the wrapped kind.
type DomainError struct {
	kind    error
	message string
}

// NewDomainError wraps kind with a user-facing message.
func NewDomainError(kind error, message string) *DomainError {
	return &DomainError{kind: kind, message: message}
}

func (e *DomainError) Error() string {
	return e.message
}

func (e *DomainError) Unwrap() error {
	return e.kind
}
