package usecase

import (
	"errors"

	"catalog-review/pkg/utils"
)

// Error kinds surfaced to the transport layer. Match them with errors.Is.
var (
	ErrValidation         = errors.New("validation failed")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
)

// Error carries a client-facing message and, for validation failures, per-field details.
type Error struct {
	Kind    error
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if len(e.Fields) > 0 {
		msg += " (" + utils.FormatValidationErrors(e.Fields) + ")"
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Kind }

func validationError(message string, fields map[string]string) error {
	return &Error{Kind: ErrValidation, Message: message, Fields: fields}
}

func notFound(message string) error {
	return &Error{Kind: ErrNotFound, Message: message}
}

func forbidden(message string) error {
	return &Error{Kind: ErrForbidden, Message: message}
}

// validateRequest runs struct tag validation.
func validateRequest(req any) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return validationError("Validation failed", errs)
	}
	return nil
}
