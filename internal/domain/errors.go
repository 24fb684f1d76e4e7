package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound        = errors.New("not found")
	ErrAlreadyExists   = errors.New("already exists")
	ErrValidation      = errors.New("validation error")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrTransport       = errors.New("transport error")
	ErrParse           = errors.New("parse error")
	ErrAudio           = errors.New("audio error")
	ErrJournalDisabled = errors.New("lookup journal disabled")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// TransportError reports a failed dictionary or audio request: either the
// request never completed (StatusCode 0) or the server answered with a
// non-success status.
type TransportError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("Error: %s, StatusCode: %d", e.Message, e.StatusCode)
}

// Unwrap exposes both ErrTransport and the underlying cause to errors.Is.
func (e *TransportError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrTransport}
	}
	return []error{ErrTransport, e.Err}
}

// NewTransportError builds a TransportError from a status code and reason.
func NewTransportError(status int, message string, cause error) *TransportError {
	return &TransportError{StatusCode: status, Message: message, Err: cause}
}

// ParseErrorKind classifies response parsing failures.
type ParseErrorKind string

const (
	ParseMalformed ParseErrorKind = "malformed"
	ParseNoData    ParseErrorKind = "noData"
)

// NoDataMessage is shown to the user when the response holds no usable definition.
const NoDataMessage = "No Data Found"

// ParseError reports a dictionary response that could not be turned into a
// ResolvedDefinition.
type ParseError struct {
	Kind ParseErrorKind
	Err  error
}

func (e *ParseError) Error() string {
	if e.Kind == ParseNoData {
		return NoDataMessage
	}
	if e.Err != nil {
		return fmt.Sprintf("malformed response: %v", e.Err)
	}
	return "malformed response"
}

func (e *ParseError) Unwrap() error { return ErrParse }

// IsParseKind reports whether err is a ParseError of the given kind.
func IsParseKind(err error, kind ParseErrorKind) bool {
	var pe *ParseError
	return errors.As(err, &pe) && pe.Kind == kind
}
