package lookup

import (
	"errors"

	"github.com/heartmarshall/wordbuddy/internal/domain"
)

var (
	// ErrSuperseded is the cancellation cause of a lookup replaced by a newer one.
	ErrSuperseded = errors.New("lookup superseded by a newer request")
	// ErrClosed is the cancellation cause of lookups still running at Close.
	ErrClosed = errors.New("lookup service closed")
)

const invalidWordMessage = "Word cannot be null or empty."

// FailureMessage renders a lookup error as the text shown to the user after
// "Parse failed due to : ".
func FailureMessage(err error) string {
	var te *domain.TransportError
	if errors.As(err, &te) {
		return te.Error()
	}
	var pe *domain.ParseError
	if errors.As(err, &pe) {
		return pe.Error()
	}
	if errors.Is(err, domain.ErrInvalidArgument) {
		return invalidWordMessage
	}
	return err.Error()
}

// statusCode extracts the HTTP status of a transport failure.
func statusCode(err error) *int {
	var te *domain.TransportError
	if errors.As(err, &te) && te.StatusCode != 0 {
		code := te.StatusCode
		return &code
	}
	return nil
}
