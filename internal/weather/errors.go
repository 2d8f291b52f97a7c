package weather

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedPayload marks an upstream payload missing required fields.
	// Non-retryable: callers should surface it, not fall back.
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrNotFound is returned when the provider reports HTTP 404 for the
	// requested location.
	ErrNotFound = errors.New("location not found")
)

func malformedf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformedPayload, fmt.Sprintf(format, args...))
}
