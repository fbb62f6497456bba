package flyerapi

import (
	"errors"
	"fmt"
)

// Error is a failure the backend reported itself: success was false or
// missing. Transport and decoding failures are never an *Error.
type Error struct {
	Endpoint string
	Status   int
	Message  string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend %s failed with status %d", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("backend %s: %s", e.Endpoint, e.Message)
}

// NotFound reports whether the backend answered 404.
func (e *Error) NotFound() bool { return e.Status == 404 }

// AsError unwraps a backend-reported failure.
func AsError(err error) (*Error, bool) {
	var be *Error
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

// ErrPayloadTooLarge is returned when a response exceeds the read guard.
var ErrPayloadTooLarge = errors.New("payload too large")
