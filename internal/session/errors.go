package session

import (
	"errors"

	"github.com/sanathboddhula/real-estate-AI-marketer/flyerapi"
)

// PromptError is a missing-input precondition. No request was sent.
type PromptError struct {
	Message string
}

func (e *PromptError) Error() string { return e.Message }

// ErrBusy is returned when the control that starts an operation is already
// disabled by an operation in flight.
var ErrBusy = errors.New("operation already in progress")

// RenderError is a backend answer the studio could not turn into HTML. The
// request itself succeeded.
type RenderError struct {
	Err error
}

func (e *RenderError) Error() string { return "render: " + e.Err.Error() }
func (e *RenderError) Unwrap() error { return e.Err }

const (
	msgEnterListingURL = "Please enter a Zillow URL"
	msgLoadFirst       = "Please load property data from Zillow URL first!"
	msgEnterAddress    = "Please enter a property address first"
	msgGenerateFirst   = "Please generate a flyer first"
	msgEnterEmail      = "Please enter an email address"

	msgConnection      = "Connection error. Please try again."
	msgImportFailed    = "Failed to load property data"
	msgGenerateFailed  = "Failed to generate flyer"
	msgContentFailed   = "Failed to generate content"
	msgEmailFailed     = "Failed to send email"
	msgImportSucceeded = "Property data loaded successfully!"
	msgEmailSent       = "Flyer sent successfully!"
)

// userMessage maps a failed call to the text shown to the user: the
// backend's own error text when it reported one, the fallback when it did
// not, and a generic connection message for transport failures.
func userMessage(err error, fallback string) string {
	if be, ok := flyerapi.AsError(err); ok {
		if be.Message != "" {
			return be.Message
		}
		return fallback
	}
	return msgConnection
}
