package core

import "errors"

// Error classes for a harvest request. Clients wrap the concrete failure
// with one of these so callers can branch with errors.Is.
var (
	// ErrTransport covers unreachable backends and non-2xx responses.
	ErrTransport = errors.New("transport failure")

	// ErrMalformedResponse covers bodies that are not the expected JSON.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrActionFailed is returned when the backend answers success=false.
	ErrActionFailed = errors.New("action reported failure")
)

// RemoteError is a non-2xx answer from a backend. It matches ErrTransport
// and keeps the mensaje the backend sent, if any.
type RemoteError struct {
	Status  string
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return ErrTransport.Error() + ": " + e.Status
	}
	return ErrTransport.Error() + ": " + e.Status + ": " + e.Message
}

// Unwrap returns ErrTransport.
func (e *RemoteError) Unwrap() error {
	return ErrTransport
}
