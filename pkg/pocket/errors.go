package pocket

import (
	"errors"
	"fmt"
)

// ErrInvalidResponse is returned when a successful response carries a body that is not JSON.
var ErrInvalidResponse = errors.New("pocket: response body is not valid JSON")

// RemoteError reports a non-200 answer from the API. Message and Code come
// from the X-Error and X-Error-Code headers and are empty when absent.
type RemoteError struct {
	Operation  Operation
	StatusCode int
	Message    string
	Code       string
}

func (e *RemoteError) Error() string {
	msg := fmt.Sprintf("pocket: %s failed with status %d", e.Operation, e.StatusCode)
	if e.Code != "" {
		msg += " (code " + e.Code + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// TransportError reports a request that never produced an HTTP response.
type TransportError struct {
	Operation Operation
	URL       string
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("pocket: %s request to %s: %v", e.Operation, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
