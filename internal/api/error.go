package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoResponse marks transport-level failures where no response was
// received from the service, as opposed to a server-returned error status.
// Both propagate as failures; the distinction is diagnostic.
var ErrNoResponse = errors.New("no response from server")

// Error is a server-returned error response.
type Error struct {
	StatusCode int
	Body       []byte
	Detail     string
}

// newError builds an [Error], extracting the service's detail message when
// the body is the usual {"detail": "..."} shape.
func newError(status int, body []byte) *Error {
	e := &Error{StatusCode: status, Body: body}

	var payload struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Detail != "" {
			e.Detail = payload.Detail
		} else {
			e.Detail = payload.Message
		}
	}

	return e
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("API error: status %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("API error: status %d", e.StatusCode)
}

// AsError unwraps err into an [*Error] if an API error is in its chain.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsNetworkError reports whether err is a transport failure with no
// server response.
func IsNetworkError(err error) bool {
	return errors.Is(err, ErrNoResponse)
}

// Detail returns the server's human-readable error message from err, or
// fallback when err carries none.
func Detail(err error, fallback string) string {
	if apiErr, ok := AsError(err); ok && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}
