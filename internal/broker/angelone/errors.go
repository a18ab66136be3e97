package angelone

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport matches every *TransportError.
	ErrTransport = errors.New("transport error")

	// ErrAuthentication matches every *AuthenticationError.
	ErrAuthentication = errors.New("authentication failed")

	// ErrRequest matches every *RequestError.
	ErrRequest = errors.New("request failed")
)

// TransportError reports a failed round trip or a response status other than 200.
// StatusCode is 0 when no response was received.
type TransportError struct {
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP Error: %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("HTTP Error: %d", e.StatusCode)
}

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

func (e *TransportError) Unwrap() error { return e.Err }

// AuthenticationError carries the upstream message of a rejected login.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string { return e.Message }

func (e *AuthenticationError) Is(target error) bool { return target == ErrAuthentication }

// RequestError carries the upstream message of a failed authenticated call.
type RequestError struct {
	Op      string
	Message string
}

func (e *RequestError) Error() string { return e.Message }

func (e *RequestError) Is(target error) bool { return target == ErrRequest }
