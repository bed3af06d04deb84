package poeninja

import (
	"errors"
	"fmt"
)

var (
	// ErrRemoteRejected is returned when the API answers with a non-200 status
	ErrRemoteRejected = errors.New("remote rejected the request")

	// ErrMalformedResponse is returned when the body is not a valid overview
	ErrMalformedResponse = errors.New("malformed remote response")

	// ErrUnreachable is returned when the API could not be reached in time
	ErrUnreachable = errors.New("remote unreachable")
)

// StatusError carries the status code of a rejected request
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status code %d", ErrRemoteRejected, e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return ErrRemoteRejected
}
