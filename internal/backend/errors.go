package backend

import (
	"errors"
	"fmt"
)

// RequestFailedError is a non-2xx response or a transport failure.
// StatusCode is zero when the request never got a response.
type RequestFailedError struct {
	Operation  string
	StatusCode int
	Message    string
	Err        error
}

func NewRequestFailedError(operation string, status int, message string) *RequestFailedError {
	return &RequestFailedError{
		Operation:  operation,
		StatusCode: status,
		Message:    message,
	}
}

func (e *RequestFailedError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s failed with status %d: %s", e.Operation, e.StatusCode, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Message)
}

func (e *RequestFailedError) Unwrap() error {
	return e.Err
}

func (e *RequestFailedError) WithCause(err error) *RequestFailedError {
	e.Err = err
	return e
}

// MalformedResponseError is a success response missing what the caller needs.
type MalformedResponseError struct {
	Operation string
	Field     string
	Message   string
	Err       error
}

func NewMalformedResponseError(operation, field, message string) *MalformedResponseError {
	return &MalformedResponseError{
		Operation: operation,
		Field:     field,
		Message:   message,
	}
}

func (e *MalformedResponseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s returned a malformed response (%s): %s", e.Operation, e.Field, e.Message)
	}
	return fmt.Sprintf("%s returned a malformed response: %s", e.Operation, e.Message)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

func (e *MalformedResponseError) WithCause(err error) *MalformedResponseError {
	e.Err = err
	return e
}

// IsRequestFailed reports whether err carries a RequestFailedError.
func IsRequestFailed(err error) bool {
	var target *RequestFailedError
	return errors.As(err, &target)
}

// IsMalformedResponse reports whether err carries a MalformedResponseError.
func IsMalformedResponse(err error) bool {
	var target *MalformedResponseError
	return errors.As(err, &target)
}

// IsTransportError reports whether err is a request that never got a status.
func IsTransportError(err error) bool {
	var target *RequestFailedError
	return errors.As(err, &target) && target.StatusCode == 0
}
