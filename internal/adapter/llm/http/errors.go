package http

import "fmt"

// ErrorType represents the category of failure raised by the client.
type ErrorType int

const (
	ErrTypeInvalidEndpoint ErrorType = iota
	ErrTypeAPI
	ErrTypeDecoding
	ErrTypeTimeout
	ErrTypeUnknown
)

// String returns a human-readable description of the error type.
func (e ErrorType) String() string {
	switch e {
	case ErrTypeInvalidEndpoint:
		return "invalid endpoint"
	case ErrTypeAPI:
		return "api error"
	case ErrTypeDecoding:
		return "decoding error"
	case ErrTypeTimeout:
		return "timeout"
	case ErrTypeUnknown:
		return "unknown error"
	default:
		return "unknown error"
	}
}

// Error represents a client failure with additional context.
// Every failure surfaced by the openai client is one of these; callers
// pattern-match with errors.As and inspect Type.
type Error struct {
	Type       ErrorType
	Message    string
	StatusCode int   // HTTP status for ErrTypeAPI, zero otherwise
	Err        error // wrapped cause, when one exists
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s (status: %d)", e.Type.String(), e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Type.String(), e.Message)
}

// Is implements error equality checking for errors.Is.
// Two Errors are considered equal when their types match.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// Unwrap exposes the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewInvalidEndpointError reports a base URL + endpoint pair that does
// not compose into a well-formed URL. Raised before any network I/O.
func NewInvalidEndpointError(message string) *Error {
	return &Error{
		Type:    ErrTypeInvalidEndpoint,
		Message: message,
	}
}

// NewAPIError reports a non-2xx HTTP status from the server. The
// message is extracted from the error envelope when it decodes, or is
// the caller-supplied fallback otherwise.
func NewAPIError(statusCode int, message string) *Error {
	return &Error{
		Type:       ErrTypeAPI,
		Message:    message,
		StatusCode: statusCode,
	}
}

// NewDecodingError reports a 2xx body that failed to parse into the
// expected response shape.
func NewDecodingError(message string, cause error) *Error {
	return &Error{
		Type:    ErrTypeDecoding,
		Message: message,
		Err:     cause,
	}
}

// NewTimeoutError reports a transport-level timeout. The client does
// not run its own timer; this passes through what the transport raised.
func NewTimeoutError(message string) *Error {
	return &Error{
		Type:    ErrTypeTimeout,
		Message: message,
	}
}

// NewUnknownError wraps any failure not covered by the other kinds.
func NewUnknownError(cause error) *Error {
	return &Error{
		Type:    ErrTypeUnknown,
		Message: cause.Error(),
		Err:     cause,
	}
}
