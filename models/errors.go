package models

import "fmt"

// Error taxonomy used across services. Controllers map these to HTTP
// statuses in utils/response.

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

func Conflictf(format string, args ...any) error {
	return &ConflictError{Msg: fmt.Sprintf(format, args...)}
}

type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string { return e.Msg }

func NotFoundf(format string, args ...any) error {
	return &NotFoundError{Msg: fmt.Sprintf(format, args...)}
}

type PermissionError struct {
	Msg string
}

func (e *PermissionError) Error() string { return e.Msg }

// ExternalError wraps failures of the backing store or an outbound call.
type ExternalError struct {
	Msg string
	Err error
}

func (e *ExternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *ExternalError) Unwrap() error { return e.Err }

func Externalf(err error, format string, args ...any) error {
	return &ExternalError{Msg: fmt.Sprintf(format, args...), Err: err}
}
