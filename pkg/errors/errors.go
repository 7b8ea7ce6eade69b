package errors

import (
	"errors"
	"fmt"
)

// Domain errors - Sentinel errors for use with errors.Is()
var (
	ErrNotFound          = errors.New("resource not found")
	ErrUnauthenticated   = errors.New("not authenticated")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrForbidden         = errors.New("forbidden")
	ErrConflict          = errors.New("resource conflict")
	ErrValidation        = errors.New("validation error")
	ErrPayloadInvalid    = errors.New("payload invalid")
	ErrPayloadTooLarge   = errors.New("payload too large")
	ErrInternal          = errors.New("internal server error")
)

// Stable error kinds exposed to clients.
const (
	KindNotFound          = "NOT_FOUND"
	KindUnauthenticated   = "UNAUTHENTICATED"
	KindInvalidCredential = "INVALID_CREDENTIAL"
	KindForbidden         = "FORBIDDEN"
	KindConflict          = "CONFLICT"
	KindValidation        = "VALIDATION_ERROR"
	KindPayloadInvalid    = "PAYLOAD_INVALID"
	KindPayloadTooLarge   = "PAYLOAD_TOO_LARGE"
	KindInternal          = "INTERNAL_SERVER_ERROR"
)

// Custom error type with context
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Constructors
func NotFound(msg string) *AppError {
	return &AppError{Code: KindNotFound, Message: msg, Err: ErrNotFound}
}

func Unauthenticated(msg string) *AppError {
	return &AppError{Code: KindUnauthenticated, Message: msg, Err: ErrUnauthenticated}
}

// InvalidCredential wraps cause so callers can still errors.Is against the
// underlying token failure (expired, bad signature, wrong type).
func InvalidCredential(msg string, cause error) *AppError {
	if cause == nil {
		cause = ErrInvalidCredential
	} else {
		cause = fmt.Errorf("%w: %w", ErrInvalidCredential, cause)
	}
	return &AppError{Code: KindInvalidCredential, Message: msg, Err: cause}
}

func Forbidden(msg string) *AppError {
	return &AppError{Code: KindForbidden, Message: msg, Err: ErrForbidden}
}

func Conflict(msg string) *AppError {
	return &AppError{Code: KindConflict, Message: msg, Err: ErrConflict}
}

func Validation(msg string) *AppError {
	return &AppError{Code: KindValidation, Message: msg, Err: ErrValidation}
}

func PayloadInvalid(msg string) *AppError {
	return &AppError{Code: KindPayloadInvalid, Message: msg, Err: ErrPayloadInvalid}
}

func PayloadTooLarge(msg string) *AppError {
	return &AppError{Code: KindPayloadTooLarge, Message: msg, Err: ErrPayloadTooLarge}
}

func Internal(msg string, err error) *AppError {
	if err == nil {
		err = ErrInternal
	} else {
		err = fmt.Errorf("%w: %w", ErrInternal, err)
	}
	return &AppError{Code: KindInternal, Message: msg, Err: err}
}
