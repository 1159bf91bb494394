package apperrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Kind classifies an application error. The HTTP layer maps each kind to a
// status code exactly once.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindDependents   Kind = "has_dependents"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindRateLimited  Kind = "rate_limited"
	KindInternal     Kind = "internal"
)

// Error is a structured application error
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// WithCause attaches the underlying error
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// HasDependents rejects a delete while other rows still reference the target.
func HasDependents(message string) *Error {
	return &Error{Kind: KindDependents, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func RateLimited(message string) *Error {
	return &Error{Kind: KindRateLimited, Message: message}
}

func Internal(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: message, Cause: cause}
}

// KindOf returns the kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// From normalizes any error into an *Error. Database constraint violations
// become validation errors with a generic message, as the client can fix
// them by changing the request.
func From(err error) *Error {
	if err == nil {
		return nil
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFound("Resource").WithCause(err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return Validation("Resource already exists").WithCause(err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return Validation("Referenced resource does not exist").WithCause(err)
	case isConstraintViolation(err):
		return Validation("Data constraint violation").WithCause(err)
	}

	return Internal("Unexpected error", err)
}

// InvalidInput converts request binding failures into validation errors.
func InvalidInput(err error) *Error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		fields := make([]string, 0, len(validationErrs))
		for _, fe := range validationErrs {
			fields = append(fields, fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag()))
		}
		return Validation("Validation failed: " + strings.Join(fields, ", ")).WithCause(err)
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return Validation("Request body too large").WithCause(err)
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return Validation("Invalid JSON format").WithCause(err)
	}

	return Validation("Invalid request body").WithCause(err)
}

func isConstraintViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "constraint failed") ||
		strings.Contains(msg, "violates check constraint") ||
		strings.Contains(msg, "violates not-null constraint")
}
