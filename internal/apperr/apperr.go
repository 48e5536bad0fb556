package apperr

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Kind classifies a failure for status-code mapping. The mapping is total:
// every failure that reaches the HTTP boundary goes through one of these.
type Kind int

const (
	KindValidation Kind = iota
	KindInvalidFieldValue
	KindRoleNotFound
	KindDependency
	KindInternal
)

// Code returns the public taxonomy symbol for the kind.
func (k Kind) Code() string {
	switch k {
	case KindValidation:
		return "VALIDATION_FAILED"
	case KindInvalidFieldValue:
		return "INVALID_FIELD_VALUE"
	case KindRoleNotFound:
		return "ROLE_NOT_FOUND"
	case KindDependency:
		return "DEPENDENCY_FAILURE"
	default:
		return "INTERNAL_ERROR"
	}
}

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	switch k {
	case KindValidation, KindInvalidFieldValue:
		return fiber.StatusBadRequest
	case KindRoleNotFound:
		return fiber.StatusNotFound
	case KindDependency:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// FieldError is a single machine-readable reason attached to a field.
type FieldError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SubError groups the reasons reported for one request field.
type SubError struct {
	Field  string       `json:"field"`
	Errors []FieldError `json:"errors"`
}

// Error is the orchestrator failure type. It carries everything needed to
// build the public error envelope; the wrapped cause stays internal.
type Error struct {
	Kind      Kind
	Message   string
	SubErrors []SubError
	cause     error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind.Code(), e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind.Code(), e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// WithSubErrors attaches field-level details and returns the error for
// chaining.
func (e *Error) WithSubErrors(subErrors ...SubError) *Error {
	e.SubErrors = append(e.SubErrors, subErrors...)
	return e
}

// Envelope is the standard error response shape. It is never nested inside
// a success response; every failure path produces exactly one of these.
type Envelope struct {
	Code          string     `json:"code"`
	Message       string     `json:"message"`
	SubErrors     []SubError `json:"subErrors"`
	Timestamp     int64      `json:"timestamp"`
	CorrelationID string     `json:"correlationId"`
}

// Envelope builds the public representation of the error for the given
// request. No stack traces or internal identifiers beyond the correlation
// id are exposed.
func (e *Error) Envelope(correlationID string) Envelope {
	subErrors := e.SubErrors
	if subErrors == nil {
		subErrors = []SubError{}
	}
	return Envelope{
		Code:          e.Kind.Code(),
		Message:       e.Message,
		SubErrors:     subErrors,
		Timestamp:     time.Now().Unix(),
		CorrelationID: correlationID,
	}
}

// From coerces any error into an *Error. Unanticipated failures map to
// INTERNAL_ERROR with a generic message so internals never leak.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(KindInternal, "Internal server error", err)
}
