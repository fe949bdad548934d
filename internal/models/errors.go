package models

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error kinds. Every failure an operation can produce resolves to exactly one
// of these, with the HTTP status it maps to.
const (
	KindValidation      = "VALIDATION"
	KindUnauthenticated = "UNAUTHENTICATED"
	KindForbidden       = "FORBIDDEN"
	KindNotFound        = "NOT_FOUND"
	KindConflict        = "CONFLICT"
	KindInternal        = "INTERNAL"
)

// FieldError is a single violated validation rule.
type FieldError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ErrorResponse is the error envelope returned to callers.
type ErrorResponse struct {
	Message string       `json:"message"`
	Status  int          `json:"status"`
	Data    []FieldError `json:"data,omitempty"`
}

// AppError is a failure tagged with a kind, the status to surface, and an
// optional list of field-level violations.
type AppError struct {
	Kind    string
	Status  int
	Message string
	Data    []FieldError
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

// NewValidationError aggregates every violated rule into a single failure.
// The violations list is never truncated to the first entry.
func NewValidationError(violations []FieldError) *AppError {
	return &AppError{
		Kind:    KindValidation,
		Status:  fiber.StatusUnprocessableEntity,
		Message: "Invalid input",
		Data:    violations,
	}
}

func NewUnauthenticatedError(message string) *AppError {
	return &AppError{
		Kind:    KindUnauthenticated,
		Status:  fiber.StatusUnauthorized,
		Message: message,
	}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{
		Kind:    KindForbidden,
		Status:  fiber.StatusForbidden,
		Message: message,
	}
}

func NewNotFoundError(resource string, id any) *AppError {
	return &AppError{
		Kind:    KindNotFound,
		Status:  fiber.StatusNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewConflictError(message string) *AppError {
	return &AppError{
		Kind:    KindConflict,
		Status:  fiber.StatusConflict,
		Message: message,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Kind:    KindInternal,
		Status:  fiber.StatusInternalServerError,
		Message: "Internal server error",
		Err:     err,
	}
}

// StatusOf returns the status attached to err, defaulting to 500 when the
// failure carries none.
func StatusOf(err error) int {
	if appErr, ok := err.(*AppError); ok && appErr.Status != 0 {
		return appErr.Status
	}
	return fiber.StatusInternalServerError
}

// RespondWithError renders the standard error envelope for err.
func RespondWithError(c *fiber.Ctx, err error) error {
	status := StatusOf(err)
	response := ErrorResponse{
		Message: "Internal server error",
		Status:  status,
	}
	if appErr, ok := err.(*AppError); ok {
		response.Message = appErr.Message
		response.Data = appErr.Data
	}
	return c.Status(status).JSON(response)
}
