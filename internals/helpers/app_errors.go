package helper

import (
	"errors"
	"log"
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Kind sentinels. Match with errors.Is.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

// AppError carries a user-facing message on top of a kind sentinel.
type AppError struct {
	Kind    error
	Message string
}

func (e *AppError) Error() string { return e.Message }
func (e *AppError) Unwrap() error { return e.Kind }

func NotFound(message string) error { return &AppError{Kind: ErrNotFound, Message: message} }
func Conflict(message string) error { return &AppError{Kind: ErrConflict, Message: message} }

// ValidationError collects per-field messages. Nothing is written when it is returned.
type ValidationError struct {
	Fields map[string][]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string][]string{}}
}

func (e *ValidationError) Add(field, message string) {
	e.Fields[field] = append(e.Fields[field], message)
}

func (e *ValidationError) HasErrors() bool { return len(e.Fields) > 0 }

// Merge copies field errors from other into e.
func (e *ValidationError) Merge(other *ValidationError) {
	if other == nil {
		return
	}
	for f, msgs := range other.Fields {
		e.Fields[f] = append(e.Fields[f], msgs...)
	}
}

// OrNil returns nil when no field failed, so callers can `return ve.OrNil()`.
func (e *ValidationError) OrNil() error {
	if e == nil || !e.HasErrors() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], ", "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// WriteAppError maps domain errors to the JSON error shape.
// Unknown errors are logged and answered with a generic 500.
func WriteAppError(c *fiber.Ctx, err error) error {
	var (
		ve *ValidationError
		ae *AppError
		fe *fiber.Error
	)
	switch {
	case errors.As(err, &ve):
		return JsonValidationError(c, ve.Fields)
	case errors.As(err, &ae) && errors.Is(ae.Kind, ErrNotFound):
		return JsonError(c, fiber.StatusNotFound, ae.Message)
	case errors.As(err, &ae) && errors.Is(ae.Kind, ErrConflict):
		return JsonError(c, fiber.StatusConflict, ae.Message)
	case errors.As(err, &fe):
		return JsonError(c, fe.Code, fe.Message)
	default:
		log.Printf("[ERROR] %s %s: %v", c.Method(), c.Path(), err)
		return JsonError(c, fiber.StatusInternalServerError, "internal server error")
	}
}

// ErrorHandler untuk fiber.Config: error dari middleware (fiber.NewError) ikut shape standar.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return WriteAppError(c, err)
}
