package httperr

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ritikk978/next-nest/pkg/logger"
)

// Error is a typed failure carried from handlers to the error handler.
// Not-found and access-denied are deliberately distinct: a resource the
// caller may not see returns 403, never 404. This leaks existence but
// not state, matching the documented policy.
type Error struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

// ValidationError carries field-level constraint failures rendered as a
// {field: message} map
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

func NotFound(message string) *Error {
	return &Error{Status: http.StatusNotFound, Message: message}
}

func BadRequest(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Status: http.StatusUnauthorized, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Status: http.StatusForbidden, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Status: http.StatusConflict, Message: message}
}

func PayloadTooLarge(message string) *Error {
	return &Error{Status: http.StatusRequestEntityTooLarge, Message: message}
}

func Internal(message string) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: message}
}

func Validation(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// envelope is the JSON error body: {status, timestamp, message, details}
type envelope struct {
	Status    int       `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
}

// ErrorHandler renders typed errors as the JSON envelope and masks
// anything unexpected behind a generic message
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	log := logger.FromEcho(c)

	var verr *ValidationError
	if errors.As(err, &verr) {
		_ = c.JSON(http.StatusBadRequest, verr.Fields)
		return
	}

	var herr *Error
	if errors.As(err, &herr) {
		if herr.Status >= http.StatusInternalServerError {
			log.Error("Request failed", zap.Int("status", herr.Status), zap.Error(err))
		}
		_ = c.JSON(herr.Status, envelope{
			Status:    herr.Status,
			Timestamp: time.Now().UTC(),
			Message:   herr.Message,
			Details:   herr.Details,
		})
		return
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		msg, _ := echoErr.Message.(string)
		if msg == "" {
			msg = http.StatusText(echoErr.Code)
		}
		_ = c.JSON(echoErr.Code, envelope{
			Status:    echoErr.Code,
			Timestamp: time.Now().UTC(),
			Message:   msg,
		})
		return
	}

	log.Error("Unhandled error", zap.Error(err))
	_ = c.JSON(http.StatusInternalServerError, envelope{
		Status:    http.StatusInternalServerError,
		Timestamp: time.Now().UTC(),
		Message:   "An unexpected error occurred",
	})
}
