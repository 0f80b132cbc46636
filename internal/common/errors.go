package common

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

// ErrorKind classifies an application error for transport mapping.
type ErrorKind int

const (
	KindValidation ErrorKind = iota // malformed input, rejected before any write
	KindNotFound                    // referenced record does not exist
	KindConflict                    // business-state precondition failed
	KindInternal                    // store failure or unexpected condition
)

// AppError is the error type every service operation returns. Kind drives the
// HTTP status; Message is safe to show to clients. The wrapped error, if any,
// stays server-side.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func NewValidationError(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NewNotFoundError(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func NewConflictError(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// NewInternalError wraps a store or infrastructure failure. The operation name
// is what clients see; err is kept for logs only.
func NewInternalError(operation string, err error) *AppError {
	return &AppError{
		Kind:    KindInternal,
		Message: fmt.Sprintf("failed to %s", operation),
		Err:     err,
	}
}

// HTTPStatus maps the error kind to a transport status code.
func (e *AppError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// SuccessResponse is the standard success envelope.
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// FailureResponse is the standard error envelope.
type FailureResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SendData sends a success envelope with a payload.
func SendData(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, SuccessResponse{Success: true, Data: data})
}

// SendMessage sends a success envelope with a message only.
func SendMessage(c echo.Context, status int, message string) error {
	return c.JSON(status, SuccessResponse{Success: true, Message: message})
}

// RespondError translates an application error into the failure envelope.
// Internal errors are logged with their cause and surfaced generically.
func RespondError(c echo.Context, err error) error {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = NewInternalError("process request", err)
	}
	if appErr.Kind == KindInternal {
		log.WithError(appErr.Err).WithFields(log.Fields{
			"method": c.Request().Method,
			"path":   c.Path(),
		}).Error(appErr.Message)
		return c.JSON(http.StatusInternalServerError, FailureResponse{
			Success: false,
			Message: "Internal server error",
		})
	}
	return c.JSON(appErr.HTTPStatus(), FailureResponse{Success: false, Message: appErr.Message})
}
