package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dmitrymomot/jwtflow/core/logger"
)

// Error is the JSON error body returned by the API.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e Error) Error() string {
	return e.Message
}

// WithMessage returns a copy of the error with a custom message.
func (e Error) WithMessage(message string) Error {
	e.Message = message
	return e
}

var (
	ErrBadRequest          = Error{Status: http.StatusBadRequest, Code: "BAD_REQUEST", Message: http.StatusText(http.StatusBadRequest)}
	ErrUnauthorized        = Error{Status: http.StatusUnauthorized, Code: "UNAUTHORIZED", Message: http.StatusText(http.StatusUnauthorized)}
	ErrNotFound            = Error{Status: http.StatusNotFound, Code: "NOT_FOUND", Message: http.StatusText(http.StatusNotFound)}
	ErrMethodNotAllowed    = Error{Status: http.StatusMethodNotAllowed, Code: "METHOD_NOT_ALLOWED", Message: http.StatusText(http.StatusMethodNotAllowed)}
	ErrTooManyRequests     = Error{Status: http.StatusTooManyRequests, Code: "TOO_MANY_REQUESTS", Message: http.StatusText(http.StatusTooManyRequests)}
	ErrInternalServerError = Error{Status: http.StatusInternalServerError, Code: "INTERNAL_SERVER_ERROR", Message: http.StatusText(http.StatusInternalServerError)}

	ErrProfileNotFound = ErrNotFound.WithMessage("profile not found")
	ErrMissingToken    = ErrUnauthorized.WithMessage("missing token")
	ErrTokenRejected   = ErrUnauthorized.WithMessage("invalid token")
	ErrSignFailed      = ErrInternalServerError.WithMessage("failed to sign token")
	ErrTokenRevoked    = ErrUnauthorized.WithMessage("token revoked")
)

// ErrRevocationCheck wraps failures of the revocation store.
var ErrRevocationCheck = errors.New("revocation check failed")

func fromHTTPError(he *echo.HTTPError) Error {
	var e Error
	switch he.Code {
	case http.StatusBadRequest:
		e = ErrBadRequest
	case http.StatusUnauthorized:
		e = ErrUnauthorized
	case http.StatusNotFound:
		e = ErrNotFound
	case http.StatusMethodNotAllowed:
		e = ErrMethodNotAllowed
	case http.StatusTooManyRequests:
		e = ErrTooManyRequests
	default:
		e = Error{Status: he.Code, Code: "HTTP_ERROR", Message: http.StatusText(he.Code)}
	}
	if msg, ok := he.Message.(string); ok && msg != "" {
		e.Message = msg
	}
	return e
}

// ErrorHandler renders every handler error as an Error JSON body.
// Errors that are neither Error nor *echo.HTTPError become 500s and are logged.
func ErrorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		renderError(log, err, c)
	}
}

func renderError(log *slog.Logger, err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var apiErr Error
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &apiErr):
	case errors.As(err, &httpErr):
		apiErr = fromHTTPError(httpErr)
	default:
		apiErr = ErrInternalServerError
		log.ErrorContext(c.Request().Context(), "unhandled error",
			logger.Component("api"),
			logger.Error(err),
		)
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(apiErr.Status)
	} else {
		writeErr = c.JSON(apiErr.Status, apiErr)
	}
	if writeErr != nil {
		log.ErrorContext(c.Request().Context(), "failed to write error response",
			logger.Component("api"),
			logger.Error(fmt.Errorf("%w (original: %v)", writeErr, err)),
		)
	}
}
