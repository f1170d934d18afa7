package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/prayer-api/internal/domain/prayer"
	apperrors "github.com/yanqian/prayer-api/pkg/errors"
)

// HTTPError captures the metadata required to serialize an error response consistently.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// NewHTTPError is a helper to build an HTTPError instance.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

var statusByCode = map[string]int{
	prayer.CodeLocationNotFound:  http.StatusNotFound,
	prayer.CodeInvalidPrayerName: http.StatusBadRequest,
	prayer.CodeInvalidInput:      http.StatusBadRequest,
	prayer.CodeCalculationFailed: http.StatusUnprocessableEntity,
	prayer.CodeEngineError:       http.StatusInternalServerError,
}

// fromDomainError maps a service error onto its transport status. Messages of
// unknown failures are never exposed.
func fromDomainError(err error) *HTTPError {
	if errors.Is(err, context.DeadlineExceeded) {
		return NewHTTPError(http.StatusGatewayTimeout, "request_timeout", "request timed out", err)
	}
	if errors.Is(err, context.Canceled) {
		return NewHTTPError(499, "request_cancelled", "request cancelled", err)
	}
	code := apperrors.CodeOf(err)
	status, ok := statusByCode[code]
	if !ok {
		return asHTTPError(err)
	}
	return NewHTTPError(status, code, apperrors.MessageOf(err, http.StatusText(status)), err)
}

func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "something went wrong",
		Err:     err,
	}
}

func abortWithError(c *gin.Context, err *HTTPError) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}
