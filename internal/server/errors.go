package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// HTTPError is the JSON body of every failed API call
type HTTPError struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
}

// Error implements the error interface
func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

func errBadRequest(message string) *HTTPError {
	return &HTTPError{StatusCode: http.StatusBadRequest, Message: message}
}

func errNotFound(message string) *HTTPError {
	return &HTTPError{StatusCode: http.StatusNotFound, Message: message}
}

func errUnavailable(message string, details any) *HTTPError {
	return &HTTPError{StatusCode: http.StatusServiceUnavailable, Message: message, Details: details}
}

// errorHandler renders HTTPError and echo errors in one JSON shape
func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var apiErr *HTTPError
	var echoErr *echo.HTTPError
	switch {
	case errors.As(err, &apiErr):
	case errors.As(err, &echoErr):
		apiErr = &HTTPError{StatusCode: echoErr.Code, Message: fmt.Sprint(echoErr.Message)}
	default:
		s.logger.WithError(err).Error("request failed")
		apiErr = &HTTPError{StatusCode: http.StatusInternalServerError, Message: http.StatusText(http.StatusInternalServerError)}
	}

	if err := c.JSON(apiErr.StatusCode, apiErr); err != nil {
		s.logger.WithError(err).Debug("write error response")
	}
}
