package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a structured failure response from the backend. The transport
// never retries; callers decide what a given status means for them.
type Error struct {
	// Status is the HTTP status code.
	Status int

	// Code is the backend's machine-readable error code, when it sent one.
	Code string

	// Message is the backend's error description.
	Message string

	// RequestID is the X-Request-ID this client attached to the failed
	// request, for correlating with backend logs.
	RequestID string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("backend returned %d [%s]: %s (request %s)", e.Status, e.Code, e.Message, e.RequestID)
	}
	return fmt.Sprintf("backend returned %d: %s (request %s)", e.Status, e.Message, e.RequestID)
}

// IsNotFound reports whether err is a backend 404.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// IsForbidden reports whether err is a backend 403, the usual sign of an
// access rule rejecting a write outright.
func IsForbidden(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusForbidden
}
