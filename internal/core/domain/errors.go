package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Domain errors represent business logic failures.
// Transport and backend failures wrap or map onto these.
var (
	// ErrNotFound indicates a requested collection or document does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a collection with the same name exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFileType indicates an upload with a disallowed extension.
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrBackendUnavailable indicates the backend could not be reached.
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// NetworkError is a transport failure: the request never produced a response.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the transport error and ErrBackendUnavailable.
func (e *NetworkError) Unwrap() []error {
	return []error{e.Err, ErrBackendUnavailable}
}

// HTTPError is a non-2xx response. Detail carries the backend's
// {"detail": "..."} message when the body had one.
type HTTPError struct {
	Status int
	Detail string
}

func (e *HTTPError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("backend returned %d %s", e.Status, http.StatusText(e.Status))
}

// Unwrap maps well-known statuses onto domain errors.
func (e *HTTPError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrAlreadyExists
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ErrInvalidInput
	default:
		return nil
	}
}

// ValidationError is a client-side rejection raised before any request.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Unwrap returns ErrInvalidInput and the optional cause.
func (e *ValidationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidInput}
	}
	return []error{ErrInvalidInput, e.Err}
}

// QueryError is returned when a query fails. Status is the HTTP status,
// or zero for transport failures.
type QueryError struct {
	Status int
	Err    error
}

func (e *QueryError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("query failed with status %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("query failed: %v", e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is or wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// UserMessage returns a short message suitable for a status line.
// Backend details and validation messages are shown as-is; anything
// else yields fallback.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var ve *ValidationError
	if errors.As(err, &ve) && ve.Message != "" {
		return ve.Message
	}

	var he *HTTPError
	if errors.As(err, &he) && strings.TrimSpace(he.Detail) != "" {
		return he.Detail
	}

	if errors.Is(err, ErrBackendUnavailable) {
		return fallback + ": backend unavailable"
	}

	return fallback
}
