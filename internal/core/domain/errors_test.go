package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrAlreadyExists", ErrAlreadyExists},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrUnsupportedFileType", ErrUnsupportedFileType},
		{"ErrBackendUnavailable", ErrBackendUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestHTTPError_StatusMapping(t *testing.T) {
	tests := []struct {
		status int
		target error
	}{
		{http.StatusNotFound, ErrNotFound},
		{http.StatusConflict, ErrAlreadyExists},
		{http.StatusBadRequest, ErrInvalidInput},
		{http.StatusUnprocessableEntity, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			err := fmt.Errorf("deleting collection: %w", &HTTPError{Status: tt.status})
			assert.ErrorIs(t, err, tt.target)
		})
	}

	t.Run("server error maps to nothing", func(t *testing.T) {
		err := &HTTPError{Status: http.StatusInternalServerError}
		assert.NotErrorIs(t, err, ErrNotFound)
		assert.NotErrorIs(t, err, ErrInvalidInput)
		assert.Contains(t, err.Error(), "500")
	})
}

func TestHTTPError_Message(t *testing.T) {
	withDetail := &HTTPError{Status: 409, Detail: "Collection already exists"}
	assert.Equal(t, "backend returned 409: Collection already exists", withDetail.Error())

	bare := &HTTPError{Status: 404}
	assert.Equal(t, "backend returned 404 Not Found", bare.Error())
}

func TestNetworkError(t *testing.T) {
	cause := errors.New("connection refused")
	err := &NetworkError{Op: "GET /api/documents", Err: cause}

	assert.Equal(t, "GET /api/documents: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrBackendUnavailable)
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Field: "name", Message: "please enter a collection name"}
	assert.Equal(t, "please enter a collection name", err.Error())
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.NotErrorIs(t, err, ErrUnsupportedFileType)

	typed := &ValidationError{Field: "file", Message: "bad type", Err: ErrUnsupportedFileType}
	assert.ErrorIs(t, typed, ErrInvalidInput)
	assert.ErrorIs(t, typed, ErrUnsupportedFileType)
}

func TestQueryError(t *testing.T) {
	httpErr := &QueryError{Status: 500, Err: &HTTPError{Status: 500, Detail: "boom"}}
	assert.Contains(t, httpErr.Error(), "status 500")
	var he *HTTPError
	assert.ErrorAs(t, httpErr, &he)

	netErr := &QueryError{Err: &NetworkError{Op: "POST /api/query", Err: errors.New("timeout")}}
	assert.Contains(t, netErr.Error(), "query failed: POST /api/query: timeout")
	assert.ErrorIs(t, netErr, ErrBackendUnavailable)
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(ErrNotFound))
	assert.True(t, IsNotFound(fmt.Errorf("deleting document 3: %w", &HTTPError{Status: 404})))
	assert.False(t, IsNotFound(ErrAlreadyExists))
	assert.False(t, IsNotFound(nil))
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"validation", &ValidationError{Message: "please enter a collection name"}, "please enter a collection name"},
		{"backend detail", fmt.Errorf("creating: %w", &HTTPError{Status: 409, Detail: "Collection exists"}), "Collection exists"},
		{"http without detail", &HTTPError{Status: 500}, "Error deleting"},
		{"network", &NetworkError{Op: "GET", Err: errors.New("refused")}, "Error deleting: backend unavailable"},
		{"other", errors.New("x"), "Error deleting"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err, "Error deleting"))
		})
	}
}
