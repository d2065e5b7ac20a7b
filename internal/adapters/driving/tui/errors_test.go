package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_AreDistinct(t *testing.T) {
	errors := []error{
		ErrMissingQueryService,
		ErrMissingCollectionService,
		ErrMissingDocumentService,
		ErrMissingUploadService,
		ErrInvalidPorts,
	}

	// Ensure all errors are unique
	seen := make(map[string]bool)
	for _, err := range errors {
		msg := err.Error()
		assert.False(t, seen[msg], "duplicate error message: %s", msg)
		seen[msg] = true
	}
}

func TestErrors_Messages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrMissingQueryService, "query service"},
		{ErrMissingCollectionService, "collection service"},
		{ErrMissingDocumentService, "document service"},
		{ErrMissingUploadService, "upload service"},
		{ErrInvalidPorts, "invalid ports"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Contains(t, tt.err.Error(), tt.want)
			assert.Contains(t, tt.err.Error(), "tui: ")
		})
	}
}
