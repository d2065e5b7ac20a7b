package driving

import (
	"context"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

// DocumentService manages uploaded documents.
type DocumentService interface {
	// List returns every document.
	List(ctx context.Context) ([]domain.Document, error)

	// Search lists documents and filters them by filename or collection name.
	Search(ctx context.Context, term string) ([]domain.Document, error)

	// Delete removes a document.
	Delete(ctx context.Context, id int64) error

	// Chunks returns chunk summaries for a document.
	Chunks(ctx context.Context, id int64) (*domain.DocumentChunks, error)
}
