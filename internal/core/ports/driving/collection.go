package driving

import (
	"context"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

// CollectionService manages collections.
type CollectionService interface {
	// List returns every collection with document and chunk counts
	// computed from the document list.
	List(ctx context.Context) ([]domain.CollectionStats, error)

	// Names returns the collection names, used to populate scope pickers.
	Names(ctx context.Context) ([]string, error)

	// Create validates and creates a collection.
	Create(ctx context.Context, name string) error

	// Delete removes a collection.
	Delete(ctx context.Context, name string) error
}
