package driving

import (
	"context"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

// UploadService adds documents to collections.
type UploadService interface {
	// Inspect validates a local file and returns its preview.
	// No request is made.
	Inspect(path string) (*domain.FilePreview, error)

	// UploadFile uploads a local file into collection.
	UploadFile(ctx context.Context, path, collection string) error

	// UploadText uploads raw text as a document named name.
	UploadText(ctx context.Context, name, content, collection string) error
}
