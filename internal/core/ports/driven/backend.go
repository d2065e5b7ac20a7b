package driven

import (
	"context"
	"io"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

// Backend is the remote service that owns collections, documents, chunks,
// embeddings and similarity ranking. Every method is a single attempt;
// implementations never retry.
//
// Errors are *domain.NetworkError for transport failures and
// *domain.HTTPError for non-2xx responses.
type Backend interface {
	// ListCollections returns the collection names.
	// Entries that are not non-empty strings are skipped.
	ListCollections(ctx context.Context) ([]string, error)

	// CreateCollection creates a collection.
	CreateCollection(ctx context.Context, name string) error

	// DeleteCollection deletes a collection and its documents.
	DeleteCollection(ctx context.Context, name string) error

	// ListDocuments returns every document. Null or malformed entries are skipped.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// DeleteDocument deletes a document by ID.
	DeleteDocument(ctx context.Context, id int64) error

	// DocumentChunks returns chunk summaries for a document.
	DocumentChunks(ctx context.Context, id int64) (*domain.DocumentChunks, error)

	// UploadDocument posts a file as multipart form data.
	UploadDocument(ctx context.Context, upload FileUpload) error

	// UploadText posts raw text as a new document.
	UploadText(ctx context.Context, name, content, collection string) error

	// Query ranks chunks against text. collections is the comma-joined
	// scope or the all-collections marker.
	Query(ctx context.Context, text, collections string) ([]domain.QueryResult, error)

	// Health returns the backend's reported status.
	Health(ctx context.Context) (string, error)
}

// FileUpload is a file body bound for a collection.
type FileUpload struct {
	// Filename is the name sent in the multipart part.
	Filename string

	// Collection is sent in the Collection-Name header.
	Collection string

	// Body is read once.
	Body io.Reader
}
