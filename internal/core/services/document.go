package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driving"
	"github.com/custodia-labs/ragdesk/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService manages documents on the backend.
type DocumentService struct {
	backend driven.Backend
}

// NewDocumentService creates a new document service.
func NewDocumentService(backend driven.Backend) *DocumentService {
	return &DocumentService{backend: backend}
}

// List returns every document.
func (s *DocumentService) List(ctx context.Context) ([]domain.Document, error) {
	docs, err := s.backend.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	return docs, nil
}

// Search lists documents and keeps those matching term.
func (s *DocumentService) Search(ctx context.Context, term string) ([]domain.Document, error) {
	docs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	filtered := domain.FilterDocuments(docs, term)
	logger.Debug("Document filter %q: %d of %d", term, len(filtered), len(docs))
	return filtered, nil
}

// Delete removes a document.
func (s *DocumentService) Delete(ctx context.Context, id int64) error {
	if err := validateDocumentID(id); err != nil {
		return err
	}

	logger.Debug("Deleting document %d", id)
	if err := s.backend.DeleteDocument(ctx, id); err != nil {
		return fmt.Errorf("deleting document %d: %w", id, err)
	}
	return nil
}

// Chunks returns chunk summaries for a document.
func (s *DocumentService) Chunks(ctx context.Context, id int64) (*domain.DocumentChunks, error) {
	if err := validateDocumentID(id); err != nil {
		return nil, err
	}

	chunks, err := s.backend.DocumentChunks(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading chunks for document %d: %w", id, err)
	}
	if chunks.DocumentID == 0 {
		chunks.DocumentID = id
	}
	return chunks, nil
}

func validateDocumentID(id int64) error {
	if id <= 0 {
		return &domain.ValidationError{Field: "id", Message: fmt.Sprintf("invalid document id %d", id)}
	}
	return nil
}
