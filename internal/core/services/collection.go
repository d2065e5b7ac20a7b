package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driving"
	"github.com/custodia-labs/ragdesk/internal/logger"
)

// Ensure CollectionService implements the interface.
var _ driving.CollectionService = (*CollectionService)(nil)

// CollectionService manages collections on the backend.
type CollectionService struct {
	backend driven.Backend
}

// NewCollectionService creates a new collection service.
func NewCollectionService(backend driven.Backend) *CollectionService {
	return &CollectionService{backend: backend}
}

// List returns every collection with counts joined from the document list.
// Counts reported by the collection endpoint are never trusted.
func (s *CollectionService) List(ctx context.Context) ([]domain.CollectionStats, error) {
	logger.Section("List Collections")

	names, err := s.backend.ListCollections(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing collections: %w", err)
	}

	docs, err := s.backend.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	stats := domain.ComputeCollectionStats(names, docs)
	if skipped := len(names) - len(stats); skipped > 0 {
		logger.Warn("Skipped %d blank or duplicate collection names", skipped)
	}
	logger.Debug("Collections: %d, documents: %d", len(stats), len(docs))

	return stats, nil
}

// Names returns the collection names.
func (s *CollectionService) Names(ctx context.Context) ([]string, error) {
	names, err := s.backend.ListCollections(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing collections: %w", err)
	}
	stats := domain.ComputeCollectionStats(names, nil)
	out := make([]string, 0, len(stats))
	for _, st := range stats {
		out = append(out, st.Name)
	}
	return out, nil
}

// Create trims and validates name, then creates the collection.
// A blank name fails before any request is made.
func (s *CollectionService) Create(ctx context.Context, name string) error {
	name, err := domain.ValidateCollectionName(name)
	if err != nil {
		return err
	}

	logger.Debug("Creating collection %q", name)
	if err := s.backend.CreateCollection(ctx, name); err != nil {
		return fmt.Errorf("creating collection %q: %w", name, err)
	}
	return nil
}

// Delete removes the named collection. The name is sent exactly as given
// so collections listed with surrounding whitespace can still be removed.
func (s *CollectionService) Delete(ctx context.Context, name string) error {
	if _, err := domain.ValidateCollectionName(name); err != nil {
		return err
	}

	logger.Debug("Deleting collection %q", name)
	if err := s.backend.DeleteCollection(ctx, name); err != nil {
		return fmt.Errorf("deleting collection %q: %w", name, err)
	}
	return nil
}
