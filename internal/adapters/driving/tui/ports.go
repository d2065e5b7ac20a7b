// Package tui provides an interactive terminal user interface for ragdesk.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Query runs scoped similarity queries.
	Query driving.QueryService

	// Collection manages collections.
	Collection driving.CollectionService

	// Document manages uploaded documents.
	Document driving.DocumentService

	// Upload adds documents to collections.
	Upload driving.UploadService

	// Health reports backend reachability. Optional.
	Health driving.HealthService

	// Settings carries the UI timings and the backend URL shown in the menu.
	Settings domain.ClientSettings
}

// NewPorts creates a new Ports aggregate with the given services and
// default settings.
func NewPorts(
	query driving.QueryService,
	collection driving.CollectionService,
	document driving.DocumentService,
	upload driving.UploadService,
) *Ports {
	return &Ports{
		Query:      query,
		Collection: collection,
		Document:   document,
		Upload:     upload,
		Settings:   domain.DefaultClientSettings(),
	}
}

// Validate ensures all required ports are set.
// Returns an error if any port is nil.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Query == nil {
		return ErrMissingQueryService
	}
	if p.Collection == nil {
		return ErrMissingCollectionService
	}
	if p.Document == nil {
		return ErrMissingDocumentService
	}
	if p.Upload == nil {
		return ErrMissingUploadService
	}
	return nil
}
