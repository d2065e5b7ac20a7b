package mcp

import (
	"github.com/custodia-labs/ragdesk/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Query runs scoped similarity queries.
	Query driving.QueryService

	// Collection lists collections. Optional.
	Collection driving.CollectionService

	// Document lists documents and their chunks. Optional.
	Document driving.DocumentService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Query == nil {
		return ErrMissingQueryService
	}
	// Collection and Document only back the listing tools and resources
	return nil
}

