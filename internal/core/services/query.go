package services

import (
	"context"
	"errors"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driving"
	"github.com/custodia-labs/ragdesk/internal/logger"
)

// Ensure QueryService implements the interface.
var _ driving.QueryService = (*QueryService)(nil)

// QueryService runs similarity queries against the backend.
type QueryService struct {
	backend   driven.Backend
	allMarker string
}

// NewQueryService creates a new query service. allMarker is the wire value
// sent for the unrestricted scope; empty means domain.AllCollectionsMarker.
func NewQueryService(backend driven.Backend, allMarker string) *QueryService {
	if allMarker == "" {
		allMarker = domain.AllCollectionsMarker
	}
	return &QueryService{backend: backend, allMarker: allMarker}
}

// Query sends exactly one request. The text is passed through untouched;
// the backend decides whether an empty query is acceptable.
func (s *QueryService) Query(ctx context.Context, text string, scope domain.Scope) ([]domain.QueryResult, error) {
	logger.Section("Query")
	wire := scope.Wire(s.allMarker)
	logger.Debug("Query: %q, collections: %q", text, wire)

	results, err := s.backend.Query(ctx, text, wire)
	if err != nil {
		qe := &domain.QueryError{Err: err}
		var he *domain.HTTPError
		if errors.As(err, &he) {
			qe.Status = he.Status
		}
		return nil, qe
	}

	if results == nil {
		results = []domain.QueryResult{}
	}
	logger.Debug("Results: %d", len(results))
	return results, nil
}
