package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driving"
)

// Ensure HealthService implements the interface.
var _ driving.HealthService = (*HealthService)(nil)

// HealthService checks backend reachability.
type HealthService struct {
	backend driven.Backend
}

// NewHealthService creates a new health service.
func NewHealthService(backend driven.Backend) *HealthService {
	return &HealthService{backend: backend}
}

// Check returns the status reported by the backend.
func (s *HealthService) Check(ctx context.Context) (string, error) {
	status, err := s.backend.Health(ctx)
	if err != nil {
		return "", fmt.Errorf("checking backend health: %w", err)
	}
	return status, nil
}
