package driving

import (
	"context"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

// QueryService runs similarity queries.
type QueryService interface {
	// Query sends text scoped to collections. Failures are *domain.QueryError.
	Query(ctx context.Context, text string, scope domain.Scope) ([]domain.QueryResult, error)
}
