package driving

import "context"

// HealthService reports backend reachability.
type HealthService interface {
	// Check returns the backend status string.
	Check(ctx context.Context) (string, error)
}
