package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

func TestQueryService_ScopeEncoding(t *testing.T) {
	tests := []struct {
		name      string
		allMarker string
		scope     domain.Scope
		want      string
	}{
		{"sentinel uses default marker", "", domain.AllScope(), "-"},
		{"sentinel uses configured marker", "*", domain.AllScope(), "*"},
		{"two names in selection order", "-", domain.ScopeOf("A", "B"), "A,B"},
		{"reverse selection order", "-", domain.ScopeOf("B", "A"), "B,A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := newMockBackend()
			svc := NewQueryService(backend, tt.allMarker)

			_, err := svc.Query(context.Background(), "foo", tt.scope)
			require.NoError(t, err)
			assert.Equal(t, 1, backend.calls["Query"])
			assert.Equal(t, "foo", backend.queryText)
			assert.Equal(t, tt.want, backend.queryWire)
		})
	}
}

func TestQueryService_EmptyTextIsSent(t *testing.T) {
	backend := newMockBackend()
	svc := NewQueryService(backend, "-")

	results, err := svc.Query(context.Background(), "", domain.AllScope())
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
	assert.Equal(t, 1, backend.calls["Query"])
}

func TestQueryService_Errors(t *testing.T) {
	t.Run("http status is carried", func(t *testing.T) {
		backend := newMockBackend()
		backend.err = &domain.HTTPError{Status: 500, Detail: "index offline"}
		svc := NewQueryService(backend, "-")

		_, err := svc.Query(context.Background(), "foo", domain.AllScope())
		var qe *domain.QueryError
		require.ErrorAs(t, err, &qe)
		assert.Equal(t, 500, qe.Status)
		assert.Equal(t, "index offline", domain.UserMessage(err, "Query failed"))
	})

	t.Run("transport failure has no status", func(t *testing.T) {
		backend := newMockBackend()
		backend.err = &domain.NetworkError{Op: "POST /api/query", Err: errors.New("refused")}
		svc := NewQueryService(backend, "-")

		_, err := svc.Query(context.Background(), "foo", domain.AllScope())
		var qe *domain.QueryError
		require.ErrorAs(t, err, &qe)
		assert.Zero(t, qe.Status)
		assert.ErrorIs(t, err, domain.ErrBackendUnavailable)
	})
}
