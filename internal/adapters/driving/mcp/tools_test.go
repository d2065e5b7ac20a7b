package mcp

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragdesk/internal/adapters/driven/backend"
	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/services"
	"github.com/custodia-labs/ragdesk/internal/testutil/fakebackend"
	"github.com/custodia-labs/ragdesk/internal/testutil/mocks"
)

func newTestServer(t *testing.T, ports *Ports) *Server {
	t.Helper()
	server, err := NewServer(ports)
	require.NoError(t, err)
	return server
}

func TestServer_handleQuery(t *testing.T) {
	ctx := context.Background()

	t.Run("returns query results", func(t *testing.T) {
		var gotScope domain.Scope
		query := &mocks.QueryService{
			QueryFunc: func(_ context.Context, text string, scope domain.Scope) ([]domain.QueryResult, error) {
				gotScope = scope
				return []domain.QueryResult{{
					ChunkNumber:      3,
					Content:          "This is the content",
					Distance:         0.25,
					DocumentFilename: "report.pdf",
					CollectionName:   "Research",
				}}, nil
			},
		}
		server := newTestServer(t, &Ports{Query: query})

		input := QueryInput{Query: "test", Collections: []string{"Research"}}
		_, output, err := server.handleQuery(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, []string{"Research"}, gotScope.Names())
		assert.Equal(t, "Research", output.Scope)
		assert.Equal(t, 1, output.Count)
		require.Len(t, output.Results, 1)
		assert.Equal(t, "report.pdf", output.Results[0].Document)
		assert.Equal(t, "Research", output.Results[0].Collection)
		assert.Equal(t, 3, output.Results[0].ChunkNumber)
		assert.Equal(t, 0.25, output.Results[0].Distance)
		assert.Equal(t, "This is the content", output.Results[0].Content)
	})

	t.Run("no collections queries everything", func(t *testing.T) {
		var gotScope domain.Scope
		query := &mocks.QueryService{
			QueryFunc: func(_ context.Context, _ string, scope domain.Scope) ([]domain.QueryResult, error) {
				gotScope = scope
				return nil, nil
			},
		}
		server := newTestServer(t, &Ports{Query: query})

		_, output, err := server.handleQuery(ctx, nil, QueryInput{Query: "test"})

		require.NoError(t, err)
		assert.True(t, gotScope.IsAll())
		assert.Equal(t, domain.AllCollectionsLabel, output.Scope)
		assert.Equal(t, 0, output.Count)
	})

	t.Run("default limit is 10", func(t *testing.T) {
		query := &mocks.QueryService{
			QueryFunc: func(context.Context, string, domain.Scope) ([]domain.QueryResult, error) {
				return make([]domain.QueryResult, 25), nil
			},
		}
		server := newTestServer(t, &Ports{Query: query})

		_, output, err := server.handleQuery(ctx, nil, QueryInput{Query: "test"})
		require.NoError(t, err)
		assert.Equal(t, 10, output.Count)

		_, output, err = server.handleQuery(ctx, nil, QueryInput{Query: "test", Limit: 3})
		require.NoError(t, err)
		assert.Len(t, output.Results, 3)
	})

	t.Run("returns error on query failure", func(t *testing.T) {
		query := &mocks.QueryService{
			QueryFunc: func(context.Context, string, domain.Scope) ([]domain.QueryResult, error) {
				return nil, &domain.QueryError{Status: 500, Err: errors.New("boom")}
			},
		}
		server := newTestServer(t, &Ports{Query: query})

		_, _, err := server.handleQuery(ctx, nil, QueryInput{Query: "test"})

		var qe *domain.QueryError
		require.ErrorAs(t, err, &qe)
		assert.Equal(t, 500, qe.Status)
	})
}

func TestServer_handleQuery_AgainstBackend(t *testing.T) {
	fake := fakebackend.New(t)
	fake.SetCollections("A", "B")
	fake.SetQueryResults(domain.QueryResult{ChunkNumber: 1, Content: strings.Repeat("x", 20), DocumentFilename: "a.md"})
	client := backend.NewClient(backend.Config{BaseURL: fake.URL})
	server := newTestServer(t, &Ports{Query: services.NewQueryService(client, domain.AllCollectionsMarker)})

	_, output, err := server.handleQuery(context.Background(), nil, QueryInput{
		Query:       "what",
		Collections: []string{"A", "B"},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, output.Count)
	require.Len(t, fake.Queries(), 1)
	assert.Equal(t, "A,B", fake.Queries()[0].Collections)
}

func TestServer_handleListCollections(t *testing.T) {
	ctx := context.Background()

	t.Run("nil collection service returns error", func(t *testing.T) {
		server := newTestServer(t, &Ports{Query: &mocks.QueryService{}})

		_, _, err := server.handleListCollections(ctx, nil, struct{}{})

		require.ErrorIs(t, err, errUnavailable)
	})

	t.Run("returns collection stats", func(t *testing.T) {
		coll := &mocks.CollectionService{
			ListFunc: func(context.Context) ([]domain.CollectionStats, error) {
				return []domain.CollectionStats{{Name: "Default", DocumentCount: 2, ChunkCount: 9}}, nil
			},
		}
		server := newTestServer(t, &Ports{Query: &mocks.QueryService{}, Collection: coll})

		_, output, err := server.handleListCollections(ctx, nil, struct{}{})

		require.NoError(t, err)
		require.Len(t, output.Collections, 1)
		assert.Equal(t, 9, output.Collections[0].ChunkCount)
	})

	t.Run("empty list is not nil", func(t *testing.T) {
		coll := &mocks.CollectionService{
			ListFunc: func(context.Context) ([]domain.CollectionStats, error) { return nil, nil },
		}
		server := newTestServer(t, &Ports{Query: &mocks.QueryService{}, Collection: coll})

		_, output, err := server.handleListCollections(ctx, nil, struct{}{})

		require.NoError(t, err)
		assert.NotNil(t, output.Collections)
	})

	t.Run("wraps list failure", func(t *testing.T) {
		coll := &mocks.CollectionService{
			ListFunc: func(context.Context) ([]domain.CollectionStats, error) {
				return nil, domain.ErrBackendUnavailable
			},
		}
		server := newTestServer(t, &Ports{Query: &mocks.QueryService{}, Collection: coll})

		_, _, err := server.handleListCollections(ctx, nil, struct{}{})

		require.ErrorIs(t, err, domain.ErrBackendUnavailable)
		assert.Contains(t, err.Error(), "listing collections")
	})
}

func TestServer_handleListDocuments(t *testing.T) {
	ctx := context.Background()

	t.Run("nil document service returns error", func(t *testing.T) {
		server := newTestServer(t, &Ports{Query: &mocks.QueryService{}})

		_, _, err := server.handleListDocuments(ctx, nil, ListDocumentsInput{})

		require.ErrorIs(t, err, errUnavailable)
	})

	t.Run("passes the filter through", func(t *testing.T) {
		var gotTerm string
		docs := &mocks.DocumentService{
			SearchFunc: func(_ context.Context, term string) ([]domain.Document, error) {
				gotTerm = term
				return []domain.Document{{ID: 4, Filename: "notes.md", CollectionName: "Default"}}, nil
			},
		}
		server := newTestServer(t, &Ports{Query: &mocks.QueryService{}, Document: docs})

		_, output, err := server.handleListDocuments(ctx, nil, ListDocumentsInput{Filter: "notes"})

		require.NoError(t, err)
		assert.Equal(t, "notes", gotTerm)
		assert.Equal(t, 1, output.Count)
		assert.Equal(t, int64(4), output.Documents[0].ID)
	})
}
