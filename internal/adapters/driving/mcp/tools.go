package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

// defaultQueryLimit caps the results returned to the assistant.
const defaultQueryLimit = 10

// QueryInput is the input schema for the query tool.
type QueryInput struct {
	Query       string   `json:"query" jsonschema:"the question or text to find similar chunks for"`
	Collections []string `json:"collections,omitempty" jsonschema:"collections to search; empty searches all"`
	Limit       int      `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
}

// QueryOutput is the output schema for the query tool.
type QueryOutput struct {
	Scope   string              `json:"scope"`
	Results []QueryResultOutput `json:"results"`
	Count   int                 `json:"count"`
}

// QueryResultOutput represents a single ranked chunk.
type QueryResultOutput struct {
	Document    string  `json:"document"`
	Collection  string  `json:"collection"`
	ChunkNumber int     `json:"chunk_number"`
	Distance    float64 `json:"distance"`
	Content     string  `json:"content"`
}

// ListCollectionsOutput is the output schema for the list_collections tool.
type ListCollectionsOutput struct {
	Collections []domain.CollectionStats `json:"collections"`
}

// ListDocumentsInput is the input schema for the list_documents tool.
type ListDocumentsInput struct {
	Filter string `json:"filter,omitempty" jsonschema:"only documents whose filename or collection contains this text"`
}

// ListDocumentsOutput is the output schema for the list_documents tool.
type ListDocumentsOutput struct {
	Documents []domain.Document `json:"documents"`
	Count     int               `json:"count"`
}

// errUnavailable is returned by tools whose backing port was not provided.
var errUnavailable = errors.New("not available on this server")

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "query",
		Description: "Find the document chunks most similar to a query, optionally scoped to collections",
	}, s.handleQuery)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_collections",
		Description: "List collections with their document and chunk counts",
	}, s.handleListCollections)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List uploaded documents, optionally filtered by filename or collection",
	}, s.handleListDocuments)
}

// handleQuery handles the query tool invocation.
func (s *Server) handleQuery(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QueryInput,
) (*mcp.CallToolResult, QueryOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultQueryLimit
	}

	scope := domain.ScopeOf(input.Collections...)
	results, err := s.ports.Query.Query(ctx, input.Query, scope)
	if err != nil {
		return nil, QueryOutput{}, err
	}
	if len(results) > limit {
		results = results[:limit]
	}

	output := QueryOutput{
		Scope:   scope.Label(),
		Results: make([]QueryResultOutput, len(results)),
		Count:   len(results),
	}

	for i := range results {
		output.Results[i] = QueryResultOutput{
			Document:    results[i].DocumentFilename,
			Collection:  results[i].CollectionName,
			ChunkNumber: results[i].ChunkNumber,
			Distance:    results[i].Distance,
			Content:     results[i].Content,
		}
	}

	return nil, output, nil
}

// handleListCollections handles the list_collections tool invocation.
func (s *Server) handleListCollections(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, ListCollectionsOutput, error) {
	if s.ports.Collection == nil {
		return nil, ListCollectionsOutput{}, fmt.Errorf("list_collections: %w", errUnavailable)
	}

	stats, err := s.ports.Collection.List(ctx)
	if err != nil {
		return nil, ListCollectionsOutput{}, fmt.Errorf("listing collections: %w", err)
	}
	if stats == nil {
		stats = []domain.CollectionStats{}
	}

	return nil, ListCollectionsOutput{Collections: stats}, nil
}

// handleListDocuments handles the list_documents tool invocation.
func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListDocumentsInput,
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	if s.ports.Document == nil {
		return nil, ListDocumentsOutput{}, fmt.Errorf("list_documents: %w", errUnavailable)
	}

	docs, err := s.ports.Document.Search(ctx, input.Filter)
	if err != nil {
		return nil, ListDocumentsOutput{}, fmt.Errorf("listing documents: %w", err)
	}
	if docs == nil {
		docs = []domain.Document{}
	}

	return nil, ListDocumentsOutput{Documents: docs, Count: len(docs)}, nil
}
