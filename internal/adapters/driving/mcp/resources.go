package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for ragdesk resources.
	uriScheme = "ragdesk://"

	// documentChunksTemplate addresses the chunks of one document.
	documentChunksTemplate = uriScheme + "documents/{documentId}/chunks"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing collections.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "collections",
		Name:        "collections",
		Description: "Collections with document and chunk counts",
		MIMEType:    "application/json",
	}, s.handleCollectionsResource)

	// Static resource for listing documents.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "documents",
		Name:        "documents",
		Description: "Every uploaded document",
		MIMEType:    "application/json",
	}, s.handleDocumentsResource)

	// Template for document chunks.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: documentChunksTemplate,
		Name:        "document-chunks",
		Description: "Chunk previews of a specific document",
		MIMEType:    "application/json",
	}, s.handleChunksResource)
}

// handleCollectionsResource returns collections with their counts.
func (s *Server) handleCollectionsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Collection == nil {
		return jsonResult(req.Params.URI, []struct{}{})
	}

	stats, err := s.ports.Collection.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing collections: %w", err)
	}

	type collectionInfo struct {
		Name      string `json:"name"`
		Documents int    `json:"documents"`
		Chunks    int    `json:"chunks"`
	}

	infos := make([]collectionInfo, len(stats))
	for i, c := range stats {
		infos[i] = collectionInfo{Name: c.Name, Documents: c.DocumentCount, Chunks: c.ChunkCount}
	}

	return jsonResult(req.Params.URI, infos)
}

// handleDocumentsResource returns every document.
func (s *Server) handleDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Document == nil {
		return jsonResult(req.Params.URI, []struct{}{})
	}

	docs, err := s.ports.Document.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	return jsonResult(req.Params.URI, docs)
}

// handleChunksResource returns the chunks of one document.
func (s *Server) handleChunksResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Document == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract documentId from URI: ragdesk://documents/{documentId}/chunks
	id, err := extractDocumentID(req.Params.URI)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	chunks, err := s.ports.Document.Chunks(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting document chunks: %w", err)
	}

	return jsonResult(req.Params.URI, chunks)
}

// jsonResult marshals v as a single JSON resource content.
func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractDocumentID extracts the document ID from a URI like ragdesk://documents/{documentId}/chunks.
func extractDocumentID(uri string) (int64, error) {
	const prefix = uriScheme + "documents/"
	const suffix = "/chunks"

	if !strings.HasPrefix(uri, prefix) || !strings.HasSuffix(uri, suffix) {
		return 0, ErrInvalidDocumentID
	}

	raw := strings.TrimSuffix(strings.TrimPrefix(uri, prefix), suffix)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidDocumentID
	}
	return id, nil
}
