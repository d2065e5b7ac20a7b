// Package mcp provides an MCP (Model Context Protocol) server adapter for ragdesk.
// It lets AI assistants query document collections and browse what has been uploaded.
package mcp

import "errors"

// ErrMissingQueryService is returned when the query service is not provided.
var ErrMissingQueryService = errors.New("mcp: query service is required")

// ErrInvalidDocumentID is returned when a resource URI carries a malformed document id.
var ErrInvalidDocumentID = errors.New("mcp: invalid document id")
