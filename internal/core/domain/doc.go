// Package domain defines the core entities of the ragdesk client.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Collection: A named grouping of documents on the backend
//   - Document: An uploaded file, split into chunks by the backend
//   - Chunk: A contiguous slice of a document's text
//   - QueryResult: A ranked chunk returned for a query
//   - Scope: The set of collections a query is restricted to
//
// Entities are owned by the backend. The client only holds transient
// copies read by value from JSON responses and never patches them in place.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
