package domain

import "strings"

// DefaultCollectionName is the collection the backend creates when none exist.
const DefaultCollectionName = "Default"

// Collection is a named grouping of documents.
type Collection struct {
	// Name is the unique collection identifier.
	Name string
}

// CollectionStats is a collection with counts derived from the document list.
// The collection endpoint only returns names, so counts are always computed
// client-side by joining against the documents.
type CollectionStats struct {
	Name          string `json:"name"`
	DocumentCount int    `json:"document_count"`
	ChunkCount    int    `json:"chunk_count"`
}

// ComputeCollectionStats joins collection names against documents.
// Blank names are skipped, as are documents without a collection name.
// The result keeps the order of names; documents belonging to unknown
// collections are ignored.
func ComputeCollectionStats(names []string, docs []Document) []CollectionStats {
	stats := make([]CollectionStats, 0, len(names))
	index := make(map[string]int, len(names))

	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		if _, dup := index[name]; dup {
			continue
		}
		index[name] = len(stats)
		stats = append(stats, CollectionStats{Name: name})
	}

	for i := range docs {
		pos, ok := index[docs[i].CollectionName]
		if !ok {
			continue
		}
		stats[pos].DocumentCount++
		if docs[i].ChunkCount > 0 {
			stats[pos].ChunkCount += docs[i].ChunkCount
		}
	}

	return stats
}

// ValidateCollectionName trims a collection name and rejects blank input.
func ValidateCollectionName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", &ValidationError{Field: "name", Message: "please enter a collection name"}
	}
	return trimmed, nil
}
