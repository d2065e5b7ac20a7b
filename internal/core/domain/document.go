package domain

import "strings"

// Document is an uploaded file known to the backend.
type Document struct {
	// ID is the backend-assigned identifier.
	ID int64 `json:"id"`

	// Filename is the original file name.
	Filename string `json:"filename"`

	// CollectionName is the owning collection.
	CollectionName string `json:"collection_name"`

	// ChunkCount is the number of chunks the backend produced.
	ChunkCount int `json:"chunk_count"`
}

// Chunk describes one chunk of a document as returned by the chunks endpoint.
type Chunk struct {
	// Number is the chunk's ordinal within the document.
	Number int `json:"chunk_number"`

	// Start is a preview of the first characters of the chunk.
	Start string `json:"chunk_start"`

	// End is a preview of the last characters of the chunk.
	End string `json:"chunk_end"`

	// EmbeddingPreview holds the first few embedding components.
	EmbeddingPreview []float64 `json:"embedding_preview"`
}

// DocumentChunks is a document together with its chunk summaries.
type DocumentChunks struct {
	DocumentID int64   `json:"document_id"`
	Filename   string  `json:"filename"`
	Chunks     []Chunk `json:"chunks"`
}

// FilterDocuments returns the documents whose filename or collection name
// contains term, compared case-insensitively. An empty term matches everything.
// It never calls the backend.
func FilterDocuments(docs []Document, term string) []Document {
	term = strings.ToUpper(strings.TrimSpace(term))
	if term == "" {
		return docs
	}

	filtered := make([]Document, 0, len(docs))
	for i := range docs {
		if strings.Contains(strings.ToUpper(docs[i].Filename), term) ||
			strings.Contains(strings.ToUpper(docs[i].CollectionName), term) {
			filtered = append(filtered, docs[i])
		}
	}
	return filtered
}
