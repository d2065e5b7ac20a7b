package backend

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/logger"
)

var jsonNull = []byte("null")

// decodeCollectionNames decodes a JSON array of names. Entries that are
// null, not strings or blank are skipped.
func decodeCollectionNames(data []byte) ([]string, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(raw))
	for i, item := range raw {
		var name string
		if err := json.Unmarshal(item, &name); err != nil || strings.TrimSpace(name) == "" {
			logger.Warn("Skipping malformed collection at index %d: %s", i, item)
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// decodeDocuments decodes a JSON array of documents. Null entries,
// entries that fail to decode and entries without an id are skipped.
func decodeDocuments(data []byte) ([]domain.Document, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	docs := make([]domain.Document, 0, len(raw))
	for i, item := range raw {
		if bytes.Equal(bytes.TrimSpace(item), jsonNull) {
			logger.Warn("Skipping null document at index %d", i)
			continue
		}
		var doc domain.Document
		if err := json.Unmarshal(item, &doc); err != nil || doc.ID <= 0 {
			logger.Warn("Skipping malformed document at index %d: %s", i, item)
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// decodeQueryResults decodes ranked results. Null entries and entries
// that fail to decode are skipped; the remaining order is kept.
func decodeQueryResults(data []byte) ([]domain.QueryResult, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	results := make([]domain.QueryResult, 0, len(raw))
	for i, item := range raw {
		if bytes.Equal(bytes.TrimSpace(item), jsonNull) {
			continue
		}
		var r domain.QueryResult
		if err := json.Unmarshal(item, &r); err != nil {
			logger.Warn("Skipping malformed query result at index %d: %s", i, item)
			continue
		}
		results = append(results, r)
	}
	return results, nil
}

// decodeDocumentChunks decodes a document's chunk listing. Null chunks and
// chunks that fail to decode are skipped.
func decodeDocumentChunks(data []byte) (*domain.DocumentChunks, error) {
	var body struct {
		Filename string            `json:"filename"`
		Chunks   []json.RawMessage `json:"chunks"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, err
	}

	dc := &domain.DocumentChunks{
		Filename: body.Filename,
		Chunks:   make([]domain.Chunk, 0, len(body.Chunks)),
	}
	for i, item := range body.Chunks {
		if bytes.Equal(bytes.TrimSpace(item), jsonNull) {
			continue
		}
		var c domain.Chunk
		if err := json.Unmarshal(item, &c); err != nil {
			logger.Warn("Skipping malformed chunk at index %d: %s", i, item)
			continue
		}
		dc.Chunks = append(dc.Chunks, c)
	}
	return dc, nil
}
