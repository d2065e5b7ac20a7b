package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDocument_DecodesBackendJSON tests the backend field names
func TestDocument_DecodesBackendJSON(t *testing.T) {
	raw := `{"id": 7, "filename": "a.pdf", "collection_name": "Default", "chunk_count": 3}`

	var doc Document
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	assert.Equal(t, int64(7), doc.ID)
	assert.Equal(t, "a.pdf", doc.Filename)
	assert.Equal(t, "Default", doc.CollectionName)
	assert.Equal(t, 3, doc.ChunkCount)
}

// TestChunk_DecodesBackendJSON tests chunk boundary and embedding fields
func TestChunk_DecodesBackendJSON(t *testing.T) {
	raw := `{"chunk_number": 2, "chunk_start": "Once upon", "chunk_end": "the end.", "embedding_preview": [0.1, -0.2, 0.3, 0.4, 0.5]}`

	var c Chunk
	require.NoError(t, json.Unmarshal([]byte(raw), &c))

	assert.Equal(t, 2, c.Number)
	assert.Equal(t, "Once upon", c.Start)
	assert.Equal(t, "the end.", c.End)
	assert.Len(t, c.EmbeddingPreview, 5)
}

func TestFilterDocuments(t *testing.T) {
	docs := []Document{
		{ID: 1, Filename: "Report.pdf", CollectionName: "Default"},
		{ID: 2, Filename: "notes.md", CollectionName: "Research"},
		{ID: 3, Filename: "todo.txt", CollectionName: "research-archive"},
	}

	tests := []struct {
		name string
		term string
		want []int64
	}{
		{name: "empty term keeps all", term: "", want: []int64{1, 2, 3}},
		{name: "whitespace term keeps all", term: "   ", want: []int64{1, 2, 3}},
		{name: "filename match is case-insensitive", term: "report", want: []int64{1}},
		{name: "collection match", term: "RESEARCH", want: []int64{2, 3}},
		{name: "extension match", term: ".md", want: []int64{2}},
		{name: "no match", term: "zzz", want: []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterDocuments(docs, tt.term)
			ids := make([]int64, 0, len(got))
			for _, d := range got {
				ids = append(ids, d.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}
