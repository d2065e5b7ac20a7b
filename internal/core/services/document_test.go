package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

func testDocuments() []domain.Document {
	return []domain.Document{
		{ID: 1, Filename: "a.pdf", CollectionName: "Default", ChunkCount: 3},
		{ID: 2, Filename: "notes.md", CollectionName: "Research", ChunkCount: 1},
	}
}

func TestDocumentService_List(t *testing.T) {
	backend := newMockBackend()
	backend.documents = testDocuments()
	svc := NewDocumentService(backend)

	docs, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestDocumentService_Search(t *testing.T) {
	backend := newMockBackend()
	backend.documents = testDocuments()
	svc := NewDocumentService(backend)

	docs, err := svc.Search(context.Background(), "research")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, int64(2), docs[0].ID)
}

func TestDocumentService_Delete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		backend := newMockBackend()
		svc := NewDocumentService(backend)
		require.NoError(t, svc.Delete(context.Background(), 1))
		assert.Equal(t, 1, backend.calls["DeleteDocument"])
	})

	t.Run("not found", func(t *testing.T) {
		backend := newMockBackend()
		backend.err = &domain.HTTPError{Status: 404, Detail: "Document not found"}
		svc := NewDocumentService(backend)

		err := svc.Delete(context.Background(), 9)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Contains(t, err.Error(), "deleting document 9")
	})

	t.Run("invalid id", func(t *testing.T) {
		backend := newMockBackend()
		svc := NewDocumentService(backend)
		assert.ErrorIs(t, svc.Delete(context.Background(), 0), domain.ErrInvalidInput)
		assert.Zero(t, backend.calls["DeleteDocument"])
	})
}

func TestDocumentService_Chunks(t *testing.T) {
	backend := newMockBackend()
	backend.chunks = &domain.DocumentChunks{
		Filename: "a.pdf",
		Chunks:   []domain.Chunk{{Number: 1, Start: "abc", End: "xyz"}},
	}
	svc := NewDocumentService(backend)

	chunks, err := svc.Chunks(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), chunks.DocumentID)
	assert.Equal(t, "a.pdf", chunks.Filename)
	assert.Len(t, chunks.Chunks, 1)

	_, err = svc.Chunks(context.Background(), -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
