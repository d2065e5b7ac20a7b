package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/testutil/fakebackend"
)

func seedDocuments(fake *fakebackend.Server) (policy, notes int64) {
	policy = fake.AddDocument(domain.Document{Filename: "policy.pdf", CollectionName: "Legal"},
		domain.Chunk{Number: 1, Start: "Refunds are", End: "30 days.", EmbeddingPreview: []float64{0.1, -0.25, 0.5}})
	notes = fake.AddDocument(domain.Document{Filename: "notes.md", CollectionName: "Default"})
	return policy, notes
}

func TestDocumentList(t *testing.T) {
	fake := setupTestServices(t)
	seedDocuments(fake)

	out, err := run(t, nil, "document", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Filename")
	assert.Contains(t, out, "policy.pdf")
	assert.Contains(t, out, "notes.md")
}

func TestDocumentList_Empty(t *testing.T) {
	setupTestServices(t)

	out, err := run(t, nil, "documents", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No documents found.")
}

func TestDocumentSearch(t *testing.T) {
	fake := setupTestServices(t)
	seedDocuments(fake)

	out, err := run(t, nil, "document", "search", "LEGAL", "--json")
	require.NoError(t, err)

	var got []domain.Document
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "policy.pdf", got[0].Filename)
}

func TestDocumentDelete(t *testing.T) {
	fake := setupTestServices(t)
	policy, _ := seedDocuments(fake)

	out, err := run(t, nil, "document", "delete", "1", "-y")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted")
	for _, d := range fake.Documents() {
		assert.NotEqual(t, policy, d.ID)
	}
}

func TestDocumentDelete_RequiresConfirmation(t *testing.T) {
	fake := setupTestServices(t)
	seedDocuments(fake)

	_, err := run(t, nil, "document", "delete", "1")
	assert.ErrorIs(t, err, ErrConfirmationRequired)
	assert.Zero(t, fake.Calls(fakebackend.RouteDeleteDocument))
}

func TestDocumentDelete_InvalidID(t *testing.T) {
	for _, id := range []string{"abc", "0", "-3"} {
		t.Run(id, func(t *testing.T) {
			fake := setupTestServices(t)

			_, err := run(t, nil, "document", "delete", "--yes", "--", id)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid document id")
			assert.Zero(t, fake.Calls(fakebackend.RouteDeleteDocument))
		})
	}
}

func TestDocumentChunks(t *testing.T) {
	fake := setupTestServices(t)
	seedDocuments(fake)

	out, err := run(t, nil, "document", "chunks", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "policy.pdf (1 chunks)")
	assert.Contains(t, out, "Chunk 1")
	assert.Contains(t, out, "Start:     Refunds are")
	assert.Contains(t, out, "[0.1000, -0.2500, 0.5000, …]")
}

func TestDocumentChunks_NotFound(t *testing.T) {
	setupTestServices(t)

	_, err := run(t, nil, "document", "chunks", "42")
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
}
