package cli

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/testutil/fakebackend"
)

func TestCollectionList_Table(t *testing.T) {
	fake := setupTestServices(t)
	fake.SetCollections("Default", "Legal")
	fake.AddDocument(domain.Document{Filename: "a.pdf", CollectionName: "Legal", ChunkCount: 4})
	fake.AddDocument(domain.Document{Filename: "b.md", CollectionName: "Legal", ChunkCount: 2})

	out, err := run(t, nil, "collection", "list")
	require.NoError(t, err)

	assert.Contains(t, out, "Collection")
	assert.Contains(t, out, "Legal")
	assert.Contains(t, out, "Total: 2 collections, 2 documents, 6 chunks")
}

func TestCollectionList_JSON(t *testing.T) {
	fake := setupTestServices(t)
	fake.SetCollections("Default", "Legal")
	fake.AddDocument(domain.Document{Filename: "a.pdf", CollectionName: "Legal", ChunkCount: 4})

	out, err := run(t, nil, "collection", "list", "--json")
	require.NoError(t, err)

	var got []domain.CollectionStats
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, []domain.CollectionStats{
		{Name: "Default"},
		{Name: "Legal", DocumentCount: 1, ChunkCount: 4},
	}, got)
}

func TestCollectionList_Empty(t *testing.T) {
	fake := setupTestServices(t)
	fake.SetCollections()

	out, err := run(t, nil, "collections", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No collections found.")
}

func TestCollectionCreate(t *testing.T) {
	fake := setupTestServices(t)

	out, err := run(t, nil, "collection", "create", "Research")
	require.NoError(t, err)
	assert.Contains(t, out, `Collection "Research" created.`)
	assert.Contains(t, fake.Collections(), "Research")
}

func TestCollectionCreate_BlankNameNeverReachesBackend(t *testing.T) {
	fake := setupTestServices(t)

	_, err := run(t, nil, "collection", "create", "   ")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, fake.Calls(fakebackend.RouteCreateCollection))
}

func TestCollectionCreate_Duplicate(t *testing.T) {
	setupTestServices(t)

	_, err := run(t, nil, "collection", "create", "Default")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestCollectionDelete_Yes(t *testing.T) {
	fake := setupTestServices(t)
	fake.SetCollections("Default", "Old")

	out, err := run(t, nil, "collection", "delete", "Old", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, `Collection "Old" deleted.`)
	assert.Equal(t, []string{"Default"}, fake.Collections())
}

func TestCollectionDelete_KeepsSurroundingWhitespace(t *testing.T) {
	fake := setupTestServices(t)
	fake.SetCollections("Default", " Spaced ")

	_, err := run(t, nil, "collection", "delete", " Spaced ", "--yes")
	require.NoError(t, err)
	assert.Equal(t, []string{"Default"}, fake.Collections())
}

func TestCollectionDelete_NonTerminalRequiresYes(t *testing.T) {
	fake := setupTestServices(t)
	fake.SetCollections("Default", "Old")

	_, err := run(t, nil, "collection", "delete", "Old")
	assert.ErrorIs(t, err, ErrConfirmationRequired)
	assert.Zero(t, fake.Calls(fakebackend.RouteDeleteCollection))
}

func TestCollectionDelete_Prompt(t *testing.T) {
	tests := []struct {
		name    string
		answer  string
		deleted bool
	}{
		{"yes", "y\n", true},
		{"full yes", "YES\n", true},
		{"no", "n\n", false},
		{"empty", "\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := setupTestServices(t)
			fake.SetCollections("Default", "Old")
			isTerminal = func() bool { return true }
			promptInput = strings.NewReader(tt.answer)

			out, err := run(t, nil, "collection", "delete", "Old")
			assert.Contains(t, out, `Delete collection "Old" and all its documents?`)
			if tt.deleted {
				require.NoError(t, err)
				assert.NotContains(t, fake.Collections(), "Old")
			} else {
				assert.ErrorIs(t, err, ErrNotConfirmed)
				assert.Contains(t, fake.Collections(), "Old")
			}
		})
	}
}

func TestCollectionDelete_NotFound(t *testing.T) {
	setupTestServices(t)

	_, err := run(t, nil, "collection", "delete", "Missing", "-y")
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
}

func TestCollectionList_BackendError(t *testing.T) {
	fake := setupTestServices(t)
	fake.Fail(fakebackend.RouteListCollections, http.StatusInternalServerError, "db down")

	_, err := run(t, nil, "collection", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list collections")
}
