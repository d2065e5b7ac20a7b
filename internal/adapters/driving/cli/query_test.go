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

func sampleResults() []domain.QueryResult {
	return []domain.QueryResult{
		{ChunkNumber: 2, Content: strings.Repeat("refunds are issued within 30 days ", 10), Distance: 0.1234, DocumentFilename: "policy.pdf", CollectionName: "Legal"},
		{ChunkNumber: 1, Content: "shipping terms", Distance: 0.5, DocumentFilename: "terms.md", CollectionName: "Default"},
	}
}

func TestQueryCmd_AllCollections(t *testing.T) {
	fake := setupTestServices(t)
	fake.SetQueryResults(sampleResults()...)

	out, err := run(t, nil, "query", "refund policy")
	require.NoError(t, err)

	assert.Contains(t, out, "2 results in All collections")
	assert.Contains(t, out, "[1] policy.pdf · Legal  chunk 2  distance 0.1234")
	assert.Contains(t, out, "[2] terms.md · Default")

	queries := fake.Queries()
	require.Len(t, queries, 1)
	assert.Equal(t, "refund policy", queries[0].Query)
	assert.Equal(t, domain.AllCollectionsMarker, queries[0].Collections)
}

func TestQueryCmd_ScopedCollections(t *testing.T) {
	fake := setupTestServices(t)

	out, err := run(t, nil, "query", "revenue", "-c", "Finance,Reports")
	require.NoError(t, err)
	assert.Contains(t, out, "No results")

	queries := fake.Queries()
	require.Len(t, queries, 1)
	assert.Equal(t, "Finance,Reports", queries[0].Collections)
}

func TestQueryCmd_PreviewAndFull(t *testing.T) {
	fake := setupTestServices(t)
	fake.SetQueryResults(sampleResults()[0])
	full := sampleResults()[0].Content

	out, err := run(t, nil, "query", "refund")
	require.NoError(t, err)
	assert.NotContains(t, out, full)
	assert.Contains(t, out, sampleResults()[0].Preview())

	resetFlags(rootCmd)
	out, err = run(t, nil, "query", "refund", "--full")
	require.NoError(t, err)
	assert.Contains(t, out, full)
}

func TestQueryCmd_Limit(t *testing.T) {
	fake := setupTestServices(t)
	fake.SetQueryResults(sampleResults()...)

	out, err := run(t, nil, "query", "refund", "-n", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "1 results")
	assert.NotContains(t, out, "terms.md")
}

func TestQueryCmd_JSON(t *testing.T) {
	fake := setupTestServices(t)
	fake.SetQueryResults(sampleResults()...)

	out, err := run(t, nil, "query", "refund", "--json")
	require.NoError(t, err)

	var got []domain.QueryResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, sampleResults(), got)
}

func TestQueryCmd_BackendError(t *testing.T) {
	fake := setupTestServices(t)
	fake.Fail(fakebackend.RouteQuery, http.StatusInternalServerError, "index offline")

	_, err := run(t, nil, "query", "refund")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index offline")
}

func TestQueryCmd_RequiresText(t *testing.T) {
	setupTestServices(t)

	_, err := run(t, nil, "query")
	assert.Error(t, err)
}
