package rag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/passionfruits-net/docchat/internal/websearch"
)

func TestDedupeSourcesKeepsFirstSeen(t *testing.T) {
	in := []Source{
		{Kind: SourceDocument, Name: "policy.pdf", Snippet: "first"},
		{Kind: SourceDocument, Name: "terms.pdf", Snippet: "second"},
		{Kind: SourceDocument, Name: "policy.pdf", Snippet: "third"},
		{Kind: SourceWeb, Name: "Example Site", Snippet: "fourth"},
		{Kind: SourceWeb, Name: "terms.pdf", Snippet: "fifth"},
	}

	got := dedupeSources(in)
	require.Len(t, got, 3)
	assert.Equal(t, "policy.pdf", got[0].Name)
	assert.Equal(t, "first", got[0].Snippet)
	assert.Equal(t, "terms.pdf", got[1].Name)
	assert.Equal(t, "Example Site", got[2].Name)
}

func TestDedupeSourcesEmpty(t *testing.T) {
	got := dedupeSources(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestDocumentSources(t *testing.T) {
	chunks := []RetrievedChunk{
		{Text: "body", FileName: "a.pdf", Score: 0.9},
	}
	got := documentSources(chunks)
	require.Len(t, got, 1)
	assert.Equal(t, SourceDocument, got[0].Kind)
	assert.Equal(t, "a.pdf", got[0].Name)
	assert.Equal(t, "body", got[0].Snippet)
}

func TestWebSources(t *testing.T) {
	got := webSources([]websearch.Result{
		{Title: "Some Page", URL: "https://example.com", Snippet: "snippet"},
	})
	require.Len(t, got, 1)
	assert.Equal(t, SourceWeb, got[0].Kind)
	assert.Equal(t, "Some Page", got[0].Name)
	assert.Equal(t, "https://example.com", got[0].URL)
}
