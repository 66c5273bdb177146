package websearch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/passionfruits-net/docchat/internal/config"
)

func TestSearchParsesResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("Ocp-Apim-Subscription-Key"))
		assert.Equal(t, "coverage limits", r.URL.Query().Get("q"))
		assert.Equal(t, "3", r.URL.Query().Get("count"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"webPages":{"value":[
			{"name":"Insurance Guide","url":"https://example.com/guide","snippet":"Coverage limits explained."},
			{"name":"FAQ","url":"https://example.com/faq","snippet":"Common questions."}
		]}}`))
	}))
	defer srv.Close()

	c := NewClient(config.SearchConfig{BingKey: "test-key", BingEndpoint: srv.URL})

	results, err := c.Search(context.Background(), "coverage limits", 3)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Insurance Guide", results[0].Title)
	assert.Equal(t, "https://example.com/guide", results[0].URL)
	assert.Equal(t, "Coverage limits explained.", results[0].Snippet)
}

func TestSearchWithoutKeySkips(t *testing.T) {
	c := NewClient(config.SearchConfig{})

	results, err := c.Search(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchUpstreamErrorIsNotFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(config.SearchConfig{BingKey: "k", BingEndpoint: srv.URL})

	results, err := c.Search(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchMalformedBodyIsNotFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := NewClient(config.SearchConfig{BingKey: "k", BingEndpoint: srv.URL})

	results, err := c.Search(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}
