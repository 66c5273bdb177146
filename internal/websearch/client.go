package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/passionfruits-net/docchat/internal/config"
)

// Result is one web search hit.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

type Searcher interface {
	Search(ctx context.Context, query string, count int) ([]Result, error)
}

// Client queries the Bing Web Search v7 API. Web search is a best-effort
// dependency: a missing key or any upstream failure yields empty results, not
// an error the caller has to handle.
type Client struct {
	key      string
	endpoint string
	http     *http.Client
}

func NewClient(cfg config.SearchConfig) *Client {
	endpoint := cfg.BingEndpoint
	if endpoint == "" {
		endpoint = "https://api.bing.microsoft.com/v7.0/search"
	}
	return &Client{
		key:      cfg.BingKey,
		endpoint: endpoint,
		http:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Search(ctx context.Context, query string, count int) ([]Result, error) {
	if c.key == "" {
		slog.Warn("web search key not configured, skipping search")
		return nil, nil
	}
	if count <= 0 {
		count = 5
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("count", strconv.Itoa(count))
	q.Set("responseFilter", "Webpages")
	q.Set("safesearch", "Moderate")
	q.Set("freshness", "Month")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.key)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		slog.Warn("web search failed", "error", err)
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("web search returned non-200", "status", resp.StatusCode)
		return nil, nil
	}

	var body struct {
		WebPages struct {
			Value []struct {
				Name    string `json:"name"`
				URL     string `json:"url"`
				Snippet string `json:"snippet"`
			} `json:"value"`
		} `json:"webPages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		slog.Warn("web search response decode failed", "error", err)
		return nil, nil
	}

	results := make([]Result, 0, len(body.WebPages.Value))
	for _, page := range body.WebPages.Value {
		results = append(results, Result{Title: page.Name, URL: page.URL, Snippet: page.Snippet})
	}
	return results, nil
}
