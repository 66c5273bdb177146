package rag

import "github.com/passionfruits-net/docchat/internal/websearch"

const (
	SourceDocument = "document"
	SourceWeb      = "web"
)

// Source is the provenance record surfaced in the terminal event.
type Source struct {
	Kind    string `json:"kind"`
	Name    string `json:"fileName"`
	Snippet string `json:"text"`
	URL     string `json:"url,omitempty"`
}

func documentSources(chunks []RetrievedChunk) []Source {
	sources := make([]Source, 0, len(chunks))
	for _, c := range chunks {
		sources = append(sources, Source{Kind: SourceDocument, Name: c.FileName, Snippet: c.Text})
	}
	return sources
}

func webSources(results []websearch.Result) []Source {
	sources := make([]Source, 0, len(results))
	for _, r := range results {
		sources = append(sources, Source{Kind: SourceWeb, Name: r.Title, Snippet: r.Snippet, URL: r.URL})
	}
	return sources
}

// dedupeSources keeps the first occurrence of each display name, preserving
// order. Two chunks from the same file collapse into one citation.
func dedupeSources(in []Source) []Source {
	seen := make(map[string]struct{}, len(in))
	out := make([]Source, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s.Name]; ok {
			continue
		}
		seen[s.Name] = struct{}{}
		out = append(out, s)
	}
	return out
}
