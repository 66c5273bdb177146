package rag

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/passionfruits-net/docchat/internal/llm"
	"github.com/passionfruits-net/docchat/internal/models"
	"github.com/passionfruits-net/docchat/internal/usage"
	"github.com/passionfruits-net/docchat/internal/websearch"
	"github.com/passionfruits-net/docchat/pkg/tokenizer"
)

var (
	ErrMissingCustomer = errors.New("customerId is required")
	ErrMissingMessage  = errors.New("message is required")
)

const (
	noInfoMessage = "I don't have that information."

	noDocsMessage = "I don't have any relevant documents to answer your question. " +
		"Please upload documents or try a different question."

	apologyMessage = "I'm sorry, something went wrong while generating the answer. Please try again."

	// How many chunks the non-generation fallbacks quote directly.
	fallbackChunkCount = 3
)

// Event is one server-push message of a chat answer. Content fragments arrive
// first; the terminal event carries Done plus the consolidated sources.
type Event struct {
	Content string   `json:"content,omitempty"`
	Done    bool     `json:"done,omitempty"`
	Sources []Source `json:"sources,omitempty"`
	Backend Backend  `json:"backend,omitempty"`
}

// Request is one chat query plus the configuration snapshot it is answered
// under. Tenant config and the global flag are loaded by the caller so the
// composer stays free of ambient state.
type Request struct {
	CustomerID       string
	Message          string
	IncludeGeneralAI bool
	Complexity       string
	Tenant           models.Customer
	GlobalEnabled    bool
	LocalEnabled     bool
}

// ChunkRetriever is the retrieval dependency, narrowed for testing.
type ChunkRetriever interface {
	Retrieve(ctx context.Context, customerID, query string, k int) ([]RetrievedChunk, error)
}

// Pinger reports whether the local generation endpoint is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Composer runs one chat request through backend selection, retrieval,
// generation, and source composition.
type Composer struct {
	retriever  ChunkRetriever
	gateway    llm.Gateway
	search     websearch.Searcher
	usage      usage.Recorder
	detector   Detector
	chatModel  string
	localModel string
	localPing  Pinger
}

// ComposerOptions configures a Composer. Search, Usage, and LocalPing may be
// nil; Detector defaults to the keyword detector.
type ComposerOptions struct {
	Retriever  ChunkRetriever
	Gateway    llm.Gateway
	Search     websearch.Searcher
	Usage      usage.Recorder
	Detector   Detector
	ChatModel  string
	LocalModel string
	LocalPing  Pinger
}

func NewComposer(opts ComposerOptions) *Composer {
	det := opts.Detector
	if det == nil {
		det = KeywordDetector{}
	}
	chatModel := opts.ChatModel
	if chatModel == "" {
		chatModel = "gpt-4o-mini"
	}
	return &Composer{
		retriever:  opts.Retriever,
		gateway:    opts.Gateway,
		search:     opts.Search,
		usage:      opts.Usage,
		detector:   det,
		chatModel:  chatModel,
		localModel: opts.LocalModel,
		localPing:  opts.LocalPing,
	}
}

// Answer validates the request synchronously, then streams events on the
// returned channel. The channel is closed when the answer is complete or the
// request fails; on failure an apology fragment is the last event and no
// terminal event is sent.
func (c *Composer) Answer(ctx context.Context, req Request) (<-chan Event, error) {
	if req.CustomerID == "" {
		return nil, ErrMissingCustomer
	}
	if strings.TrimSpace(req.Message) == "" {
		return nil, ErrMissingMessage
	}

	ch := make(chan Event)
	go func() {
		defer close(ch)
		c.run(ctx, req, ch)
	}()
	return ch, nil
}

func (c *Composer) run(ctx context.Context, req Request, ch chan<- Event) {
	backend := c.selectBackend(ctx, req)

	chunks, err := c.retriever.Retrieve(ctx, req.CustomerID, req.Message, DefaultTopK)
	if err != nil {
		slog.Error("retrieval failed", "customer", req.CustomerID, "error", err)
		c.send(ctx, ch, Event{Content: apologyMessage})
		return
	}

	sources := documentSources(chunks)

	switch backend {
	case BackendLocalRAG, BackendOpenAI:
		if !c.generate(ctx, req, backend, chunks, ch) {
			return
		}

	case BackendWebSearch:
		results := c.webSearch(ctx, req.Message)
		sources = append(sources, webSources(results)...)
		text := synthesizeWebAnswer(chunks, results)
		if err := ReplayWords(ctx, text, wordReplayDelay, func(w string) {
			c.send(ctx, ch, Event{Content: w})
		}); err != nil {
			return
		}

	case BackendDocuments:
		text := documentsAnswer(chunks, req.IncludeGeneralAI)
		if err := ReplayWords(ctx, text, wordReplayDelay, func(w string) {
			c.send(ctx, ch, Event{Content: w})
		}); err != nil {
			return
		}
	}

	c.send(ctx, ch, Event{Done: true, Sources: dedupeSources(sources), Backend: backend})
}

// selectBackend applies the pure selection rule, then downgrades a local
// choice when the local endpoint does not answer a ping. Unavailability is a
// soft signal, not a request failure.
func (c *Composer) selectBackend(ctx context.Context, req Request) Backend {
	flags := Flags{
		LocalEnabled:     req.LocalEnabled,
		GlobalEnabled:    req.GlobalEnabled,
		TenantEnabled:    req.Tenant.OpenAIEnabled,
		IncludeGeneralAI: req.IncludeGeneralAI,
	}

	backend := SelectBackend(flags)
	if backend == BackendLocalRAG && c.localPing != nil {
		if err := c.localPing.Ping(ctx); err != nil {
			slog.Warn("local generation unreachable, downgrading backend", "error", err)
			flags.LocalEnabled = false
			backend = SelectBackend(flags)
		}
	}
	return backend
}

// generate streams a model answer. Returns false when the stream failed and
// the terminal event must be skipped; an apology has already been sent.
func (c *Composer) generate(ctx context.Context, req Request, backend Backend, chunks []RetrievedChunk, ch chan<- Event) bool {
	systemPrompt := BuildSystemPrompt(PromptInput{
		CustomSystemPrompt: tenantPrompt(req.Tenant),
		Complexity:         effectiveComplexity(req),
		IncludeGeneralAI:   req.IncludeGeneralAI,
		Language:           c.detector.Detect(req.Message),
	})
	userPrompt := BuildUserPrompt(req.Message, chunks)

	chatReq := llm.ChatRequest{
		Model:       c.chatModel,
		Messages:    []llm.Message{{Role: "system", Content: systemPrompt}, {Role: "user", Content: userPrompt}},
		Temperature: 0.2,
		MaxTokens:   512,
	}
	if backend == BackendLocalRAG {
		chatReq.Provider = "ollama"
		chatReq.Model = c.localModel
	}

	stream, err := c.gateway.ChatStream(ctx, chatReq)
	if err != nil {
		slog.Error("generation stream failed to open", "customer", req.CustomerID, "backend", backend, "error", err)
		c.send(ctx, ch, Event{Content: apologyMessage})
		return false
	}

	var response strings.Builder
	for chunk := range stream {
		if chunk.Error != nil {
			slog.Error("generation stream failed", "customer", req.CustomerID, "backend", backend, "error", chunk.Error)
			c.send(ctx, ch, Event{Content: " " + apologyMessage})
			return false
		}
		if chunk.Content != "" {
			response.WriteString(chunk.Content)
			if !c.send(ctx, ch, Event{Content: chunk.Content}) {
				return false
			}
		}
		if chunk.Done {
			break
		}
	}

	c.recordChatUsage(ctx, req, chatReq.Model, systemPrompt+userPrompt, response.String())
	return true
}

func (c *Composer) webSearch(ctx context.Context, query string) []websearch.Result {
	if c.search == nil {
		return nil
	}
	results, err := c.search.Search(ctx, query, 5)
	if err != nil {
		slog.Warn("web search failed", "error", err)
		return nil
	}
	return results
}

func (c *Composer) recordChatUsage(ctx context.Context, req Request, model, input, output string) {
	if c.usage == nil {
		return
	}

	inTokens := tokenizer.EstimateTokens(input)
	outTokens := tokenizer.EstimateTokens(output)
	ev := usage.Event{
		CustomerID:    req.CustomerID,
		Operation:     usage.OpChat,
		Model:         model,
		InputTokens:   inTokens,
		OutputTokens:  outTokens,
		EstimatedCost: llm.CalculateCost(model, inTokens, outTokens),
		Metadata:      fmt.Sprintf("query: %.50s", req.Message),
	}
	if err := c.usage.Record(ctx, ev); err != nil {
		slog.Warn("failed to record chat usage", "customer", req.CustomerID, "error", err)
	}
}

func (c *Composer) send(ctx context.Context, ch chan<- Event, ev Event) bool {
	select {
	case ch <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

func tenantPrompt(t models.Customer) string {
	if t.SystemPrompt != nil {
		return *t.SystemPrompt
	}
	return ""
}

func effectiveComplexity(req Request) string {
	if req.Complexity != "" {
		return req.Complexity
	}
	return req.Tenant.ExplanationComplexity
}

// synthesizeWebAnswer concatenates document chunks and web snippets into
// prose. No generation happens on this path.
func synthesizeWebAnswer(chunks []RetrievedChunk, results []websearch.Result) string {
	var parts []string

	if len(chunks) > 0 {
		parts = append(parts, "Based on your documents: "+joinChunkTexts(chunks, fallbackChunkCount))
	}
	if len(results) > 0 {
		snippets := make([]string, 0, fallbackChunkCount)
		for i, r := range results {
			if i == fallbackChunkCount {
				break
			}
			snippets = append(snippets, fmt.Sprintf("%s: %s", r.Title, r.Snippet))
		}
		parts = append(parts, "From the web: "+strings.Join(snippets, " "))
	}

	if len(parts) == 0 {
		return "I couldn't find relevant information in your documents or on the web."
	}
	return strings.Join(parts, "\n\n")
}

// documentsAnswer builds the no-generation fallback from the top retrieved
// chunks. The two zero-chunk messages are distinguished by whether the caller
// asked for general knowledge.
func documentsAnswer(chunks []RetrievedChunk, includeGeneralAI bool) string {
	if len(chunks) == 0 {
		if includeGeneralAI {
			return noDocsMessage
		}
		return noInfoMessage
	}
	return "Based on your documents: " + joinChunkTexts(chunks, fallbackChunkCount)
}

func joinChunkTexts(chunks []RetrievedChunk, limit int) string {
	texts := make([]string, 0, limit)
	for i, c := range chunks {
		if i == limit {
			break
		}
		texts = append(texts, strings.TrimSpace(c.Text))
	}
	return strings.Join(texts, " ")
}
