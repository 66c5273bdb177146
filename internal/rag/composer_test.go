package rag

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/passionfruits-net/docchat/internal/llm"
	"github.com/passionfruits-net/docchat/internal/models"
	"github.com/passionfruits-net/docchat/internal/websearch"
)

type fakeRetriever struct {
	chunks []RetrievedChunk
	err    error
}

func (f *fakeRetriever) Retrieve(ctx context.Context, customerID, query string, k int) ([]RetrievedChunk, error) {
	return f.chunks, f.err
}

type fakeGateway struct {
	chunks    []llm.StreamChunk
	streamErr error
	lastReq   llm.ChatRequest
}

func (g *fakeGateway) Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	return nil, errors.New("not implemented")
}

func (g *fakeGateway) ChatStream(ctx context.Context, req llm.ChatRequest) (<-chan llm.StreamChunk, error) {
	g.lastReq = req
	if g.streamErr != nil {
		return nil, g.streamErr
	}
	ch := make(chan llm.StreamChunk, len(g.chunks))
	for _, c := range g.chunks {
		ch <- c
	}
	close(ch)
	return ch, nil
}

func (g *fakeGateway) Embed(ctx context.Context, req llm.EmbeddingRequest) (*llm.EmbeddingResponse, error) {
	return nil, errors.New("not implemented")
}

func (g *fakeGateway) Provider(name string) (llm.Provider, error) {
	return nil, errors.New("no providers")
}

type fakeSearcher struct {
	results []websearch.Result
}

func (f *fakeSearcher) Search(ctx context.Context, query string, count int) ([]websearch.Result, error) {
	return f.results, nil
}

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping(ctx context.Context) error { return f.err }

func policyChunks() []RetrievedChunk {
	return []RetrievedChunk{
		{Text: "The coverage limit is $500,000 per incident.", FileName: "policy.pdf", Score: 0.92},
		{Text: "A coverage limit of $500,000 applies to all claims.", FileName: "policy.pdf", Score: 0.88},
	}
}

func collect(t *testing.T, events <-chan Event) []Event {
	t.Helper()
	var out []Event
	timeout := time.After(10 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return out
			}
			out = append(out, ev)
		case <-timeout:
			t.Fatal("timed out waiting for events")
		}
	}
}

func joinContent(events []Event) string {
	var b strings.Builder
	for _, ev := range events {
		b.WriteString(ev.Content)
	}
	return b.String()
}

func terminal(events []Event) (Event, bool) {
	for _, ev := range events {
		if ev.Done {
			return ev, true
		}
	}
	return Event{}, false
}

func TestAnswerValidation(t *testing.T) {
	c := NewComposer(ComposerOptions{Retriever: &fakeRetriever{}, Gateway: &fakeGateway{}})

	_, err := c.Answer(context.Background(), Request{Message: "hello"})
	assert.ErrorIs(t, err, ErrMissingCustomer)

	_, err = c.Answer(context.Background(), Request{CustomerID: "t1", Message: "   "})
	assert.ErrorIs(t, err, ErrMissingMessage)
}

func TestAnswerDocumentsBackend(t *testing.T) {
	c := NewComposer(ComposerOptions{
		Retriever: &fakeRetriever{chunks: policyChunks()},
		Gateway:   &fakeGateway{},
	})

	events, err := c.Answer(context.Background(), Request{
		CustomerID: "t1",
		Message:    "What is the coverage limit?",
	})
	require.NoError(t, err)

	got := collect(t, events)
	assert.Contains(t, joinContent(got), "$500,000")

	term, ok := terminal(got)
	require.True(t, ok, "terminal event missing")
	assert.Equal(t, BackendDocuments, term.Backend)
	require.Len(t, term.Sources, 1, "two chunks from one file must dedupe to one source")
	assert.Equal(t, "policy.pdf", term.Sources[0].Name)
	assert.Equal(t, SourceDocument, term.Sources[0].Kind)
}

func TestAnswerDocumentsNoChunks(t *testing.T) {
	c := NewComposer(ComposerOptions{
		Retriever: &fakeRetriever{},
		Gateway:   &fakeGateway{},
	})

	events, err := c.Answer(context.Background(), Request{
		CustomerID: "t1",
		Message:    "Anything at all?",
	})
	require.NoError(t, err)

	got := collect(t, events)
	assert.Equal(t, noInfoMessage, joinContent(got))

	term, ok := terminal(got)
	require.True(t, ok)
	assert.Empty(t, term.Sources)
}

func TestAnswerHostedGeneration(t *testing.T) {
	gw := &fakeGateway{chunks: []llm.StreamChunk{
		{Content: "The limit "},
		{Content: "is $500,000."},
		{Done: true},
	}}
	c := NewComposer(ComposerOptions{
		Retriever: &fakeRetriever{chunks: policyChunks()},
		Gateway:   gw,
	})

	events, err := c.Answer(context.Background(), Request{
		CustomerID:    "t1",
		Message:       "What is the coverage limit?",
		Tenant:        models.Customer{CustomerID: "t1", OpenAIEnabled: true},
		GlobalEnabled: true,
	})
	require.NoError(t, err)

	got := collect(t, events)
	assert.Equal(t, "The limit is $500,000.", joinContent(got))

	term, ok := terminal(got)
	require.True(t, ok)
	assert.Equal(t, BackendOpenAI, term.Backend)
	require.Len(t, term.Sources, 1)

	require.Len(t, gw.lastReq.Messages, 2)
	assert.Equal(t, "gpt-4o-mini", gw.lastReq.Model)
	assert.Equal(t, "system", gw.lastReq.Messages[0].Role)
	assert.Contains(t, gw.lastReq.Messages[1].Content, "<docs>")
	assert.Contains(t, gw.lastReq.Messages[1].Content, "[policy.pdf]")
}

func TestAnswerGenerationFailureSkipsTerminal(t *testing.T) {
	gw := &fakeGateway{chunks: []llm.StreamChunk{
		{Content: "partial answer"},
		{Error: errors.New("upstream exploded")},
	}}
	c := NewComposer(ComposerOptions{
		Retriever: &fakeRetriever{chunks: policyChunks()},
		Gateway:   gw,
	})

	events, err := c.Answer(context.Background(), Request{
		CustomerID:    "t1",
		Message:       "question",
		Tenant:        models.Customer{OpenAIEnabled: true},
		GlobalEnabled: true,
	})
	require.NoError(t, err)

	got := collect(t, events)
	joined := joinContent(got)
	assert.Contains(t, joined, "partial answer")
	assert.Contains(t, joined, apologyMessage)

	_, ok := terminal(got)
	assert.False(t, ok, "failed generation must not emit a terminal event")
}

func TestAnswerStreamOpenFailure(t *testing.T) {
	c := NewComposer(ComposerOptions{
		Retriever: &fakeRetriever{chunks: policyChunks()},
		Gateway:   &fakeGateway{streamErr: errors.New("connect refused")},
	})

	events, err := c.Answer(context.Background(), Request{
		CustomerID:    "t1",
		Message:       "question",
		Tenant:        models.Customer{OpenAIEnabled: true},
		GlobalEnabled: true,
	})
	require.NoError(t, err)

	got := collect(t, events)
	assert.Contains(t, joinContent(got), apologyMessage)
	_, ok := terminal(got)
	assert.False(t, ok)
}

func TestAnswerRetrieverFailure(t *testing.T) {
	c := NewComposer(ComposerOptions{
		Retriever: &fakeRetriever{err: errors.New("corrupt embedding")},
		Gateway:   &fakeGateway{},
	})

	events, err := c.Answer(context.Background(), Request{CustomerID: "t1", Message: "question"})
	require.NoError(t, err)

	got := collect(t, events)
	assert.Equal(t, apologyMessage, joinContent(got))
	_, ok := terminal(got)
	assert.False(t, ok)
}

func TestAnswerLocalBackend(t *testing.T) {
	gw := &fakeGateway{chunks: []llm.StreamChunk{{Content: "local answer"}, {Done: true}}}
	c := NewComposer(ComposerOptions{
		Retriever:  &fakeRetriever{chunks: policyChunks()},
		Gateway:    gw,
		LocalModel: "tinyllama",
	})

	events, err := c.Answer(context.Background(), Request{
		CustomerID:   "t1",
		Message:      "question",
		LocalEnabled: true,
	})
	require.NoError(t, err)

	got := collect(t, events)
	term, ok := terminal(got)
	require.True(t, ok)
	assert.Equal(t, BackendLocalRAG, term.Backend)
	assert.Equal(t, "ollama", gw.lastReq.Provider)
	assert.Equal(t, "tinyllama", gw.lastReq.Model)
}

func TestAnswerLocalDowngradesWhenUnreachable(t *testing.T) {
	gw := &fakeGateway{chunks: []llm.StreamChunk{{Content: "hosted answer"}, {Done: true}}}
	c := NewComposer(ComposerOptions{
		Retriever: &fakeRetriever{chunks: policyChunks()},
		Gateway:   gw,
		LocalPing: &fakePinger{err: errors.New("no ollama")},
	})

	events, err := c.Answer(context.Background(), Request{
		CustomerID:    "t1",
		Message:       "question",
		LocalEnabled:  true,
		GlobalEnabled: true,
		Tenant:        models.Customer{OpenAIEnabled: true},
	})
	require.NoError(t, err)

	got := collect(t, events)
	term, ok := terminal(got)
	require.True(t, ok)
	assert.Equal(t, BackendOpenAI, term.Backend)
	assert.Empty(t, gw.lastReq.Provider)
}

func TestAnswerWebSearchBackend(t *testing.T) {
	c := NewComposer(ComposerOptions{
		Retriever: &fakeRetriever{chunks: policyChunks()[:1]},
		Gateway:   &fakeGateway{},
		Search: &fakeSearcher{results: []websearch.Result{
			{Title: "Insurance Basics", URL: "https://example.com/basics", Snippet: "Limits vary by policy."},
		}},
	})

	events, err := c.Answer(context.Background(), Request{
		CustomerID:       "t1",
		Message:          "What is a coverage limit?",
		IncludeGeneralAI: true,
	})
	require.NoError(t, err)

	got := collect(t, events)
	joined := joinContent(got)
	assert.Contains(t, joined, "$500,000")
	assert.Contains(t, joined, "Limits vary by policy.")

	term, ok := terminal(got)
	require.True(t, ok)
	assert.Equal(t, BackendWebSearch, term.Backend)
	require.Len(t, term.Sources, 2)
	assert.Equal(t, SourceDocument, term.Sources[0].Kind)
	assert.Equal(t, SourceWeb, term.Sources[1].Kind)
}

func TestAnswerWebSearchNothingFound(t *testing.T) {
	c := NewComposer(ComposerOptions{
		Retriever: &fakeRetriever{},
		Gateway:   &fakeGateway{},
		Search:    &fakeSearcher{},
	})

	events, err := c.Answer(context.Background(), Request{
		CustomerID:       "t1",
		Message:          "question",
		IncludeGeneralAI: true,
	})
	require.NoError(t, err)

	got := collect(t, events)
	assert.Contains(t, joinContent(got), "couldn't find relevant information")

	term, ok := terminal(got)
	require.True(t, ok)
	assert.Empty(t, term.Sources)
}
