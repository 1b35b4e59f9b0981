package answer

import (
	"context"
	"errors"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/bunkodb/bunko/internal/retrieve"
)

type stubRetriever struct {
	results []retrieve.Result
	err     error
}

func (s *stubRetriever) Search(context.Context, string, int) ([]retrieve.Result, error) {
	return s.results, s.err
}

type stubCompletion struct {
	reply string
	err   error
	req   openai.ChatCompletionRequest
}

func (s *stubCompletion) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	s.req = req
	if s.err != nil {
		return openai.ChatCompletionResponse{}, s.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: s.reply}},
		},
	}, nil
}

func someResults() []retrieve.Result {
	return []retrieve.Result{
		{ChunkID: 1, DocumentID: 1, SourceID: "https://example.com/a", Content: "alpha content", Score: 0.8},
		{ChunkID: 2, DocumentID: 2, SourceID: "doc-2", Content: "beta content", Score: 0.6, Position: 3},
	}
}

func TestAsk_NoResults(t *testing.T) {
	a := NewAnswerer(&stubRetriever{})
	ans, err := a.Ask(context.Background(), "anything?", 5)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if len(ans.Citations) != 0 {
		t.Errorf("expected no citations, got %d", len(ans.Citations))
	}
	if !strings.Contains(ans.Answer, "No relevant content") {
		t.Errorf("unexpected answer: %q", ans.Answer)
	}
}

func TestAsk_RetrievalOnlyMode(t *testing.T) {
	a := NewAnswerer(&stubRetriever{results: someResults()})
	ans, err := a.Ask(context.Background(), "what is alpha?", 2)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if len(ans.Citations) != 2 {
		t.Fatalf("expected 2 citations, got %d", len(ans.Citations))
	}
	if ans.Citations[0].Index != 1 || ans.Citations[1].Index != 2 {
		t.Errorf("citations not enumerated from 1: %+v", ans.Citations)
	}
	if !strings.Contains(ans.Answer, "[1] (https://example.com/a) alpha content") {
		t.Errorf("answer missing formatted citation: %q", ans.Answer)
	}
	if ans.Model != "" {
		t.Errorf("retrieval-only answer should not name a model, got %q", ans.Model)
	}
}

func TestAsk_WithCompletion(t *testing.T) {
	client := &stubCompletion{reply: "Alpha is the first letter [1]."}
	a := NewAnswerer(&stubRetriever{results: someResults()},
		WithCompletionClient(client, "gpt-4o-mini"))

	ans, err := a.Ask(context.Background(), "what is alpha?", 2)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if ans.Answer != "Alpha is the first letter [1]." {
		t.Errorf("answer = %q", ans.Answer)
	}
	if ans.Model != "gpt-4o-mini" {
		t.Errorf("model = %q", ans.Model)
	}
	if client.req.Temperature != 0 {
		t.Errorf("temperature = %f, want 0", client.req.Temperature)
	}
	if len(client.req.Messages) != 2 {
		t.Fatalf("expected system + user messages, got %d", len(client.req.Messages))
	}
	if !strings.Contains(client.req.Messages[1].Content, "alpha content") {
		t.Error("user message missing retrieved context")
	}
	if !strings.Contains(client.req.Messages[1].Content, "what is alpha?") {
		t.Error("user message missing the question")
	}
}

func TestAsk_CompletionFailureDegrades(t *testing.T) {
	client := &stubCompletion{err: errors.New("rate limited")}
	a := NewAnswerer(&stubRetriever{results: someResults()},
		WithCompletionClient(client, ""))

	ans, err := a.Ask(context.Background(), "what is alpha?", 2)
	if err != nil {
		t.Fatalf("completion failure must not fail the call: %v", err)
	}
	if !strings.Contains(ans.Answer, "Retrieval-only fallback due to LLM error:") {
		t.Errorf("answer missing fallback prefix: %q", ans.Answer)
	}
	if !strings.Contains(ans.Answer, "[1] (https://example.com/a)") {
		t.Errorf("fallback answer missing citations: %q", ans.Answer)
	}
	if len(ans.Citations) != 2 {
		t.Errorf("expected citations preserved, got %d", len(ans.Citations))
	}
}

func TestAsk_RetrievalErrorFails(t *testing.T) {
	a := NewAnswerer(&stubRetriever{err: errors.New("index gone")})
	if _, err := a.Ask(context.Background(), "q", 1); err == nil {
		t.Fatal("expected error when retrieval fails")
	}
}

func TestAsk_SnippetsTruncated(t *testing.T) {
	long := strings.Repeat("x", 600)
	a := NewAnswerer(&stubRetriever{results: []retrieve.Result{
		{ChunkID: 1, SourceID: "doc-1", Content: long, Score: 0.9},
	}})
	ans, err := a.Ask(context.Background(), "q", 1)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if got := len(ans.Citations[0].Snippet); got != 500 {
		t.Errorf("snippet length = %d, want 500", got)
	}
}
