// Package answer builds cited answers on top of retrieval, optionally
// calling an LLM to synthesize prose from the retrieved chunks.
package answer

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/bunkodb/bunko/internal/retrieve"
	"github.com/bunkodb/bunko/pkg/utils"
)

const (
	// DefaultModel is the completion model used when none is configured.
	DefaultModel = "gpt-4o-mini"
	// snippetLen bounds each citation excerpt.
	snippetLen = 500

	systemPrompt = "You are a knowledge-base assistant. Answer the question " +
		"using only the provided context passages. Cite passages by their " +
		"bracketed numbers. If the context does not contain the answer, say so."
)

// Citation is one retrieved passage backing the answer.
type Citation struct {
	Index    int     `json:"index"`
	Source   string  `json:"source"`
	Snippet  string  `json:"snippet"`
	Score    float64 `json:"score"`
	Position int     `json:"position"`
}

// Answer is a QA response with its supporting citations.
type Answer struct {
	Answer    string     `json:"answer"`
	Citations []Citation `json:"citations"`
	Model     string     `json:"model,omitempty"`
}

// Retriever is the slice of the retrieval layer the answerer uses.
type Retriever interface {
	Search(ctx context.Context, query string, k int) ([]retrieve.Result, error)
}

// CompletionClient is the slice of the OpenAI client the answerer
// calls. Nil means retrieval-only mode.
type CompletionClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Answerer turns questions into cited answers.
type Answerer struct {
	retriever Retriever
	client    CompletionClient
	model     string
	logger    *zap.Logger
}

// Option configures an Answerer.
type Option func(*Answerer)

// WithCompletionClient enables LLM synthesis through the given client.
func WithCompletionClient(client CompletionClient, model string) Option {
	return func(a *Answerer) {
		a.client = client
		if model != "" {
			a.model = model
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Answerer) { a.logger = logger }
}

// NewAnswerer creates an answerer. Without WithCompletionClient it
// runs in retrieval-only mode and returns formatted citations as the
// answer text.
func NewAnswerer(retriever Retriever, opts ...Option) *Answerer {
	a := &Answerer{
		retriever: retriever,
		model:     DefaultModel,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Ask retrieves the top k chunks for the question and produces an
// answer. A completion failure never fails the call: the answer
// degrades to the formatted citations with the failure reason.
func (a *Answerer) Ask(ctx context.Context, question string, k int) (*Answer, error) {
	results, err := a.retriever.Search(ctx, question, k)
	if err != nil {
		return nil, fmt.Errorf("retrieval failed: %w", err)
	}
	if len(results) == 0 {
		return &Answer{Answer: "No relevant content found in the knowledge base."}, nil
	}

	citations := make([]Citation, len(results))
	for i, res := range results {
		citations[i] = Citation{
			Index:    i + 1,
			Source:   res.SourceID,
			Snippet:  utils.Snippet(res.Content, snippetLen),
			Score:    res.Score,
			Position: res.Position,
		}
	}
	contextBlock := formatCitations(citations)

	if a.client == nil {
		return &Answer{Answer: contextBlock, Citations: citations}, nil
	}

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       a.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{
				Role: openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("Context:\n%s\n\nQuestion: %s",
					contextBlock, question),
			},
		},
	})
	if err != nil || len(resp.Choices) == 0 {
		if err == nil {
			err = fmt.Errorf("completion returned no choices")
		}
		a.logger.Warn("completion failed, returning citations only",
			zap.Error(err))
		return &Answer{
			Answer:    fmt.Sprintf("Retrieval-only fallback due to LLM error: %v\n\n%s", err, contextBlock),
			Citations: citations,
		}, nil
	}

	return &Answer{
		Answer:    resp.Choices[0].Message.Content,
		Citations: citations,
		Model:     a.model,
	}, nil
}

// formatCitations renders passages as "[n] (<source>) <snippet>" lines.
func formatCitations(citations []Citation) string {
	var b strings.Builder
	for i, c := range citations {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "[%d] (%s) %s", c.Index, c.Source, c.Snippet)
	}
	return b.String()
}
