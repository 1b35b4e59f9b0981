package embedding

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/bunkodb/bunko/pkg/utils"
)

const (
	// DefaultOpenAIModel is the embedding model used when none is configured.
	DefaultOpenAIModel = string(openai.SmallEmbedding3)
	// DefaultOpenAIDimensions matches text-embedding-3-small.
	DefaultOpenAIDimensions = 1536
)

// ErrNoAPIKey is returned when the configured API key is empty.
var ErrNoAPIKey = errors.New("OpenAI API key not set")

// embeddingAPI is the slice of the OpenAI client the embedder calls.
type embeddingAPI interface {
	CreateEmbeddings(ctx context.Context, req openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error)
}

// OpenAIEmbedder produces embeddings via the OpenAI API, with an LRU
// cache in front keyed by text.
type OpenAIEmbedder struct {
	api        embeddingAPI
	model      string
	dimensions int
	cache      *Cache
}

// NewOpenAIEmbedder creates a remote embedder. Model and dimensions
// fall back to text-embedding-3-small / 1536 when unset.
func NewOpenAIEmbedder(apiKey, model string, dimensions, cacheSize int) (*OpenAIEmbedder, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	if model == "" {
		model = DefaultOpenAIModel
	}
	if dimensions <= 0 {
		dimensions = DefaultOpenAIDimensions
	}
	if cacheSize <= 0 {
		cacheSize = 1024
	}
	return &OpenAIEmbedder{
		api:        openai.NewClient(apiKey),
		model:      model,
		dimensions: dimensions,
		cache:      NewCache(cacheSize),
	}, nil
}

// Embed returns the embedding for a single text.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	out, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// EmbedBatch embeds texts in one API call, serving repeats from the
// cache. Results are returned in input order.
func (e *OpenAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	var misses []string
	var missIdx []int
	for i, text := range texts {
		if cached, ok := e.cache.Get(text); ok {
			out[i] = cached
			continue
		}
		misses = append(misses, text)
		missIdx = append(missIdx, i)
	}
	if len(misses) == 0 {
		return out, nil
	}

	resp, err := e.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input:      misses,
		Model:      openai.EmbeddingModel(e.model),
		Dimensions: e.dimensions,
	})
	if err != nil {
		return nil, fmt.Errorf("embeddings request failed: %w", err)
	}
	if len(resp.Data) != len(misses) {
		return nil, fmt.Errorf("embeddings response has %d entries, expected %d", len(resp.Data), len(misses))
	}
	for j, data := range resp.Data {
		vec := data.Embedding
		if len(vec) != e.dimensions {
			return nil, fmt.Errorf("embedding has %d dimensions, expected %d", len(vec), e.dimensions)
		}
		utils.NormalizeL2(vec)
		e.cache.Set(misses[j], vec)
		out[missIdx[j]] = vec
	}
	return out, nil
}

// Dimensions returns the embedding dimension.
func (e *OpenAIEmbedder) Dimensions() int { return e.dimensions }

// ModelID returns the configured model name.
func (e *OpenAIEmbedder) ModelID() string { return e.model }

// Close is a no-op; the HTTP client holds no resources worth freeing.
func (e *OpenAIEmbedder) Close() error { return nil }
