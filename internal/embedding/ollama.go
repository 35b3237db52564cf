package embedding

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
)

const (
	// DefaultOllamaModel is the embedding model that produces
	// 384-dimensional vectors.
	DefaultOllamaModel = "all-minilm:l6-v2"

	// DefaultOllamaDimension is the dimension for all-minilm:l6-v2.
	DefaultOllamaDimension = 384
)

// OllamaEmbedder implements Embedder against a local Ollama server.
type OllamaEmbedder struct {
	embedder  *embeddings.EmbedderImpl
	model     string
	dimension int
}

var _ Embedder = (*OllamaEmbedder)(nil)

// NewOllamaEmbedder creates an Ollama-backed embedder. If model is empty,
// DefaultOllamaModel is used; if expectedDimension is 0, the model default
// applies. The server is not contacted until the first Embed call.
func NewOllamaEmbedder(host, model string, expectedDimension int) (*OllamaEmbedder, error) {
	if model == "" {
		model = DefaultOllamaModel
	}
	if expectedDimension == 0 {
		expectedDimension = DefaultOllamaDimension
	}

	llm, err := ollama.New(ollama.WithServerURL(host), ollama.WithModel(model))
	if err != nil {
		return nil, fmt.Errorf("create ollama client: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}

	return &OllamaEmbedder{
		embedder:  embedder,
		model:     model,
		dimension: expectedDimension,
	}, nil
}

// Model returns the configured embedding model name.
func (e *OllamaEmbedder) Model() string {
	return e.model
}

// Dimension returns the expected embedding dimension.
func (e *OllamaEmbedder) Dimension() int {
	return e.dimension
}

// Embed generates an embedding vector for the given text. The vector is
// verified against the expected dimension before being returned.
func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vec, err := e.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed: %w", err)
	}

	if len(vec) != e.dimension {
		return nil, fmt.Errorf("dimension mismatch: got %d, want %d (model: %s)",
			len(vec), e.dimension, e.model)
	}
	return vec, nil
}

// EmbedBatch generates embeddings for multiple texts in a single request.
// All vectors are verified to match the expected dimension.
func (e *OllamaEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	vecs, err := e.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed batch: %w", err)
	}

	if len(vecs) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: got %d, want %d",
			len(vecs), len(texts))
	}
	for i, vec := range vecs {
		if len(vec) != e.dimension {
			return nil, fmt.Errorf("embedding %d dimension mismatch: got %d, want %d",
				i, len(vec), e.dimension)
		}
	}

	return vecs, nil
}
