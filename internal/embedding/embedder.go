// Package embedding provides text embedding generation for stored messages
// and context entries.
package embedding

import "context"

// Embedder defines the interface for text embedding providers.
type Embedder interface {
	// Embed generates an embedding vector for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts.
	// More efficient than multiple Embed calls for bulk operations.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Model returns the name of the embedding model being used.
	Model() string

	// Dimension returns the embedding vector dimension.
	Dimension() int
}

// Config holds configuration for creating an Embedder.
type Config struct {
	// Host is the Ollama server URL. Empty disables embedding entirely;
	// messages are then stored without vectors.
	Host string

	// Model is the embedding model name.
	// "all-minilm:l6-v2" (384-dim), "nomic-embed-text" (768-dim)
	Model string

	// ExpectedDimension is the required output dimension.
	// Set to 0 to use the model default.
	ExpectedDimension int
}

// New creates an Embedder based on the provided configuration. With no host
// configured the disabled embedder is returned so write paths keep working
// on installs without a local Ollama.
func New(cfg Config) (Embedder, error) {
	if cfg.Host == "" {
		return Disabled{}, nil
	}
	return NewOllamaEmbedder(cfg.Host, cfg.Model, cfg.ExpectedDimension)
}

// Disabled is the no-op embedder used when no Ollama host is configured.
// Every call returns nil vectors.
type Disabled struct{}

var _ Embedder = Disabled{}

func (Disabled) Embed(ctx context.Context, text string) ([]float32, error) {
	return nil, nil
}

func (Disabled) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return make([][]float32, len(texts)), nil
}

func (Disabled) Model() string { return "" }

func (Disabled) Dimension() int { return 0 }
