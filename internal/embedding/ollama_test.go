package embedding_test

import (
	"context"
	"testing"

	"github.com/raphaelgruber/rehydra-go/internal/embedding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOllamaEmbedderDefaults(t *testing.T) {
	e, err := embedding.NewOllamaEmbedder("http://localhost:11434", "", 0)
	require.NoError(t, err)
	assert.Equal(t, embedding.DefaultOllamaModel, e.Model())
	assert.Equal(t, embedding.DefaultOllamaDimension, e.Dimension())
}

func TestNewOllamaEmbedderCustomModel(t *testing.T) {
	e, err := embedding.NewOllamaEmbedder("http://localhost:11434", "nomic-embed-text", 768)
	require.NoError(t, err)
	assert.Equal(t, "nomic-embed-text", e.Model())
	assert.Equal(t, 768, e.Dimension())
}

func TestNewWithoutHostReturnsDisabled(t *testing.T) {
	e, err := embedding.New(embedding.Config{})
	require.NoError(t, err)
	assert.IsType(t, embedding.Disabled{}, e)
}

func TestNewWithHostReturnsOllama(t *testing.T) {
	e, err := embedding.New(embedding.Config{Host: "http://localhost:11434"})
	require.NoError(t, err)
	assert.IsType(t, &embedding.OllamaEmbedder{}, e)
}

func TestDisabledEmbedder(t *testing.T) {
	ctx := context.Background()
	var e embedding.Embedder = embedding.Disabled{}

	vec, err := e.Embed(ctx, "anything")
	require.NoError(t, err)
	assert.Nil(t, vec)

	vecs, err := e.EmbedBatch(ctx, []string{"a", "b"})
	require.NoError(t, err)
	assert.Len(t, vecs, 2)
	assert.Nil(t, vecs[0])

	assert.Equal(t, "", e.Model())
	assert.Equal(t, 0, e.Dimension())
}
