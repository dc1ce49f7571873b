// Package openai implements pkg/embeddings' Embedder for the OpenAI
// embeddings API (and any API-compatible endpoint).
package openai

import (
	"context"
	"fmt"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/foliohq/folio/pkg/embeddings"
	"github.com/foliohq/folio/pkg/vector"
)

const (
	// DefaultEmbeddingModel is the default model used for embeddings.
	DefaultEmbeddingModel = string(goopenai.AdaEmbeddingV2)

	// Dimensions is the vector dimensionality of the default model.
	Dimensions = 1536
)

// Embedder wraps the OpenAI embeddings API.
type Embedder struct {
	client *goopenai.Client
	model  goopenai.EmbeddingModel
}

// EmbedderConfig holds configuration for the OpenAI embedder.
type EmbedderConfig struct {
	// APIKey is the OpenAI API credential. Required.
	APIKey string

	// BaseURL overrides the API endpoint for OpenAI-compatible providers.
	// Empty means api.openai.com.
	BaseURL string

	// Model is the embedding model to use.
	// Defaults to DefaultEmbeddingModel if empty.
	Model string
}

// NewEmbedder creates a new embedder using the OpenAI embeddings API.
// Returns embeddings.ErrNotConfigured when no API key is provided, so
// callers can treat semantic search as an absent capability instead of
// failing.
func NewEmbedder(cfg EmbedderConfig) (*Embedder, error) {
	if cfg.APIKey == "" {
		return nil, embeddings.ErrNotConfigured
	}

	model := cfg.Model
	if model == "" {
		model = DefaultEmbeddingModel
	}

	var client *goopenai.Client
	if cfg.BaseURL != "" {
		clientConfig := goopenai.DefaultConfig(cfg.APIKey)
		clientConfig.BaseURL = cfg.BaseURL
		client = goopenai.NewClientWithConfig(clientConfig)
	} else {
		client = goopenai.NewClient(cfg.APIKey)
	}

	return &Embedder{
		client: client,
		model:  goopenai.EmbeddingModel(model),
	}, nil
}

// Embed converts text into a vector embedding. Input is truncated to the
// provider ceiling before submission.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, goopenai.EmbeddingRequest{
		Input: []string{embeddings.TruncateInput(text)},
		Model: e.model,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: openai request: %v", vector.ErrEmbedding, err)
	}

	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("%w: no embeddings returned", vector.ErrEmbedding)
	}

	return resp.Data[0].Embedding, nil
}

// Close releases resources held by the embedder.
func (e *Embedder) Close() error {
	// HTTP client doesn't require explicit cleanup
	return nil
}

var _ embeddings.Embedder = (*Embedder)(nil)
