// Package embeddingutils is the embeddings utility package
package embeddingutils

import (
	"fmt"

	"github.com/foliohq/folio/pkg/embeddings"
	"github.com/foliohq/folio/pkg/embeddings/ollama"
	"github.com/foliohq/folio/pkg/embeddings/openai"
)

type NewEmbedderOpts struct {
	ProviderType string
	TargetURL    string
	Model        string
	APIKey       string
}

// Available reports whether semantic search can be served with the given
// options. This is the single source of truth for the capability probe:
// every call site that needs to know "is semantic search usable" goes
// through here rather than checking credentials itself.
func Available(o *NewEmbedderOpts) bool {
	if o == nil {
		return false
	}
	switch o.ProviderType {
	case "openai":
		return o.APIKey != ""
	case "ollama":
		// Local provider, no credential needed.
		return true
	default:
		return false
	}
}

// NewEmbedder constructs the configured embedding provider. Returns
// embeddings.ErrNotConfigured when Available would report false, so callers
// can degrade to keyword-only search.
func NewEmbedder(o *NewEmbedderOpts) (embeddings.Embedder, error) {
	if !Available(o) {
		return nil, embeddings.ErrNotConfigured
	}

	switch o.ProviderType {
	case "openai":
		return openai.NewEmbedder(openai.EmbedderConfig{
			APIKey:  o.APIKey,
			BaseURL: o.TargetURL,
			Model:   o.Model,
		})
	case "ollama":
		return ollama.NewEmbedder(ollama.EmbedderConfig{
			BaseURL: o.TargetURL,
			Model:   o.Model,
		})
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", o.ProviderType)
	}
}
