// Package embeddings
package embeddings

import (
	"context"
	"errors"
)

// MaxInputChars is the ceiling applied to embedding input before submission.
// Long documents are truncated rather than rejected to bound provider cost
// and latency.
const MaxInputChars = 8000

// ErrNotConfigured is returned when no embedding credential or provider is
// available. Callers are expected to probe availability up front and degrade
// gracefully instead of surfacing this to users.
var ErrNotConfigured = errors.New("embedding provider not configured")

// Embedder provides text embedding capabilities.
type Embedder interface {
	// Embed converts text into a vector embedding.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Close releases any resources held by the embedder.
	Close() error
}

// TruncateInput bounds text to MaxInputChars runes. Counting runes keeps the
// cut on a character boundary, so providers never see invalid UTF-8.
func TruncateInput(text string) string {
	runes := []rune(text)
	if len(runes) <= MaxInputChars {
		return text
	}
	return string(runes[:MaxInputChars])
}
