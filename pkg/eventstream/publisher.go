package eventstream

import "context"

// Publisher publishes document events to an event stream backend.
type Publisher interface {
	PublishDocumentEmbedded(ctx context.Context, event *DocumentEmbeddedEvent) error
	Close() error
}
