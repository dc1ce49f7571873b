// Package eventstream defines transport-neutral events emitted when the
// search pipeline changes durable state, plus the Publisher interface that
// backends implement.
package eventstream

import "time"

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeDocumentEmbedded is emitted after a document embedding is
	// generated and persisted.
	EventTypeDocumentEmbedded = "folio.document.embedded"
)

// DocumentEmbeddedEvent is a transport-neutral event payload for a document
// whose embedding was just generated and saved.
type DocumentEmbeddedEvent struct {
	SchemaVersion int       `json:"schema_version"`
	EventType     string    `json:"event_type"`
	EmittedAt     time.Time `json:"emitted_at"`
	Collection    string    `json:"collection"`
	DocumentID    string    `json:"document_id"`
	Slug          string    `json:"slug"`
	Dimensions    int       `json:"dimensions"`
}
