package testutils

import (
	"context"
	"fmt"

	"github.com/foliohq/folio/pkg/eventstream"
)

// MockPublisher is a test eventstream publisher that records events.
type MockPublisher struct {
	// Events accumulates everything published.
	Events []*eventstream.DocumentEmbeddedEvent

	// FailPublish causes PublishDocumentEmbedded to return an error.
	FailPublish bool
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{
		Events: make([]*eventstream.DocumentEmbeddedEvent, 0),
	}
}

func (m *MockPublisher) PublishDocumentEmbedded(_ context.Context, event *eventstream.DocumentEmbeddedEvent) error {
	if event == nil {
		return eventstream.ErrNilEvent
	}
	if m.FailPublish {
		return fmt.Errorf("mock publish failure")
	}

	m.Events = append(m.Events, event)
	return nil
}

func (m *MockPublisher) Close() error {
	return nil
}
