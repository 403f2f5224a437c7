package mocks

import (
	"context"
	"sync"

	"github.com/marecop/YAweb/domain"
)

// PublishedEvent records one Publish call on the mock producer.
type PublishedEvent struct {
	Key   string
	Event any
}

// MockEventProducer implements domain.EventProducer for testing. It records
// published events for assertions.
type MockEventProducer struct {
	PublishFunc func(ctx context.Context, key string, event any) error

	mu     sync.Mutex
	events []PublishedEvent
}

// NewMockEventProducer creates a MockEventProducer with default behaviors.
func NewMockEventProducer() *MockEventProducer {
	return &MockEventProducer{}
}

func (m *MockEventProducer) Publish(ctx context.Context, key string, event any) error {
	m.mu.Lock()
	m.events = append(m.events, PublishedEvent{Key: key, Event: event})
	m.mu.Unlock()

	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, key, event)
	}
	return nil
}

// Events returns a snapshot of everything published so far.
func (m *MockEventProducer) Events() []PublishedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]PublishedEvent, len(m.events))
	copy(out, m.events)
	return out
}

var _ domain.EventProducer = (*MockEventProducer)(nil)
