package events

import (
	"context"
	"sync"
)

// Published is one captured notification.
type Published struct {
	Topic         string
	Payload       any
	CorrelationID string
}

// InMemoryPublisher captures notifications for tests and local development.
type InMemoryPublisher struct {
	mu     sync.Mutex
	events []Published
	// FailWith, when set, makes every Publish return that error. Used to
	// exercise the best-effort publish path.
	FailWith error
}

func NewInMemoryPublisher() *InMemoryPublisher {
	return &InMemoryPublisher{}
}

func (p *InMemoryPublisher) Publish(_ context.Context, topic string, payload any, correlationID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.FailWith != nil {
		return p.FailWith
	}
	p.events = append(p.events, Published{Topic: topic, Payload: payload, CorrelationID: correlationID})
	return nil
}

// Events returns a copy of everything published so far.
func (p *InMemoryPublisher) Events() []Published {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Published{}, p.events...)
}
