package testkit

import (
	"context"

	"github.com/KeSHaMI/hexaframe/pkg/ports"
)

// InMemoryEventBus records published events in order.
type InMemoryEventBus struct {
	events []any
}

var _ ports.EventPublisher = (*InMemoryEventBus)(nil)

// NewEventBus returns an empty bus.
func NewEventBus() *InMemoryEventBus {
	return &InMemoryEventBus{}
}

// Publish appends event.
func (b *InMemoryEventBus) Publish(_ context.Context, event any) error {
	b.events = append(b.events, event)
	return nil
}

// Events returns a copy of the published events.
func (b *InMemoryEventBus) Events() []any {
	return append([]any(nil), b.events...)
}

// Clear discards all events.
func (b *InMemoryEventBus) Clear() {
	b.events = nil
}

// EventsOf returns the published events of type E in order.
func EventsOf[E any](b *InMemoryEventBus) []E {
	var out []E
	for _, ev := range b.events {
		if e, ok := ev.(E); ok {
			out = append(out, e)
		}
	}
	return out
}
