// Package eventbus provides the bus implementations: Kafka for deployment
// and an in-memory bus for tests and single-process mode.
package eventbus

import (
	"context"
	"log/slog"
	"sync"

	"github.com/martianbank/banking/pkg/domain/events"
	"github.com/martianbank/banking/pkg/eventbus"
)

// MemoryBus is an in-memory implementation of eventbus.Bus. Handlers run
// synchronously on Publish but their errors never surface to the publisher,
// matching the decoupling of a real bus.
type MemoryBus struct {
	mu        sync.RWMutex
	handlers  map[string][]eventbus.HandlerFunc
	published []events.Envelope
	logger    *slog.Logger
}

// NewMemoryBus creates an in-memory event bus.
func NewMemoryBus(logger *slog.Logger) *MemoryBus {
	return &MemoryBus{
		handlers: make(map[string][]eventbus.HandlerFunc),
		logger:   logger.With("bus", "memory"),
	}
}

func (b *MemoryBus) Publish(ctx context.Context, env events.Envelope) error {
	b.mu.Lock()
	b.published = append(b.published, env)
	handlers := b.handlers[env.Source]
	b.mu.Unlock()

	for _, handler := range handlers {
		if err := handler(ctx, env); err != nil {
			b.logger.Error("handler failed",
				"source", env.Source, "detail_type", env.DetailType, "error", err)
		}
	}
	return nil
}

func (b *MemoryBus) Subscribe(source string, handler eventbus.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[source] = append(b.handlers[source], handler)
}

// Published returns the envelopes accepted so far. For tests.
func (b *MemoryBus) Published() []events.Envelope {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]events.Envelope, len(b.published))
	copy(out, b.published)
	return out
}

var _ eventbus.Bus = (*MemoryBus)(nil)
