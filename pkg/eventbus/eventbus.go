// Package eventbus defines the contract between the saga producers and the
// bus implementations under infra/eventbus.
package eventbus

import (
	"context"

	"github.com/martianbank/banking/pkg/domain/events"
)

// Publisher is the producer side of the bus. Publish returns once the bus
// has durably accepted the envelope; a returned error means the envelope was
// not accepted and the caller must record the failure. Publishers never
// retry internally.
type Publisher interface {
	Publish(ctx context.Context, env events.Envelope) error
}

// HandlerFunc consumes one decoded envelope at a time.
type HandlerFunc func(ctx context.Context, env events.Envelope) error

// Bus is a publisher that also dispatches to in-process subscribers.
// Consumption is decoupled from publishing: a Publish error never reflects
// handler outcomes, only bus acceptance.
type Bus interface {
	Publisher
	Subscribe(source string, handler HandlerFunc)
}
