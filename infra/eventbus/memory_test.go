package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/martianbank/banking/pkg/domain/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBus() *MemoryBus {
	return NewMemoryBus(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func envelope(source string) events.Envelope {
	return events.Envelope{
		Source:     source,
		DetailType: "test",
		Detail:     json.RawMessage(`{}`),
	}
}

func TestMemoryBusDispatchesBySource(t *testing.T) {
	bus := newTestBus()

	var got []string
	bus.Subscribe("a", func(ctx context.Context, env events.Envelope) error {
		got = append(got, "a:"+env.DetailType)
		return nil
	})
	bus.Subscribe("b", func(ctx context.Context, env events.Envelope) error {
		got = append(got, "b:"+env.DetailType)
		return nil
	})

	require.NoError(t, bus.Publish(context.Background(), envelope("a")))
	assert.Equal(t, []string{"a:test"}, got)
	assert.Len(t, bus.Published(), 1)
}

func TestMemoryBusHandlerErrorDoesNotFailPublish(t *testing.T) {
	bus := newTestBus()
	bus.Subscribe("a", func(ctx context.Context, env events.Envelope) error {
		return errors.New("handler boom")
	})

	// Publish reflects bus acceptance only, never handler outcomes.
	assert.NoError(t, bus.Publish(context.Background(), envelope("a")))
}

func TestMemoryBusUnsubscribedSource(t *testing.T) {
	bus := newTestBus()
	require.NoError(t, bus.Publish(context.Background(), envelope("nobody")))
	assert.Len(t, bus.Published(), 1)
}
