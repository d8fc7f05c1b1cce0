package mocks

import (
	"context"
	"testing"

	"github.com/martianbank/banking/pkg/domain/events"
	"github.com/martianbank/banking/pkg/eventbus"
	"github.com/stretchr/testify/mock"
)

// Publisher is a mock eventbus.Publisher.
type Publisher struct {
	mock.Mock
}

// NewPublisher creates a mock wired to the test lifecycle.
func NewPublisher(t *testing.T) *Publisher {
	m := &Publisher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *Publisher) Publish(ctx context.Context, env events.Envelope) error {
	return m.Called(ctx, env).Error(0)
}

var _ eventbus.Publisher = (*Publisher)(nil)
