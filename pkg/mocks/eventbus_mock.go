// Package mocks provides testify mocks for the pipeline's collaborators.
package mocks

import (
	"context"

	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/eventbus"
	"github.com/stretchr/testify/mock"
)

// MockEventPublisher is a mock implementation of eventbus.EventPublisher.
type MockEventPublisher struct {
	mock.Mock
}

var _ eventbus.EventPublisher = (*MockEventPublisher)(nil)

func (m *MockEventPublisher) Publish(ctx context.Context, key string, event eventbus.Event) error {
	args := m.Called(ctx, key, event)

	return args.Error(0)
}
