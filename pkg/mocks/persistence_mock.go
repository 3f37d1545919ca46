package mocks

import (
	"context"

	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/models"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/persistence"
	"github.com/stretchr/testify/mock"
)

// MockResultStore is a mock implementation of persistence.ResultStore.
type MockResultStore struct {
	mock.Mock
}

var _ persistence.ResultStore = (*MockResultStore)(nil)

func (m *MockResultStore) Save(ctx context.Context, bundle *models.ResultBundle) error {
	args := m.Called(ctx, bundle)

	return args.Error(0)
}

func (m *MockResultStore) Get(ctx context.Context, id string) (*models.ResultBundle, error) {
	args := m.Called(ctx, id)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.ResultBundle), args.Error(1)
}

func (m *MockResultStore) List(ctx context.Context) ([]models.BundleSummary, error) {
	args := m.Called(ctx)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]models.BundleSummary), args.Error(1)
}

func (m *MockResultStore) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

func (m *MockResultStore) Close(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}
