package sascore

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	domain "github.com/turtacn/SAScore/internal/domain/sascore"
)

// MockModelStore is a mock implementation of ModelStore.
type MockModelStore struct {
	mock.Mock
}

func (m *MockModelStore) Save(ctx context.Context, snap *domain.Snapshot) error {
	args := m.Called(ctx, snap)
	return args.Error(0)
}

func (m *MockModelStore) Load(ctx context.Context, name string) (*domain.Snapshot, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Snapshot), args.Error(1)
}

func (m *MockModelStore) List(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockScoreCache is a mock implementation of ScoreCache.
type MockScoreCache struct {
	mock.Mock
}

func (m *MockScoreCache) Get(ctx context.Context, modelVersion, smiles string) (*domain.Breakdown, bool, error) {
	args := m.Called(ctx, modelVersion, smiles)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.Breakdown), args.Bool(1), args.Error(2)
}

func (m *MockScoreCache) Set(ctx context.Context, modelVersion, smiles string, b *domain.Breakdown, ttl time.Duration) error {
	args := m.Called(ctx, modelVersion, smiles, b, ttl)
	return args.Error(0)
}

// MockFragmentCountStore is a mock implementation of FragmentCountStore.
type MockFragmentCountStore struct {
	mock.Mock
}

func (m *MockFragmentCountStore) AddCounts(ctx context.Context, radius int, counts domain.FragmentCountTable, molecules int64) error {
	args := m.Called(ctx, radius, counts, molecules)
	return args.Error(0)
}

func (m *MockFragmentCountStore) LoadCounts(ctx context.Context, radius int) (domain.FragmentCountTable, error) {
	args := m.Called(ctx, radius)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.FragmentCountTable), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher.
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishModelEvent(ctx context.Context, event *ModelEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockBuildLocker is a mock implementation of BuildLocker.
type MockBuildLocker struct {
	mock.Mock
	released int
}

func (m *MockBuildLocker) Acquire(ctx context.Context, name string) (func(context.Context) error, error) {
	args := m.Called(ctx, name)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	return func(context.Context) error {
		m.released++
		return nil
	}, nil
}

// invalidatingCache is a MockScoreCache that can also drop a model version.
type invalidatingCache struct {
	MockScoreCache
}

func (m *invalidatingCache) InvalidateModel(ctx context.Context, modelVersion string) (int64, error) {
	args := m.Called(ctx, modelVersion)
	return int64(args.Int(0)), args.Error(1)
}

//Personal.AI order the ending
