// Package sascoretest provides a testify mock of the scoring service for
// transport tests.
package sascoretest

import (
	"context"

	"github.com/stretchr/testify/mock"

	app "github.com/turtacn/SAScore/internal/application/sascore"
	domain "github.com/turtacn/SAScore/internal/domain/sascore"
)

// MockService is a mock implementation of sascore.Service.
type MockService struct {
	mock.Mock
}

var _ app.Service = (*MockService)(nil)

func (m *MockService) BuildModel(ctx context.Context, input *app.BuildInput) (*app.BuildResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*app.BuildResult), args.Error(1)
}

func (m *MockService) IngestCorpus(ctx context.Context, corpus []string) (*app.IngestResult, error) {
	args := m.Called(ctx, corpus)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*app.IngestResult), args.Error(1)
}

func (m *MockService) RebuildFromStore(ctx context.Context, name string) (*app.BuildResult, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*app.BuildResult), args.Error(1)
}

func (m *MockService) LoadModel(ctx context.Context, name string) (*domain.ModelInfo, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ModelInfo), args.Error(1)
}

func (m *MockService) ActivateSnapshot(ctx context.Context, snap *domain.Snapshot) error {
	args := m.Called(ctx, snap)
	return args.Error(0)
}

func (m *MockService) ActiveModel() (*domain.ModelInfo, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ModelInfo), args.Error(1)
}

func (m *MockService) Score(ctx context.Context, smiles string) (*app.ScoreResult, error) {
	args := m.Called(ctx, smiles)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*app.ScoreResult), args.Error(1)
}

func (m *MockService) ScoreBatch(ctx context.Context, smiles []string) (*app.BatchResult, error) {
	args := m.Called(ctx, smiles)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*app.BatchResult), args.Error(1)
}

func (m *MockService) Fragments(ctx context.Context, smiles string) (*app.FragmentsResult, error) {
	args := m.Called(ctx, smiles)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*app.FragmentsResult), args.Error(1)
}

func (m *MockService) Ready() bool {
	args := m.Called()
	return args.Bool(0)
}

//Personal.AI order the ending
