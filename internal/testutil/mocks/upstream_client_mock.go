package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/hireproof/assess-gateway/internal/model"
)

// MockUpstreamClient is a mock implementation of upstream.ClientInterface.
type MockUpstreamClient struct {
	mock.Mock
}

func (m *MockUpstreamClient) FetchSharedAssessment(ctx context.Context, shareToken string) (*model.Assessment, error) {
	args := m.Called(ctx, shareToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Assessment), args.Error(1)
}

func (m *MockUpstreamClient) CreateAttempt(ctx context.Context, assessmentID int, email, name string) (*model.Attempt, error) {
	args := m.Called(ctx, assessmentID, email, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Attempt), args.Error(1)
}

func (m *MockUpstreamClient) UpsertAnswer(ctx context.Context, attemptID, questionID int, answerText string) error {
	args := m.Called(ctx, attemptID, questionID, answerText)
	return args.Error(0)
}

func (m *MockUpstreamClient) CompleteAttempt(ctx context.Context, attemptID int) error {
	args := m.Called(ctx, attemptID)
	return args.Error(0)
}

func (m *MockUpstreamClient) FetchAttemptResult(ctx context.Context, attemptID int) (*model.AttemptResult, error) {
	args := m.Called(ctx, attemptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AttemptResult), args.Error(1)
}
