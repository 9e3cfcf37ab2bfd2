package service

import (
	"context"

	"vidquiz/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- Mocks shared across the service tests ---

type MockAudioFetcher struct {
	mock.Mock
}

func (m *MockAudioFetcher) Fetch(ctx context.Context, url string) (*domain.AudioArtifact, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AudioArtifact), args.Error(1)
}

type MockTranscriber struct {
	mock.Mock
}

func (m *MockTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	args := m.Called(ctx, audioPath)
	return args.String(0), args.Error(1)
}

type MockQuizSynthesizer struct {
	mock.Mock
}

func (m *MockQuizSynthesizer) Synthesize(ctx context.Context, transcript string) (*domain.RawQuiz, error) {
	args := m.Called(ctx, transcript)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RawQuiz), args.Error(1)
}

type MockTranscriptCache struct {
	mock.Mock
}

func (m *MockTranscriptCache) Get(ctx context.Context, videoURL string) (string, error) {
	args := m.Called(ctx, videoURL)
	return args.String(0), args.Error(1)
}

func (m *MockTranscriptCache) Set(ctx context.Context, videoURL, transcript string) error {
	args := m.Called(ctx, videoURL, transcript)
	return args.Error(0)
}

type MockQuizRepository struct {
	mock.Mock
}

func (m *MockQuizRepository) CreateQuizWithQuestions(ctx context.Context, quiz *domain.Quiz) error {
	args := m.Called(ctx, quiz)
	return args.Error(0)
}

func (m *MockQuizRepository) GetQuizByID(ctx context.Context, id string) (*domain.Quiz, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quiz), args.Error(1)
}

func (m *MockQuizRepository) ListQuizzesByUser(ctx context.Context, userID string) ([]*domain.Quiz, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Quiz), args.Error(1)
}

func (m *MockQuizRepository) UpdateQuiz(ctx context.Context, quiz *domain.Quiz) error {
	args := m.Called(ctx, quiz)
	return args.Error(0)
}

func (m *MockQuizRepository) DeleteQuiz(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockTransactionManager runs the callback inline; transactional semantics
// are covered by the repository tests.
type MockTransactionManager struct {
	mock.Mock
}

func (m *MockTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}
