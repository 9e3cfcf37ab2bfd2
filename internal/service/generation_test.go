package service

import (
	"context"
	"errors"
	"os"
	"testing"

	"vidquiz/internal/domain"
	"vidquiz/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize("development", "error"); err != nil {
		panic("Failed to initialize logger for tests: " + err.Error())
	}
	exitVal := m.Run()
	_ = logger.Sync()
	os.Exit(exitVal)
}

const (
	testUserID   = "01HUSERAAAAAAAAAAAAAAAAAAA"
	testVideoURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
)

func validRaw() *domain.RawQuiz {
	raw := &domain.RawQuiz{
		Title:       "Go Concurrency",
		Description: "Ten questions from the talk.",
	}
	for i := 0; i < domain.QuestionsPerQuiz; i++ {
		raw.Questions = append(raw.Questions, domain.RawQuestion{
			Title:   "What does the go keyword do?",
			Options: []string{"Starts a goroutine", "Blocks", "Spawns a process", "Compiles"},
			Answer:  "Starts a goroutine",
		})
	}
	return raw
}

// releaseTrackingArtifact returns an artifact whose Release call is recorded.
func releaseTrackingArtifact(released *bool) *domain.AudioArtifact {
	return &domain.AudioArtifact{
		Token:   "tok",
		Path:    "/tmp/scratch/audio_tok.webm",
		Release: func() { *released = true },
	}
}

type pipelineMocks struct {
	fetcher     *MockAudioFetcher
	transcriber *MockTranscriber
	synthesizer *MockQuizSynthesizer
	quizRepo    *MockQuizRepository
	txManager   *MockTransactionManager
}

func newPipeline(t *testing.T, transcripts domain.TranscriptCache) (GenerationService, *pipelineMocks) {
	t.Helper()
	m := &pipelineMocks{
		fetcher:     new(MockAudioFetcher),
		transcriber: new(MockTranscriber),
		synthesizer: new(MockQuizSynthesizer),
		quizRepo:    new(MockQuizRepository),
		txManager:   new(MockTransactionManager),
	}
	svc := NewGenerationService(m.fetcher, m.transcriber, m.synthesizer, transcripts, m.quizRepo, m.txManager, 2)
	return svc, m
}

func TestCreateQuizFromVideo_Success(t *testing.T) {
	svc, m := newPipeline(t, nil)
	released := false

	m.fetcher.On("Fetch", mock.Anything, testVideoURL).Return(releaseTrackingArtifact(&released), nil)
	m.transcriber.On("Transcribe", mock.Anything, "/tmp/scratch/audio_tok.webm").Return("the transcript", nil)
	m.synthesizer.On("Synthesize", mock.Anything, "the transcript").Return(validRaw(), nil)
	m.txManager.On("WithTransaction", mock.Anything).Return(nil)
	m.quizRepo.On("CreateQuizWithQuestions", mock.Anything, mock.AnythingOfType("*domain.Quiz")).Return(nil)

	quiz, err := svc.CreateQuizFromVideo(context.Background(), testUserID, testVideoURL)
	require.NoError(t, err)
	require.NotNil(t, quiz)
	assert.NotEmpty(t, quiz.ID)
	assert.Equal(t, testUserID, quiz.UserID)
	assert.Equal(t, testVideoURL, quiz.VideoURL)
	require.Len(t, quiz.Questions, domain.QuestionsPerQuiz)
	for _, q := range quiz.Questions {
		assert.NotEmpty(t, q.ID)
		assert.Equal(t, quiz.ID, q.QuizID)
	}
	assert.True(t, released, "scratch artifact must be released after transcription")
	m.quizRepo.AssertExpectations(t)
}

func TestCreateQuizFromVideo_InvalidURLSkipsPipeline(t *testing.T) {
	svc, m := newPipeline(t, nil)

	_, err := svc.CreateQuizFromVideo(context.Background(), testUserID, "https://vimeo.com/1")
	assert.Equal(t, domain.ErrInvalidURLFormat, domain.CodeOf(err))

	_, err = svc.CreateQuizFromVideo(context.Background(), testUserID, "")
	assert.Equal(t, domain.ErrMissingURL, domain.CodeOf(err))

	m.fetcher.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)
}

func TestCreateQuizFromVideo_FetchFailure(t *testing.T) {
	svc, m := newPipeline(t, nil)

	m.fetcher.On("Fetch", mock.Anything, testVideoURL).
		Return(nil, domain.NewVideoUnavailableError(testVideoURL, errors.New("video is private")))

	_, err := svc.CreateQuizFromVideo(context.Background(), testUserID, testVideoURL)
	assert.Equal(t, domain.ErrVideoUnavailable, domain.CodeOf(err))
	m.transcriber.AssertNotCalled(t, "Transcribe", mock.Anything, mock.Anything)
	m.quizRepo.AssertNotCalled(t, "CreateQuizWithQuestions", mock.Anything, mock.Anything)
}

func TestCreateQuizFromVideo_TranscriptionFailureReleasesArtifact(t *testing.T) {
	svc, m := newPipeline(t, nil)
	released := false

	m.fetcher.On("Fetch", mock.Anything, testVideoURL).Return(releaseTrackingArtifact(&released), nil)
	m.transcriber.On("Transcribe", mock.Anything, mock.Anything).
		Return("", domain.NewTranscriptionError(errors.New("decode failed")))

	_, err := svc.CreateQuizFromVideo(context.Background(), testUserID, testVideoURL)
	assert.Equal(t, domain.ErrTranscriptionFailed, domain.CodeOf(err))
	assert.True(t, released, "scratch artifact must be released on transcription failure")
	m.synthesizer.AssertNotCalled(t, "Synthesize", mock.Anything, mock.Anything)
}

func TestCreateQuizFromVideo_SynthesisFailurePersistsNothing(t *testing.T) {
	svc, m := newPipeline(t, nil)
	released := false

	m.fetcher.On("Fetch", mock.Anything, testVideoURL).Return(releaseTrackingArtifact(&released), nil)
	m.transcriber.On("Transcribe", mock.Anything, mock.Anything).Return("the transcript", nil)
	m.synthesizer.On("Synthesize", mock.Anything, "the transcript").
		Return(nil, domain.NewSynthesisMalformedJSONError(errors.New("unexpected token")))

	_, err := svc.CreateQuizFromVideo(context.Background(), testUserID, testVideoURL)
	assert.Equal(t, domain.ErrSynthesisMalformedJSON, domain.CodeOf(err))
	m.quizRepo.AssertNotCalled(t, "CreateQuizWithQuestions", mock.Anything, mock.Anything)
}

func TestCreateQuizFromVideo_ValidationFailurePersistsNothing(t *testing.T) {
	svc, m := newPipeline(t, nil)
	released := false

	badRaw := validRaw()
	badRaw.Questions[2].Answer = "not an option"

	m.fetcher.On("Fetch", mock.Anything, testVideoURL).Return(releaseTrackingArtifact(&released), nil)
	m.transcriber.On("Transcribe", mock.Anything, mock.Anything).Return("the transcript", nil)
	m.synthesizer.On("Synthesize", mock.Anything, "the transcript").Return(badRaw, nil)

	_, err := svc.CreateQuizFromVideo(context.Background(), testUserID, testVideoURL)
	assert.Equal(t, domain.ErrQuizValidationFailed, domain.CodeOf(err))
	m.quizRepo.AssertNotCalled(t, "CreateQuizWithQuestions", mock.Anything, mock.Anything)
}

func TestCreateQuizFromVideo_PersistenceFailure(t *testing.T) {
	svc, m := newPipeline(t, nil)
	released := false

	m.fetcher.On("Fetch", mock.Anything, testVideoURL).Return(releaseTrackingArtifact(&released), nil)
	m.transcriber.On("Transcribe", mock.Anything, mock.Anything).Return("the transcript", nil)
	m.synthesizer.On("Synthesize", mock.Anything, "the transcript").Return(validRaw(), nil)
	m.txManager.On("WithTransaction", mock.Anything).Return(nil)
	m.quizRepo.On("CreateQuizWithQuestions", mock.Anything, mock.Anything).
		Return(errors.New("connection reset"))

	_, err := svc.CreateQuizFromVideo(context.Background(), testUserID, testVideoURL)
	assert.Equal(t, domain.ErrPersistenceFailed, domain.CodeOf(err))
}

func TestCreateQuizFromVideo_CacheHitSkipsAcquisition(t *testing.T) {
	transcripts := new(MockTranscriptCache)
	svc, m := newPipeline(t, transcripts)

	transcripts.On("Get", mock.Anything, testVideoURL).Return("cached transcript", nil)
	m.synthesizer.On("Synthesize", mock.Anything, "cached transcript").Return(validRaw(), nil)
	m.txManager.On("WithTransaction", mock.Anything).Return(nil)
	m.quizRepo.On("CreateQuizWithQuestions", mock.Anything, mock.Anything).Return(nil)

	quiz, err := svc.CreateQuizFromVideo(context.Background(), testUserID, testVideoURL)
	require.NoError(t, err)
	require.NotNil(t, quiz)
	m.fetcher.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)
	m.transcriber.AssertNotCalled(t, "Transcribe", mock.Anything, mock.Anything)
}

func TestCreateQuizFromVideo_CacheMissStoresTranscript(t *testing.T) {
	transcripts := new(MockTranscriptCache)
	svc, m := newPipeline(t, transcripts)
	released := false

	transcripts.On("Get", mock.Anything, testVideoURL).Return("", nil)
	m.fetcher.On("Fetch", mock.Anything, testVideoURL).Return(releaseTrackingArtifact(&released), nil)
	m.transcriber.On("Transcribe", mock.Anything, mock.Anything).Return("fresh transcript", nil)
	transcripts.On("Set", mock.Anything, testVideoURL, "fresh transcript").Return(nil)
	m.synthesizer.On("Synthesize", mock.Anything, "fresh transcript").Return(validRaw(), nil)
	m.txManager.On("WithTransaction", mock.Anything).Return(nil)
	m.quizRepo.On("CreateQuizWithQuestions", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.CreateQuizFromVideo(context.Background(), testUserID, testVideoURL)
	require.NoError(t, err)
	transcripts.AssertExpectations(t)
}

func TestCreateQuizFromVideo_RepeatRunsProduceDistinctQuizzes(t *testing.T) {
	svc, m := newPipeline(t, nil)
	released := false

	m.fetcher.On("Fetch", mock.Anything, testVideoURL).Return(releaseTrackingArtifact(&released), nil)
	m.transcriber.On("Transcribe", mock.Anything, mock.Anything).Return("the transcript", nil)
	m.synthesizer.On("Synthesize", mock.Anything, "the transcript").Return(validRaw(), nil)
	m.txManager.On("WithTransaction", mock.Anything).Return(nil)
	m.quizRepo.On("CreateQuizWithQuestions", mock.Anything, mock.Anything).Return(nil)

	first, err := svc.CreateQuizFromVideo(context.Background(), testUserID, testVideoURL)
	require.NoError(t, err)
	second, err := svc.CreateQuizFromVideo(context.Background(), testUserID, testVideoURL)
	require.NoError(t, err)

	// No deduplication on URL; each run yields a new quiz.
	assert.NotEqual(t, first.ID, second.ID)
}
