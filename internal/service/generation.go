package service

import (
	"context"
	"errors"

	"vidquiz/internal/domain"
	"vidquiz/internal/logger"
	"vidquiz/internal/media"
	"vidquiz/internal/util"
	"vidquiz/internal/validation"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// GenerationService runs the media-to-quiz pipeline for one video URL.
type GenerationService interface {
	CreateQuizFromVideo(ctx context.Context, userID, url string) (*domain.Quiz, error)
}

// generationService sequences acquisition, transcription, synthesis,
// validation and persistence. Stages run strictly in order; the first
// failure stops the run, releases the scratch artifact, persists nothing
// and surfaces a stage-tagged error.
type generationService struct {
	fetcher     domain.AudioFetcher
	transcriber domain.Transcriber
	synthesizer domain.QuizSynthesizer
	transcripts domain.TranscriptCache // optional
	quizRepo    domain.QuizRepository
	txManager   domain.TransactionManager
	sem         *semaphore.Weighted
}

// NewGenerationService creates the pipeline orchestrator. maxConcurrent
// bounds simultaneous runs so slow external dependencies cannot pile up
// unbounded work. transcripts may be nil to disable transcript caching.
func NewGenerationService(
	fetcher domain.AudioFetcher,
	transcriber domain.Transcriber,
	synthesizer domain.QuizSynthesizer,
	transcripts domain.TranscriptCache,
	quizRepo domain.QuizRepository,
	txManager domain.TransactionManager,
	maxConcurrent int64,
) GenerationService {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &generationService{
		fetcher:     fetcher,
		transcriber: transcriber,
		synthesizer: synthesizer,
		transcripts: transcripts,
		quizRepo:    quizRepo,
		txManager:   txManager,
		sem:         semaphore.NewWeighted(maxConcurrent),
	}
}

// CreateQuizFromVideo implements GenerationService.
func (s *generationService) CreateQuizFromVideo(ctx context.Context, userID, url string) (*domain.Quiz, error) {
	// URL validation runs before any network or filesystem activity.
	if err := media.ValidateURL(url); err != nil {
		return nil, err
	}

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, domain.NewInternalError("pipeline run cancelled before start", err)
	}
	defer s.sem.Release(1)

	transcript, err := s.obtainTranscript(ctx, url)
	if err != nil {
		return nil, err
	}

	raw, err := s.synthesizer.Synthesize(ctx, transcript)
	if err != nil {
		return nil, err
	}

	if err := validation.ValidateQuiz(raw); err != nil {
		return nil, err
	}

	quiz := buildQuiz(userID, url, raw)

	// The quiz row and all of its questions commit together or not at all.
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.quizRepo.CreateQuizWithQuestions(txCtx, quiz)
	})
	if err != nil {
		var de *domain.DomainError
		if errors.As(err, &de) {
			return nil, de
		}
		return nil, domain.NewPersistenceError(err)
	}

	logger.Get().Info("quiz generated",
		zap.String("quiz_id", quiz.ID),
		zap.String("user_id", userID),
		zap.String("video_url", url))
	return quiz, nil
}

// obtainTranscript returns the transcript for the URL, downloading and
// decoding the audio unless a cached transcript exists. The scratch audio
// artifact is released on every exit path, including cancellation.
func (s *generationService) obtainTranscript(ctx context.Context, url string) (string, error) {
	if s.transcripts != nil {
		cached, err := s.transcripts.Get(ctx, url)
		if err != nil {
			logger.Get().Warn("transcript cache read failed", zap.Error(err), zap.String("url", url))
		} else if cached != "" {
			logger.Get().Debug("transcript cache hit", zap.String("url", url))
			return cached, nil
		}
	}

	artifact, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return "", err
	}
	defer artifact.Release()

	transcript, err := s.transcriber.Transcribe(ctx, artifact.Path)
	if err != nil {
		return "", err
	}

	if s.transcripts != nil {
		if err := s.transcripts.Set(ctx, url, transcript); err != nil {
			logger.Get().Warn("transcript cache write failed", zap.Error(err), zap.String("url", url))
		}
	}
	return transcript, nil
}

// buildQuiz assigns identifiers and converts the validated raw quiz into
// the domain aggregate.
func buildQuiz(userID, url string, raw *domain.RawQuiz) *domain.Quiz {
	quiz := &domain.Quiz{
		ID:          util.NewULID(),
		Title:       raw.Title,
		Description: raw.Description,
		VideoURL:    url,
		UserID:      userID,
	}
	for _, rq := range raw.Questions {
		quiz.Questions = append(quiz.Questions, &domain.Question{
			ID:      util.NewULID(),
			QuizID:  quiz.ID,
			Text:    rq.Title,
			Options: rq.Options,
			Answer:  rq.Answer,
		})
	}
	return quiz
}
