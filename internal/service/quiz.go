package service

import (
	"context"
	"fmt"
	"strings"

	"vidquiz/internal/domain"
	"vidquiz/internal/dto"
)

// QuizService exposes read and mutation operations on persisted quizzes.
// Every single-record operation goes through the ownership gate.
type QuizService interface {
	ListQuizzes(ctx context.Context, userID string) ([]*dto.QuizResponse, error)
	GetQuiz(ctx context.Context, userID, quizID string) (*dto.QuizResponse, error)
	UpdateQuiz(ctx context.Context, userID, quizID string, req *dto.UpdateQuizRequest) (*dto.QuizResponse, error)
	DeleteQuiz(ctx context.Context, userID, quizID string) error
}

type quizService struct {
	repo domain.QuizRepository
}

// NewQuizService creates a new instance of quizService
func NewQuizService(repo domain.QuizRepository) QuizService {
	return &quizService{repo: repo}
}

// ListQuizzes returns only quizzes owned by the caller; the owner filter is
// applied at the query, not after the fact.
func (s *quizService) ListQuizzes(ctx context.Context, userID string) ([]*dto.QuizResponse, error) {
	quizzes, err := s.repo.ListQuizzesByUser(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to list quizzes", err)
	}

	responses := make([]*dto.QuizResponse, 0, len(quizzes))
	for _, quiz := range quizzes {
		responses = append(responses, dto.ToQuizResponse(quiz))
	}
	return responses, nil
}

func (s *quizService) GetQuiz(ctx context.Context, userID, quizID string) (*dto.QuizResponse, error) {
	quiz, err := s.authorizeQuiz(ctx, userID, quizID)
	if err != nil {
		return nil, err
	}
	return dto.ToQuizResponse(quiz), nil
}

// UpdateQuiz lets the owner change title and description. Questions are
// immutable; they only ever exist as a generated batch.
func (s *quizService) UpdateQuiz(ctx context.Context, userID, quizID string, req *dto.UpdateQuizRequest) (*dto.QuizResponse, error) {
	quiz, err := s.authorizeQuiz(ctx, userID, quizID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Title) != "" {
		quiz.Title = req.Title
	}
	if strings.TrimSpace(req.Description) != "" {
		quiz.Description = req.Description
	}

	if err := s.repo.UpdateQuiz(ctx, quiz); err != nil {
		if domain.CodeOf(err) == domain.ErrNotFound {
			return nil, err
		}
		return nil, domain.NewInternalError("failed to update quiz", err)
	}
	return dto.ToQuizResponse(quiz), nil
}

// DeleteQuiz removes the quiz and, via FK cascade, all of its questions.
func (s *quizService) DeleteQuiz(ctx context.Context, userID, quizID string) error {
	if _, err := s.authorizeQuiz(ctx, userID, quizID); err != nil {
		return err
	}
	if err := s.repo.DeleteQuiz(ctx, quizID); err != nil {
		if domain.CodeOf(err) == domain.ErrNotFound {
			return err
		}
		return domain.NewInternalError("failed to delete quiz", err)
	}
	return nil
}

// authorizeQuiz is the ownership gate: it resolves the quiz and confirms
// the acting identity owns it. Applied uniformly before every read, update
// or delete of a specific quiz.
func (s *quizService) authorizeQuiz(ctx context.Context, userID, quizID string) (*domain.Quiz, error) {
	quiz, err := s.repo.GetQuizByID(ctx, quizID)
	if err != nil {
		return nil, domain.NewInternalError("failed to get quiz", err)
	}
	if quiz == nil {
		return nil, domain.NewNotFoundError(fmt.Sprintf("quiz not found: %s", quizID))
	}
	if !quiz.CanAccess(userID) {
		return nil, domain.NewForbiddenError("you do not own this quiz")
	}
	return quiz, nil
}
