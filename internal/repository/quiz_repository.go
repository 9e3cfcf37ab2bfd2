package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"vidquiz/internal/domain"
	"vidquiz/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// sqlxQuizRepository implements domain.QuizRepository using sqlx.
type sqlxQuizRepository struct {
	db *sqlx.DB
}

// NewSQLXQuizRepository creates a new instance of sqlxQuizRepository.
func NewSQLXQuizRepository(db *sqlx.DB) domain.QuizRepository {
	return &sqlxQuizRepository{db: db}
}

// CreateQuizWithQuestions inserts the quiz row and all of its question rows.
// It picks the transaction up from ctx when the caller runs it under the
// transaction manager, which is how the orchestrator gets its all-or-nothing
// persistence.
func (r *sqlxQuizRepository) CreateQuizWithQuestions(ctx context.Context, quiz *domain.Quiz) error {
	exec := GetExecutor(ctx, r.db)
	now := time.Now()

	quizModel := fromDomainQuiz(quiz)
	quizModel.CreatedAt = now
	quizModel.UpdatedAt = now

	quizQuery := `INSERT INTO quizzes (id, title, description, video_url, user_id, created_at, updated_at)
	              VALUES (:id, :title, :description, :video_url, :user_id, :created_at, :updated_at)`
	if _, err := exec.NamedExecContext(ctx, quizQuery, quizModel); err != nil {
		return fmt.Errorf("failed to insert quiz: %w", err)
	}

	questionQuery := `INSERT INTO questions (id, quiz_id, question_text, question_options, answer, created_at, updated_at)
	                  VALUES (:id, :quiz_id, :question_text, :question_options, :answer, :created_at, :updated_at)`
	for _, q := range quiz.Questions {
		qm := fromDomainQuestion(q)
		qm.QuizID = quiz.ID
		qm.CreatedAt = now
		qm.UpdatedAt = now
		if _, err := exec.NamedExecContext(ctx, questionQuery, qm); err != nil {
			return fmt.Errorf("failed to insert question: %w", err)
		}
	}

	quiz.CreatedAt = now
	quiz.UpdatedAt = now
	return nil
}

// GetQuizByID returns the quiz with its questions ordered by insertion, or
// nil when no such quiz exists.
func (r *sqlxQuizRepository) GetQuizByID(ctx context.Context, id string) (*domain.Quiz, error) {
	exec := GetExecutor(ctx, r.db)

	var quizModel models.Quiz
	err := exec.GetContext(ctx, &quizModel, `SELECT * FROM quizzes WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz by id: %w", err)
	}

	var questionModels []models.Question
	err = exec.SelectContext(ctx, &questionModels,
		`SELECT * FROM questions WHERE quiz_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get questions for quiz: %w", err)
	}

	quiz := toDomainQuiz(&quizModel)
	for _, qm := range questionModels {
		quiz.Questions = append(quiz.Questions, toDomainQuestion(&qm))
	}
	return quiz, nil
}

// ListQuizzesByUser returns all quizzes owned by the user, newest first,
// each with its questions.
func (r *sqlxQuizRepository) ListQuizzesByUser(ctx context.Context, userID string) ([]*domain.Quiz, error) {
	exec := GetExecutor(ctx, r.db)

	var quizModels []models.Quiz
	err := exec.SelectContext(ctx, &quizModels,
		`SELECT * FROM quizzes WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}

	quizzes := make([]*domain.Quiz, 0, len(quizModels))
	for i := range quizModels {
		var questionModels []models.Question
		err = exec.SelectContext(ctx, &questionModels,
			`SELECT * FROM questions WHERE quiz_id = $1 ORDER BY id`, quizModels[i].ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get questions for quiz: %w", err)
		}
		quiz := toDomainQuiz(&quizModels[i])
		for _, qm := range questionModels {
			quiz.Questions = append(quiz.Questions, toDomainQuestion(&qm))
		}
		quizzes = append(quizzes, quiz)
	}
	return quizzes, nil
}

// UpdateQuiz updates the mutable quiz fields (title, description).
func (r *sqlxQuizRepository) UpdateQuiz(ctx context.Context, quiz *domain.Quiz) error {
	exec := GetExecutor(ctx, r.db)

	quizModel := fromDomainQuiz(quiz)
	quizModel.UpdatedAt = time.Now()

	result, err := exec.NamedExecContext(ctx,
		`UPDATE quizzes SET title = :title, description = :description, updated_at = :updated_at WHERE id = :id`,
		quizModel)
	if err != nil {
		return fmt.Errorf("failed to update quiz: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if rows == 0 {
		return domain.NewNotFoundError(fmt.Sprintf("quiz not found: %s", quiz.ID))
	}
	quiz.UpdatedAt = quizModel.UpdatedAt
	return nil
}

// DeleteQuiz removes the quiz row; questions are removed by the FK cascade.
func (r *sqlxQuizRepository) DeleteQuiz(ctx context.Context, id string) error {
	exec := GetExecutor(ctx, r.db)

	result, err := exec.ExecContext(ctx, `DELETE FROM quizzes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete quiz: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if rows == 0 {
		return domain.NewNotFoundError(fmt.Sprintf("quiz not found: %s", id))
	}
	return nil
}

// --- converters ---

func toDomainQuiz(m *models.Quiz) *domain.Quiz {
	if m == nil {
		return nil
	}
	return &domain.Quiz{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		VideoURL:    m.VideoURL,
		UserID:      m.UserID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func fromDomainQuiz(q *domain.Quiz) *models.Quiz {
	return &models.Quiz{
		ID:          q.ID,
		Title:       q.Title,
		Description: q.Description,
		VideoURL:    q.VideoURL,
		UserID:      q.UserID,
		CreatedAt:   q.CreatedAt,
		UpdatedAt:   q.UpdatedAt,
	}
}

func toDomainQuestion(m *models.Question) *domain.Question {
	if m == nil {
		return nil
	}
	return &domain.Question{
		ID:        m.ID,
		QuizID:    m.QuizID,
		Text:      m.QuestionText,
		Options:   m.Options,
		Answer:    m.Answer,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func fromDomainQuestion(q *domain.Question) *models.Question {
	return &models.Question{
		ID:           q.ID,
		QuizID:       q.QuizID,
		QuestionText: q.Text,
		Options:      models.StringSlice(q.Options),
		Answer:       q.Answer,
		CreatedAt:    q.CreatedAt,
		UpdatedAt:    q.UpdatedAt,
	}
}
