package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"vidquiz/internal/domain"
	"vidquiz/internal/repository/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupQuizTestDB creates a sqlx.DB backed by sqlmock for quiz repository
// testing.
func setupQuizTestDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

func sampleQuiz() *domain.Quiz {
	quiz := &domain.Quiz{
		ID:          "01HQUIZAAAAAAAAAAAAAAAAAAA",
		Title:       "Go Basics",
		Description: "Fundamentals of the Go language.",
		VideoURL:    "https://www.youtube.com/watch?v=abc",
		UserID:      "01HUSERAAAAAAAAAAAAAAAAAAA",
	}
	for i := 0; i < domain.QuestionsPerQuiz; i++ {
		quiz.Questions = append(quiz.Questions, &domain.Question{
			ID:      "01HQSTN" + string(rune('A'+i)) + "AAAAAAAAAAAAAAAAAA",
			Text:    "Which keyword declares a variable?",
			Options: []string{"var", "let", "def", "dim"},
			Answer:  "var",
		})
	}
	return quiz
}

func TestCreateQuizWithQuestions(t *testing.T) {
	db, mock := setupQuizTestDB(t)
	defer db.Close()
	repo := NewSQLXQuizRepository(db)

	quiz := sampleQuiz()

	mock.ExpectExec(`INSERT INTO quizzes`).WillReturnResult(sqlmock.NewResult(1, 1))
	for range quiz.Questions {
		mock.ExpectExec(`INSERT INTO questions`).WillReturnResult(sqlmock.NewResult(1, 1))
	}

	err := repo.CreateQuizWithQuestions(context.Background(), quiz)
	require.NoError(t, err)
	assert.False(t, quiz.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateQuizWithQuestions_QuestionInsertFails(t *testing.T) {
	db, mock := setupQuizTestDB(t)
	defer db.Close()
	repo := NewSQLXQuizRepository(db)

	mock.ExpectExec(`INSERT INTO quizzes`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO questions`).WillReturnError(errors.New("constraint violation"))

	err := repo.CreateQuizWithQuestions(context.Background(), sampleQuiz())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to insert question")
}

func quizColumns() []string {
	return []string{"id", "title", "description", "video_url", "user_id", "created_at", "updated_at"}
}

func questionColumns() []string {
	return []string{"id", "quiz_id", "question_text", "question_options", "answer", "created_at", "updated_at"}
}

func TestGetQuizByID(t *testing.T) {
	db, mock := setupQuizTestDB(t)
	defer db.Close()
	repo := NewSQLXQuizRepository(db)

	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM quizzes WHERE id`).
		WithArgs("quiz1").
		WillReturnRows(sqlmock.NewRows(quizColumns()).
			AddRow("quiz1", "Go Basics", "desc", "https://www.youtube.com/watch?v=abc", "user1", now, now))
	mock.ExpectQuery(`SELECT \* FROM questions WHERE quiz_id`).
		WithArgs("quiz1").
		WillReturnRows(sqlmock.NewRows(questionColumns()).
			AddRow("q1", "quiz1", "Which keyword?", `["var","let","def","dim"]`, "var", now, now).
			AddRow("q2", "quiz1", "Which builtin?", `["len","size","count","length"]`, "len", now, now))

	quiz, err := repo.GetQuizByID(context.Background(), "quiz1")
	require.NoError(t, err)
	require.NotNil(t, quiz)
	assert.Equal(t, "Go Basics", quiz.Title)
	assert.Equal(t, "user1", quiz.UserID)
	require.Len(t, quiz.Questions, 2)
	assert.Equal(t, []string{"var", "let", "def", "dim"}, quiz.Questions[0].Options)
	assert.Equal(t, "len", quiz.Questions[1].Answer)
}

func TestGetQuizByID_NotFound(t *testing.T) {
	db, mock := setupQuizTestDB(t)
	defer db.Close()
	repo := NewSQLXQuizRepository(db)

	mock.ExpectQuery(`SELECT \* FROM quizzes WHERE id`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(quizColumns()))

	quiz, err := repo.GetQuizByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, quiz)
}

func TestListQuizzesByUser(t *testing.T) {
	db, mock := setupQuizTestDB(t)
	defer db.Close()
	repo := NewSQLXQuizRepository(db)

	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM quizzes WHERE user_id`).
		WithArgs("user1").
		WillReturnRows(sqlmock.NewRows(quizColumns()).
			AddRow("quiz2", "Newer", "d", "https://www.youtube.com/watch?v=b", "user1", now, now).
			AddRow("quiz1", "Older", "d", "https://www.youtube.com/watch?v=a", "user1", now.Add(-time.Hour), now.Add(-time.Hour)))
	mock.ExpectQuery(`SELECT \* FROM questions WHERE quiz_id`).
		WithArgs("quiz2").
		WillReturnRows(sqlmock.NewRows(questionColumns()))
	mock.ExpectQuery(`SELECT \* FROM questions WHERE quiz_id`).
		WithArgs("quiz1").
		WillReturnRows(sqlmock.NewRows(questionColumns()))

	quizzes, err := repo.ListQuizzesByUser(context.Background(), "user1")
	require.NoError(t, err)
	require.Len(t, quizzes, 2)
	assert.Equal(t, "Newer", quizzes[0].Title)
	assert.Equal(t, "Older", quizzes[1].Title)
}

func TestListQuizzesByUser_Empty(t *testing.T) {
	db, mock := setupQuizTestDB(t)
	defer db.Close()
	repo := NewSQLXQuizRepository(db)

	mock.ExpectQuery(`SELECT \* FROM quizzes WHERE user_id`).
		WithArgs("user1").
		WillReturnRows(sqlmock.NewRows(quizColumns()))

	quizzes, err := repo.ListQuizzesByUser(context.Background(), "user1")
	require.NoError(t, err)
	assert.Empty(t, quizzes)
}

func TestUpdateQuiz(t *testing.T) {
	db, mock := setupQuizTestDB(t)
	defer db.Close()
	repo := NewSQLXQuizRepository(db)

	mock.ExpectExec(`UPDATE quizzes SET`).WillReturnResult(sqlmock.NewResult(0, 1))

	quiz := &domain.Quiz{ID: "quiz1", Title: "Renamed", Description: "new"}
	err := repo.UpdateQuiz(context.Background(), quiz)
	require.NoError(t, err)
	assert.False(t, quiz.UpdatedAt.IsZero())
}

func TestUpdateQuiz_NotFound(t *testing.T) {
	db, mock := setupQuizTestDB(t)
	defer db.Close()
	repo := NewSQLXQuizRepository(db)

	mock.ExpectExec(`UPDATE quizzes SET`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateQuiz(context.Background(), &domain.Quiz{ID: "missing"})
	assert.Equal(t, domain.ErrNotFound, domain.CodeOf(err))
}

func TestDeleteQuiz(t *testing.T) {
	db, mock := setupQuizTestDB(t)
	defer db.Close()
	repo := NewSQLXQuizRepository(db)

	mock.ExpectExec(`DELETE FROM quizzes WHERE id`).
		WithArgs("quiz1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.DeleteQuiz(context.Background(), "quiz1"))
}

func TestDeleteQuiz_NotFound(t *testing.T) {
	db, mock := setupQuizTestDB(t)
	defer db.Close()
	repo := NewSQLXQuizRepository(db)

	mock.ExpectExec(`DELETE FROM quizzes WHERE id`).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteQuiz(context.Background(), "missing")
	assert.Equal(t, domain.ErrNotFound, domain.CodeOf(err))
}

func TestCreateQuizWithQuestions_JoinsActiveTransaction(t *testing.T) {
	db, mock := setupQuizTestDB(t)
	defer db.Close()
	repo := NewSQLXQuizRepository(db)
	tm := NewTransactionManagerAdapter(db)

	quiz := sampleQuiz()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO quizzes`).WillReturnResult(sqlmock.NewResult(1, 1))
	for range quiz.Questions {
		mock.ExpectExec(`INSERT INTO questions`).WillReturnResult(sqlmock.NewResult(1, 1))
	}
	mock.ExpectCommit()

	err := tm.WithTransaction(context.Background(), func(ctx context.Context) error {
		return repo.CreateQuizWithQuestions(ctx, quiz)
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransaction_RollsBackOnError(t *testing.T) {
	db, mock := setupQuizTestDB(t)
	defer db.Close()
	repo := NewSQLXQuizRepository(db)
	tm := NewTransactionManagerAdapter(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO quizzes`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO questions`).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := tm.WithTransaction(context.Background(), func(ctx context.Context) error {
		return repo.CreateQuizWithQuestions(ctx, sampleQuiz())
	})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToDomainQuiz(t *testing.T) {
	now := time.Now()
	m := &models.Quiz{
		ID:          "quiz1",
		Title:       "t",
		Description: "d",
		VideoURL:    "https://www.youtube.com/watch?v=abc",
		UserID:      "user1",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	q := toDomainQuiz(m)
	require.NotNil(t, q)
	assert.Equal(t, m.ID, q.ID)
	assert.Equal(t, m.VideoURL, q.VideoURL)
	assert.Nil(t, toDomainQuiz(nil))
}

func TestQuestionConvertersRoundTrip(t *testing.T) {
	orig := &domain.Question{
		ID:      "q1",
		QuizID:  "quiz1",
		Text:    "Which keyword?",
		Options: []string{"var", "let", "def", "dim"},
		Answer:  "var",
	}
	back := toDomainQuestion(fromDomainQuestion(orig))
	assert.Equal(t, orig.Text, back.Text)
	assert.Equal(t, orig.Options, back.Options)
	assert.Equal(t, orig.Answer, back.Answer)
}
