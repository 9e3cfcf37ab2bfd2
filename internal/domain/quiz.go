package domain

import (
	"time"
)

const (
	// QuestionsPerQuiz is the exact number of questions a persisted quiz
	// must have.
	QuestionsPerQuiz = 10
	// OptionsPerQuestion is the exact number of options per question.
	OptionsPerQuestion = 4
	// MaxDescriptionLength bounds the quiz description.
	MaxDescriptionLength = 150
)

// Quiz represents one generated assessment, owned by the user who created it.
type Quiz struct {
	ID          string
	Title       string
	Description string
	VideoURL    string
	UserID      string
	Questions   []*Question
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Question is a single quiz item. Invariant: Answer is string-equal to
// exactly one member of Options.
type Question struct {
	ID        string
	QuizID    string
	Text      string
	Options   []string
	Answer    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RawQuiz is the untrusted shape parsed out of the generative model's
// response. It has not been validated; nothing downstream may treat it as
// structurally sound until it passes the structural validator.
type RawQuiz struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Questions   []RawQuestion `json:"questions"`
}

// RawQuestion mirrors the question object requested from the model.
type RawQuestion struct {
	Title   string   `json:"question_title"`
	Options []string `json:"question_options"`
	Answer  string   `json:"answer"`
}

// User is the acting identity. The ownership gate compares identity equality
// only; no richer semantics are attached here.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CanAccess reports whether the given identity owns the quiz. Applied before
// every single-record read, update, or delete.
func (q *Quiz) CanAccess(userID string) bool {
	return q.UserID == userID
}
