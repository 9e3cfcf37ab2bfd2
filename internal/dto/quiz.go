package dto

import (
	"time"

	"vidquiz/internal/domain"
)

// CreateQuizRequest is the request body for quiz creation.
type CreateQuizRequest struct {
	URL string `json:"url"`
}

// UpdateQuizRequest carries the owner-editable quiz fields.
type UpdateQuizRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// QuestionResponse represents one question in the API response.
type QuestionResponse struct {
	ID        string    `json:"id"`
	Text      string    `json:"question_title"`
	Options   []string  `json:"question_options"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// QuizResponse represents a quiz with its questions in the API response.
type QuizResponse struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	VideoURL    string             `json:"video_url"`
	Questions   []QuestionResponse `json:"questions"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// ToQuizResponse converts a domain quiz to its API representation.
func ToQuizResponse(quiz *domain.Quiz) *QuizResponse {
	resp := &QuizResponse{
		ID:          quiz.ID,
		Title:       quiz.Title,
		Description: quiz.Description,
		VideoURL:    quiz.VideoURL,
		Questions:   make([]QuestionResponse, 0, len(quiz.Questions)),
		CreatedAt:   quiz.CreatedAt,
		UpdatedAt:   quiz.UpdatedAt,
	}
	for _, q := range quiz.Questions {
		resp.Questions = append(resp.Questions, QuestionResponse{
			ID:        q.ID,
			Text:      q.Text,
			Options:   q.Options,
			Answer:    q.Answer,
			CreatedAt: q.CreatedAt,
			UpdatedAt: q.UpdatedAt,
		})
	}
	return resp
}
