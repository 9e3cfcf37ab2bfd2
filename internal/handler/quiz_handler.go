package handler

import (
	"vidquiz/internal/dto"
	"vidquiz/internal/logger"
	"vidquiz/internal/middleware"
	"vidquiz/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	generation service.GenerationService
	quizzes    service.QuizService
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(generation service.GenerationService, quizzes service.QuizService) *QuizHandler {
	return &QuizHandler{generation: generation, quizzes: quizzes}
}

// CreateQuiz handles POST /api/quizzes. It runs the full generation
// pipeline; any stage failure propagates to the centralized error handler
// as a stage-tagged 400, and nothing partial is stored or returned.
func (h *QuizHandler) CreateQuiz(c *fiber.Ctx) error {
	var req dto.CreateQuizRequest
	// An unparseable body is treated the same as a missing url; the URL
	// validator produces the proper error before any expensive work.
	_ = c.BodyParser(&req)

	userID := c.Locals(middleware.UserIDKey).(string)

	quiz, err := h.generation.CreateQuizFromVideo(c.UserContext(), userID, req.URL)
	if err != nil {
		return err
	}

	logger.Get().Info("quiz created",
		zap.String("quiz_id", quiz.ID),
		zap.String("user_id", userID))
	return c.Status(fiber.StatusCreated).JSON(dto.ToQuizResponse(quiz))
}

// ListQuizzes handles GET /api/quizzes; only the caller's quizzes are
// returned.
func (h *QuizHandler) ListQuizzes(c *fiber.Ctx) error {
	userID := c.Locals(middleware.UserIDKey).(string)

	quizzes, err := h.quizzes.ListQuizzes(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(quizzes)
}

// GetQuiz handles GET /api/quizzes/:id.
func (h *QuizHandler) GetQuiz(c *fiber.Ctx) error {
	userID := c.Locals(middleware.UserIDKey).(string)

	quiz, err := h.quizzes.GetQuiz(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(quiz)
}

// UpdateQuiz handles PUT and PATCH /api/quizzes/:id.
func (h *QuizHandler) UpdateQuiz(c *fiber.Ctx) error {
	var req dto.UpdateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	userID := c.Locals(middleware.UserIDKey).(string)

	quiz, err := h.quizzes.UpdateQuiz(c.UserContext(), userID, c.Params("id"), &req)
	if err != nil {
		return err
	}
	return c.JSON(quiz)
}

// DeleteQuiz handles DELETE /api/quizzes/:id; questions are removed by the
// cascade.
func (h *QuizHandler) DeleteQuiz(c *fiber.Ctx) error {
	userID := c.Locals(middleware.UserIDKey).(string)

	if err := h.quizzes.DeleteQuiz(c.UserContext(), userID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
