package middleware

import (
	"errors"
	"net/http"

	"vidquiz/internal/domain"
	"vidquiz/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorResponse represents the standard error response structure
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// ErrorHandler is the centralized error handler wired into fiber.Config.
// Every pipeline stage error surfaces here exactly once as a terminal JSON
// response; there are no partial or streamed results.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		log := logger.Get()

		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			statusCode := mapDomainErrorToHTTPStatus(domainErr)

			log.Warn("domain error",
				zap.String("code", string(domainErr.Code)),
				zap.String("message", domainErr.Message),
				zap.String("path", c.Path()),
				zap.Int("status", statusCode),
				zap.Error(domainErr.Err),
			)

			return c.Status(statusCode).JSON(ErrorResponse{
				Code:    string(domainErr.Code),
				Message: domainErr.Message,
				Status:  statusCode,
			})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(ErrorResponse{
				Code:    "HTTP_ERROR",
				Message: fiberErr.Message,
				Status:  fiberErr.Code,
			})
		}

		log.Error("unknown error", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Code:    string(domain.ErrInternal),
			Message: "Internal server error",
			Status:  http.StatusInternalServerError,
		})
	}
}

// mapDomainErrorToHTTPStatus maps the error taxonomy to HTTP statuses.
// Pipeline stage failures are client-visible 400s carrying the stage code.
func mapDomainErrorToHTTPStatus(err *domain.DomainError) int {
	switch err.Code {
	case domain.ErrMissingURL, domain.ErrInvalidURLFormat, domain.ErrInvalidInput,
		domain.ErrVideoUnavailable, domain.ErrAudioDownloadFailed,
		domain.ErrTranscriptionFailed,
		domain.ErrSynthesisNetwork, domain.ErrSynthesisMalformedJSON, domain.ErrSynthesisSchema,
		domain.ErrQuizValidationFailed:
		return http.StatusBadRequest
	case domain.ErrUnauthorized:
		return http.StatusUnauthorized
	case domain.ErrForbidden:
		return http.StatusForbidden
	case domain.ErrNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
