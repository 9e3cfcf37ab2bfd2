package middleware

import (
	"strings"

	"vidquiz/internal/service"

	"github.com/gofiber/fiber/v2"
)

const (
	AuthorizationHeader = "Authorization"
	BearerSchema        = "Bearer "
	AccessTokenCookie   = "access_token"
	RefreshTokenCookie  = "refresh_token"
	UserIDKey           = "userID" // Key for storing UserID in fiber.Ctx locals
)

// Protected requires a valid access token, taken from the access_token
// HttpOnly cookie or from the Authorization header. On success the user's
// ID is stored in the request locals.
func Protected(authService service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Cookies(AccessTokenCookie)
		if tokenString == "" {
			authHeader := c.Get(AuthorizationHeader)
			if strings.HasPrefix(authHeader, BearerSchema) {
				tokenString = strings.TrimPrefix(authHeader, BearerSchema)
			}
		}
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "MISSING_CREDENTIALS",
				Message: "Authentication credentials were not provided",
				Status:  fiber.StatusUnauthorized,
			})
		}

		claims, err := authService.ValidateJWT(c.Context(), tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "INVALID_TOKEN",
				Message: err.Error(),
				Status:  fiber.StatusUnauthorized,
			})
		}

		if claims.TokenType != "access" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "INVALID_TOKEN_TYPE",
				Message: "Token is not an access token",
				Status:  fiber.StatusUnauthorized,
			})
		}

		c.Locals(UserIDKey, claims.UserID)
		return c.Next()
	}
}
