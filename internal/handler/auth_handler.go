package handler

import (
	"strings"
	"time"

	"vidquiz/internal/config"
	"vidquiz/internal/domain"
	"vidquiz/internal/dto"
	"vidquiz/internal/logger"
	"vidquiz/internal/middleware"
	"vidquiz/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthHandler handles authentication HTTP requests
type AuthHandler struct {
	auth service.AuthService
	cfg  config.JWTConfig
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(auth service.AuthService, cfg config.JWTConfig) *AuthHandler {
	return &AuthHandler{auth: auth, cfg: cfg}
}

// Register handles POST /api/auth/register.
func (a *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}

	user, err := a.auth.Register(c.UserContext(), &req)
	if err != nil {
		return err
	}

	logger.Get().Info("user registered", zap.String("user_id", user.ID))
	return c.Status(fiber.StatusCreated).JSON(dto.UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
}

// Login handles POST /api/auth/login. Tokens are returned in the body and
// also set as HttpOnly cookies so browser clients never touch them.
func (a *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}

	accessToken, refreshToken, user, err := a.auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}

	a.setTokenCookie(c, middleware.AccessTokenCookie, accessToken, a.cfg.AccessTokenTTL)
	a.setTokenCookie(c, middleware.RefreshTokenCookie, refreshToken, a.cfg.RefreshTokenTTL)

	return c.JSON(dto.LoginResponse{
		Detail: "login successful",
		User: dto.UserResponse{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
		},
		Tokens: dto.TokenResponse{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
		},
	})
}

// Refresh handles POST /api/auth/refresh, exchanging the refresh token
// cookie for a fresh access token. A bearer token, when supplied, must match
// the cookie; a mismatch means the two were issued to different sessions.
func (a *AuthHandler) Refresh(c *fiber.Ctx) error {
	refreshToken := c.Cookies(middleware.RefreshTokenCookie)
	if refreshToken == "" {
		return domain.NewUnauthorizedError("refresh token missing")
	}
	if authHeader := c.Get(middleware.AuthorizationHeader); strings.HasPrefix(authHeader, middleware.BearerSchema) {
		if strings.TrimPrefix(authHeader, middleware.BearerSchema) != refreshToken {
			return domain.NewUnauthorizedError("refresh token mismatch")
		}
	}

	accessToken, err := a.auth.RefreshToken(c.UserContext(), refreshToken)
	if err != nil {
		return err
	}

	a.setTokenCookie(c, middleware.AccessTokenCookie, accessToken, a.cfg.AccessTokenTTL)
	return c.JSON(dto.TokenResponse{AccessToken: accessToken})
}

// Logout handles POST /api/auth/logout by expiring both token cookies.
func (a *AuthHandler) Logout(c *fiber.Ctx) error {
	a.clearTokenCookie(c, middleware.AccessTokenCookie)
	a.clearTokenCookie(c, middleware.RefreshTokenCookie)
	return c.JSON(dto.MessageResponse{Detail: "logout successful"})
}

func (a *AuthHandler) setTokenCookie(c *fiber.Ctx, name, value string, ttl time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Expires:  time.Now().Add(ttl),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}

func (a *AuthHandler) clearTokenCookie(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}
