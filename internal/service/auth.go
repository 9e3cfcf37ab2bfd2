package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"vidquiz/internal/config"
	"vidquiz/internal/domain"
	"vidquiz/internal/dto"
	"vidquiz/internal/util"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

var (
	ErrInvalidJWTToken    = errors.New("invalid jwt token")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// AuthService is the auth collaborator: it resolves an authenticated
// identity per request and issues/validates tokens. Everything past
// identity equality is outside the pipeline's scope.
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, username, password string) (accessToken, refreshToken string, user *domain.User, err error)
	RefreshToken(ctx context.Context, refreshTokenString string) (newAccessToken string, err error)
	ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
	CreateJWT(user *domain.User, ttl time.Duration, tokenType string) (string, error)
}

type authServiceImpl struct {
	userRepo domain.UserRepository
	cfg      config.JWTConfig
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(userRepo domain.UserRepository, cfg config.JWTConfig) (AuthService, error) {
	if len(cfg.SecretKey) < 32 {
		return nil, errors.New("jwt secret key must be at least 32 bytes long")
	}
	return &authServiceImpl{userRepo: userRepo, cfg: cfg}, nil
}

// Register creates a new user account.
func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*domain.User, error) {
	if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, domain.NewInvalidInputError("username, email and password are required")
	}
	if req.Password != req.ConfirmedPassword {
		return nil, domain.NewInvalidInputError("passwords do not match")
	}

	existing, err := s.userRepo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, domain.NewInternalError("failed to check username", err)
	}
	if existing != nil {
		return nil, domain.NewInvalidInputError("username is already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.NewInternalError("failed to hash password", err)
	}

	user := &domain.User{
		ID:           util.NewULID(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, domain.NewInternalError("failed to create user", err)
	}
	return user, nil
}

// Login verifies credentials and issues an access/refresh token pair.
func (s *authServiceImpl) Login(ctx context.Context, username, password string) (string, string, *domain.User, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return "", "", nil, domain.NewInternalError("failed to fetch user", err)
	}
	if user == nil {
		return "", "", nil, domain.NewUnauthorizedError(ErrInvalidCredentials.Error())
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", "", nil, domain.NewUnauthorizedError(ErrInvalidCredentials.Error())
	}

	accessToken, err := s.CreateJWT(user, s.cfg.AccessTokenTTL, tokenTypeAccess)
	if err != nil {
		return "", "", nil, domain.NewInternalError("failed to create access token", err)
	}
	refreshToken, err := s.CreateJWT(user, s.cfg.RefreshTokenTTL, tokenTypeRefresh)
	if err != nil {
		return "", "", nil, domain.NewInternalError("failed to create refresh token", err)
	}
	return accessToken, refreshToken, user, nil
}

// RefreshToken validates a refresh token and issues a new access token.
func (s *authServiceImpl) RefreshToken(ctx context.Context, refreshTokenString string) (string, error) {
	claims, err := s.ValidateJWT(ctx, refreshTokenString)
	if err != nil {
		return "", domain.NewUnauthorizedError("refresh token invalid")
	}
	if claims.TokenType != tokenTypeRefresh {
		return "", domain.NewUnauthorizedError("token is not a refresh token")
	}

	user, err := s.userRepo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return "", domain.NewInternalError("failed to fetch user", err)
	}
	if user == nil {
		return "", domain.NewUnauthorizedError("refresh token invalid")
	}

	return s.CreateJWT(user, s.cfg.AccessTokenTTL, tokenTypeAccess)
}

// CreateJWT signs a token with the given TTL and type.
func (s *authServiceImpl) CreateJWT(user *domain.User, ttl time.Duration, tokenType string) (string, error) {
	now := time.Now()
	claims := &dto.AuthClaims{
		UserID:    user.ID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.SecretKey))
}

// ValidateJWT parses and verifies a token and returns its claims.
func (s *authServiceImpl) ValidateJWT(_ context.Context, tokenString string) (*dto.AuthClaims, error) {
	claims := &dto.AuthClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.SecretKey), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidJWTToken
	}
	return claims, nil
}
