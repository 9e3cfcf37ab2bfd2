package dto

import (
	"github.com/golang-jwt/jwt/v5"
)

// RegisterRequest is the request body for user registration.
type RegisterRequest struct {
	Username          string `json:"username"`
	Email             string `json:"email"`
	Password          string `json:"password"`
	ConfirmedPassword string `json:"confirmed_password"`
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthClaims defines the custom claims for JWT.
type AuthClaims struct {
	UserID    string `json:"user_id"`
	TokenType string `json:"token_type"` // "access" or "refresh"
	jwt.RegisteredClaims
}

// UserResponse is the public view of a user account.
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// TokenResponse carries the issued tokens; the same values are also set as
// HttpOnly cookies.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// LoginResponse is returned on successful login.
type LoginResponse struct {
	Detail string       `json:"detail"`
	User   UserResponse `json:"user"`
	Tokens TokenResponse `json:"tokens"`
}

// MessageResponse represents a generic message response.
type MessageResponse struct {
	Detail string `json:"detail"`
}
