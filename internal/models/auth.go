package models

import "github.com/golang-jwt/jwt/v5"

// LoginRequest holds credentials for POST /login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RoleLoginRequest is the POST /auth/login payload used by role-aware builds.
type RoleLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required"`
}

// RegisterRequest is the POST /register payload. Role defaults to student.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=3"`
	Role     string `json:"role"`
}

// SessionUser is the user payload embedded in login and register responses.
type SessionUser struct {
	ID    int64    `json:"id"`
	Name  string   `json:"name"`
	Role  UserRole `json:"role"`
	Email string   `json:"email"`
}

// LoginResponse is the `{token, user}` shape of /login and /register.
type LoginResponse struct {
	Token string      `json:"token"`
	User  SessionUser `json:"user"`
}

// RoleLoginResponse is the flat shape of /auth/login.
type RoleLoginResponse struct {
	Token string   `json:"token"`
	ID    int64    `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Role  UserRole `json:"role"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID int64    `json:"user_id"`
	Role   UserRole `json:"role"`
	Email  string   `json:"email"`
	Name   string   `json:"name"`
	jwt.RegisteredClaims
}
