package client

import (
	"context"
	"errors"
	"net/http"
)

// loginFallbackMessage is shown when the API rejects a login without a
// usable body.
const loginFallbackMessage = "Erro ao realizar login"

// SessionUser is the authenticated user embedded in login responses.
type SessionUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	Email string `json:"email"`
}

// Credentials are the /login and /register inputs.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterInput is the /register payload. Role is optional and defaults to
// student server-side.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// LoginResult is the `{token, user}` login response.
type LoginResult struct {
	Token string      `json:"token"`
	User  SessionUser `json:"user"`
}

// AuthService accesses the authentication endpoints. Its calls never fire the
// client's unauthorized hook.
type AuthService struct {
	client *Client
}

// Login exchanges credentials for a token and user. A rejected login comes
// back as *APIError with the server's message, or a generic one when the body
// was unusable.
func (s *AuthService) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	var result LoginResult
	if err := s.client.do(ctx, http.MethodPost, "/login", creds, &result); err != nil {
		return nil, withLoginFallback(err)
	}
	return &result, nil
}

// Register creates an account and signs it in.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*LoginResult, error) {
	var result LoginResult
	if err := s.client.do(ctx, http.MethodPost, "/register", input, &result); err != nil {
		return nil, withLoginFallback(err)
	}
	return &result, nil
}

// roleLogin is the flat /auth/login shape.
type roleLogin struct {
	Token string `json:"token"`
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// LoginWithRole authenticates against the role-aware /auth/login endpoint and
// normalizes its flat response into a LoginResult.
func (s *AuthService) LoginWithRole(ctx context.Context, creds Credentials, role string) (*LoginResult, error) {
	payload := struct {
		Credentials
		Role string `json:"role"`
	}{Credentials: creds, Role: role}

	var flat roleLogin
	if err := s.client.do(ctx, http.MethodPost, "/auth/login", payload, &flat); err != nil {
		return nil, withLoginFallback(err)
	}

	return &LoginResult{
		Token: flat.Token,
		User:  SessionUser{ID: flat.ID, Name: flat.Name, Role: flat.Role, Email: flat.Email},
	}, nil
}

func withLoginFallback(err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message == "" {
		apiErr.Message = loginFallbackMessage
	}
	return err
}
