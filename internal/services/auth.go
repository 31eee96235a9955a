package services

import (
	"context"

	"backoffice/internal/api"
	"backoffice/internal/models"
)

type AuthService struct {
	client *api.Client
}

func NewAuthService(client *api.Client) *AuthService {
	return &AuthService{client: client}
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token        string       `json:"token"`
	RefreshToken string       `json:"refresh_token,omitempty"`
	User         *models.User `json:"user,omitempty"`
}

func (s *AuthService) Login(ctx context.Context, creds Credentials) (LoginResult, error) {
	var out LoginResult
	if err := s.client.Post(ctx, "/auth/login", creds, &out); err != nil {
		return LoginResult{}, err
	}
	return out, nil
}

func (s *AuthService) Logout(ctx context.Context) error {
	return s.client.Post(ctx, "/auth/logout", nil, nil)
}

// CheckToken reports whether the stored token is still accepted. An invalid
// session is an expected steady state, so failures collapse to false.
func (s *AuthService) CheckToken(ctx context.Context) bool {
	if err := s.client.Get(ctx, "/auth/check-token", nil); err != nil {
		return false
	}
	return true
}

func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	body := map[string]string{"refresh_token": refreshToken}
	var out struct {
		Token string `json:"token"`
	}
	if err := s.client.Post(ctx, "/auth/refresh-token", body, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}
