package repositories

import (
	"context"
	"fmt"

	"github.com/nexusnu/webclient/internal/app/models"
	"github.com/nexusnu/webclient/internal/app/models/dto"
	"github.com/nexusnu/webclient/internal/pkg/apiclient"
)

// AuthRepository handles the /auth endpoints
type AuthRepository struct {
	api *apiclient.Client
}

// NewAuthRepository creates a new AuthRepository
func NewAuthRepository(api *apiclient.Client) *AuthRepository {
	return &AuthRepository{api: api}
}

// Register creates an account and returns the issued token and user
func (r *AuthRepository) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	var resp dto.AuthResponse
	if err := r.api.Post(ctx, "/auth/register", req, &resp); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return &resp, nil
}

// Login exchanges credentials for a token
func (r *AuthRepository) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	var resp dto.AuthResponse
	if err := r.api.Post(ctx, "/auth/login", req, &resp); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &resp, nil
}

// Logout tells the backend the token is no longer used
func (r *AuthRepository) Logout(ctx context.Context) error {
	if err := r.api.Post(ctx, "/auth/logout", nil, nil); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Me returns the user that owns the token in ctx
func (r *AuthRepository) Me(ctx context.Context) (*models.User, error) {
	var resp dto.CurrentUserResponse
	if err := r.api.Get(ctx, "/auth/me", nil, &resp); err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}
	return &resp.User, nil
}
