package services

import (
	"context"
	"fmt"

	"github.com/digicollect/server/internal/models"
	"github.com/digicollect/server/internal/repository"
)

// UserService handles account creation and tier changes
type UserService struct {
	users repository.UserRepo
}

// NewUserService creates a new UserService
func NewUserService(users repository.UserRepo) *UserService {
	return &UserService{users: users}
}

// Register creates an account on the free tier and returns the plaintext
// API key once
func (s *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.RegisterResponse, error) {
	user, err := models.NewUser(req.Email, req.DisplayName, req.Password)
	if err != nil {
		return nil, err
	}

	if err := s.users.Add(ctx, user); err != nil {
		return nil, err
	}

	apiKey := user.APIKey
	user.APIKey = ""
	return &models.RegisterResponse{User: user, APIKey: apiKey}, nil
}

// GetUser returns a user by ID
func (s *UserService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

// ChangeTier moves a user to a different plan. Existing collections and
// items are never removed when the new plan's limits are lower; the limits
// only gate future creations.
func (s *UserService) ChangeTier(ctx context.Context, userID string, tier models.Tier) (*models.User, error) {
	if err := s.users.SetTier(ctx, userID, tier); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload user: %w", err)
	}
	return user, nil
}
