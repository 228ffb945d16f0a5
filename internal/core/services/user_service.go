package services

import (
	"context"
	"fmt"

	"github.com/goldenlabs/golden_gold_app/internal/core/domain"
	portsrepo "github.com/goldenlabs/golden_gold_app/internal/core/ports/repositories"
	portssvc "github.com/goldenlabs/golden_gold_app/internal/core/ports/services"
)

type userService struct {
	userRepo portsrepo.UserRepositoryFacade
}

// NewUserService creates a new user service.
func NewUserService(userRepo portsrepo.UserRepositoryFacade) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

// GetUserByID retrieves a user by ID.
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return user, nil
}

// ListUsers retrieves all seeded users.
func (s *userService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.userRepo.FindUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// ListIdentities retrieves the identity cards shown on the login picker.
// Same records as ListUsers; the handler strips balances via the DTO.
func (s *userService) ListIdentities(ctx context.Context) ([]domain.User, error) {
	return s.ListUsers(ctx)
}
