package services

import (
	"context"

	"github.com/goldenlabs/golden_gold_app/internal/core/domain"
)

// UserReaderSvc defines read operations for user data
type UserReaderSvc interface {
	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// ListUsers retrieves all seeded users.
	ListUsers(ctx context.Context) ([]domain.User, error)

	// ListIdentities retrieves the identity cards shown on the login picker.
	ListIdentities(ctx context.Context) ([]domain.User, error)
}

// UserSvcFacade combines all user-related service interfaces.
type UserSvcFacade interface {
	UserReaderSvc
}
