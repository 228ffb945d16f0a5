package repositories

import (
	"context"

	"github.com/goldenlabs/golden_gold_app/internal/core/domain"
)

// UserReader defines read operations for user data
type UserReader interface {
	// FindUserByID retrieves a specific user by their ID.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByIdentifier resolves a user by phone number or email address.
	FindUserByIdentifier(ctx context.Context, identifier string) (*domain.User, error)

	// FindUsers retrieves all users in stable id order.
	FindUsers(ctx context.Context) ([]domain.User, error)
}

// UserWriter defines write operations for user data
type UserWriter interface {
	// SaveUser persists a new user.
	SaveUser(ctx context.Context, user domain.User) error

	// UpdateUser replaces an existing user record (copy-on-write: callers pass
	// a fully populated new value, never a partially mutated one).
	UpdateUser(ctx context.Context, user domain.User) error
}

// UserRepositoryFacade combines all user-related repository interfaces.
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}
