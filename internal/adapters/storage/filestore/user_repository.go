package filestore

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/goldenlabs/golden_gold_app/internal/apperrors"
	"github.com/goldenlabs/golden_gold_app/internal/core/domain"
	portsrepo "github.com/goldenlabs/golden_gold_app/internal/core/ports/repositories"
)

// UserRepository implements the user repository facade over the snapshot store.
// Records are value types: every read hands out a copy, every write replaces
// the whole record (copy-on-write).
type UserRepository struct {
	store *Store
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

var _ portsrepo.UserRepositoryFacade = (*UserRepository)(nil)

// FindUserByID retrieves a specific user by their ID.
func (r *UserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	var found *domain.User
	err := r.store.View(func(s *Snapshot) error {
		if u, ok := s.Users[userID]; ok {
			found = &u
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, fmt.Errorf("%w: user %s", apperrors.ErrNotFound, userID)
	}
	return found, nil
}

// FindUserByIdentifier resolves a user by phone number or email address.
func (r *UserRepository) FindUserByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	trimmed := strings.TrimSpace(identifier)
	needle := strings.ToLower(trimmed)
	var found *domain.User
	err := r.store.View(func(s *Snapshot) error {
		for _, u := range s.Users {
			if u.Phone == trimmed || strings.ToLower(u.Email) == needle {
				cp := u
				found = &cp
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, fmt.Errorf("%w: no user matches %q", apperrors.ErrNotFound, identifier)
	}
	return found, nil
}

// FindUsers retrieves all users in stable id order.
func (r *UserRepository) FindUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := r.store.View(func(s *Snapshot) error {
		users = make([]domain.User, 0, len(s.Users))
		for _, u := range s.Users {
			users = append(users, u)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(users, func(i, j int) bool { return users[i].UserID < users[j].UserID })
	return users, nil
}

// SaveUser persists a new user.
func (r *UserRepository) SaveUser(ctx context.Context, user domain.User) error {
	return r.store.Update(ctx, func(s *Snapshot) error {
		if _, exists := s.Users[user.UserID]; exists {
			return fmt.Errorf("%w: user %s already exists", apperrors.ErrValidation, user.UserID)
		}
		s.Users[user.UserID] = user
		return nil
	})
}

// UpdateUser replaces an existing user record.
func (r *UserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	return r.store.Update(ctx, func(s *Snapshot) error {
		if _, exists := s.Users[user.UserID]; !exists {
			return fmt.Errorf("%w: user %s", apperrors.ErrNotFound, user.UserID)
		}
		s.Users[user.UserID] = user
		return nil
	})
}
