package services

import (
	"context"

	"github.com/goldenlabs/golden_gold_app/internal/dto"
)

// TokenSvcFacade issues session tokens for seeded identities. There is no
// credential validation: login is selecting one of the preconfigured users.
type TokenSvcFacade interface {
	// Login issues a JWT for the given seeded user ID.
	Login(ctx context.Context, userID string) (*dto.LoginResponse, error)
}
