package services

import (
	"context"
	"fmt"
	"time"

	portsrepo "github.com/goldenlabs/golden_gold_app/internal/core/ports/repositories"
	portssvc "github.com/goldenlabs/golden_gold_app/internal/core/ports/services"
	"github.com/goldenlabs/golden_gold_app/internal/dto"
	"github.com/goldenlabs/golden_gold_app/internal/utils"
	"github.com/goldenlabs/golden_gold_app/pkg/config"
)

// tokenService issues session JWTs for seeded identities. Login is picking a
// user, not proving anything; the token only pins the chosen identity for the
// rest of the session.
type tokenService struct {
	userRepo portsrepo.UserRepositoryFacade
	secret   string
	expiry   time.Duration
	issuer   string
}

// NewTokenService creates a new token service.
func NewTokenService(cfg *config.Config, userRepo portsrepo.UserRepositoryFacade) portssvc.TokenSvcFacade {
	return &tokenService{
		userRepo: userRepo,
		secret:   cfg.JWTSecret,
		expiry:   cfg.JWTExpiryDuration,
		issuer:   cfg.JWTIssuer,
	}
}

var _ portssvc.TokenSvcFacade = (*tokenService)(nil)

// Login issues a JWT for the given seeded user ID.
func (s *tokenService) Login(ctx context.Context, userID string) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	token, err := utils.GenerateJWT(user.UserID, s.secret, s.expiry, s.issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(s.expiry),
		User:      dto.ToUserResponse(user),
	}, nil
}
