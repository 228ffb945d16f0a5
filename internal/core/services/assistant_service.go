package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/goldenlabs/golden_gold_app/internal/apperrors"
	portsrepo "github.com/goldenlabs/golden_gold_app/internal/core/ports/repositories"
	portssvc "github.com/goldenlabs/golden_gold_app/internal/core/ports/services"
	"github.com/goldenlabs/golden_gold_app/internal/dto"
)

// chatFallback is substituted when the AI collaborator is unreachable or
// returns garbage. The ledger is never affected by assistant failures.
const chatFallback = "The assistant is unavailable right now. Please try again in a moment."

// assistantService assembles prompts from ledger data and delegates text
// generation to the outbound client. Nothing the assistant returns is ever
// written back into the ledger.
type assistantService struct {
	client   portssvc.AssistantClient
	userRepo portsrepo.UserRepositoryFacade
	txnRepo  portsrepo.TransactionRepositoryFacade
	logger   *slog.Logger
}

// NewAssistantService creates a new assistant service.
func NewAssistantService(
	client portssvc.AssistantClient,
	userRepo portsrepo.UserRepositoryFacade,
	txnRepo portsrepo.TransactionRepositoryFacade,
	logger *slog.Logger,
) portssvc.AssistantSvcFacade {
	return &assistantService{
		client:   client,
		userRepo: userRepo,
		txnRepo:  txnRepo,
		logger:   logger,
	}
}

var _ portssvc.AssistantSvcFacade = (*assistantService)(nil)

// Chat answers a question for the acting user. Remote failures degrade to a
// fallback message rather than an error: chat is best-effort by contract.
func (s *assistantService) Chat(ctx context.Context, userID string, message string) (*dto.ChatResponse, error) {
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("%w: message must not be empty", apperrors.ErrValidation)
	}
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	sessionContext := fmt.Sprintf(
		"You are the Golden Digital Gold support assistant. The user is %s (gold balance %s g, ETB balance %s). Answer briefly and factually.",
		user.Name, user.GoldBalance.StringFixed(4), user.ETBBalance.StringFixed(2),
	)

	reply, err := s.client.Chat(ctx, sessionContext, message)
	if err != nil {
		s.logger.Warn("Assistant chat failed, substituting fallback", slog.String("error", err.Error()))
		return &dto.ChatResponse{Reply: chatFallback, Fallback: true}, nil
	}
	return &dto.ChatResponse{Reply: reply}, nil
}

// SummarizeUser builds the structured behavioral summary for a target user.
// Schema violations surface as ErrRemoteService from the client; the admin
// console shows them as a degraded state, never as business data.
func (s *assistantService) SummarizeUser(ctx context.Context, targetUserID string) (*dto.BehaviorSummary, error) {
	user, err := s.userRepo.FindUserByID(ctx, targetUserID)
	if err != nil {
		return nil, err
	}
	transactions, err := s.txnRepo.FindTransactionsByUserID(ctx, targetUserID)
	if err != nil {
		return nil, err
	}
	return s.client.Summarize(ctx, *user, transactions)
}
