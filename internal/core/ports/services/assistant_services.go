package services

import (
	"context"

	"github.com/goldenlabs/golden_gold_app/internal/core/domain"
	"github.com/goldenlabs/golden_gold_app/internal/dto"
)

// AssistantClient is the outbound port to the AI collaborator. Implementations
// live in internal/adapters/assistant. Both calls are opaque text generation:
// the ledger supplies data as input and stores nothing derived from the output.
type AssistantClient interface {
	// Chat answers a free-form user question given session context.
	Chat(ctx context.Context, sessionContext string, message string) (string, error)

	// Summarize produces the structured behavioral summary for the admin
	// console. A schema-violating response is ErrRemoteService.
	Summarize(ctx context.Context, user domain.User, transactions []domain.Transaction) (*dto.BehaviorSummary, error)
}

// AssistantSvcFacade is the inbound service over the AI collaborator, adding
// prompt assembly and fallback behavior on remote failure.
type AssistantSvcFacade interface {
	// Chat answers a question for the acting user; on remote failure it
	// returns a fallback message instead of an error.
	Chat(ctx context.Context, userID string, message string) (*dto.ChatResponse, error)

	// SummarizeUser builds the behavioral summary for a target user.
	SummarizeUser(ctx context.Context, targetUserID string) (*dto.BehaviorSummary, error)
}
