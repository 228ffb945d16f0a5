package services_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goldenlabs/golden_gold_app/internal/adapters/storage/filestore"
	"github.com/goldenlabs/golden_gold_app/internal/apperrors"
	"github.com/goldenlabs/golden_gold_app/internal/core/domain"
	portssvc "github.com/goldenlabs/golden_gold_app/internal/core/ports/services"
	"github.com/goldenlabs/golden_gold_app/internal/core/services"
	"github.com/goldenlabs/golden_gold_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAssistantClient mocks the outbound generation client.
type MockAssistantClient struct {
	mock.Mock
}

func (m *MockAssistantClient) Chat(ctx context.Context, sessionContext string, message string) (string, error) {
	args := m.Called(ctx, sessionContext, message)
	return args.String(0), args.Error(1)
}

func (m *MockAssistantClient) Summarize(ctx context.Context, user domain.User, transactions []domain.Transaction) (*dto.BehaviorSummary, error) {
	args := m.Called(ctx, user, transactions)
	var summary *dto.BehaviorSummary
	if args.Get(0) != nil {
		summary = args.Get(0).(*dto.BehaviorSummary)
	}
	return summary, args.Error(1)
}

func setupAssistantTest(t *testing.T, client portssvc.AssistantClient) (portssvc.AssistantSvcFacade, domain.User) {
	t.Helper()
	ctx := context.Background()

	store, err := filestore.Open(filepath.Join(t.TempDir(), "snapshot.json"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	userRepo := filestore.NewUserRepository(store)
	txnRepo := filestore.NewTransactionRepository(store)

	user := domain.User{
		UserID:      uuid.NewString(),
		Name:        "Abebe",
		Phone:       "+251911111111",
		Email:       "abebe@example.com",
		Role:        domain.RoleUser,
		GoldBalance: decimal.NewFromInt(3),
		ETBBalance:  decimal.NewFromInt(500),
		JoinDate:    time.Now().UTC(),
	}
	require.NoError(t, userRepo.SaveUser(ctx, user))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return services.NewAssistantService(client, userRepo, txnRepo, logger), user
}

func TestAssistantChatPassesBalancesInContext(t *testing.T) {
	client := new(MockAssistantClient)
	svc, user := setupAssistantTest(t, client)

	client.On("Chat", mock.Anything, mock.MatchedBy(func(sessionContext string) bool {
		return strings.Contains(sessionContext, "Abebe")
	}), "How much gold do I have?").Return("You hold 3 grams.", nil)

	resp, err := svc.Chat(context.Background(), user.UserID, "How much gold do I have?")
	require.NoError(t, err)
	assert.Equal(t, "You hold 3 grams.", resp.Reply)
	assert.False(t, resp.Fallback)
	client.AssertExpectations(t)
}

func TestAssistantChatFallsBackOnRemoteFailure(t *testing.T) {
	client := new(MockAssistantClient)
	svc, user := setupAssistantTest(t, client)

	client.On("Chat", mock.Anything, mock.Anything, mock.Anything).
		Return("", fmt.Errorf("%w: upstream timeout", apperrors.ErrRemoteService))

	resp, err := svc.Chat(context.Background(), user.UserID, "hello")
	require.NoError(t, err, "remote failures degrade to a fallback, never an error")
	assert.True(t, resp.Fallback)
	assert.NotEmpty(t, resp.Reply)
	client.AssertExpectations(t)
}

func TestAssistantChatRejectsEmptyMessage(t *testing.T) {
	client := new(MockAssistantClient)
	svc, user := setupAssistantTest(t, client)

	_, err := svc.Chat(context.Background(), user.UserID, "   ")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	client.AssertNotCalled(t, "Chat")
}

func TestSummarizeUserPropagatesSchemaViolation(t *testing.T) {
	client := new(MockAssistantClient)
	svc, user := setupAssistantTest(t, client)

	client.On("Summarize", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: summary missing required fields", apperrors.ErrRemoteService))

	_, err := svc.SummarizeUser(context.Background(), user.UserID)
	assert.ErrorIs(t, err, apperrors.ErrRemoteService)
}

func TestSummarizeUserReturnsTypedSummary(t *testing.T) {
	client := new(MockAssistantClient)
	svc, user := setupAssistantTest(t, client)

	want := &dto.BehaviorSummary{
		Summary:         "Low-activity holder.",
		KeyObservations: []string{"no transactions yet"},
		PotentialRisks:  []string{},
	}
	client.On("Summarize", mock.Anything, mock.Anything, mock.Anything).Return(want, nil)

	got, err := svc.SummarizeUser(context.Background(), user.UserID)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSummarizeUnknownUser(t *testing.T) {
	client := new(MockAssistantClient)
	svc, _ := setupAssistantTest(t, client)

	_, err := svc.SummarizeUser(context.Background(), "no-such-user")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	client.AssertNotCalled(t, "Summarize")
}
