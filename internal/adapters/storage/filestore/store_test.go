package filestore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/goldenlabs/golden_gold_app/internal/apperrors"
	"github.com/goldenlabs/golden_gold_app/internal/core/domain"
	"github.com/goldenlabs/golden_gold_app/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser(name string) domain.User {
	now := time.Now().UTC()
	return domain.User{
		UserID:      uuid.NewString(),
		Name:        name,
		Phone:       "+251911" + uuid.NewString()[:6],
		Email:       name + "@example.com",
		Role:        domain.RoleUser,
		GoldBalance: decimal.NewFromInt(10),
		ETBBalance:  decimal.NewFromInt(1000),
		JoinDate:    now,
	}
}

func TestStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "snapshot.json")

	store, err := Open(path)
	require.NoError(t, err)

	u := testUser("reload")
	repo := NewUserRepository(store)
	require.NoError(t, repo.SaveUser(ctx, u))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := NewUserRepository(reopened).FindUserByID(ctx, u.UserID)
	require.NoError(t, err)
	assert.Equal(t, u.Name, got.Name)
	assert.True(t, u.GoldBalance.Equal(got.GoldBalance))
}

func TestUserRepository_FindByIdentifier(t *testing.T) {
	ctx := context.Background()
	store, err := Open(filepath.Join(t.TempDir(), "snapshot.json"))
	require.NoError(t, err)
	defer store.Close()

	repo := NewUserRepository(store)
	u := testUser("ident")
	require.NoError(t, repo.SaveUser(ctx, u))

	byPhone, err := repo.FindUserByIdentifier(ctx, u.Phone)
	require.NoError(t, err)
	assert.Equal(t, u.UserID, byPhone.UserID)

	byPaddedPhone, err := repo.FindUserByIdentifier(ctx, "  "+u.Phone+" ")
	require.NoError(t, err)
	assert.Equal(t, u.UserID, byPaddedPhone.UserID)

	byEmail, err := repo.FindUserByIdentifier(ctx, "IDENT@EXAMPLE.COM")
	require.NoError(t, err)
	assert.Equal(t, u.UserID, byEmail.UserID)

	_, err = repo.FindUserByIdentifier(ctx, "nobody@example.com")
	assert.Error(t, err)
}

func TestUserRepository_CopyOnWrite(t *testing.T) {
	ctx := context.Background()
	store, err := Open(filepath.Join(t.TempDir(), "snapshot.json"))
	require.NoError(t, err)
	defer store.Close()

	repo := NewUserRepository(store)
	u := testUser("cow")
	require.NoError(t, repo.SaveUser(ctx, u))

	first, err := repo.FindUserByID(ctx, u.UserID)
	require.NoError(t, err)

	// Mutating the returned copy must not leak into the store.
	first.GoldBalance = decimal.NewFromInt(999)

	second, err := repo.FindUserByID(ctx, u.UserID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(second.GoldBalance))
}

func TestTransactionRepository_Pagination(t *testing.T) {
	ctx := context.Background()
	store, err := Open(filepath.Join(t.TempDir(), "snapshot.json"))
	require.NoError(t, err)
	defer store.Close()

	repo := NewTransactionRepository(store)
	userID := uuid.NewString()
	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		txn := domain.Transaction{
			TransactionID: uuid.NewString(),
			UserID:        userID,
			Type:          domain.TxConversion,
			Status:        domain.StatusCompleted,
			AmountGrams:   decimal.NewFromInt(1),
			Date:          base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.SaveTransactions(ctx, txn))
	}

	page1, token, err := repo.ListTransactionsByUserID(ctx, userID, 2, nil)
	require.NoError(t, err)
	require.Len(t, page1, 2)
	require.NotNil(t, token)
	// Newest first.
	assert.True(t, page1[0].Date.After(page1[1].Date))

	page2, token2, err := repo.ListTransactionsByUserID(ctx, userID, 2, token)
	require.NoError(t, err)
	require.Len(t, page2, 2)
	assert.True(t, page1[1].Date.After(page2[0].Date))

	page3, token3, err := repo.ListTransactionsByUserID(ctx, userID, 2, token2)
	require.NoError(t, err)
	assert.Len(t, page3, 1)
	assert.Nil(t, token3)
}

func TestTransactionRepository_StaleTokenRejected(t *testing.T) {
	ctx := context.Background()
	store, err := Open(filepath.Join(t.TempDir(), "snapshot.json"))
	require.NoError(t, err)
	defer store.Close()

	repo := NewTransactionRepository(store)
	userID := uuid.NewString()
	require.NoError(t, repo.SaveTransactions(ctx, domain.Transaction{
		TransactionID: uuid.NewString(),
		UserID:        userID,
		Type:          domain.TxConversion,
		Status:        domain.StatusCompleted,
		AmountGrams:   decimal.NewFromInt(1),
		Date:          time.Now().UTC(),
	}))

	// Decodes fine but points at a transaction the user does not own.
	stale := pagination.EncodeToken(time.Now().UTC(), uuid.NewString())
	_, _, err = repo.ListTransactionsByUserID(ctx, userID, 2, &stale)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	garbage := "not-a-token"
	_, _, err = repo.ListTransactionsByUserID(ctx, userID, 2, &garbage)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestTransactionRepository_UpdateUnknown(t *testing.T) {
	ctx := context.Background()
	store, err := Open(filepath.Join(t.TempDir(), "snapshot.json"))
	require.NoError(t, err)
	defer store.Close()

	repo := NewTransactionRepository(store)
	err = repo.UpdateTransaction(ctx, domain.Transaction{TransactionID: "missing"})
	assert.Error(t, err)
}

func TestSeedIfEmpty_Idempotent(t *testing.T) {
	ctx := context.Background()
	store, err := Open(filepath.Join(t.TempDir(), "snapshot.json"))
	require.NoError(t, err)
	defer store.Close()

	logger := discardLogger()
	require.NoError(t, SeedIfEmpty(ctx, store, logger))
	users, err := NewUserRepository(store).FindUsers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, users)

	admins := 0
	for _, u := range users {
		if u.IsAdmin() {
			admins++
		}
	}
	assert.Equal(t, 1, admins)

	// Second call must not duplicate identities.
	require.NoError(t, SeedIfEmpty(ctx, store, logger))
	again, err := NewUserRepository(store).FindUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, again, len(users))
}
