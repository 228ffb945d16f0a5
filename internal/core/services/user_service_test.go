package services_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/goldenlabs/golden_gold_app/internal/adapters/storage/filestore"
	"github.com/goldenlabs/golden_gold_app/internal/apperrors"
	"github.com/goldenlabs/golden_gold_app/internal/core/domain"
	"github.com/goldenlabs/golden_gold_app/internal/core/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService(t *testing.T) {
	ctx := context.Background()

	store, err := filestore.Open(filepath.Join(t.TempDir(), "snapshot.json"))
	require.NoError(t, err)
	defer store.Close()

	userRepo := filestore.NewUserRepository(store)
	svc := services.NewUserService(userRepo)

	var seeded []domain.User
	for _, name := range []string{"Abebe", "Sara"} {
		user := domain.User{
			UserID:      uuid.NewString(),
			Name:        name,
			Role:        domain.RoleUser,
			GoldBalance: decimal.Zero,
			ETBBalance:  decimal.Zero,
			JoinDate:    time.Now().UTC(),
		}
		require.NoError(t, userRepo.SaveUser(ctx, user))
		seeded = append(seeded, user)
	}

	t.Run("GetUserByID", func(t *testing.T) {
		user, err := svc.GetUserByID(ctx, seeded[0].UserID)
		require.NoError(t, err)
		assert.Equal(t, seeded[0].Name, user.Name)
	})

	t.Run("GetUserByID not found", func(t *testing.T) {
		_, err := svc.GetUserByID(ctx, "missing")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("ListUsers", func(t *testing.T) {
		users, err := svc.ListUsers(ctx)
		require.NoError(t, err)
		assert.Len(t, users, 2)
	})

	t.Run("ListIdentities matches ListUsers", func(t *testing.T) {
		identities, err := svc.ListIdentities(ctx)
		require.NoError(t, err)
		assert.Len(t, identities, 2)
	})
}
