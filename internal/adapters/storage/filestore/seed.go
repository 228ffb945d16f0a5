package filestore

import (
	"context"
	"log/slog"
	"time"

	"github.com/goldenlabs/golden_gold_app/internal/core/domain"
	"github.com/goldenlabs/golden_gold_app/internal/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SeedIfEmpty provisions the demo identities on first start. Account
// provisioning is outside the ledger: users exist before any operation runs.
func SeedIfEmpty(ctx context.Context, store *Store, logger *slog.Logger) error {
	empty := true
	if err := store.View(func(s *Snapshot) error {
		empty = len(s.Users) == 0
		return nil
	}); err != nil {
		return err
	}
	if !empty {
		return nil
	}

	now := time.Now().UTC()
	admin := newSeedUser("Almaz Worku", "+251911000001", "almaz@goldendigital.example", domain.RoleAdmin, "0", "50000", now)
	abebe := newSeedUser("Abebe Bekele", "+251911000002", "abebe@example.com", domain.RoleUser, "12.5", "15000", now)
	sara := newSeedUser("Sara Tesfaye", "+251911000003", "sara@example.com", domain.RoleUser, "3.75", "8200", now)
	daniel := newSeedUser("Daniel Haile", "+251911000004", "daniel@example.com", domain.RoleUser, "0", "30000", now)

	// Sara joined through Abebe's referral link.
	sara.ReferredBy = abebe.UserID

	err := store.Update(ctx, func(s *Snapshot) error {
		for _, u := range []domain.User{admin, abebe, sara, daniel} {
			s.Users[u.UserID] = u
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("Seeded demo identities", slog.Int("count", 4))
	return nil
}

func newSeedUser(name, phone, email string, role domain.UserRole, grams, etb string, now time.Time) domain.User {
	code, err := utils.GenerateReferralCode()
	if err != nil {
		code = "GOLD-SEED"
	}
	id := uuid.NewString()
	return domain.User{
		UserID:          id,
		Name:            name,
		Phone:           phone,
		Email:           email,
		Role:            role,
		GoldBalance:     decimal.RequireFromString(grams),
		ETBBalance:      decimal.RequireFromString(etb),
		GuaranteedGrams: decimal.Zero,
		ReferralCode:    code,
		JoinDate:        now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     id,
			LastUpdatedAt: now,
			LastUpdatedBy: id,
		},
	}
}
