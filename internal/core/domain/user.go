package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// UserRole distinguishes regular customers from approval-console admins.
type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// User represents a seeded identity with its gold and birr balances.
// Balances are mutated only by the ledger service and never go negative:
// every debit is validated before it is applied.
type User struct {
	UserID string   `json:"userID"` // Primary key (UUID)
	Name   string   `json:"name"`
	Phone  string   `json:"phone"`
	Email  string   `json:"email"`
	Role   UserRole `json:"role"`

	GoldBalance     decimal.Decimal `json:"goldBalance"`     // grams, >= 0
	ETBBalance      decimal.Decimal `json:"etbBalance"`      // birr, >= 0
	GuaranteedGrams decimal.Decimal `json:"guaranteedGrams"` // grams pledged for a third party's loan

	ReferralCode string    `json:"referralCode"`
	ReferredBy   string    `json:"referredBy,omitempty"` // UserID of the referrer, if any
	JoinDate     time.Time `json:"joinDate"`

	AuditFields
}

// IsAdmin reports whether the user may use the approval console.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
