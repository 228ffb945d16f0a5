package dto

import (
	"time"

	"github.com/goldenlabs/golden_gold_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// UserResponse defines the data returned for a user, balances included.
type UserResponse struct {
	UserID          string          `json:"userID"`
	Name            string          `json:"name"`
	Phone           string          `json:"phone"`
	Email           string          `json:"email"`
	Role            domain.UserRole `json:"role"`
	GoldBalance     decimal.Decimal `json:"goldBalance"`
	ETBBalance      decimal.Decimal `json:"etbBalance"`
	GuaranteedGrams decimal.Decimal `json:"guaranteedGrams"`
	ReferralCode    string          `json:"referralCode"`
	JoinDate        time.Time       `json:"joinDate"`
}

// IdentityResponse is the minimal identity card shown on the login picker.
// It deliberately omits balances.
type IdentityResponse struct {
	UserID string          `json:"userID"`
	Name   string          `json:"name"`
	Email  string          `json:"email"`
	Role   domain.UserRole `json:"role"`
}

// ListUsersResponse wraps the list of users.
type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
}

// ListIdentitiesResponse wraps the login picker entries.
type ListIdentitiesResponse struct {
	Identities []IdentityResponse `json:"identities"`
}

// ToUserResponse converts a domain.User to UserResponse DTO
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:          u.UserID,
		Name:            u.Name,
		Phone:           u.Phone,
		Email:           u.Email,
		Role:            u.Role,
		GoldBalance:     u.GoldBalance,
		ETBBalance:      u.ETBBalance,
		GuaranteedGrams: u.GuaranteedGrams,
		ReferralCode:    u.ReferralCode,
		JoinDate:        u.JoinDate,
	}
}

// ToListUsersResponse converts a slice of domain.User to ListUsersResponse DTO
func ToListUsersResponse(users []domain.User) ListUsersResponse {
	userResponses := make([]UserResponse, len(users))
	for i, user := range users {
		userResponses[i] = ToUserResponse(&user)
	}
	return ListUsersResponse{Users: userResponses}
}

// ToIdentityResponse converts a domain.User to IdentityResponse DTO
func ToIdentityResponse(u *domain.User) IdentityResponse {
	return IdentityResponse{
		UserID: u.UserID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   u.Role,
	}
}

// ToListIdentitiesResponse converts a slice of domain.User to the picker DTO
func ToListIdentitiesResponse(users []domain.User) ListIdentitiesResponse {
	identities := make([]IdentityResponse, len(users))
	for i, user := range users {
		identities[i] = ToIdentityResponse(&user)
	}
	return ListIdentitiesResponse{Identities: identities}
}
