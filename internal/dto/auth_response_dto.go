package dto

import "time"

// LoginRequest selects one of the seeded identities. No credentials: this is
// a demo, authentication is picking a user.
type LoginRequest struct {
	UserID string `json:"userID" binding:"required"`
}

// LoginResponse represents the response for a successful login.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}
