package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/lifeos/backend/internal/domain/identity"
)

// UpdateSettingsRequest replaces the user's settings blob
type UpdateSettingsRequest struct {
	Settings string `json:"settings" binding:"required"`
}

// UserResponse represents the current user in API responses
type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Admin       bool      `json:"admin"`
	Settings    string    `json:"settings"`
	LastSeenAt  time.Time `json:"last_seen_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToUserResponse converts a domain User to UserResponse
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Admin:       u.Admin,
		Settings:    u.Settings,
		LastSeenAt:  u.LastSeenAt,
		CreatedAt:   u.CreatedAt,
	}
}
