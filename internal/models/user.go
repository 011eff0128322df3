package models

import (
	"time"

	"github.com/google/uuid"
)

// Role constants
const (
	RoleUser      = "USER"
	RoleModerator = "MODERATOR"
	RoleAdmin     = "ADMIN"
)

// User represents a reviewer or member authenticated via OIDC.
type User struct {
	ID        uuid.UUID `json:"id"`
	Sub       string    `json:"sub"`      // OIDC subject identifier
	Username  string    `json:"username"` // Community handle, used for follow/profile routes
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"` // USER, MODERATOR, ADMIN
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAdmin returns true if the user holds the ADMIN capability.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// CanReview returns true if the user may act on moderation requests.
func (u *User) CanReview() bool {
	return u != nil && (u.Role == RoleModerator || u.Role == RoleAdmin)
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}
