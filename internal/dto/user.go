package dto

import (
	"time"

	"github.com/yukikurage/work-assignment-api/internal/models"
)

// UserDTO represents a user in API responses. The password hash and calendar
// credentials are never projected.
type UserDTO struct {
	ID             uint64      `json:"id"`
	Name           string      `json:"name"`
	Email          string      `json:"email"`
	Role           models.Role `json:"role"`
	IsActive       bool        `json:"is_active"`
	LastLoginAt    *time.Time  `json:"last_login_at"`
	CalendarLinked bool        `json:"calendar_linked"`
	CreatedAt      time.Time   `json:"created_at"`
}

// UserSummaryDTO is the identity summary embedded in work item projections.
type UserSummaryDTO struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		Role:           user.Role,
		IsActive:       user.IsActive,
		LastLoginAt:    user.LastLoginAt,
		CalendarLinked: user.HasCalendarLinked(),
		CreatedAt:      user.CreatedAt,
	}
}

// ToUserSummaryDTO converts a User model to UserSummaryDTO
func ToUserSummaryDTO(user models.User) UserSummaryDTO {
	return UserSummaryDTO{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}
}
