package models

import (
	"time"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleWorker Role = "worker"
)

// IsValid reports whether the role is one of the enumerated values.
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleWorker
}

type User struct {
	ID                   uint64     `gorm:"primarykey" json:"id"`
	Name                 string     `gorm:"type:varchar(100);not null" json:"name"`
	Email                string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash         string     `gorm:"type:varchar(255);not null" json:"-"`
	Role                 Role       `gorm:"type:varchar(20);not null" json:"role"`
	IsActive             bool       `gorm:"not null;default:true" json:"is_active"`
	LastLoginAt          *time.Time `json:"last_login_at"`
	CalendarAccessToken  *string    `gorm:"type:varchar(512)" json:"-"`
	CalendarRefreshToken *string    `gorm:"type:varchar(512)" json:"-"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`

	// Relations
	AssignedItems []WorkItem `gorm:"foreignKey:WorkerID" json:"-"`
	CreatedItems  []WorkItem `gorm:"foreignKey:AssignedByID" json:"-"`
}

// HasCalendarLinked reports whether the user has stored calendar credentials.
func (u *User) HasCalendarLinked() bool {
	return u.CalendarAccessToken != nil && *u.CalendarAccessToken != ""
}
