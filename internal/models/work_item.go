package models

import (
	"time"
)

type WorkItemStatus string

const (
	StatusPending   WorkItemStatus = "pending"
	StatusSubmitted WorkItemStatus = "submitted"
	StatusApproved  WorkItemStatus = "approved"
	StatusRejected  WorkItemStatus = "rejected"
)

// IsValid reports whether the status is one of the enumerated values.
func (s WorkItemStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusSubmitted, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// WorkItem rows are hard-deleted; review transitions must see the current row,
// so there is no soft-delete column.
type WorkItem struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	WorkerID     uint64         `gorm:"not null;index" json:"worker_id"`
	Task         string         `gorm:"type:varchar(200);not null" json:"task"`
	Description  string         `gorm:"type:text" json:"description"`
	Instructions string         `gorm:"type:text;not null" json:"instructions"`
	Deadline     time.Time      `gorm:"not null" json:"deadline"`
	Status       WorkItemStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	AssignedAt   time.Time      `gorm:"not null;index" json:"assigned_at"`
	SubmittedAt  *time.Time     `json:"submitted_at"`
	ReviewedAt   *time.Time     `json:"reviewed_at"`
	Explanation  *string        `gorm:"type:text" json:"explanation"`
	WorkLink     *string        `gorm:"type:varchar(2048)" json:"work_link"`
	ReviewNotes  *string        `gorm:"type:text" json:"review_notes"`
	AssignedByID uint64         `gorm:"not null;index" json:"assigned_by_id"`
	ReviewedByID *uint64        `json:"reviewed_by_id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`

	// Relations
	Worker     User  `gorm:"foreignKey:WorkerID" json:"worker,omitempty"`
	AssignedBy User  `gorm:"foreignKey:AssignedByID" json:"assigned_by,omitempty"`
	ReviewedBy *User `gorm:"foreignKey:ReviewedByID" json:"reviewed_by,omitempty"`
}

// IsOverdue reports whether the item's deadline has passed while work is still
// outstanding. Derived at read time, never stored.
func (w *WorkItem) IsOverdue(now time.Time) bool {
	if w.Status != StatusPending && w.Status != StatusRejected {
		return false
	}
	return w.Deadline.Before(now)
}
