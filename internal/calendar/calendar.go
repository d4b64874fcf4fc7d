package calendar

import (
	"context"

	"github.com/yukikurage/work-assignment-api/internal/models"
)

// Calendar creates a deadline event in the user's external calendar.
// Implementations must be best-effort: no-op when the user has no linked
// credentials, and never required for a transition to succeed.
type Calendar interface {
	CreateEvent(ctx context.Context, user *models.User, item *models.WorkItem) error
}

// NoopCalendar is selected when the calendar integration is not configured.
type NoopCalendar struct{}

func NewNoopCalendar() *NoopCalendar {
	return &NoopCalendar{}
}

func (n *NoopCalendar) CreateEvent(ctx context.Context, user *models.User, item *models.WorkItem) error {
	return nil
}
