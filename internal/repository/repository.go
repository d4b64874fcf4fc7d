package repository

import (
	"github.com/yukikurage/work-assignment-api/internal/models"
)

// WorkItemRepository defines the interface for work item data access
type WorkItemRepository interface {
	// Create creates a new work item
	Create(item *models.WorkItem) error

	// FindByID finds a work item by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.WorkItem, error)

	// List retrieves work items with filtering and pagination,
	// most recently assigned first
	List(filter WorkItemFilter) ([]models.WorkItem, int64, error)

	// Update persists the full item state as a single-row write
	Update(item *models.WorkItem) error

	// Delete hard deletes a work item
	Delete(id uint64) error

	// Count counts work items matching the filter
	Count(filter WorkItemFilter) (int64, error)

	// CountByStatus returns item counts grouped by status
	CountByStatus() (map[models.WorkItemStatus]int64, error)
}

// WorkItemFilter holds filtering options for listing work items
type WorkItemFilter struct {
	WorkerID     *uint64
	Status       *models.WorkItemStatus
	AssignedByID *uint64
	Page         int
	PageSize     int
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by normalized email
	FindByEmail(email string) (*models.User, error)

	// List retrieves users with optional role/active filtering
	List(filter UserFilter) ([]models.User, error)

	// Update persists the user state
	Update(user *models.User) error

	// Delete deletes a user and, in the same transaction,
	// the work items assigned to them
	Delete(id uint64) error

	// CountByRole counts users with the given role
	CountByRole(role models.Role) (int64, error)
}

// UserFilter holds filtering options for listing users
type UserFilter struct {
	Role     *models.Role
	IsActive *bool
}
