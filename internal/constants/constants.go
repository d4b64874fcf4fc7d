package constants

// Context keys
const (
	ContextKeyUserID   = "user_id"
	ContextKeyUserRole = "user_role"
)

// Validation limits
const (
	MinPasswordLength    = 8
	MaxNameLength        = 100
	MaxTaskLength        = 200
	MinReviewNotesLength = 4
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)
