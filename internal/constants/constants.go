package constants

// Validation limits
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 1000
	MaxAssigneeLength    = 100
	MinPasswordLength    = 8
)

// ContextKeyUserID is the gin context key holding the authenticated user ID.
const ContextKeyUserID = "user_id"

// TaskIDLength is the length of task/user identifiers (hex-encoded).
const TaskIDLength = 24

// DefaultListLimit bounds list responses when the caller supplies no limit.
// Zero means unbounded, matching the base contract.
const DefaultListLimit = 0
