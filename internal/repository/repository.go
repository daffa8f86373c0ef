package repository

import (
	"time"

	"github.com/aoigj100a/todo-fullstack-sub000/internal/models"
)

// CompletionSpan is the creation/completion pair of a completed task. The
// statistics functions bucket these in memory so the same queries behave
// identically on MySQL and the SQLite test store.
type CompletionSpan struct {
	CreatedAt   time.Time
	CompletedAt time.Time
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	Status *models.TaskStatus
	Limit  int
	Offset int
}

// TaskRepository defines the interface for task data access. The statistics
// engine depends only on the narrow query methods below, keeping the
// aggregation logic store-agnostic.
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID
	FindByID(id string) (*models.Task, error)

	// List retrieves tasks ordered by creation time descending
	List(filter TaskFilter) ([]models.Task, error)

	// Update persists all fields of a task in a single write
	Update(task *models.Task) error

	// Delete removes a task permanently
	Delete(id string) error

	// CountByStatus counts tasks grouped by status
	CountByStatus() (map[models.TaskStatus]int64, error)

	// CompletionSpans returns creation/completion pairs of completed tasks.
	// A nil bound leaves that side of the range open.
	CompletionSpans(from, to *time.Time) ([]CompletionSpan, error)

	// CreatedTimesBetween returns creation instants of tasks created in
	// [from, to]
	CreatedTimesBetween(from, to time.Time) ([]time.Time, error)

	// CountCreatedSince counts tasks created at or after t
	CountCreatedSince(t time.Time) (int64, error)

	// CountCompletedSince counts tasks completed at or after t
	CountCompletedSince(t time.Time) (int64, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)
}
