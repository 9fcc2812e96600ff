package repository

import (
	"time"

	"github.com/hmuro/productivity-tracker/internal/models"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Update persists all fields of a task
	Update(task *models.Task) error

	// Delete soft deletes a task and its comments
	Delete(id uint64) error

	// AddComment appends a comment to a task
	AddComment(comment *models.TaskComment) error

	// UpdateStatus conditionally moves a task from one status to
	// another in a single atomic statement. It reports whether the row
	// actually changed, which is false when a concurrent update already
	// moved the task out of the expected status.
	UpdateStatus(id uint64, from, to models.TaskStatus, completedAt *time.Time) (bool, error)

	// Counting primitives for the analytics aggregator
	CountAll() (int64, error)
	CountByStatus(status models.TaskStatus) (int64, error)
	CountOverdue(now time.Time) (int64, error)
	CountByPriority() (map[models.TaskPriority]int64, error)
	CountByAssignee(userID uint64) (int64, error)
	CountByAssigneeAndStatus(userID uint64, status models.TaskStatus) (int64, error)
	CountOnTime(userID uint64) (int64, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	Status       *models.TaskStatus
	Priority     *models.TaskPriority
	AssignedToID *uint64
	Page         int
	PageSize     int
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// List lists all users
	List() ([]models.User, error)

	// ListByRole lists users with the given role
	ListByRole(role models.Role) ([]models.User, error)

	// CountByRole counts users with the given role
	CountByRole(role models.Role) (int64, error)

	// Update persists all fields of a user
	Update(user *models.User) error

	// Delete soft deletes a user
	Delete(id uint64) error

	// IncrementTasksCompleted adds one to the user's completion counter
	IncrementTasksCompleted(id uint64) error

	// SetProductivityScore overwrites the cached productivity score
	SetProductivityScore(id uint64, score float64) error
}
