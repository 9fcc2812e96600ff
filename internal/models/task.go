package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

// statusTransitions lists the permitted moves of the task state
// machine. completed and cancelled are terminal and have no entry.
var statusTransitions = map[TaskStatus][]TaskStatus{
	TaskStatusPending:    {TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled},
	TaskStatusInProgress: {TaskStatusCompleted, TaskStatusCancelled},
}

// CanTransitionTo reports whether the state machine permits moving
// from s to next. Re-setting the same status is not a transition and
// is handled by the caller as a no-op.
func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are permitted.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusCancelled
}

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled:
		return true
	}
	return false
}

func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	}
	return false
}

type Task struct {
	ID          uint64 `gorm:"primarykey" json:"id"`
	Title       string `gorm:"type:varchar(255);not null" json:"title"`
	Description string `gorm:"type:text;not null" json:"description"`

	AssignedToID uint64 `gorm:"not null" json:"assigned_to_id"`
	AssignedByID uint64 `gorm:"not null" json:"assigned_by_id"`

	Status   TaskStatus   `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Priority TaskPriority `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`

	DueDate time.Time `gorm:"not null" json:"due_date"`

	// CompletedAt is set exactly when the task enters the completed
	// state and never afterwards.
	CompletedAt *time.Time `json:"completed_at"`

	EstimatedHours float64  `json:"estimated_hours"`
	ActualHours    float64  `json:"actual_hours"`
	Tags           []string `gorm:"serializer:json" json:"tags"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	AssignedTo User          `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
	AssignedBy User          `gorm:"foreignKey:AssignedByID" json:"assigned_by,omitempty"`
	Comments   []TaskComment `gorm:"foreignKey:TaskID" json:"comments,omitempty"`
}
