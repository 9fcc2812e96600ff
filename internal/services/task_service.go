package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/hmuro/productivity-tracker/internal/authz"
	"github.com/hmuro/productivity-tracker/internal/metrics"
	"github.com/hmuro/productivity-tracker/internal/models"
	"github.com/hmuro/productivity-tracker/internal/repository"
)

// taskDetailPreloads loads everything a single-task response needs,
// including comment authors resolved through their weak references.
var taskDetailPreloads = []string{"AssignedTo", "AssignedBy", "Comments", "Comments.Author"}

// TaskService is the task lifecycle manager. All task mutations go
// through it; nothing else writes task rows or the completion counter.
type TaskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title          string
	Description    string
	AssignedToID   uint64
	DueDate        time.Time
	Priority       models.TaskPriority
	EstimatedHours float64
	Tags           []string
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	Status       *models.TaskStatus
	Priority     *models.TaskPriority
	AssignedToID *uint64
	Page         int
	PageSize     int
}

// UpdateTaskInput represents a partial task update. Nil fields are
// left untouched.
type UpdateTaskInput struct {
	Title          *string
	Description    *string
	Status         *models.TaskStatus
	Priority       *models.TaskPriority
	AssignedToID   *uint64
	DueDate        *time.Time
	EstimatedHours *float64
	ActualHours    *float64
	Tags           []string
}

// touchesNonStatusFields reports whether the update writes anything
// beyond the status column.
func (in UpdateTaskInput) touchesNonStatusFields() bool {
	return in.Title != nil ||
		in.Description != nil ||
		in.Priority != nil ||
		in.AssignedToID != nil ||
		in.DueDate != nil ||
		in.EstimatedHours != nil ||
		in.ActualHours != nil ||
		in.Tags != nil
}

// CreateTask creates a new task assigned by the acting principal.
// Admin only.
func (s *TaskService) CreateTask(p authz.Principal, input CreateTaskInput) (*models.Task, error) {
	if decision := authz.CanPerform(p, authz.ActionCreateTask, 0); !decision.Allowed {
		return nil, ErrPermissionDenied
	}

	if strings.TrimSpace(input.Title) == "" {
		return nil, &ValidationError{Field: "title", Message: "title is required"}
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, &ValidationError{Field: "description", Message: "description is required"}
	}
	if input.AssignedToID == 0 {
		return nil, &ValidationError{Field: "assigned_to", Message: "task must be assigned to a user"}
	}
	if input.DueDate.IsZero() {
		return nil, &ValidationError{Field: "due_date", Message: "due date is required"}
	}
	if input.EstimatedHours < 0 {
		return nil, &ValidationError{Field: "estimated_hours", Message: "estimated hours cannot be negative"}
	}

	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}
	if !input.Priority.Valid() {
		return nil, &ValidationError{Field: "priority", Message: "unknown priority: " + string(input.Priority)}
	}

	assignee, err := s.userRepo.FindByID(input.AssignedToID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ValidationError{Field: "assigned_to", Message: "assigned user does not exist"}
		}
		return nil, fmt.Errorf("failed to verify assignee: %w", err)
	}
	if !assignee.IsActive {
		return nil, &ValidationError{Field: "assigned_to", Message: "assigned user is not active"}
	}

	task := &models.Task{
		Title:          input.Title,
		Description:    input.Description,
		AssignedToID:   input.AssignedToID,
		AssignedByID:   p.ID,
		Status:         models.TaskStatusPending,
		Priority:       input.Priority,
		DueDate:        input.DueDate,
		EstimatedHours: input.EstimatedHours,
		Tags:           input.Tags,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	metrics.TaskCreated(string(task.Status), string(task.Priority))
	log.Info().
		Uint64("task_id", task.ID).
		Uint64("assigned_to", task.AssignedToID).
		Uint64("assigned_by", p.ID).
		Msg("task created")

	return s.taskRepo.FindByID(task.ID, "AssignedTo", "AssignedBy")
}

// ListTasks returns tasks visible to the principal. Employees are
// always scoped to their own assignments regardless of the filter.
func (s *TaskService) ListTasks(p authz.Principal, input ListTasksInput) ([]models.Task, int64, error) {
	if decision := authz.CanPerform(p, authz.ActionListTasks, p.ID); !decision.Allowed {
		return nil, 0, ErrPermissionDenied
	}

	filter := repository.TaskFilter{
		Status:   input.Status,
		Priority: input.Priority,
		Page:     input.Page,
		PageSize: input.PageSize,
	}

	if p.IsAdmin() {
		filter.AssignedToID = input.AssignedToID
	} else {
		filter.AssignedToID = &p.ID
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// GetTask returns a task with related data. Employees may only read
// their own assignments; a task that exists but belongs to someone
// else is reported as a permission failure, not as missing.
func (s *TaskService) GetTask(p authz.Principal, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, taskDetailPreloads...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if decision := authz.CanPerform(p, authz.ActionReadTask, task.AssignedToID); !decision.Allowed {
		return nil, ErrPermissionDenied
	}

	return task, nil
}

// UpdateTask applies a partial update. Status changes go through the
// lifecycle state machine; admins may touch any field, an owning
// employee only the status.
func (s *TaskService) UpdateTask(p authz.Principal, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if input.touchesNonStatusFields() {
		if decision := authz.CanPerform(p, authz.ActionUpdateTaskFields, task.AssignedToID); !decision.Allowed {
			return nil, ErrPermissionDenied
		}
	}
	if input.Status != nil {
		if decision := authz.CanPerform(p, authz.ActionUpdateTaskStatus, task.AssignedToID); !decision.Allowed {
			return nil, ErrPermissionDenied
		}
	}

	// Field inputs are validated before the transition commits, so a
	// request mixing a valid status change with a bad field fails
	// without mutating anything.
	if err := s.validateFieldUpdates(input); err != nil {
		return nil, err
	}

	if input.Status != nil && *input.Status != task.Status {
		if err := s.transition(task, *input.Status); err != nil {
			return nil, err
		}
	}

	if err := s.applyFieldUpdates(task, input); err != nil {
		return nil, err
	}

	log.Info().Uint64("task_id", task.ID).Str("status", string(task.Status)).Msg("task updated")

	return s.taskRepo.FindByID(task.ID, taskDetailPreloads...)
}

// transition moves the task to the requested status via an atomic
// conditional update and applies the completion side effects exactly
// once per completion event.
func (s *TaskService) transition(task *models.Task, next models.TaskStatus) error {
	if !next.Valid() {
		return &ValidationError{Field: "status", Message: "unknown status: " + string(next)}
	}
	if task.Status.IsTerminal() || !task.Status.CanTransitionTo(next) {
		return &InvalidTransitionError{From: task.Status, To: next}
	}

	var completedAt *time.Time
	if next == models.TaskStatusCompleted {
		now := time.Now()
		completedAt = &now
	}

	changed, err := s.taskRepo.UpdateStatus(task.ID, task.Status, next, completedAt)
	if err != nil {
		return fmt.Errorf("failed to update task status: %w", err)
	}
	if !changed {
		// A concurrent update moved the task out of the expected
		// status. Re-read and report against the fresh state: reaching
		// the requested status some other way is a no-op, anything
		// else is an invalid transition.
		fresh, err := s.taskRepo.FindByID(task.ID)
		if err != nil {
			return fmt.Errorf("failed to reload task: %w", err)
		}
		*task = *fresh
		if task.Status == next {
			return nil
		}
		return &InvalidTransitionError{From: task.Status, To: next}
	}

	task.Status = next
	task.CompletedAt = completedAt

	if next == models.TaskStatusCompleted {
		// The increment rides on the conditional update having
		// actually changed the row, which makes retried complete
		// requests increment at most once.
		if err := s.userRepo.IncrementTasksCompleted(task.AssignedToID); err != nil {
			return fmt.Errorf("failed to increment completion counter: %w", err)
		}
		metrics.TaskCompleted()
		log.Info().
			Uint64("task_id", task.ID).
			Uint64("assigned_to", task.AssignedToID).
			Msg("task completed")
	}

	return nil
}

// validateFieldUpdates checks the non-status fields of a partial
// update before anything is written.
func (s *TaskService) validateFieldUpdates(input UpdateTaskInput) error {
	if !input.touchesNonStatusFields() {
		return nil
	}

	if input.Title != nil && strings.TrimSpace(*input.Title) == "" {
		return &ValidationError{Field: "title", Message: "title cannot be empty"}
	}
	if input.Description != nil && strings.TrimSpace(*input.Description) == "" {
		return &ValidationError{Field: "description", Message: "description cannot be empty"}
	}
	if input.Priority != nil && !input.Priority.Valid() {
		return &ValidationError{Field: "priority", Message: "unknown priority: " + string(*input.Priority)}
	}
	if input.AssignedToID != nil {
		assignee, err := s.userRepo.FindByID(*input.AssignedToID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &ValidationError{Field: "assigned_to", Message: "assigned user does not exist"}
			}
			return fmt.Errorf("failed to verify assignee: %w", err)
		}
		if !assignee.IsActive {
			return &ValidationError{Field: "assigned_to", Message: "assigned user is not active"}
		}
	}
	if input.EstimatedHours != nil && *input.EstimatedHours < 0 {
		return &ValidationError{Field: "estimated_hours", Message: "estimated hours cannot be negative"}
	}
	if input.ActualHours != nil && *input.ActualHours < 0 {
		return &ValidationError{Field: "actual_hours", Message: "actual hours cannot be negative"}
	}

	return nil
}

// applyFieldUpdates writes the already-validated non-status fields of
// a partial update.
func (s *TaskService) applyFieldUpdates(task *models.Task, input UpdateTaskInput) error {
	if !input.touchesNonStatusFields() {
		return nil
	}

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.AssignedToID != nil {
		task.AssignedToID = *input.AssignedToID
	}
	if input.DueDate != nil {
		task.DueDate = *input.DueDate
	}
	if input.EstimatedHours != nil {
		task.EstimatedHours = *input.EstimatedHours
	}
	if input.ActualHours != nil {
		task.ActualHours = *input.ActualHours
	}
	if input.Tags != nil {
		task.Tags = input.Tags
	}

	if err := s.taskRepo.Update(task); err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	return nil
}

// DeleteTask removes a task. Admin only. A completed task's earlier
// contribution to the assignee's completion counter is kept: the
// counter is an audit signal, not a recomputed aggregate.
func (s *TaskService) DeleteTask(p authz.Principal, taskID uint64) error {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if decision := authz.CanPerform(p, authz.ActionDeleteTask, task.AssignedToID); !decision.Allowed {
		return ErrPermissionDenied
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	log.Info().Uint64("task_id", taskID).Str("title", task.Title).Msg("task deleted")

	return nil
}

// AddComment appends a comment authored by the principal. Prior
// comments are never modified.
func (s *TaskService) AddComment(p authz.Principal, taskID uint64, text string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if decision := authz.CanPerform(p, authz.ActionCommentTask, task.AssignedToID); !decision.Allowed {
		return nil, ErrPermissionDenied
	}

	if strings.TrimSpace(text) == "" {
		return nil, &ValidationError{Field: "text", Message: "comment text is required"}
	}

	comment := &models.TaskComment{
		TaskID:   task.ID,
		AuthorID: p.ID,
		Text:     text,
	}

	if err := s.taskRepo.AddComment(comment); err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, taskDetailPreloads...)
}
