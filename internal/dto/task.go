package dto

import (
	"time"

	"github.com/hmuro/productivity-tracker/internal/models"
	"github.com/hmuro/productivity-tracker/internal/utils"
)

// CommentDTO represents a task comment in API responses. The author is
// resolved through its weak reference; a deleted author leaves the
// field empty.
type CommentDTO struct {
	ID        uint64      `json:"id"`
	AuthorID  uint64      `json:"author_id"`
	Author    *UserRefDTO `json:"author,omitempty"`
	Text      string      `json:"text"`
	CreatedAt time.Time   `json:"created_at"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID             uint64              `json:"id"`
	Title          string              `json:"title"`
	Description    string              `json:"description"`
	Status         models.TaskStatus   `json:"status"`
	Priority       models.TaskPriority `json:"priority"`
	AssignedToID   uint64              `json:"assigned_to_id"`
	AssignedByID   uint64              `json:"assigned_by_id"`
	AssignedTo     *UserRefDTO         `json:"assigned_to,omitempty"`
	AssignedBy     *UserRefDTO         `json:"assigned_by,omitempty"`
	DueDate        time.Time           `json:"due_date"`
	CompletedAt    *time.Time          `json:"completed_at"`
	EstimatedHours float64             `json:"estimated_hours"`
	ActualHours    float64             `json:"actual_hours"`
	Tags           []string            `json:"tags"`
	Comments       []CommentDTO        `json:"comments,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO                `json:"tasks"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToCommentDTO converts a TaskComment model to CommentDTO
func ToCommentDTO(comment models.TaskComment) CommentDTO {
	dto := CommentDTO{
		ID:        comment.ID,
		AuthorID:  comment.AuthorID,
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt,
	}

	if comment.Author.ID != 0 {
		author := ToUserRefDTO(comment.Author)
		dto.Author = &author
	}

	return dto
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:             task.ID,
		Title:          task.Title,
		Description:    task.Description,
		Status:         task.Status,
		Priority:       task.Priority,
		AssignedToID:   task.AssignedToID,
		AssignedByID:   task.AssignedByID,
		DueDate:        task.DueDate,
		CompletedAt:    task.CompletedAt,
		EstimatedHours: task.EstimatedHours,
		ActualHours:    task.ActualHours,
		Tags:           task.Tags,
		CreatedAt:      task.CreatedAt,
		UpdatedAt:      task.UpdatedAt,
	}

	if task.AssignedTo.ID != 0 {
		assignedTo := ToUserRefDTO(task.AssignedTo)
		dto.AssignedTo = &assignedTo
	}
	if task.AssignedBy.ID != 0 {
		assignedBy := ToUserRefDTO(task.AssignedBy)
		dto.AssignedBy = &assignedBy
	}

	if len(task.Comments) > 0 {
		dto.Comments = make([]CommentDTO, len(task.Comments))
		for i, comment := range task.Comments {
			dto.Comments[i] = ToCommentDTO(comment)
		}
	}

	return dto
}

// ToTaskListResponse converts a slice of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, pagination utils.PaginationResponse) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}

	return TaskListResponse{
		Tasks:      items,
		Pagination: pagination,
	}
}
