package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/hmuro/productivity-tracker/internal/database"
	"github.com/hmuro/productivity-tracker/internal/models"
	"github.com/hmuro/productivity-tracker/internal/utils"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves tasks with filtering and pagination, newest first
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{})

	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("tasks.priority = ?", *filter.Priority)
	}
	if filter.AssignedToID != nil {
		query = query.Where("tasks.assigned_to_id = ?", *filter.AssignedToID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("tasks.created_at DESC")

	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.PaginationParams{
			Page:   filter.Page,
			Limit:  filter.PageSize,
			Offset: (filter.Page - 1) * filter.PageSize,
		}))
	}

	if err := listQuery.Preload("AssignedTo").Preload("AssignedBy").Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update persists all fields of a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete soft deletes a task and its comments
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskComment{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Task{}, id).Error
	})
}

// AddComment appends a comment to a task
func (r *GormTaskRepository) AddComment(comment *models.TaskComment) error {
	return r.db.Create(comment).Error
}

// UpdateStatus conditionally moves a task between statuses. The WHERE
// clause on the current status makes the read-modify-write atomic: of
// two concurrent updates on the same task, only one can match.
func (r *GormTaskRepository) UpdateStatus(id uint64, from, to models.TaskStatus, completedAt *time.Time) (bool, error) {
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": time.Now(),
	}
	if completedAt != nil {
		updates["completed_at"] = *completedAt
	}

	res := r.db.Model(&models.Task{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected > 0, nil
}

// CountAll counts all tasks
func (r *GormTaskRepository) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).Count(&count).Error
	return count, err
}

// CountByStatus counts tasks with the given status
func (r *GormTaskRepository) CountByStatus(status models.TaskStatus) (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// CountOverdue counts non-completed tasks past their due date
func (r *GormTaskRepository) CountOverdue(now time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).
		Where("status <> ? AND due_date < ?", models.TaskStatusCompleted, now).
		Count(&count).Error
	return count, err
}

// CountByPriority counts tasks grouped by priority
func (r *GormTaskRepository) CountByPriority() (map[models.TaskPriority]int64, error) {
	type row struct {
		Priority models.TaskPriority
		Count    int64
	}

	var rows []row
	err := r.db.Model(&models.Task{}).
		Select("priority, COUNT(*) AS count").
		Group("priority").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.TaskPriority]int64, len(rows))
	for _, r := range rows {
		counts[r.Priority] = r.Count
	}

	return counts, nil
}

// CountByAssignee counts tasks assigned to a user
func (r *GormTaskRepository) CountByAssignee(userID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).Where("assigned_to_id = ?", userID).Count(&count).Error
	return count, err
}

// CountByAssigneeAndStatus counts tasks assigned to a user with the given status
func (r *GormTaskRepository) CountByAssigneeAndStatus(userID uint64, status models.TaskStatus) (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).
		Where("assigned_to_id = ? AND status = ?", userID, status).
		Count(&count).Error
	return count, err
}

// CountOnTime counts a user's completed tasks finished on or before the due date
func (r *GormTaskRepository) CountOnTime(userID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).
		Where("assigned_to_id = ? AND status = ? AND completed_at <= due_date",
			userID, models.TaskStatusCompleted).
		Count(&count).Error
	return count, err
}
