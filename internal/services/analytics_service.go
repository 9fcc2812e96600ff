package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/hmuro/productivity-tracker/internal/authz"
	"github.com/hmuro/productivity-tracker/internal/metrics"
	"github.com/hmuro/productivity-tracker/internal/models"
	"github.com/hmuro/productivity-tracker/internal/repository"
)

// Weights of the productivity score components.
const (
	completionWeight = 0.6
	onTimeWeight     = 0.4
)

// AnalyticsService derives point-in-time metrics from the task and
// user stores. It is read-only except for the productivity score
// write-through cache. All rates it returns are unrounded; rounding
// to two decimals happens at the DTO boundary.
type AnalyticsService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(taskRepo repository.TaskRepository, userRepo repository.UserRepository) *AnalyticsService {
	return &AnalyticsService{
		taskRepo: taskRepo,
		userRepo: userRepo,
	}
}

// DashboardMetrics aggregates task counts across the whole store.
type DashboardMetrics struct {
	TotalUsers      int64
	TotalTasks      int64
	CompletedTasks  int64
	PendingTasks    int64
	InProgressTasks int64
	OverdueTasks    int64
	CompletionRate  float64
	TasksByPriority map[models.TaskPriority]int64
}

// EmployeePerformance holds the per-employee scoring inputs and the
// resulting productivity score.
type EmployeePerformance struct {
	User              *models.User
	TotalTasks        int64
	CompletedTasks    int64
	PendingTasks      int64
	OnTimeTasks       int64
	CompletionRate    float64
	OnTimeRate        float64
	ProductivityScore float64
}

// TeamMetrics lists all employees with their cached scores.
type TeamMetrics struct {
	Employees           []models.User
	AverageProductivity float64
	TotalEmployees      int
}

// GetDashboard computes the admin dashboard metrics.
func (s *AnalyticsService) GetDashboard(p authz.Principal) (*DashboardMetrics, error) {
	if decision := authz.CanPerform(p, authz.ActionViewDashboard, 0); !decision.Allowed {
		return nil, ErrPermissionDenied
	}

	m := &DashboardMetrics{}

	var err error
	if m.TotalUsers, err = s.userRepo.CountByRole(models.RoleEmployee); err != nil {
		return nil, fmt.Errorf("failed to count employees: %w", err)
	}
	if m.TotalTasks, err = s.taskRepo.CountAll(); err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}
	if m.CompletedTasks, err = s.taskRepo.CountByStatus(models.TaskStatusCompleted); err != nil {
		return nil, fmt.Errorf("failed to count completed tasks: %w", err)
	}
	if m.PendingTasks, err = s.taskRepo.CountByStatus(models.TaskStatusPending); err != nil {
		return nil, fmt.Errorf("failed to count pending tasks: %w", err)
	}
	if m.InProgressTasks, err = s.taskRepo.CountByStatus(models.TaskStatusInProgress); err != nil {
		return nil, fmt.Errorf("failed to count in-progress tasks: %w", err)
	}
	if m.OverdueTasks, err = s.taskRepo.CountOverdue(time.Now()); err != nil {
		return nil, fmt.Errorf("failed to count overdue tasks: %w", err)
	}
	if m.TasksByPriority, err = s.taskRepo.CountByPriority(); err != nil {
		return nil, fmt.Errorf("failed to count tasks by priority: %w", err)
	}

	m.CompletionRate = rate(m.CompletedTasks, m.TotalTasks)

	return m, nil
}

// GetEmployeePerformance computes an employee's performance metrics.
// It is a read with one deliberate side effect: the freshly computed
// productivity score is written back to the user row as a write-through
// cache, so the stored value converges to the computed one on every
// call.
func (s *AnalyticsService) GetEmployeePerformance(p authz.Principal, userID uint64) (*EmployeePerformance, error) {
	if decision := authz.CanPerform(p, authz.ActionViewPerformance, userID); !decision.Allowed {
		return nil, ErrPermissionDenied
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	perf := &EmployeePerformance{User: user}

	if perf.TotalTasks, err = s.taskRepo.CountByAssignee(userID); err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}
	if perf.CompletedTasks, err = s.taskRepo.CountByAssigneeAndStatus(userID, models.TaskStatusCompleted); err != nil {
		return nil, fmt.Errorf("failed to count completed tasks: %w", err)
	}
	if perf.PendingTasks, err = s.taskRepo.CountByAssigneeAndStatus(userID, models.TaskStatusPending); err != nil {
		return nil, fmt.Errorf("failed to count pending tasks: %w", err)
	}
	if perf.OnTimeTasks, err = s.taskRepo.CountOnTime(userID); err != nil {
		return nil, fmt.Errorf("failed to count on-time tasks: %w", err)
	}

	perf.CompletionRate = rate(perf.CompletedTasks, perf.TotalTasks)
	perf.OnTimeRate = rate(perf.OnTimeTasks, perf.CompletedTasks)
	perf.ProductivityScore = perf.CompletionRate*completionWeight + perf.OnTimeRate*onTimeWeight

	if err := s.userRepo.SetProductivityScore(userID, perf.ProductivityScore); err != nil {
		return nil, fmt.Errorf("failed to cache productivity score: %w", err)
	}
	user.ProductivityScore = perf.ProductivityScore

	metrics.SetProductivityScore(user.ID, user.Name, perf.ProductivityScore)

	return perf, nil
}

// GetTeamAnalytics lists all employees with their cached productivity
// scores and the team average. Admin only.
func (s *AnalyticsService) GetTeamAnalytics(p authz.Principal) (*TeamMetrics, error) {
	if decision := authz.CanPerform(p, authz.ActionViewTeam, 0); !decision.Allowed {
		return nil, ErrPermissionDenied
	}

	employees, err := s.userRepo.ListByRole(models.RoleEmployee)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	m := &TeamMetrics{
		Employees:      employees,
		TotalEmployees: len(employees),
	}

	if len(employees) > 0 {
		var sum float64
		for _, emp := range employees {
			sum += emp.ProductivityScore
		}
		m.AverageProductivity = sum / float64(len(employees))
	}

	return m, nil
}

// rate returns part/whole as a percentage, 0 when the denominator is 0.
func rate(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
