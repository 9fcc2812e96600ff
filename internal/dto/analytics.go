package dto

import (
	"github.com/hmuro/productivity-tracker/internal/models"
	"github.com/hmuro/productivity-tracker/internal/services"
)

// DashboardDTO represents the admin dashboard metrics
type DashboardDTO struct {
	TotalUsers      int64                         `json:"total_users"`
	TotalTasks      int64                         `json:"total_tasks"`
	CompletedTasks  int64                         `json:"completed_tasks"`
	PendingTasks    int64                         `json:"pending_tasks"`
	InProgressTasks int64                         `json:"in_progress_tasks"`
	OverdueTasks    int64                         `json:"overdue_tasks"`
	CompletionRate  float64                       `json:"completion_rate"`
	TasksByPriority map[models.TaskPriority]int64 `json:"tasks_by_priority"`
}

// PerformanceDTO represents a single employee's performance report
type PerformanceDTO struct {
	User              UserRefDTO `json:"user"`
	TotalTasks        int64      `json:"total_tasks"`
	CompletedTasks    int64      `json:"completed_tasks"`
	PendingTasks      int64      `json:"pending_tasks"`
	OnTimeTasks       int64      `json:"on_time_tasks"`
	CompletionRate    float64    `json:"completion_rate"`
	OnTimeRate        float64    `json:"on_time_rate"`
	ProductivityScore float64    `json:"productivity_score"`
}

// TeamMemberDTO is the per-employee row of the team report
type TeamMemberDTO struct {
	ID                uint64  `json:"id"`
	Name              string  `json:"name"`
	Email             string  `json:"email"`
	ProductivityScore float64 `json:"productivity_score"`
	TasksCompleted    uint64  `json:"tasks_completed"`
}

// TeamDTO represents the team analytics report
type TeamDTO struct {
	Employees           []TeamMemberDTO `json:"employees"`
	AverageProductivity float64         `json:"average_productivity"`
	TotalEmployees      int             `json:"total_employees"`
}

// ToDashboardDTO converts dashboard metrics, rounding rates
func ToDashboardDTO(m *services.DashboardMetrics) DashboardDTO {
	return DashboardDTO{
		TotalUsers:      m.TotalUsers,
		TotalTasks:      m.TotalTasks,
		CompletedTasks:  m.CompletedTasks,
		PendingTasks:    m.PendingTasks,
		InProgressTasks: m.InProgressTasks,
		OverdueTasks:    m.OverdueTasks,
		CompletionRate:  Round2(m.CompletionRate),
		TasksByPriority: m.TasksByPriority,
	}
}

// ToPerformanceDTO converts an employee performance report, rounding rates
func ToPerformanceDTO(perf *services.EmployeePerformance) PerformanceDTO {
	return PerformanceDTO{
		User:              ToUserRefDTO(*perf.User),
		TotalTasks:        perf.TotalTasks,
		CompletedTasks:    perf.CompletedTasks,
		PendingTasks:      perf.PendingTasks,
		OnTimeTasks:       perf.OnTimeTasks,
		CompletionRate:    Round2(perf.CompletionRate),
		OnTimeRate:        Round2(perf.OnTimeRate),
		ProductivityScore: Round2(perf.ProductivityScore),
	}
}

// ToTeamDTO converts team metrics, rounding the average
func ToTeamDTO(m *services.TeamMetrics) TeamDTO {
	members := make([]TeamMemberDTO, len(m.Employees))
	for i, emp := range m.Employees {
		members[i] = TeamMemberDTO{
			ID:                emp.ID,
			Name:              emp.Name,
			Email:             emp.Email,
			ProductivityScore: Round2(emp.ProductivityScore),
			TasksCompleted:    emp.TasksCompleted,
		}
	}

	return TeamDTO{
		Employees:           members,
		AverageProductivity: Round2(m.AverageProductivity),
		TotalEmployees:      m.TotalEmployees,
	}
}
