package models

import (
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

type User struct {
	ID           uint64 `gorm:"primarykey" json:"id"`
	Name         string `gorm:"type:varchar(100);not null" json:"name"`
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"`
	Role         Role   `gorm:"type:varchar(20);not null;default:'employee'" json:"role"`
	Department   string `gorm:"type:varchar(100)" json:"department"`
	Position     string `gorm:"type:varchar(100)" json:"position"`
	IsActive     bool   `gorm:"not null;default:true" json:"is_active"`

	// TasksCompleted and ProductivityScore are derived state. They are
	// written only by the task service (completion counter) and the
	// analytics service (score cache), never from client input.
	TasksCompleted    uint64  `gorm:"not null;default:0" json:"tasks_completed"`
	ProductivityScore float64 `gorm:"not null;default:0" json:"productivity_score"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	AssignedTasks []Task `gorm:"foreignKey:AssignedToID" json:"-"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
