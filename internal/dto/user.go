package dto

import (
	"time"

	"github.com/hmuro/productivity-tracker/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID                uint64      `json:"id"`
	Name              string      `json:"name"`
	Email             string      `json:"email"`
	Role              models.Role `json:"role"`
	Department        string      `json:"department,omitempty"`
	Position          string      `json:"position,omitempty"`
	IsActive          bool        `json:"is_active"`
	TasksCompleted    uint64      `json:"tasks_completed"`
	ProductivityScore float64     `json:"productivity_score"`
	CreatedAt         time.Time   `json:"created_at"`
}

// UserRefDTO is the minimal user shape embedded in task responses.
type UserRefDTO struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:                user.ID,
		Name:              user.Name,
		Email:             user.Email,
		Role:              user.Role,
		Department:        user.Department,
		Position:          user.Position,
		IsActive:          user.IsActive,
		TasksCompleted:    user.TasksCompleted,
		ProductivityScore: Round2(user.ProductivityScore),
		CreatedAt:         user.CreatedAt,
	}
}

// ToUserRefDTO converts a User model to its minimal embedded shape
func ToUserRefDTO(user models.User) UserRefDTO {
	return UserRefDTO{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}
}

// ToUserDTOs converts a slice of users
func ToUserDTOs(users []models.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i, user := range users {
		dtos[i] = ToUserDTO(user)
	}
	return dtos
}
