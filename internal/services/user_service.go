package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/hmuro/productivity-tracker/internal/authz"
	"github.com/hmuro/productivity-tracker/internal/models"
	"github.com/hmuro/productivity-tracker/internal/repository"
)

// UserService handles user administration. The derived fields
// (tasksCompleted, productivityScore) are never writable through it.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// UpdateUserInput represents a partial user update. Nil fields are
// left untouched.
type UpdateUserInput struct {
	Name       *string
	Email      *string
	Department *string
	Position   *string
	IsActive   *bool
	Role       *models.Role
}

// ListUsers lists all users. Admin only.
func (s *UserService) ListUsers(p authz.Principal) ([]models.User, error) {
	if decision := authz.CanPerform(p, authz.ActionListUsers, 0); !decision.Allowed {
		return nil, ErrPermissionDenied
	}

	users, err := s.userRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

// GetUser returns a user. Employees may only read themselves.
func (s *UserService) GetUser(p authz.Principal, userID uint64) (*models.User, error) {
	if decision := authz.CanPerform(p, authz.ActionReadUser, userID); !decision.Allowed {
		return nil, ErrPermissionDenied
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// UpdateUser applies an administrative partial update. Changing the
// role here is an administrative override, not a lifecycle event.
func (s *UserService) UpdateUser(p authz.Principal, userID uint64, input UpdateUserInput) (*models.User, error) {
	if decision := authz.CanPerform(p, authz.ActionUpdateUser, userID); !decision.Allowed {
		return nil, ErrPermissionDenied
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, &ValidationError{Field: "name", Message: "name cannot be empty"}
		}
		user.Name = *input.Name
	}
	if input.Email != nil && *input.Email != user.Email {
		if strings.TrimSpace(*input.Email) == "" {
			return nil, &ValidationError{Field: "email", Message: "email cannot be empty"}
		}
		existing, err := s.userRepo.FindByEmail(*input.Email)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if existing != nil && existing.ID != user.ID {
			return nil, ErrEmailTaken
		}
		user.Email = *input.Email
	}
	if input.Department != nil {
		user.Department = *input.Department
	}
	if input.Position != nil {
		user.Position = *input.Position
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if input.Role != nil {
		if !input.Role.Valid() {
			return nil, &ValidationError{Field: "role", Message: "unknown role: " + string(*input.Role)}
		}
		user.Role = *input.Role
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	log.Info().Uint64("user_id", user.ID).Str("email", user.Email).Msg("user updated")

	return user, nil
}

// DeleteUser removes a user. Admin only. The user's tasks are kept;
// dangling assignee references are tolerated by the read paths.
func (s *UserService) DeleteUser(p authz.Principal, userID uint64) error {
	if decision := authz.CanPerform(p, authz.ActionDeleteUser, userID); !decision.Allowed {
		return ErrPermissionDenied
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.userRepo.Delete(userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	log.Info().Uint64("user_id", userID).Str("email", user.Email).Msg("user deleted")

	return nil
}
