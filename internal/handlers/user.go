package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hmuro/productivity-tracker/internal/dto"
	apierrors "github.com/hmuro/productivity-tracker/internal/errors"
	"github.com/hmuro/productivity-tracker/internal/middleware"
	"github.com/hmuro/productivity-tracker/internal/models"
	"github.com/hmuro/productivity-tracker/internal/services"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// ListUsers returns all users. Admin only.
func (h *UserHandler) ListUsers(c *gin.Context) {
	principal, exists := middleware.GetPrincipal(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	users, err := h.userService.ListUsers(principal)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count": len(users),
		"users": dto.ToUserDTOs(users),
	})
}

// GetUser returns a single user. Employees may only read themselves.
func (h *UserHandler) GetUser(c *gin.Context) {
	principal, exists := middleware.GetPrincipal(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	userID, ok := parseIDParam(c)
	if !ok {
		return
	}

	user, err := h.userService.GetUser(principal, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// UpdateUser applies an administrative partial update to a user
func (h *UserHandler) UpdateUser(c *gin.Context) {
	principal, exists := middleware.GetPrincipal(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	userID, ok := parseIDParam(c)
	if !ok {
		return
	}

	type UpdateUserRequest struct {
		Name       *string      `json:"name"`
		Email      *string      `json:"email"`
		Department *string      `json:"department"`
		Position   *string      `json:"position"`
		IsActive   *bool        `json:"is_active"`
		Role       *models.Role `json:"role"`
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateUser(principal, userID, services.UpdateUserInput{
		Name:       req.Name,
		Email:      req.Email,
		Department: req.Department,
		Position:   req.Position,
		IsActive:   req.IsActive,
		Role:       req.Role,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// DeleteUser removes a user. Admin only.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	principal, exists := middleware.GetPrincipal(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	userID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(principal, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User deleted successfully",
	})
}
