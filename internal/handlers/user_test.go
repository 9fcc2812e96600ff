package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hmuro/productivity-tracker/internal/database"
	"github.com/hmuro/productivity-tracker/internal/dto"
	"github.com/hmuro/productivity-tracker/internal/models"
	"github.com/hmuro/productivity-tracker/internal/repository"
	"github.com/hmuro/productivity-tracker/internal/services"
)

type userTestEnv struct {
	db       *gorm.DB
	handler  *UserHandler
	admin    models.User
	employee models.User
}

func setupUserTestEnv(t *testing.T) userTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.TaskComment{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	admin := models.User{
		Name:         "Admin",
		Email:        "admin@example.com",
		PasswordHash: "hash",
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	require.NoError(t, db.Create(&admin).Error)

	employee := models.User{
		Name:         "Employee",
		Email:        "employee@example.com",
		PasswordHash: "hash",
		Role:         models.RoleEmployee,
		IsActive:     true,
	}
	require.NoError(t, db.Create(&employee).Error)

	userRepo := repository.NewUserRepository(db)
	handler := NewUserHandler(services.NewUserService(userRepo))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return userTestEnv{
		db:       db,
		handler:  handler,
		admin:    admin,
		employee: employee,
	}
}

func TestUserHandler_ListUsers(t *testing.T) {
	env := setupUserTestEnv(t)

	r := gin.New()
	r.Use(asPrincipal(principalOf(env.admin)))
	r.GET("/api/users", env.handler.ListUsers)

	w := doJSON(t, r, http.MethodGet, "/api/users", nil)

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Count int           `json:"count"`
		Users []dto.UserDTO `json:"users"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, 2, response.Count)
	require.Len(t, response.Users, 2)
}

func TestUserHandler_GetUser_Self(t *testing.T) {
	env := setupUserTestEnv(t)

	r := gin.New()
	r.Use(asPrincipal(principalOf(env.employee)))
	r.GET("/api/users/:id", env.handler.GetUser)

	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/users/%d", env.employee.ID), nil)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, env.employee.Email, response.Email)
}

func TestUserHandler_GetUser_OtherForbidden(t *testing.T) {
	env := setupUserTestEnv(t)

	r := gin.New()
	r.Use(asPrincipal(principalOf(env.employee)))
	r.GET("/api/users/:id", env.handler.GetUser)

	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/users/%d", env.admin.ID), nil)

	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestUserHandler_UpdateUser(t *testing.T) {
	env := setupUserTestEnv(t)

	r := gin.New()
	r.Use(asPrincipal(principalOf(env.admin)))
	r.PATCH("/api/users/:id", env.handler.UpdateUser)

	w := doJSON(t, r, http.MethodPatch, fmt.Sprintf("/api/users/%d", env.employee.ID), map[string]interface{}{
		"department": "Engineering",
		"is_active":  false,
	})

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "Engineering", response.Department)
	require.False(t, response.IsActive)
}

func TestUserHandler_UpdateUser_EmailConflict(t *testing.T) {
	env := setupUserTestEnv(t)

	r := gin.New()
	r.Use(asPrincipal(principalOf(env.admin)))
	r.PATCH("/api/users/:id", env.handler.UpdateUser)

	w := doJSON(t, r, http.MethodPatch, fmt.Sprintf("/api/users/%d", env.employee.ID), map[string]interface{}{
		"email": env.admin.Email,
	})

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestUserHandler_DeleteUser(t *testing.T) {
	env := setupUserTestEnv(t)

	r := gin.New()
	r.Use(asPrincipal(principalOf(env.admin)))
	r.DELETE("/api/users/:id", env.handler.DeleteUser)

	w := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/users/%d", env.employee.ID), nil)

	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, env.db.Model(&models.User{}).Where("id = ?", env.employee.ID).Count(&count).Error)
	require.Equal(t, int64(0), count)
}

func TestUserHandler_DeleteUser_NotFound(t *testing.T) {
	env := setupUserTestEnv(t)

	r := gin.New()
	r.Use(asPrincipal(principalOf(env.admin)))
	r.DELETE("/api/users/:id", env.handler.DeleteUser)

	w := doJSON(t, r, http.MethodDelete, "/api/users/9999", nil)

	require.Equal(t, http.StatusNotFound, w.Code)
}
