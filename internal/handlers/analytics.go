package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hmuro/productivity-tracker/internal/dto"
	apierrors "github.com/hmuro/productivity-tracker/internal/errors"
	"github.com/hmuro/productivity-tracker/internal/middleware"
	"github.com/hmuro/productivity-tracker/internal/services"
)

type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
}

func NewAnalyticsHandler(analyticsService *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
	}
}

// GetDashboard returns team-wide task metrics. Admin only.
func (h *AnalyticsHandler) GetDashboard(c *gin.Context) {
	principal, exists := middleware.GetPrincipal(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	metrics, err := h.analyticsService.GetDashboard(principal)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDashboardDTO(metrics))
}

// GetEmployeePerformance returns one employee's performance report.
// Admins may request any id, employees only their own.
func (h *AnalyticsHandler) GetEmployeePerformance(c *gin.Context) {
	principal, exists := middleware.GetPrincipal(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	userID, ok := parseIDParam(c)
	if !ok {
		return
	}

	perf, err := h.analyticsService.GetEmployeePerformance(principal, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPerformanceDTO(perf))
}

// GetTeamAnalytics returns the employee roster with productivity
// scores. Admin only.
func (h *AnalyticsHandler) GetTeamAnalytics(c *gin.Context) {
	principal, exists := middleware.GetPrincipal(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	team, err := h.analyticsService.GetTeamAnalytics(principal)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTeamDTO(team))
}
