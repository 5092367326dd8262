package handlers

import (
	"tahfiz-portal/internal/adapters/http/middleware"
	"tahfiz-portal/internal/core/services"
	"tahfiz-portal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles dashboard endpoints
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// GetDashboard returns the dashboard of the caller's role
// @Summary Dashboard
// @Description Admin gets school totals, teacher gets ledger and recent sessions, parent gets children and outstanding fees
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/v1/dashboard [get]
func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	data, err := h.dashboardService.GetDashboard(c.UserContext(), middleware.CurrentIdentity(c))
	if err != nil {
		return fail(c, err, "Gagal memuatkan papan pemuka")
	}

	return response.Success(c, "Dashboard retrieved successfully", data)
}
