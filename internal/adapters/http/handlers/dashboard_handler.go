package handlers

import (
	"errors"

	"teamfund/internal/core/services"
	"teamfund/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles dashboard endpoints
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// TeamStats returns the spending summary for a team
// @Summary Team dashboard
// @Description Get spending totals, status counts, category breakdown and recent bills for a team
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Param id path int true "Team ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /dashboard/teams/{id} [get]
func (h *DashboardHandler) TeamStats(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	teamID, err := c.ParamsInt("id")
	if err != nil || teamID <= 0 {
		return response.BadRequest(c, "Invalid team ID")
	}

	stats, err := h.dashboardService.GetTeamStats(c.Context(), uint(teamID), userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotTeamMember):
			return response.Forbidden(c, "You are not a member of this team")
		default:
			return response.InternalServerError(c, "Failed to load dashboard")
		}
	}

	return response.Success(c, "Dashboard retrieved successfully", stats)
}
