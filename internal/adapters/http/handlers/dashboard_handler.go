package handlers

import (
	"errors"

	"finec-backoffice/internal/core/domain"
	"finec-backoffice/internal/core/services"
	"finec-backoffice/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles dashboard and performance endpoints
type DashboardHandler struct {
	statsService *services.StatsService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(statsService *services.StatsService) *DashboardHandler {
	return &DashboardHandler{statsService: statsService}
}

// Stats handles the per-viewer dashboard
// @Summary Dashboard statistics
// @Description Status buckets and portfolio totals for what the caller may see
// @Tags Dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param agency_id query int false "Filter by agency"
// @Param service_point query string false "Filter by service point"
// @Success 200 {object} response.Envelope
// @Router /dashboard/stats [get]
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	v, ok := viewer(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	stats, err := h.statsService.Dashboard(c.Context(), v, scopeFilters(c))
	if err != nil {
		return response.InternalServerError(c, "Failed to compute dashboard")
	}

	return response.Success(c, "Dashboard retrieved successfully", stats)
}

// AgencyPerformances handles the per-agency performance view
// @Summary Agency performance
// @Description Per-agency request totals and success rates (DG and DSI only)
// @Tags Dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /dashboard/agencies [get]
func (h *DashboardHandler) AgencyPerformances(c *fiber.Ctx) error {
	v, ok := viewer(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	rows, err := h.statsService.AgencyPerformances(c.Context(), v)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return response.Forbidden(c, "Only general management can view agency performance")
		}
		return response.InternalServerError(c, "Failed to compute agency performance")
	}

	return response.Success(c, "Agency performance retrieved successfully", rows)
}
