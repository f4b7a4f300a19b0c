package handlers

import (
	"strconv"

	"finec-backoffice/internal/core/domain"
	"finec-backoffice/internal/core/services"

	"github.com/gofiber/fiber/v2"
)

// viewer rebuilds the service viewer from the locals set by the auth
// middleware. The boolean is false when the request never passed
// through it.
func viewer(c *fiber.Ctx) (services.Viewer, bool) {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return services.Viewer{}, false
	}
	role, ok := c.Locals("role").(string)
	if !ok {
		return services.Viewer{}, false
	}
	agencyID, _ := c.Locals("agencyID").(uint)
	servicePoint, _ := c.Locals("servicePoint").(string)

	return services.Viewer{
		UserID:       userID,
		Role:         domain.Role(role),
		AgencyID:     agencyID,
		ServicePoint: servicePoint,
	}, true
}

// parseID reads a numeric path parameter
func parseID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// scopeFilters reads the optional list filters from the query string
func scopeFilters(c *fiber.Ctx) services.ScopeFilters {
	var filters services.ScopeFilters

	if raw := c.Query("agency_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			agencyID := uint(id)
			filters.AgencyID = &agencyID
		}
	}
	if sp := c.Query("service_point"); sp != "" {
		filters.ServicePoint = &sp
	}
	if raw := c.Query("status"); raw != "" {
		status := domain.Status(raw)
		filters.Status = &status
	}

	return filters
}
