package handlers

import (
	"errors"

	"finec-backoffice/internal/core/services"
	"finec-backoffice/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AgencyHandler handles agency reference data endpoints
type AgencyHandler struct {
	agencyService *services.AgencyService
}

// NewAgencyHandler creates a new agency handler
func NewAgencyHandler(agencyService *services.AgencyService) *AgencyHandler {
	return &AgencyHandler{agencyService: agencyService}
}

// List handles listing agencies
// @Summary List agencies
// @Description List all agencies with their service points
// @Tags Agencies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /agencies [get]
func (h *AgencyHandler) List(c *fiber.Ctx) error {
	agencies, err := h.agencyService.List(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list agencies")
	}

	return response.Success(c, "Agencies retrieved successfully", agencies)
}

// Get handles getting one agency
// @Summary Get agency
// @Description Get an agency by ID
// @Tags Agencies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Agency ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /agencies/{id} [get]
func (h *AgencyHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid agency ID")
	}

	agency, err := h.agencyService.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrAgencyNotFound) {
			return response.NotFound(c, "Agency not found")
		}
		return response.InternalServerError(c, "Failed to get agency")
	}

	return response.Success(c, "Agency retrieved successfully", agency)
}
