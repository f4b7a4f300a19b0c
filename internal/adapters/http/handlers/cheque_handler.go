package handlers

import (
	"errors"

	"finec-backoffice/internal/core/services"
	"finec-backoffice/internal/pkg/pagination"
	"finec-backoffice/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ChequeHandler handles cheque registry endpoints
type ChequeHandler struct {
	chequeService *services.ChequeService
}

// NewChequeHandler creates a new cheque handler
func NewChequeHandler(chequeService *services.ChequeService) *ChequeHandler {
	return &ChequeHandler{chequeService: chequeService}
}

// ChequeStatusRequest sets a cheque status
type ChequeStatusRequest struct {
	Status string `json:"status"`
}

// Create handles cheque registration
// @Summary Register cheque
// @Description Register a new cheque in the registry
// @Tags Cheques
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateChequeInput true "Cheque data"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /cheques [post]
func (h *ChequeHandler) Create(c *fiber.Ctx) error {
	v, ok := viewer(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.CreateChequeInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.ChequeNumber == "" || input.ClientName == "" {
		return response.BadRequest(c, "Cheque number and client name are required")
	}

	cheque, err := h.chequeService.Create(c.Context(), v, &input)
	if err != nil {
		if errors.Is(err, services.ErrInvalidChequeAmount) {
			return response.BadRequest(c, "Cheque amount must be greater than 0")
		}
		return response.InternalServerError(c, "Failed to register cheque")
	}

	return response.Created(c, "Cheque registered successfully", cheque)
}

// List handles listing cheques
// @Summary List cheques
// @Description List cheques visible to the caller
// @Tags Cheques
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param agency_id query int false "Filter by agency"
// @Param status query string false "Filter by status"
// @Success 200 {object} response.Envelope
// @Router /cheques [get]
func (h *ChequeHandler) List(c *fiber.Ctx) error {
	v, ok := viewer(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	params := pagination.GetParams(c)

	cheques, total, err := h.chequeService.List(c.Context(), v, scopeFilters(c), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list cheques")
	}

	return response.Success(c, "Cheques retrieved successfully", pagination.NewResponse(cheques, params, total))
}

// Get handles getting one cheque
// @Summary Get cheque
// @Description Get a cheque by ID
// @Tags Cheques
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Cheque ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /cheques/{id} [get]
func (h *ChequeHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid cheque ID")
	}

	cheque, err := h.chequeService.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrChequeNotFound) {
			return response.NotFound(c, "Cheque not found")
		}
		return response.InternalServerError(c, "Failed to get cheque")
	}

	return response.Success(c, "Cheque retrieved successfully", cheque)
}

// SetStatus handles setting the cheque status
// @Summary Set cheque status
// @Description Set the cheque status directly
// @Tags Cheques
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Cheque ID"
// @Param body body ChequeStatusRequest true "New status"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /cheques/{id}/status [put]
func (h *ChequeHandler) SetStatus(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid cheque ID")
	}

	var req ChequeStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	cheque, err := h.chequeService.SetStatus(c.Context(), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrChequeNotFound):
			return response.NotFound(c, "Cheque not found")
		case errors.Is(err, services.ErrInvalidChequeStatus):
			return response.BadRequest(c, "Status must be ACTIVE, CASHED, BOUNCED or CANCELLED")
		default:
			return response.InternalServerError(c, "Failed to update cheque status")
		}
	}

	return response.Success(c, "Cheque status updated", cheque)
}
