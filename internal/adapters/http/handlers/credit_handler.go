package handlers

import (
	"errors"

	"finec-backoffice/internal/core/services"
	"finec-backoffice/internal/pkg/pagination"
	"finec-backoffice/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CreditHandler handles active credit endpoints
type CreditHandler struct {
	creditService *services.CreditService
}

// NewCreditHandler creates a new credit handler
func NewCreditHandler(creditService *services.CreditService) *CreditHandler {
	return &CreditHandler{creditService: creditService}
}

// List handles listing active credits
// @Summary List active credits
// @Description List active credits visible to the caller
// @Tags Credits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param agency_id query int false "Filter by agency"
// @Success 200 {object} response.Envelope
// @Router /credits [get]
func (h *CreditHandler) List(c *fiber.Ctx) error {
	v, ok := viewer(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	params := pagination.GetParams(c)

	credits, total, err := h.creditService.List(c.Context(), v, scopeFilters(c), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list credits")
	}

	for _, credit := range credits {
		h.creditService.RefreshOverdue(c.Context(), credit)
	}

	return response.Success(c, "Credits retrieved successfully", pagination.NewResponse(credits, params, total))
}

// Get handles getting one credit with its payments
// @Summary Get active credit
// @Description Get an active credit with its payment ledger
// @Tags Credits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Credit ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /credits/{id} [get]
func (h *CreditHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid credit ID")
	}

	credit, err := h.creditService.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrCreditNotFound) {
			return response.NotFound(c, "Credit not found")
		}
		return response.InternalServerError(c, "Failed to get credit")
	}

	h.creditService.RefreshOverdue(c.Context(), credit)

	return response.Success(c, "Credit retrieved successfully", credit)
}

// RecordPayment handles recording a payment
// @Summary Record payment
// @Description Append a payment to the credit's ledger
// @Tags Credits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Credit ID"
// @Param body body services.RecordPaymentInput true "Payment data"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /credits/{id}/payments [post]
func (h *CreditHandler) RecordPayment(c *fiber.Ctx) error {
	v, ok := viewer(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid credit ID")
	}

	var input services.RecordPaymentInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	credit, err := h.creditService.RecordPayment(c.Context(), v, id, &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCreditNotFound):
			return response.NotFound(c, "Credit not found")
		case errors.Is(err, services.ErrInvalidPayment):
			return response.BadRequest(c, "Payment amount must be greater than 0")
		case errors.Is(err, services.ErrPaymentExceedsDebt):
			return response.BadRequest(c, "Payment exceeds the remaining balance")
		case errors.Is(err, services.ErrCreditCompleted):
			return response.Conflict(c, "Credit is already fully repaid")
		default:
			return response.InternalServerError(c, "Failed to record payment")
		}
	}

	return response.Success(c, "Payment recorded successfully", credit)
}
