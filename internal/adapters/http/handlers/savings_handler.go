package handlers

import (
	"errors"

	"finec-backoffice/internal/core/services"
	"finec-backoffice/internal/pkg/pagination"
	"finec-backoffice/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// SavingsHandler handles savings account endpoints
type SavingsHandler struct {
	savingsService *services.SavingsService
}

// NewSavingsHandler creates a new savings handler
func NewSavingsHandler(savingsService *services.SavingsService) *SavingsHandler {
	return &SavingsHandler{savingsService: savingsService}
}

// Open handles opening a savings account
// @Summary Open savings account
// @Description Open a new savings account
// @Tags Savings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.OpenSavingsInput true "Savings account data"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /savings [post]
func (h *SavingsHandler) Open(c *fiber.Ctx) error {
	v, ok := viewer(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.OpenSavingsInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.ClientName == "" {
		return response.BadRequest(c, "Client name is required")
	}

	savings, err := h.savingsService.Open(c.Context(), v, &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidSavingsType):
			return response.BadRequest(c, "Savings type must be MONTHLY, PROJECT or VOLUNTARY")
		case errors.Is(err, services.ErrInvalidDepositAmt):
			return response.BadRequest(c, "Initial deposit cannot be negative")
		default:
			return response.InternalServerError(c, "Failed to open savings account")
		}
	}

	return response.Created(c, "Savings account opened successfully", savings)
}

// List handles listing savings accounts
// @Summary List savings accounts
// @Description List savings accounts visible to the caller
// @Tags Savings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param agency_id query int false "Filter by agency"
// @Success 200 {object} response.Envelope
// @Router /savings [get]
func (h *SavingsHandler) List(c *fiber.Ctx) error {
	v, ok := viewer(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	params := pagination.GetParams(c)

	accounts, total, err := h.savingsService.List(c.Context(), v, scopeFilters(c), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list savings accounts")
	}

	return response.Success(c, "Savings accounts retrieved successfully", pagination.NewResponse(accounts, params, total))
}

// Get handles getting one savings account with its ledgers
// @Summary Get savings account
// @Description Get a savings account with its deposit and withdrawal ledgers
// @Tags Savings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Savings account ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /savings/{id} [get]
func (h *SavingsHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid savings account ID")
	}

	savings, err := h.savingsService.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrSavingsNotFound) {
			return response.NotFound(c, "Savings account not found")
		}
		return response.InternalServerError(c, "Failed to get savings account")
	}

	return response.Success(c, "Savings account retrieved successfully", savings)
}

// RecordDeposit handles recording a deposit
// @Summary Record deposit
// @Description Append a deposit to the savings account
// @Tags Savings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Savings account ID"
// @Param body body services.DepositInput true "Deposit data"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /savings/{id}/deposits [post]
func (h *SavingsHandler) RecordDeposit(c *fiber.Ctx) error {
	v, ok := viewer(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid savings account ID")
	}

	var input services.DepositInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	savings, err := h.savingsService.RecordDeposit(c.Context(), v, id, &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSavingsNotFound):
			return response.NotFound(c, "Savings account not found")
		case errors.Is(err, services.ErrSavingsNotActive):
			return response.Conflict(c, "Savings account is not active")
		case errors.Is(err, services.ErrInvalidDepositAmt):
			return response.BadRequest(c, "Deposit amount must be greater than 0")
		default:
			return response.InternalServerError(c, "Failed to record deposit")
		}
	}

	return response.Success(c, "Deposit recorded successfully", savings)
}

// RecordWithdrawal handles recording a withdrawal
// @Summary Record withdrawal
// @Description Append a withdrawal to the savings account
// @Tags Savings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Savings account ID"
// @Param body body services.WithdrawalInput true "Withdrawal data"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /savings/{id}/withdrawals [post]
func (h *SavingsHandler) RecordWithdrawal(c *fiber.Ctx) error {
	v, ok := viewer(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid savings account ID")
	}

	var input services.WithdrawalInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	savings, err := h.savingsService.RecordWithdrawal(c.Context(), v, id, &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSavingsNotFound):
			return response.NotFound(c, "Savings account not found")
		case errors.Is(err, services.ErrSavingsNotActive):
			return response.Conflict(c, "Savings account is not active")
		case errors.Is(err, services.ErrInvalidDepositAmt):
			return response.BadRequest(c, "Withdrawal amount must be greater than 0")
		case errors.Is(err, services.ErrInsufficientFunds):
			return response.BadRequest(c, "Withdrawal exceeds the current balance")
		default:
			return response.InternalServerError(c, "Failed to record withdrawal")
		}
	}

	return response.Success(c, "Withdrawal recorded successfully", savings)
}
