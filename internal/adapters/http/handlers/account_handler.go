package handlers

import (
	"errors"

	"finec-backoffice/internal/core/domain"
	"finec-backoffice/internal/core/services"
	"finec-backoffice/internal/pkg/pagination"
	"finec-backoffice/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AccountHandler handles account-opening endpoints
type AccountHandler struct {
	accountService *services.AccountService
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accountService *services.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// Create handles account request creation
// @Summary Create account request
// @Description Create a new account-opening request (agents only)
// @Tags Accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateAccountInput true "Account request data"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /accounts [post]
func (h *AccountHandler) Create(c *fiber.Ctx) error {
	v, ok := viewer(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.CreateAccountInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.ClientName == "" {
		return response.BadRequest(c, "Client name is required")
	}

	account, err := h.accountService.Create(c.Context(), v, &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "Only agents can create account requests")
		case errors.Is(err, services.ErrInvalidAccountType):
			return response.BadRequest(c, "Account type must be INDIVIDUAL, JOINT or BUSINESS")
		case errors.Is(err, services.ErrSecondHolderRequired):
			return response.BadRequest(c, "Joint accounts require the second holder's name and ID number")
		case errors.Is(err, services.ErrBusinessInfoRequired):
			return response.BadRequest(c, "Business accounts require the business name and registration")
		case errors.Is(err, services.ErrInvalidDeposit):
			return response.BadRequest(c, "Initial deposit cannot be negative")
		default:
			return response.InternalServerError(c, "Failed to create account request")
		}
	}

	return response.Created(c, "Account request created successfully", account)
}

// List handles listing account requests
// @Summary List account requests
// @Description List account requests visible to the caller
// @Tags Accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param status query string false "Filter by status"
// @Param agency_id query int false "Filter by agency"
// @Param service_point query string false "Filter by service point"
// @Success 200 {object} response.Envelope
// @Router /accounts [get]
func (h *AccountHandler) List(c *fiber.Ctx) error {
	v, ok := viewer(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	params := pagination.GetParams(c)

	accounts, total, err := h.accountService.List(c.Context(), v, scopeFilters(c), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list account requests")
	}

	return response.Success(c, "Account requests retrieved successfully", pagination.NewResponse(accounts, params, total))
}

// Get handles getting one account request with its history
// @Summary Get account request
// @Description Get an account request with its full decision history
// @Tags Accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account request ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /accounts/{id} [get]
func (h *AccountHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid account request ID")
	}

	account, err := h.accountService.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrAccountNotFound) {
			return response.NotFound(c, "Account request not found")
		}
		return response.InternalServerError(c, "Failed to get account request")
	}

	return response.Success(c, "Account request retrieved successfully", account)
}

// Approve handles the next validation step
// @Summary Approve account request
// @Description Apply the validation step owned by the caller's role
// @Tags Accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account request ID"
// @Param body body DecisionRequest false "Optional comment"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /accounts/{id}/approve [put]
func (h *AccountHandler) Approve(c *fiber.Ctx) error {
	v, ok := viewer(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid account request ID")
	}

	var req DecisionRequest
	_ = c.BodyParser(&req)

	account, err := h.accountService.Approve(c.Context(), v, id, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAccountNotFound):
			return response.NotFound(c, "Account request not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "Your role cannot act on this request in its current status")
		default:
			return response.InternalServerError(c, "Failed to approve account request")
		}
	}

	return response.Success(c, "Account request approved", account)
}

// Reject handles rejection
// @Summary Reject account request
// @Description Reject the request with a mandatory comment
// @Tags Accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account request ID"
// @Param body body DecisionRequest true "Rejection comment"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /accounts/{id}/reject [put]
func (h *AccountHandler) Reject(c *fiber.Ctx) error {
	v, ok := viewer(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid account request ID")
	}

	var req DecisionRequest
	_ = c.BodyParser(&req)

	account, err := h.accountService.Reject(c.Context(), v, id, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAccountNotFound):
			return response.NotFound(c, "Account request not found")
		case errors.Is(err, services.ErrCommentRequired):
			return response.UnprocessableEntity(c, "A rejection comment is required")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "Your role cannot act on this request in its current status")
		default:
			return response.InternalServerError(c, "Failed to reject account request")
		}
	}

	return response.Success(c, "Account request rejected", account)
}

// UpdateDocuments handles document slot updates
// @Summary Update account documents
// @Description Attach or remove document tokens on a pending request
// @Tags Accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account request ID"
// @Param body body DocumentsRequest true "Document slots"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /accounts/{id}/documents [put]
func (h *AccountHandler) UpdateDocuments(c *fiber.Ctx) error {
	v, ok := viewer(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid account request ID")
	}

	var req DocumentsRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	account, err := h.accountService.UpdateDocuments(c.Context(), v, id, req.Documents)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAccountNotFound):
			return response.NotFound(c, "Account request not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "Only the originating agent can update documents on a pending request")
		default:
			return response.InternalServerError(c, "Failed to update documents")
		}
	}

	return response.Success(c, "Documents updated successfully", account)
}

// Sign handles holder signatures
// @Summary Sign account request
// @Description Attach holder signature tokens
// @Tags Accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account request ID"
// @Param body body SignatureRequest true "Signature tokens"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /accounts/{id}/sign [put]
func (h *AccountHandler) Sign(c *fiber.Ctx) error {
	v, ok := viewer(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid account request ID")
	}

	var req SignatureRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	account, err := h.accountService.Sign(c.Context(), v, id, req.Signature, req.SecondHolderSignature)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAccountNotFound):
			return response.NotFound(c, "Account request not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "Only the originating agent can sign a pending request")
		default:
			return response.InternalServerError(c, "Failed to sign account request")
		}
	}

	return response.Success(c, "Account request signed", account)
}
