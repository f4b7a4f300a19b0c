package handlers

import (
	"errors"

	"finec-backoffice/internal/core/domain"
	"finec-backoffice/internal/core/services"
	"finec-backoffice/internal/pkg/pagination"
	"finec-backoffice/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// LoanHandler handles loan request endpoints
type LoanHandler struct {
	loanService *services.LoanService
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(loanService *services.LoanService) *LoanHandler {
	return &LoanHandler{loanService: loanService}
}

// DecisionRequest carries the optional (approve) or mandatory (reject)
// comment of a workflow decision
type DecisionRequest struct {
	Comment string `json:"comment"`
}

// DocumentsRequest maps document slots to upload tokens. An empty token
// removes the slot.
type DocumentsRequest struct {
	Documents map[string]string `json:"documents"`
}

// SignatureRequest carries signature tokens
type SignatureRequest struct {
	Signature             string `json:"signature"`
	SecondHolderSignature string `json:"second_holder_signature,omitempty"`
}

// Create handles loan request creation
// @Summary Create loan request
// @Description Create a new loan request (agents only)
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateLoanInput true "Loan request data"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /loans [post]
func (h *LoanHandler) Create(c *fiber.Ctx) error {
	v, ok := viewer(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.CreateLoanInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.ClientName == "" {
		return response.BadRequest(c, "Client name is required")
	}

	loan, err := h.loanService.Create(c.Context(), v, &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "Only agents can create loan requests")
		case errors.Is(err, services.ErrInvalidAmount):
			return response.BadRequest(c, "Amount must be greater than 0")
		case errors.Is(err, services.ErrInvalidDuration):
			return response.BadRequest(c, "Duration must be greater than 0")
		default:
			return response.InternalServerError(c, "Failed to create loan request")
		}
	}

	return response.Created(c, "Loan request created successfully", loan)
}

// List handles listing loan requests
// @Summary List loan requests
// @Description List loan requests visible to the caller
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param status query string false "Filter by status"
// @Param agency_id query int false "Filter by agency"
// @Param service_point query string false "Filter by service point"
// @Success 200 {object} response.Envelope
// @Router /loans [get]
func (h *LoanHandler) List(c *fiber.Ctx) error {
	v, ok := viewer(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	params := pagination.GetParams(c)

	loans, total, err := h.loanService.List(c.Context(), v, scopeFilters(c), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list loan requests")
	}

	return response.Success(c, "Loan requests retrieved successfully", pagination.NewResponse(loans, params, total))
}

// Get handles getting one loan request with its history
// @Summary Get loan request
// @Description Get a loan request with its full decision history
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan request ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /loans/{id} [get]
func (h *LoanHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid loan request ID")
	}

	loan, err := h.loanService.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrLoanNotFound) {
			return response.NotFound(c, "Loan request not found")
		}
		return response.InternalServerError(c, "Failed to get loan request")
	}

	return response.Success(c, "Loan request retrieved successfully", loan)
}

// Approve handles the next validation step
// @Summary Approve loan request
// @Description Apply the validation step owned by the caller's role
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan request ID"
// @Param body body DecisionRequest false "Optional comment"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /loans/{id}/approve [put]
func (h *LoanHandler) Approve(c *fiber.Ctx) error {
	v, ok := viewer(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid loan request ID")
	}

	var req DecisionRequest
	_ = c.BodyParser(&req)

	loan, err := h.loanService.Approve(c.Context(), v, id, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrLoanNotFound):
			return response.NotFound(c, "Loan request not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "Your role cannot act on this request in its current status")
		default:
			return response.InternalServerError(c, "Failed to approve loan request")
		}
	}

	return response.Success(c, "Loan request approved", loan)
}

// Reject handles rejection
// @Summary Reject loan request
// @Description Reject the request with a mandatory comment
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan request ID"
// @Param body body DecisionRequest true "Rejection comment"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /loans/{id}/reject [put]
func (h *LoanHandler) Reject(c *fiber.Ctx) error {
	v, ok := viewer(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid loan request ID")
	}

	var req DecisionRequest
	_ = c.BodyParser(&req)

	loan, err := h.loanService.Reject(c.Context(), v, id, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrLoanNotFound):
			return response.NotFound(c, "Loan request not found")
		case errors.Is(err, services.ErrCommentRequired):
			return response.UnprocessableEntity(c, "A rejection comment is required")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "Your role cannot act on this request in its current status")
		default:
			return response.InternalServerError(c, "Failed to reject loan request")
		}
	}

	return response.Success(c, "Loan request rejected", loan)
}

// UpdateDocuments handles document slot updates
// @Summary Update loan documents
// @Description Attach or remove document tokens on a pending request
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan request ID"
// @Param body body DocumentsRequest true "Document slots"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /loans/{id}/documents [put]
func (h *LoanHandler) UpdateDocuments(c *fiber.Ctx) error {
	v, ok := viewer(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid loan request ID")
	}

	var req DocumentsRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	loan, err := h.loanService.UpdateDocuments(c.Context(), v, id, req.Documents)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrLoanNotFound):
			return response.NotFound(c, "Loan request not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "Only the originating agent can update documents on a pending request")
		default:
			return response.InternalServerError(c, "Failed to update documents")
		}
	}

	return response.Success(c, "Documents updated successfully", loan)
}

// Sign handles the client signature
// @Summary Sign loan request
// @Description Attach the client signature token
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan request ID"
// @Param body body SignatureRequest true "Signature token"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /loans/{id}/sign [put]
func (h *LoanHandler) Sign(c *fiber.Ctx) error {
	v, ok := viewer(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid loan request ID")
	}

	var req SignatureRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	loan, err := h.loanService.Sign(c.Context(), v, id, req.Signature)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrLoanNotFound):
			return response.NotFound(c, "Loan request not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "Only the originating agent can sign a pending request")
		default:
			return response.InternalServerError(c, "Failed to sign loan request")
		}
	}

	return response.Success(c, "Loan request signed", loan)
}
