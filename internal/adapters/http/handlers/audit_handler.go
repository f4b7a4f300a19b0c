package handlers

import (
	"errors"
	"strconv"
	"time"

	"finec-backoffice/internal/core/domain"
	"finec-backoffice/internal/core/services"
	"finec-backoffice/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuditHandler handles the global audit log endpoints
type AuditHandler struct {
	auditService *services.AuditService
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(auditService *services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// List handles the global audit feed
// @Summary Audit log
// @Description Global decision history, newest first (DG and DSI only)
// @Tags Audit
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param kind query string false "Filter by kind (CREATION, VALIDATION, APPROVAL, REJECTION)"
// @Param entity_type query string false "Filter by entity (loan_request, account)"
// @Param agency_id query int false "Filter by agency"
// @Param from query string false "RFC3339 lower bound"
// @Param to query string false "RFC3339 upper bound"
// @Param limit query int false "Max entries"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /audit [get]
func (h *AuditHandler) List(c *fiber.Ctx) error {
	v, ok := viewer(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	query := services.AuditQuery{}

	if raw := c.Query("kind"); raw != "" {
		kind := domain.HistoryKind(raw)
		query.Kind = &kind
	}
	if raw := c.Query("entity_type"); raw != "" {
		entity := domain.EntityKind(raw)
		query.EntityType = &entity
	}
	if raw := c.Query("agency_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return response.BadRequest(c, "Invalid agency ID")
		}
		agencyID := uint(id)
		query.AgencyID = &agencyID
	}
	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return response.BadRequest(c, "Invalid 'from' timestamp")
		}
		query.From = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return response.BadRequest(c, "Invalid 'to' timestamp")
		}
		query.To = &to
	}
	if raw := c.Query("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			query.Limit = limit
		}
	}

	entries, summary, err := h.auditService.List(c.Context(), v, query)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return response.Forbidden(c, "Only general management and DSI can view the audit log")
		}
		return response.InternalServerError(c, "Failed to load audit log")
	}

	return response.Success(c, "Audit log retrieved successfully", fiber.Map{
		"entries": entries,
		"summary": summary,
	})
}

// LoanHistory handles the decision trail of a single loan request
// @Summary Loan request history
// @Description Decision trail of a loan request, oldest first
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan request ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /loans/{id}/history [get]
func (h *AuditHandler) LoanHistory(c *fiber.Ctx) error {
	return h.entityHistory(c, domain.KindLoanRequest)
}

// AccountHistory handles the decision trail of a single account request
// @Summary Account request history
// @Description Decision trail of an account opening request, oldest first
// @Tags Accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /accounts/{id}/history [get]
func (h *AuditHandler) AccountHistory(c *fiber.Ctx) error {
	return h.entityHistory(c, domain.KindAccount)
}

func (h *AuditHandler) entityHistory(c *fiber.Ctx, kind domain.EntityKind) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	entries, err := h.auditService.EntityHistory(c.Context(), kind, id)
	if err != nil {
		return response.InternalServerError(c, "Failed to load history")
	}

	return response.Success(c, "History retrieved successfully", entries)
}
