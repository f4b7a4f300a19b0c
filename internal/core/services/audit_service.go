package services

import (
	"context"
	"time"

	"finec-backoffice/internal/adapters/persistence/models"
	"finec-backoffice/internal/adapters/persistence/repositories"
	"finec-backoffice/internal/core/domain"
)

// AuditQuery narrows the global audit view
type AuditQuery struct {
	Kind       *domain.HistoryKind
	EntityType *domain.EntityKind
	AgencyID   *uint
	From       *time.Time
	To         *time.Time
	Limit      int
}

// AuditSummary counts entries per kind over the returned window
type AuditSummary struct {
	Total       int64 `json:"total"`
	Creations   int64 `json:"creations"`
	Validations int64 `json:"validations"`
	Approvals   int64 `json:"approvals"`
	Rejections  int64 `json:"rejections"`
}

// AuditService reconstructs the global audit trail from the shared
// history ledger. Classification comes from the Kind stamped at write
// time, never from parsing action labels.
type AuditService struct {
	historyRepo repositories.HistoryRepository
}

// NewAuditService creates a new audit service
func NewAuditService(historyRepo repositories.HistoryRepository) *AuditService {
	return &AuditService{historyRepo: historyRepo}
}

const defaultAuditLimit = 200

// List returns history entries newest first, with a per-kind summary.
// General management and IT only.
func (s *AuditService) List(ctx context.Context, viewer Viewer, query AuditQuery) ([]*models.HistoryEntry, *AuditSummary, error) {
	if viewer.Role != domain.RoleDG && viewer.Role != domain.RoleDSI {
		return nil, nil, domain.ErrForbidden
	}

	limit := query.Limit
	if limit <= 0 {
		limit = defaultAuditLimit
	}

	entries, err := s.historyRepo.List(ctx, repositories.AuditFilter{
		Kind:       query.Kind,
		EntityType: query.EntityType,
		AgencyID:   query.AgencyID,
		From:       query.From,
		To:         query.To,
		Limit:      limit,
	})
	if err != nil {
		return nil, nil, err
	}

	summary := &AuditSummary{}
	for _, entry := range entries {
		summary.Total++
		switch entry.Kind {
		case domain.HistoryCreation:
			summary.Creations++
		case domain.HistoryValidation:
			summary.Validations++
		case domain.HistoryApproval:
			summary.Approvals++
		case domain.HistoryRejection:
			summary.Rejections++
		}
	}

	return entries, summary, nil
}

// EntityHistory returns the ledger for one workflow entity, oldest
// first, so the decision chain reads top to bottom
func (s *AuditService) EntityHistory(ctx context.Context, kind domain.EntityKind, entityID uint) ([]*models.HistoryEntry, error) {
	return s.historyRepo.ListByEntity(ctx, kind, entityID)
}
