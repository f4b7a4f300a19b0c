package repositories

import (
	"context"

	"finec-backoffice/internal/adapters/persistence/models"
	"finec-backoffice/internal/core/domain"

	"gorm.io/gorm"
)

// historyRepository implements HistoryRepository
type historyRepository struct {
	db *gorm.DB
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) ListByEntity(ctx context.Context, kind domain.EntityKind, entityID uint) ([]*models.HistoryEntry, error) {
	var entries []*models.HistoryEntry
	err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", string(kind), entityID).
		Order("created_at ASC, id ASC").
		Find(&entries).Error
	return entries, err
}

// List returns history entries across all entities, most recent first.
// This is the flattened global audit log.
func (r *historyRepository) List(ctx context.Context, filter AuditFilter) ([]*models.HistoryEntry, error) {
	q := r.db.WithContext(ctx).Model(&models.HistoryEntry{})

	if filter.Kind != nil {
		q = q.Where("kind = ?", string(*filter.Kind))
	}
	if filter.EntityType != nil {
		q = q.Where("entity_type = ?", string(*filter.EntityType))
	}
	if filter.AgencyID != nil {
		q = q.Where("agency_id = ?", *filter.AgencyID)
	}
	if filter.From != nil {
		q = q.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("created_at <= ?", *filter.To)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var entries []*models.HistoryEntry
	err := q.Order("created_at DESC, id DESC").Find(&entries).Error
	return entries, err
}
