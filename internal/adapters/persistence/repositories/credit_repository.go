package repositories

import (
	"context"

	"finec-backoffice/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// creditRepository implements CreditRepository
type creditRepository struct {
	db *gorm.DB
}

// NewCreditRepository creates a new credit repository
func NewCreditRepository(db *gorm.DB) CreditRepository {
	return &creditRepository{db: db}
}

func (r *creditRepository) Create(ctx context.Context, credit *models.ActiveCredit) error {
	return r.db.WithContext(ctx).Create(credit).Error
}

func (r *creditRepository) GetByID(ctx context.Context, id uint) (*models.ActiveCredit, error) {
	var credit models.ActiveCredit
	err := r.db.WithContext(ctx).
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("payments.created_at ASC, payments.id ASC")
		}).
		Where("id = ?", id).
		First(&credit).Error
	if err != nil {
		return nil, translate(err)
	}
	return &credit, nil
}

// RecordPayment saves the updated running counters and appends the
// payment row in one transaction.
func (r *creditRepository) RecordPayment(ctx context.Context, credit *models.ActiveCredit, payment *models.Payment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Payments").Save(credit).Error; err != nil {
			return err
		}
		payment.CreditID = credit.ID
		return tx.Create(payment).Error
	})
}

func (r *creditRepository) List(ctx context.Context, scope Scope, offset, limit int) ([]*models.ActiveCredit, int64, error) {
	var credits []*models.ActiveCredit
	var total int64

	q := applyScope(r.db.WithContext(ctx).Model(&models.ActiveCredit{}), scope)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&credits).Error
	if err != nil {
		return nil, 0, err
	}
	return credits, total, nil
}

func (r *creditRepository) ListAll(ctx context.Context, scope Scope) ([]*models.ActiveCredit, error) {
	var credits []*models.ActiveCredit
	q := applyScope(r.db.WithContext(ctx).Model(&models.ActiveCredit{}), scope)
	err := q.Order("created_at DESC").Find(&credits).Error
	return credits, err
}
