package repositories

import (
	"context"

	"finec-backoffice/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// chequeRepository implements ChequeRepository
type chequeRepository struct {
	db *gorm.DB
}

// NewChequeRepository creates a new cheque repository
func NewChequeRepository(db *gorm.DB) ChequeRepository {
	return &chequeRepository{db: db}
}

func (r *chequeRepository) Create(ctx context.Context, cheque *models.Cheque) error {
	return r.db.WithContext(ctx).Create(cheque).Error
}

func (r *chequeRepository) GetByID(ctx context.Context, id uint) (*models.Cheque, error) {
	var cheque models.Cheque
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&cheque).Error
	if err != nil {
		return nil, translate(err)
	}
	return &cheque, nil
}

func (r *chequeRepository) Update(ctx context.Context, cheque *models.Cheque) error {
	return r.db.WithContext(ctx).Save(cheque).Error
}

func (r *chequeRepository) List(ctx context.Context, scope Scope, offset, limit int) ([]*models.Cheque, int64, error) {
	var cheques []*models.Cheque
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Cheque{})
	if scope.AgencyID != nil {
		q = q.Where("agency_id = ?", *scope.AgencyID)
	}
	if scope.ServicePoint != nil {
		q = q.Where("service_point = ?", *scope.ServicePoint)
	}
	if scope.Status != nil {
		q = q.Where("status = ?", *scope.Status)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("date DESC").Offset(offset).Limit(limit).Find(&cheques).Error
	if err != nil {
		return nil, 0, err
	}
	return cheques, total, nil
}
