package repositories

import (
	"context"

	"finec-backoffice/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// agencyRepository implements AgencyRepository
type agencyRepository struct {
	db *gorm.DB
}

// NewAgencyRepository creates a new agency repository
func NewAgencyRepository(db *gorm.DB) AgencyRepository {
	return &agencyRepository{db: db}
}

func (r *agencyRepository) Create(ctx context.Context, agency *models.Agency) error {
	return r.db.WithContext(ctx).Create(agency).Error
}

func (r *agencyRepository) GetByID(ctx context.Context, id uint) (*models.Agency, error) {
	var agency models.Agency
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&agency).Error
	if err != nil {
		return nil, translate(err)
	}
	return &agency, nil
}

func (r *agencyRepository) List(ctx context.Context) ([]*models.Agency, error) {
	var agencies []*models.Agency
	err := r.db.WithContext(ctx).Order("code").Find(&agencies).Error
	return agencies, err
}

func (r *agencyRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Agency{}).Count(&count).Error
	return count, err
}
