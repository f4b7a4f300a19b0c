package repositories

import (
	"context"
	"fmt"

	"finec-backoffice/internal/adapters/persistence/models"
	"finec-backoffice/internal/core/domain"

	"gorm.io/gorm"
)

// accountRepository implements AccountRepository
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, account *models.Account, entry *models.HistoryEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(account).Error; err != nil {
			return err
		}
		entry.EntityType = string(domain.KindAccount)
		entry.EntityID = account.ID
		return tx.Create(entry).Error
	})
}

func (r *accountRepository) GetByID(ctx context.Context, id uint) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("history_entries.created_at ASC, history_entries.id ASC")
		}).
		Where("id = ?", id).
		First(&account).Error
	if err != nil {
		return nil, translate(err)
	}
	return &account, nil
}

func (r *accountRepository) Update(ctx context.Context, account *models.Account, entry *models.HistoryEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("History").Save(account).Error; err != nil {
			return err
		}
		if entry == nil {
			return nil
		}
		entry.EntityType = string(domain.KindAccount)
		entry.EntityID = account.ID
		return tx.Create(entry).Error
	})
}

func (r *accountRepository) List(ctx context.Context, scope Scope, offset, limit int) ([]*models.Account, int64, error) {
	var accounts []*models.Account
	var total int64

	q := applyScope(r.db.WithContext(ctx).Model(&models.Account{}), scope)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&accounts).Error
	if err != nil {
		return nil, 0, err
	}
	return accounts, total, nil
}

func (r *accountRepository) ListAll(ctx context.Context, scope Scope) ([]*models.Account, error) {
	var accounts []*models.Account
	q := applyScope(r.db.WithContext(ctx).Model(&models.Account{}), scope)
	err := q.Order("created_at DESC").Find(&accounts).Error
	return accounts, err
}

func (r *accountRepository) CountByYear(ctx context.Context, year int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("account_number LIKE ?", fmt.Sprintf("FINEC-%d-%%", year)).
		Count(&count).Error
	return count, err
}
