package repositories

import (
	"context"
	"fmt"

	"finec-backoffice/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// savingsRepository implements SavingsRepository
type savingsRepository struct {
	db *gorm.DB
}

// NewSavingsRepository creates a new savings repository
func NewSavingsRepository(db *gorm.DB) SavingsRepository {
	return &savingsRepository{db: db}
}

// savingsScope ignores Scope.AgentID: savings accounts belong to an
// agency, not an originating agent.
func savingsScope(q *gorm.DB, scope Scope) *gorm.DB {
	if scope.AgencyID != nil {
		q = q.Where("agency_id = ?", *scope.AgencyID)
	}
	if scope.ServicePoint != nil {
		q = q.Where("service_point = ?", *scope.ServicePoint)
	}
	if scope.Status != nil {
		q = q.Where("status = ?", *scope.Status)
	}
	return q
}

func (r *savingsRepository) Create(ctx context.Context, savings *models.Savings) error {
	return r.db.WithContext(ctx).Create(savings).Error
}

func (r *savingsRepository) GetByID(ctx context.Context, id uint) (*models.Savings, error) {
	var savings models.Savings
	err := r.db.WithContext(ctx).
		Preload("Deposits", func(db *gorm.DB) *gorm.DB {
			return db.Order("deposits.created_at ASC, deposits.id ASC")
		}).
		Preload("Withdrawals", func(db *gorm.DB) *gorm.DB {
			return db.Order("withdrawals.created_at ASC, withdrawals.id ASC")
		}).
		Where("id = ?", id).
		First(&savings).Error
	if err != nil {
		return nil, translate(err)
	}
	return &savings, nil
}

// RecordDeposit saves the updated balances and appends the deposit row
// in one transaction.
func (r *savingsRepository) RecordDeposit(ctx context.Context, savings *models.Savings, deposit *models.Deposit) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Deposits", "Withdrawals").Save(savings).Error; err != nil {
			return err
		}
		deposit.SavingsID = savings.ID
		return tx.Create(deposit).Error
	})
}

// RecordWithdrawal saves the updated balance and appends the withdrawal
// row in one transaction.
func (r *savingsRepository) RecordWithdrawal(ctx context.Context, savings *models.Savings, withdrawal *models.Withdrawal) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Deposits", "Withdrawals").Save(savings).Error; err != nil {
			return err
		}
		withdrawal.SavingsID = savings.ID
		return tx.Create(withdrawal).Error
	})
}

func (r *savingsRepository) List(ctx context.Context, scope Scope, offset, limit int) ([]*models.Savings, int64, error) {
	var savings []*models.Savings
	var total int64

	q := savingsScope(r.db.WithContext(ctx).Model(&models.Savings{}), scope)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&savings).Error
	if err != nil {
		return nil, 0, err
	}
	return savings, total, nil
}

func (r *savingsRepository) ListAll(ctx context.Context, scope Scope) ([]*models.Savings, error) {
	var savings []*models.Savings
	q := savingsScope(r.db.WithContext(ctx).Model(&models.Savings{}), scope)
	err := q.Order("created_at DESC").Find(&savings).Error
	return savings, err
}

func (r *savingsRepository) CountByYear(ctx context.Context, year int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Savings{}).
		Where("account_number LIKE ?", fmt.Sprintf("EP-%d-%%", year)).
		Count(&count).Error
	return count, err
}
