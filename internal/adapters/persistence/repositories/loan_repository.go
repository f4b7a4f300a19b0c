package repositories

import (
	"context"
	"fmt"

	"finec-backoffice/internal/adapters/persistence/models"
	"finec-backoffice/internal/core/domain"

	"gorm.io/gorm"
)

// loanRepository implements LoanRequestRepository
type loanRepository struct {
	db *gorm.DB
}

// NewLoanRequestRepository creates a new loan request repository
func NewLoanRequestRepository(db *gorm.DB) LoanRequestRepository {
	return &loanRepository{db: db}
}

// Create persists the loan request and its creation history entry in
// one transaction.
func (r *loanRepository) Create(ctx context.Context, loan *models.LoanRequest, entry *models.HistoryEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(loan).Error; err != nil {
			return err
		}
		entry.EntityType = string(domain.KindLoanRequest)
		entry.EntityID = loan.ID
		return tx.Create(entry).Error
	})
}

func (r *loanRepository) GetByID(ctx context.Context, id uint) (*models.LoanRequest, error) {
	var loan models.LoanRequest
	err := r.db.WithContext(ctx).
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("history_entries.created_at ASC, history_entries.id ASC")
		}).
		Where("id = ?", id).
		First(&loan).Error
	if err != nil {
		return nil, translate(err)
	}
	return &loan, nil
}

// Update persists the modified loan request, appending a history entry
// in the same transaction when the change is a workflow transition.
func (r *loanRepository) Update(ctx context.Context, loan *models.LoanRequest, entry *models.HistoryEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("History").Save(loan).Error; err != nil {
			return err
		}
		if entry == nil {
			return nil
		}
		entry.EntityType = string(domain.KindLoanRequest)
		entry.EntityID = loan.ID
		return tx.Create(entry).Error
	})
}

func (r *loanRepository) List(ctx context.Context, scope Scope, offset, limit int) ([]*models.LoanRequest, int64, error) {
	var loans []*models.LoanRequest
	var total int64

	q := applyScope(r.db.WithContext(ctx).Model(&models.LoanRequest{}), scope)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&loans).Error
	if err != nil {
		return nil, 0, err
	}
	return loans, total, nil
}

func (r *loanRepository) ListAll(ctx context.Context, scope Scope) ([]*models.LoanRequest, error) {
	var loans []*models.LoanRequest
	q := applyScope(r.db.WithContext(ctx).Model(&models.LoanRequest{}), scope)
	err := q.Order("created_at DESC").Find(&loans).Error
	return loans, err
}

func (r *loanRepository) CountByYear(ctx context.Context, year int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.LoanRequest{}).
		Where("request_number LIKE ?", fmt.Sprintf("CR-%d-%%", year)).
		Count(&count).Error
	return count, err
}
