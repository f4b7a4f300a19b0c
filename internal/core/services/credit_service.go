package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"finec-backoffice/internal/adapters/persistence/models"
	"finec-backoffice/internal/adapters/persistence/repositories"
	"finec-backoffice/internal/core/domain"
	"finec-backoffice/internal/pkg/keylock"
)

// Credit service errors
var (
	ErrCreditNotFound     = errors.New("active credit not found")
	ErrCreditCompleted    = errors.New("credit is already fully repaid")
	ErrInvalidPayment     = errors.New("payment amount must be greater than 0")
	ErrPaymentExceedsDebt = errors.New("payment exceeds remaining balance")
)

// CreditService manages active credits and their payment ledger.
// Invariant preserved on every write: AmountPaid + AmountRemaining ==
// TotalAmount.
type CreditService struct {
	creditRepo repositories.CreditRepository
	locks      *keylock.KeyLock
}

// NewCreditService creates a new credit service
func NewCreditService(creditRepo repositories.CreditRepository, locks *keylock.KeyLock) *CreditService {
	return &CreditService{creditRepo: creditRepo, locks: locks}
}

// GetByID gets an active credit with its payments
func (s *CreditService) GetByID(ctx context.Context, id uint) (*models.ActiveCredit, error) {
	credit, err := s.creditRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrCreditNotFound
		}
		return nil, err
	}
	return credit, nil
}

// List lists active credits visible to the viewer
func (s *CreditService) List(ctx context.Context, viewer Viewer, filters ScopeFilters, offset, limit int) ([]*models.ActiveCredit, int64, error) {
	return s.creditRepo.List(ctx, ScopeFor(viewer, filters), offset, limit)
}

// RecordPaymentInput represents record payment input
type RecordPaymentInput struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
	Method string  `json:"method"`
}

// RecordPayment appends a payment and updates the running counters.
// Overpayment is refused; the credit moves to COMPLETED when the
// remaining balance reaches zero.
func (s *CreditService) RecordPayment(ctx context.Context, actor Viewer, id uint, input *RecordPaymentInput) (*models.ActiveCredit, error) {
	unlock := s.locks.Lock(fmt.Sprintf("credit-%d", id))
	defer unlock()

	credit, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if credit.Status == domain.CreditCompleted {
		return nil, ErrCreditCompleted
	}
	if input.Amount <= 0 {
		return nil, ErrInvalidPayment
	}
	if input.Amount > credit.AmountRemaining {
		return nil, ErrPaymentExceedsDebt
	}

	method := input.Method
	if method == "" {
		method = "CASH"
	}

	payment := &models.Payment{
		CreditID:   credit.ID,
		Amount:     input.Amount,
		Method:     method,
		Reference:  paymentReference("PAY"),
		RecordedBy: actor.UserID,
	}

	credit.AmountPaid += input.Amount
	credit.AmountRemaining -= input.Amount
	credit.PaymentsCompleted++
	if credit.PaymentsRemaining > 0 {
		credit.PaymentsRemaining--
	}

	if credit.AmountRemaining <= 0 {
		credit.AmountRemaining = 0
		credit.PaymentsRemaining = 0
		credit.Status = domain.CreditCompleted
	} else {
		credit.NextPaymentDate = credit.NextPaymentDate.AddDate(0, 1, 0)
	}

	if err := s.creditRepo.RecordPayment(ctx, credit, payment); err != nil {
		return nil, err
	}

	log.Printf("Payment %s recorded on credit %s: %.2f", payment.Reference, credit.RequestNumber, payment.Amount)
	return credit, nil
}

// RefreshOverdue recomputes LATE status and days overdue from the next
// payment date. Called from the dashboard path so lists stay current
// without a scheduler.
func (s *CreditService) RefreshOverdue(ctx context.Context, credit *models.ActiveCredit) {
	if credit.Status != domain.CreditCurrent && credit.Status != domain.CreditLate {
		return
	}
	now := time.Now()
	if now.Before(credit.NextPaymentDate) {
		credit.Status = domain.CreditCurrent
		credit.DaysOverdue = 0
		return
	}
	credit.Status = domain.CreditLate
	credit.DaysOverdue = int(now.Sub(credit.NextPaymentDate).Hours() / 24)
}

// paymentReference builds a unique ledger reference like PAY-1A2B3C4D
func paymentReference(prefix string) string {
	return prefix + "-" + strings.ToUpper(uuid.New().String()[:8])
}
