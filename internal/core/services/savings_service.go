package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"finec-backoffice/internal/adapters/persistence/models"
	"finec-backoffice/internal/adapters/persistence/repositories"
	"finec-backoffice/internal/core/domain"
	"finec-backoffice/internal/pkg/keylock"
)

// Savings service errors
var (
	ErrSavingsNotFound    = errors.New("savings account not found")
	ErrSavingsNotActive   = errors.New("savings account is not active")
	ErrInvalidSavingsType = errors.New("savings type must be MONTHLY, PROJECT or VOLUNTARY")
	ErrInvalidDepositAmt  = errors.New("deposit amount must be greater than 0")
	ErrInsufficientFunds  = errors.New("withdrawal exceeds current balance")
)

// SavingsService manages savings accounts and their deposit and
// withdrawal ledgers. Invariant preserved on every write:
// CurrentBalance == TotalSaved - sum(withdrawals).
type SavingsService struct {
	savingsRepo repositories.SavingsRepository
	userRepo    repositories.UserRepository
	locks       *keylock.KeyLock
}

// NewSavingsService creates a new savings service
func NewSavingsService(
	savingsRepo repositories.SavingsRepository,
	userRepo repositories.UserRepository,
	locks *keylock.KeyLock,
) *SavingsService {
	return &SavingsService{savingsRepo: savingsRepo, userRepo: userRepo, locks: locks}
}

// OpenSavingsInput represents open savings account input
type OpenSavingsInput struct {
	ClientName     string     `json:"client_name" validate:"required"`
	ClientPhone    string     `json:"client_phone"`
	ClientEmail    string     `json:"client_email"`
	Type           string     `json:"type" validate:"required"`
	InitialDeposit float64    `json:"initial_deposit"`
	TargetAmount   *float64   `json:"target_amount,omitempty"`
	MaturityDate   *time.Time `json:"maturity_date,omitempty"`
}

// Open opens a new savings account. The opening agent's agency and
// service point are stamped on the account.
func (s *SavingsService) Open(ctx context.Context, actor Viewer, input *OpenSavingsInput) (*models.Savings, error) {
	switch input.Type {
	case domain.SavingsMonthly, domain.SavingsProject, domain.SavingsVoluntary:
	default:
		return nil, ErrInvalidSavingsType
	}
	if input.InitialDeposit < 0 {
		return nil, ErrInvalidDepositAmt
	}

	opener, err := s.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	year := time.Now().Year()
	seq, err := s.savingsRepo.CountByYear(ctx, year)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	savings := &models.Savings{
		AccountNumber:  fmt.Sprintf("EP-%d-%03d", year, seq+1),
		ClientName:     input.ClientName,
		ClientPhone:    input.ClientPhone,
		ClientEmail:    input.ClientEmail,
		AgencyID:       opener.AgencyID,
		ServicePoint:   opener.ServicePoint,
		Type:           input.Type,
		TotalSaved:     input.InitialDeposit,
		CurrentBalance: input.InitialDeposit,
		TargetAmount:   input.TargetAmount,
		OpenedDate:     now,
		MaturityDate:   input.MaturityDate,
		Status:         domain.SavingsActive,
	}
	if input.InitialDeposit > 0 {
		savings.LastDepositDate = &now
	}

	if err := s.savingsRepo.Create(ctx, savings); err != nil {
		return nil, err
	}

	log.Printf("Savings account opened: %s by %s", savings.AccountNumber, opener.Email)
	return savings, nil
}

// GetByID gets a savings account with its ledgers
func (s *SavingsService) GetByID(ctx context.Context, id uint) (*models.Savings, error) {
	savings, err := s.savingsRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrSavingsNotFound
		}
		return nil, err
	}
	return savings, nil
}

// List lists savings accounts visible to the viewer
func (s *SavingsService) List(ctx context.Context, viewer Viewer, filters ScopeFilters, offset, limit int) ([]*models.Savings, int64, error) {
	return s.savingsRepo.List(ctx, ScopeFor(viewer, filters), offset, limit)
}

// DepositInput represents record deposit input
type DepositInput struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
	Method string  `json:"method"`
}

// RecordDeposit appends a deposit and raises both running totals
func (s *SavingsService) RecordDeposit(ctx context.Context, actor Viewer, id uint, input *DepositInput) (*models.Savings, error) {
	unlock := s.locks.Lock(fmt.Sprintf("savings-%d", id))
	defer unlock()

	savings, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if savings.Status != domain.SavingsActive {
		return nil, ErrSavingsNotActive
	}
	if input.Amount <= 0 {
		return nil, ErrInvalidDepositAmt
	}

	method := input.Method
	if method == "" {
		method = "CASH"
	}

	deposit := &models.Deposit{
		SavingsID:  savings.ID,
		Amount:     input.Amount,
		Method:     method,
		Reference:  paymentReference("DEP"),
		RecordedBy: actor.UserID,
	}

	now := time.Now()
	savings.TotalSaved += input.Amount
	savings.CurrentBalance += input.Amount
	savings.LastDepositDate = &now

	if err := s.savingsRepo.RecordDeposit(ctx, savings, deposit); err != nil {
		return nil, err
	}

	log.Printf("Deposit %s recorded on %s: %.2f", deposit.Reference, savings.AccountNumber, deposit.Amount)
	return savings, nil
}

// WithdrawalInput represents record withdrawal input. ApprovedBy is
// stored as data only.
type WithdrawalInput struct {
	Amount     float64 `json:"amount" validate:"required,gt=0"`
	Reason     string  `json:"reason"`
	ApprovedBy string  `json:"approved_by"`
}

// RecordWithdrawal appends a withdrawal and lowers the current balance.
// TotalSaved is the lifetime deposit sum and never decreases.
func (s *SavingsService) RecordWithdrawal(ctx context.Context, actor Viewer, id uint, input *WithdrawalInput) (*models.Savings, error) {
	unlock := s.locks.Lock(fmt.Sprintf("savings-%d", id))
	defer unlock()

	savings, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if savings.Status != domain.SavingsActive {
		return nil, ErrSavingsNotActive
	}
	if input.Amount <= 0 {
		return nil, ErrInvalidDepositAmt
	}
	if input.Amount > savings.CurrentBalance {
		return nil, ErrInsufficientFunds
	}

	withdrawal := &models.Withdrawal{
		SavingsID:  savings.ID,
		Amount:     input.Amount,
		Reason:     input.Reason,
		Reference:  paymentReference("RET"),
		ApprovedBy: input.ApprovedBy,
		RecordedBy: actor.UserID,
	}

	savings.CurrentBalance -= input.Amount

	if err := s.savingsRepo.RecordWithdrawal(ctx, savings, withdrawal); err != nil {
		return nil, err
	}

	log.Printf("Withdrawal %s recorded on %s: %.2f", withdrawal.Reference, savings.AccountNumber, withdrawal.Amount)
	return savings, nil
}
