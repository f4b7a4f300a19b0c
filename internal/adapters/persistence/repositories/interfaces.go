package repositories

import (
	"context"
	"time"

	"finec-backoffice/internal/adapters/persistence/models"
	"finec-backoffice/internal/core/domain"
)

// Scope restricts list and aggregate queries to what the caller may
// see: agents their own requests, branch managers their agency
// (optionally one service point), operations and general management
// everything with an optional agency filter.
type Scope struct {
	AgentID      *uint
	AgencyID     *uint
	ServicePoint *string
	Status       *domain.Status
}

// AuditFilter narrows the global audit log reconstruction
type AuditFilter struct {
	Kind       *domain.HistoryKind
	EntityType *domain.EntityKind
	AgencyID   *uint
	From       *time.Time
	To         *time.Time
	Limit      int
}

// UserRepository defines the user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// AgencyRepository defines the agency repository interface
type AgencyRepository interface {
	Create(ctx context.Context, agency *models.Agency) error
	GetByID(ctx context.Context, id uint) (*models.Agency, error)
	List(ctx context.Context) ([]*models.Agency, error)
	Count(ctx context.Context) (int64, error)
}

// RefreshTokenRepository defines the refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) error
}

// LoanRequestRepository defines the loan request repository interface.
// Create and Update persist the entity and its history entry in one
// transaction so a transition is never half-applied.
type LoanRequestRepository interface {
	Create(ctx context.Context, loan *models.LoanRequest, entry *models.HistoryEntry) error
	GetByID(ctx context.Context, id uint) (*models.LoanRequest, error)
	Update(ctx context.Context, loan *models.LoanRequest, entry *models.HistoryEntry) error
	List(ctx context.Context, scope Scope, offset, limit int) ([]*models.LoanRequest, int64, error)
	ListAll(ctx context.Context, scope Scope) ([]*models.LoanRequest, error)
	CountByYear(ctx context.Context, year int) (int64, error)
}

// AccountRepository defines the account-opening repository interface
type AccountRepository interface {
	Create(ctx context.Context, account *models.Account, entry *models.HistoryEntry) error
	GetByID(ctx context.Context, id uint) (*models.Account, error)
	Update(ctx context.Context, account *models.Account, entry *models.HistoryEntry) error
	List(ctx context.Context, scope Scope, offset, limit int) ([]*models.Account, int64, error)
	ListAll(ctx context.Context, scope Scope) ([]*models.Account, error)
	CountByYear(ctx context.Context, year int) (int64, error)
}

// HistoryRepository reads the shared append-only ledger. Writes go
// through the owning entity's repository.
type HistoryRepository interface {
	ListByEntity(ctx context.Context, kind domain.EntityKind, entityID uint) ([]*models.HistoryEntry, error)
	List(ctx context.Context, filter AuditFilter) ([]*models.HistoryEntry, error)
}

// CreditRepository defines the active credit repository interface.
// RecordPayment persists the updated counters and the payment row in
// one transaction.
type CreditRepository interface {
	Create(ctx context.Context, credit *models.ActiveCredit) error
	GetByID(ctx context.Context, id uint) (*models.ActiveCredit, error)
	RecordPayment(ctx context.Context, credit *models.ActiveCredit, payment *models.Payment) error
	List(ctx context.Context, scope Scope, offset, limit int) ([]*models.ActiveCredit, int64, error)
	ListAll(ctx context.Context, scope Scope) ([]*models.ActiveCredit, error)
}

// SavingsRepository defines the savings repository interface
type SavingsRepository interface {
	Create(ctx context.Context, savings *models.Savings) error
	GetByID(ctx context.Context, id uint) (*models.Savings, error)
	RecordDeposit(ctx context.Context, savings *models.Savings, deposit *models.Deposit) error
	RecordWithdrawal(ctx context.Context, savings *models.Savings, withdrawal *models.Withdrawal) error
	List(ctx context.Context, scope Scope, offset, limit int) ([]*models.Savings, int64, error)
	ListAll(ctx context.Context, scope Scope) ([]*models.Savings, error)
	CountByYear(ctx context.Context, year int) (int64, error)
}

// ChequeRepository defines the cheque repository interface
type ChequeRepository interface {
	Create(ctx context.Context, cheque *models.Cheque) error
	GetByID(ctx context.Context, id uint) (*models.Cheque, error)
	Update(ctx context.Context, cheque *models.Cheque) error
	List(ctx context.Context, scope Scope, offset, limit int) ([]*models.Cheque, int64, error)
}
