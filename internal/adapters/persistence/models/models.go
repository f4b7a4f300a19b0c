package models

import (
	"time"

	"finec-backoffice/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Reference & access data
// ============================================================

// Agency represents the agencies table. Static reference data, seeded
// at startup.
type Agency struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Code          string    `gorm:"size:20;uniqueIndex;not null" json:"code"`
	Name          string    `gorm:"size:100;not null" json:"name"`
	ServicePoints []string  `gorm:"serializer:json" json:"service_points"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Agency) TableName() string {
	return "agencies"
}

// User represents the users table
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Email        string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password     string         `gorm:"size:255;not null" json:"-"`
	FirstName    string         `gorm:"size:50;not null" json:"first_name"`
	LastName     string         `gorm:"size:50;not null" json:"last_name"`
	Role         domain.Role    `gorm:"size:20;not null;index" json:"role"`
	AgencyID     uint           `gorm:"not null;index" json:"agency_id"`
	ServicePoint string         `gorm:"size:100" json:"service_point,omitempty"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Agency *Agency `gorm:"foreignKey:AgencyID" json:"agency,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// FullName returns the display name recorded on history entries
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// UserResponse DTO
type UserResponse struct {
	ID           uint        `json:"id"`
	Email        string      `json:"email"`
	FirstName    string      `json:"first_name"`
	LastName     string      `json:"last_name"`
	Role         domain.Role `json:"role"`
	AgencyID     uint        `json:"agency_id"`
	AgencyName   string      `json:"agency_name,omitempty"`
	ServicePoint string      `json:"service_point,omitempty"`
	IsActive     bool        `json:"is_active"`
	CreatedAt    time.Time   `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	resp := &UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Role:         u.Role,
		AgencyID:     u.AgencyID,
		ServicePoint: u.ServicePoint,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
	}
	if u.Agency != nil {
		resp.AgencyName = u.Agency.Name
	}
	return resp
}

// RefreshToken represents the refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Workflow entities
// ============================================================

// HistoryEntry is the append-only audit ledger shared by loan requests
// and account openings. Entries are immutable once written; Kind is
// assigned by the workflow engine at write time.
type HistoryEntry struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	EntityType string `gorm:"size:20;not null;index:idx_history_entity" json:"entity_type"`
	EntityID   uint   `gorm:"not null;index:idx_history_entity" json:"entity_id"`
	// EntityNumber and AgencyID are denormalized from the owning
	// entity at write time so audit views need no join.
	EntityNumber string             `gorm:"size:20" json:"entity_number"`
	AgencyID     uint               `gorm:"not null;index" json:"agency_id"`
	UserID       uint               `gorm:"not null" json:"user_id"`
	UserName     string             `gorm:"size:100;not null" json:"user_name"`
	UserRole     domain.Role        `gorm:"size:20;not null" json:"user_role"`
	Action       string             `gorm:"size:200;not null" json:"action"`
	Kind         domain.HistoryKind `gorm:"size:20;not null;index" json:"kind"`
	Comment      string             `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt    time.Time          `gorm:"autoCreateTime;index" json:"created_at"`
}

func (HistoryEntry) TableName() string {
	return "history_entries"
}

// LoanRequest represents the loan_requests table. Never deleted:
// rejected and approved are terminal states, not removals.
type LoanRequest struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	RequestNumber string        `gorm:"size:20;uniqueIndex;not null" json:"request_number"`
	AgentID       uint          `gorm:"not null;index" json:"agent_id"`
	AgentName     string        `gorm:"size:100;not null" json:"agent_name"`
	AgencyID      uint          `gorm:"not null;index" json:"agency_id"`
	ServicePoint  string        `gorm:"size:100" json:"service_point,omitempty"`
	Status        domain.Status `gorm:"size:30;not null;index" json:"status"`

	ClientName    string `gorm:"size:100;not null" json:"client_name"`
	ClientPhone   string `gorm:"size:30" json:"client_phone"`
	ClientEmail   string `gorm:"size:100" json:"client_email"`
	ClientAddress string `gorm:"size:200" json:"client_address"`

	Amount       float64 `gorm:"type:decimal(15,2);not null" json:"amount"`
	Duration     int     `gorm:"not null" json:"duration"`
	InterestRate float64 `gorm:"type:decimal(5,2);not null" json:"interest_rate"`
	Purpose      string  `gorm:"type:text" json:"purpose"`

	// Documents maps named slots (identityCard, proofOfAddress,
	// incomeStatement, bankStatement) to opaque upload tokens.
	Documents map[string]string `gorm:"serializer:json" json:"documents"`
	Signature string            `gorm:"size:255" json:"signature,omitempty"`

	History []HistoryEntry `gorm:"polymorphic:Entity;polymorphicValue:loan_request" json:"history,omitempty"`

	ApprovedAt *time.Time `json:"approved_at"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (LoanRequest) TableName() string {
	return "loan_requests"
}

// Account represents the accounts table (account-opening requests).
// Same workflow shape as LoanRequest with type-variant fields.
type Account struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	AccountNumber string        `gorm:"size:20;uniqueIndex;not null" json:"account_number"`
	AgentID       uint          `gorm:"not null;index" json:"agent_id"`
	AgentName     string        `gorm:"size:100;not null" json:"agent_name"`
	AgencyID      uint          `gorm:"not null;index" json:"agency_id"`
	ServicePoint  string        `gorm:"size:100" json:"service_point,omitempty"`
	Status        domain.Status `gorm:"size:30;not null;index" json:"status"`
	AccountType   string        `gorm:"size:20;not null" json:"account_type"`

	ClientName       string `gorm:"size:100;not null" json:"client_name"`
	ClientPhone      string `gorm:"size:30" json:"client_phone"`
	ClientEmail      string `gorm:"size:100" json:"client_email"`
	ClientAddress    string `gorm:"size:200" json:"client_address"`
	ClientBirthDate  string `gorm:"size:20" json:"client_birth_date"`
	ClientIDNumber   string `gorm:"size:50" json:"client_id_number"`
	ClientProfession string `gorm:"size:100" json:"client_profession"`

	// Joint account second holder
	SecondHolderName     string `gorm:"size:100" json:"second_holder_name,omitempty"`
	SecondHolderPhone    string `gorm:"size:30" json:"second_holder_phone,omitempty"`
	SecondHolderEmail    string `gorm:"size:100" json:"second_holder_email,omitempty"`
	SecondHolderIDNumber string `gorm:"size:50" json:"second_holder_id_number,omitempty"`

	// Business account
	BusinessName         string `gorm:"size:100" json:"business_name,omitempty"`
	BusinessRegistration string `gorm:"size:100" json:"business_registration,omitempty"`

	InitialDeposit float64 `gorm:"type:decimal(15,2);not null" json:"initial_deposit"`

	Documents             map[string]string `gorm:"serializer:json" json:"documents"`
	Signature             string            `gorm:"size:255" json:"signature,omitempty"`
	SecondHolderSignature string            `gorm:"size:255" json:"second_holder_signature,omitempty"`

	History []HistoryEntry `gorm:"polymorphic:Entity;polymorphicValue:account" json:"history,omitempty"`

	ApprovedAt *time.Time `json:"approved_at"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Account) TableName() string {
	return "accounts"
}

// ============================================================
// Ledgers
// ============================================================

// ActiveCredit represents the active_credits table, derived when a loan
// request reaches APPROVED. Invariant: AmountPaid + AmountRemaining ==
// TotalAmount.
type ActiveCredit struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	LoanRequestID uint   `gorm:"uniqueIndex;not null" json:"loan_request_id"`
	RequestNumber string `gorm:"size:20;not null" json:"request_number"`
	ClientName    string `gorm:"size:100;not null" json:"client_name"`
	ClientPhone   string `gorm:"size:30" json:"client_phone"`
	AgentID       uint   `gorm:"not null;index" json:"agent_id"`
	AgentName     string `gorm:"size:100" json:"agent_name"`
	AgencyID      uint   `gorm:"not null;index" json:"agency_id"`
	ServicePoint  string `gorm:"size:100" json:"service_point,omitempty"`

	TotalAmount    float64 `gorm:"type:decimal(15,2);not null" json:"total_amount"`
	Duration       int     `gorm:"not null" json:"duration"`
	InterestRate   float64 `gorm:"type:decimal(5,2);not null" json:"interest_rate"`
	MonthlyPayment float64 `gorm:"type:decimal(15,2);not null" json:"monthly_payment"`

	AmountPaid        float64 `gorm:"type:decimal(15,2);not null;default:0" json:"amount_paid"`
	AmountRemaining   float64 `gorm:"type:decimal(15,2);not null" json:"amount_remaining"`
	PaymentsCompleted int     `gorm:"not null;default:0" json:"payments_completed"`
	PaymentsRemaining int     `gorm:"not null" json:"payments_remaining"`

	StartDate       time.Time `gorm:"type:date;not null" json:"start_date"`
	NextPaymentDate time.Time `gorm:"type:date;not null" json:"next_payment_date"`
	EndDate         time.Time `gorm:"type:date;not null" json:"end_date"`

	Status      string `gorm:"size:20;not null;default:'CURRENT'" json:"status"`
	DaysOverdue int    `gorm:"not null;default:0" json:"days_overdue"`

	Payments []Payment `gorm:"foreignKey:CreditID" json:"payments,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ActiveCredit) TableName() string {
	return "active_credits"
}

// Payment represents the payments table. Append-only.
type Payment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CreditID   uint      `gorm:"not null;index" json:"credit_id"`
	Amount     float64   `gorm:"type:decimal(15,2);not null" json:"amount"`
	Method     string    `gorm:"size:50;not null" json:"method"`
	Reference  string    `gorm:"size:50;uniqueIndex;not null" json:"reference"`
	RecordedBy uint      `gorm:"not null" json:"recorded_by"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Payment) TableName() string {
	return "payments"
}

// Savings represents the savings table. Independent of the approval
// workflow. Invariant: CurrentBalance == TotalSaved - sum(withdrawals).
type Savings struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	AccountNumber string `gorm:"size:20;uniqueIndex;not null" json:"account_number"`
	ClientName    string `gorm:"size:100;not null" json:"client_name"`
	ClientPhone   string `gorm:"size:30" json:"client_phone"`
	ClientEmail   string `gorm:"size:100" json:"client_email"`
	AgencyID      uint   `gorm:"not null;index" json:"agency_id"`
	ServicePoint  string `gorm:"size:100" json:"service_point,omitempty"`

	Type           string   `gorm:"size:20;not null" json:"type"`
	TotalSaved     float64  `gorm:"type:decimal(15,2);not null;default:0" json:"total_saved"`
	CurrentBalance float64  `gorm:"type:decimal(15,2);not null;default:0" json:"current_balance"`
	TargetAmount   *float64 `gorm:"type:decimal(15,2)" json:"target_amount,omitempty"`

	OpenedDate      time.Time  `gorm:"type:date;not null" json:"opened_date"`
	LastDepositDate *time.Time `gorm:"type:date" json:"last_deposit_date,omitempty"`
	MaturityDate    *time.Time `gorm:"type:date" json:"maturity_date,omitempty"`

	Status string `gorm:"size:20;not null;default:'ACTIVE'" json:"status"`

	Deposits    []Deposit    `gorm:"foreignKey:SavingsID" json:"deposits,omitempty"`
	Withdrawals []Withdrawal `gorm:"foreignKey:SavingsID" json:"withdrawals,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Savings) TableName() string {
	return "savings"
}

// Deposit represents the deposits table. Append-only.
type Deposit struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SavingsID  uint      `gorm:"not null;index" json:"savings_id"`
	Amount     float64   `gorm:"type:decimal(15,2);not null" json:"amount"`
	Method     string    `gorm:"size:50;not null" json:"method"`
	Reference  string    `gorm:"size:50;uniqueIndex;not null" json:"reference"`
	RecordedBy uint      `gorm:"not null" json:"recorded_by"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Deposit) TableName() string {
	return "deposits"
}

// Withdrawal represents the withdrawals table. Append-only. ApprovedBy
// is recorded as data; no rule enforces who may approve.
type Withdrawal struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SavingsID  uint      `gorm:"not null;index" json:"savings_id"`
	Amount     float64   `gorm:"type:decimal(15,2);not null" json:"amount"`
	Reason     string    `gorm:"size:200" json:"reason"`
	Reference  string    `gorm:"size:50;uniqueIndex;not null" json:"reference"`
	ApprovedBy string    `gorm:"size:100" json:"approved_by"`
	RecordedBy uint      `gorm:"not null" json:"recorded_by"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Withdrawal) TableName() string {
	return "withdrawals"
}

// Cheque represents the cheques table. Status is set directly, no
// transition engine.
type Cheque struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ChequeNumber    string    `gorm:"size:50;uniqueIndex;not null" json:"cheque_number"`
	ClientName      string    `gorm:"size:100;not null" json:"client_name"`
	Amount          float64   `gorm:"type:decimal(15,2);not null" json:"amount"`
	Date            time.Time `gorm:"type:date;not null" json:"date"`
	AgencyID        uint      `gorm:"not null;index" json:"agency_id"`
	ServicePoint    string    `gorm:"size:100" json:"service_point,omitempty"`
	Status          string    `gorm:"size:20;not null;default:'ACTIVE'" json:"status"`
	ScannedDocument string    `gorm:"size:255" json:"scanned_document,omitempty"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Cheque) TableName() string {
	return "cheques"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Agency{},
		&User{},
		&RefreshToken{},
		&LoanRequest{},
		&Account{},
		&HistoryEntry{},
		&ActiveCredit{},
		&Payment{},
		&Savings{},
		&Deposit{},
		&Withdrawal{},
		&Cheque{},
	)
}
