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
	"finec-backoffice/internal/core/workflow"
	"finec-backoffice/internal/pkg/keylock"
)

// Loan service errors
var (
	ErrLoanNotFound    = errors.New("loan request not found")
	ErrCommentRequired = errors.New("rejection requires a comment")
	ErrInvalidAmount   = errors.New("amount must be greater than 0")
	ErrInvalidDuration = errors.New("duration must be greater than 0")
)

// DefaultInterestRate is the monthly flat rate applied to new credit
// requests, in percent.
const DefaultInterestRate = 1.25

// LoanService handles credit request business logic. All workflow
// transitions run inside a per-entity critical section so concurrent
// validations cannot double-apply.
type LoanService struct {
	loanRepo   repositories.LoanRequestRepository
	creditRepo repositories.CreditRepository
	userRepo   repositories.UserRepository
	engine     *workflow.Engine
	locks      *keylock.KeyLock
}

// NewLoanService creates a new loan service
func NewLoanService(
	loanRepo repositories.LoanRequestRepository,
	creditRepo repositories.CreditRepository,
	userRepo repositories.UserRepository,
	locks *keylock.KeyLock,
) *LoanService {
	return &LoanService{
		loanRepo:   loanRepo,
		creditRepo: creditRepo,
		userRepo:   userRepo,
		engine:     workflow.New(domain.KindLoanRequest),
		locks:      locks,
	}
}

// CreateLoanInput represents create loan request input
type CreateLoanInput struct {
	ClientName    string            `json:"client_name" validate:"required"`
	ClientPhone   string            `json:"client_phone"`
	ClientEmail   string            `json:"client_email"`
	ClientAddress string            `json:"client_address"`
	Amount        float64           `json:"amount" validate:"required,gt=0"`
	Duration      int               `json:"duration" validate:"required,gt=0"`
	InterestRate  float64           `json:"interest_rate"`
	Purpose       string            `json:"purpose"`
	Documents     map[string]string `json:"documents"`
	Signature     string            `json:"signature,omitempty"`
}

// Create creates a new loan request in PENDING status. Only agents
// originate requests.
func (s *LoanService) Create(ctx context.Context, actor Viewer, input *CreateLoanInput) (*models.LoanRequest, error) {
	if actor.Role != domain.RoleAgent {
		return nil, domain.ErrForbidden
	}
	if input.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if input.Duration <= 0 {
		return nil, ErrInvalidDuration
	}

	agent, err := s.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	rate := input.InterestRate
	if rate == 0 {
		rate = DefaultInterestRate
	}

	year := time.Now().Year()
	seq, err := s.loanRepo.CountByYear(ctx, year)
	if err != nil {
		return nil, err
	}

	docs := input.Documents
	if docs == nil {
		docs = map[string]string{}
	}

	loan := &models.LoanRequest{
		RequestNumber: fmt.Sprintf("CR-%d-%03d", year, seq+1),
		AgentID:       agent.ID,
		AgentName:     agent.FullName(),
		AgencyID:      agent.AgencyID,
		ServicePoint:  agent.ServicePoint,
		Status:        domain.StatusPending,
		ClientName:    input.ClientName,
		ClientPhone:   input.ClientPhone,
		ClientEmail:   input.ClientEmail,
		ClientAddress: input.ClientAddress,
		Amount:        input.Amount,
		Duration:      input.Duration,
		InterestRate:  rate,
		Purpose:       input.Purpose,
		Documents:     docs,
		Signature:     input.Signature,
	}

	action, kind := s.engine.CreationAction()
	entry := &models.HistoryEntry{
		EntityNumber: loan.RequestNumber,
		AgencyID:     loan.AgencyID,
		UserID:       agent.ID,
		UserName:     agent.FullName(),
		UserRole:     agent.Role,
		Action:       action,
		Kind:         kind,
	}

	if err := s.loanRepo.Create(ctx, loan, entry); err != nil {
		return nil, err
	}

	log.Printf("Loan request created: %s by %s", loan.RequestNumber, agent.Email)
	return loan, nil
}

// GetByID gets a loan request with its history
func (s *LoanService) GetByID(ctx context.Context, id uint) (*models.LoanRequest, error) {
	loan, err := s.loanRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrLoanNotFound
		}
		return nil, err
	}
	return loan, nil
}

// List lists loan requests visible to the viewer
func (s *LoanService) List(ctx context.Context, viewer Viewer, filters ScopeFilters, offset, limit int) ([]*models.LoanRequest, int64, error) {
	return s.loanRepo.List(ctx, ScopeFor(viewer, filters), offset, limit)
}

// Approve applies the next validation step. The required actor role
// depends on the current status; anyone else gets ErrForbidden and the
// entity is untouched.
func (s *LoanService) Approve(ctx context.Context, actor Viewer, id uint, comment string) (*models.LoanRequest, error) {
	unlock := s.locks.Lock(lockKey(domain.KindLoanRequest, id))
	defer unlock()

	loan, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	out, err := s.engine.Approve(loan.Status, actor.Role)
	if err != nil {
		return nil, mapWorkflowErr(err)
	}

	user, err := s.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	loan.Status = out.Next
	if out.Final {
		now := time.Now()
		loan.ApprovedAt = &now
	}

	entry := &models.HistoryEntry{
		EntityNumber: loan.RequestNumber,
		AgencyID:     loan.AgencyID,
		UserID:       user.ID,
		UserName:     user.FullName(),
		UserRole:     user.Role,
		Action:       out.Action,
		Kind:         out.Kind,
		Comment:      comment,
	}

	if err := s.loanRepo.Update(ctx, loan, entry); err != nil {
		return nil, err
	}

	if out.Final {
		if err := s.openCredit(ctx, loan); err != nil {
			// The approval stands; credit derivation is retried by ops
			log.Printf("Failed to open credit for %s: %v", loan.RequestNumber, err)
		}
	}

	log.Printf("Loan request %s: %s by %s", loan.RequestNumber, out.Action, user.Email)
	return loan, nil
}

// Reject rejects the request. The same role gate as Approve applies,
// and a non-blank comment is mandatory.
func (s *LoanService) Reject(ctx context.Context, actor Viewer, id uint, comment string) (*models.LoanRequest, error) {
	unlock := s.locks.Lock(lockKey(domain.KindLoanRequest, id))
	defer unlock()

	loan, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	out, err := s.engine.Reject(loan.Status, actor.Role, comment)
	if err != nil {
		return nil, mapWorkflowErr(err)
	}

	user, err := s.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	loan.Status = out.Next

	entry := &models.HistoryEntry{
		EntityNumber: loan.RequestNumber,
		AgencyID:     loan.AgencyID,
		UserID:       user.ID,
		UserName:     user.FullName(),
		UserRole:     user.Role,
		Action:       out.Action,
		Kind:         out.Kind,
		Comment:      comment,
	}

	if err := s.loanRepo.Update(ctx, loan, entry); err != nil {
		return nil, err
	}

	log.Printf("Loan request %s rejected by %s", loan.RequestNumber, user.Email)
	return loan, nil
}

// UpdateDocuments replaces document tokens on a non-terminal request.
// Only the originating agent may attach documents.
func (s *LoanService) UpdateDocuments(ctx context.Context, actor Viewer, id uint, documents map[string]string) (*models.LoanRequest, error) {
	unlock := s.locks.Lock(lockKey(domain.KindLoanRequest, id))
	defer unlock()

	loan, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if loan.AgentID != actor.UserID {
		return nil, domain.ErrForbidden
	}
	if loan.Status.Terminal() {
		return nil, domain.ErrForbidden
	}

	for slot, token := range documents {
		if token == "" {
			delete(loan.Documents, slot)
			continue
		}
		loan.Documents[slot] = token
	}

	if err := s.loanRepo.Update(ctx, loan, nil); err != nil {
		return nil, err
	}
	return loan, nil
}

// Sign attaches the client signature token
func (s *LoanService) Sign(ctx context.Context, actor Viewer, id uint, signature string) (*models.LoanRequest, error) {
	unlock := s.locks.Lock(lockKey(domain.KindLoanRequest, id))
	defer unlock()

	loan, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if loan.AgentID != actor.UserID {
		return nil, domain.ErrForbidden
	}
	if loan.Status.Terminal() {
		return nil, domain.ErrForbidden
	}

	loan.Signature = signature

	if err := s.loanRepo.Update(ctx, loan, nil); err != nil {
		return nil, err
	}
	return loan, nil
}

// openCredit derives the active credit once the request is approved.
// Monthly payment uses the flat monthly rate over the full duration.
func (s *LoanService) openCredit(ctx context.Context, loan *models.LoanRequest) error {
	now := time.Now()
	totalWithInterest := loan.Amount * (1 + loan.InterestRate/100*float64(loan.Duration))

	credit := &models.ActiveCredit{
		LoanRequestID:     loan.ID,
		RequestNumber:     loan.RequestNumber,
		ClientName:        loan.ClientName,
		ClientPhone:       loan.ClientPhone,
		AgentID:           loan.AgentID,
		AgentName:         loan.AgentName,
		AgencyID:          loan.AgencyID,
		ServicePoint:      loan.ServicePoint,
		TotalAmount:       loan.Amount,
		Duration:          loan.Duration,
		InterestRate:      loan.InterestRate,
		MonthlyPayment:    totalWithInterest / float64(loan.Duration),
		AmountPaid:        0,
		AmountRemaining:   loan.Amount,
		PaymentsCompleted: 0,
		PaymentsRemaining: loan.Duration,
		StartDate:         now,
		NextPaymentDate:   now.AddDate(0, 1, 0),
		EndDate:           now.AddDate(0, loan.Duration, 0),
		Status:            domain.CreditCurrent,
	}

	return s.creditRepo.Create(ctx, credit)
}

// lockKey builds the keylock key for one workflow entity
func lockKey(kind domain.EntityKind, id uint) string {
	return fmt.Sprintf("%s-%d", kind, id)
}

// mapWorkflowErr translates engine errors into the domain taxonomy
func mapWorkflowErr(err error) error {
	switch {
	case errors.Is(err, workflow.ErrNotPermitted):
		return domain.ErrForbidden
	case errors.Is(err, workflow.ErrCommentMissing):
		return ErrCommentRequired
	}
	return err
}
