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

// Account service errors
var (
	ErrAccountNotFound      = errors.New("account request not found")
	ErrInvalidAccountType   = errors.New("account type must be INDIVIDUAL, JOINT or BUSINESS")
	ErrSecondHolderRequired = errors.New("joint accounts require second holder name and ID number")
	ErrBusinessInfoRequired = errors.New("business accounts require business name and registration")
	ErrInvalidDeposit       = errors.New("initial deposit must be 0 or greater")
)

// AccountService handles account-opening business logic. It shares the
// workflow engine contract with LoanService but carries account-type
// variant fields.
type AccountService struct {
	accountRepo repositories.AccountRepository
	userRepo    repositories.UserRepository
	engine      *workflow.Engine
	locks       *keylock.KeyLock
}

// NewAccountService creates a new account service
func NewAccountService(
	accountRepo repositories.AccountRepository,
	userRepo repositories.UserRepository,
	locks *keylock.KeyLock,
) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		userRepo:    userRepo,
		engine:      workflow.New(domain.KindAccount),
		locks:       locks,
	}
}

// CreateAccountInput represents create account request input
type CreateAccountInput struct {
	AccountType      string `json:"account_type" validate:"required"`
	ClientName       string `json:"client_name" validate:"required"`
	ClientPhone      string `json:"client_phone"`
	ClientEmail      string `json:"client_email"`
	ClientAddress    string `json:"client_address"`
	ClientBirthDate  string `json:"client_birth_date"`
	ClientIDNumber   string `json:"client_id_number"`
	ClientProfession string `json:"client_profession"`

	SecondHolderName     string `json:"second_holder_name,omitempty"`
	SecondHolderPhone    string `json:"second_holder_phone,omitempty"`
	SecondHolderEmail    string `json:"second_holder_email,omitempty"`
	SecondHolderIDNumber string `json:"second_holder_id_number,omitempty"`

	BusinessName         string `json:"business_name,omitempty"`
	BusinessRegistration string `json:"business_registration,omitempty"`

	InitialDeposit float64 `json:"initial_deposit"`

	Documents             map[string]string `json:"documents"`
	Signature             string            `json:"signature,omitempty"`
	SecondHolderSignature string            `json:"second_holder_signature,omitempty"`
}

func validateAccountVariant(input *CreateAccountInput) error {
	switch input.AccountType {
	case domain.AccountIndividual:
	case domain.AccountJoint:
		if input.SecondHolderName == "" || input.SecondHolderIDNumber == "" {
			return ErrSecondHolderRequired
		}
	case domain.AccountBusiness:
		if input.BusinessName == "" || input.BusinessRegistration == "" {
			return ErrBusinessInfoRequired
		}
	default:
		return ErrInvalidAccountType
	}
	return nil
}

// Create creates a new account-opening request in PENDING status
func (s *AccountService) Create(ctx context.Context, actor Viewer, input *CreateAccountInput) (*models.Account, error) {
	if actor.Role != domain.RoleAgent {
		return nil, domain.ErrForbidden
	}
	if err := validateAccountVariant(input); err != nil {
		return nil, err
	}
	if input.InitialDeposit < 0 {
		return nil, ErrInvalidDeposit
	}

	agent, err := s.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	year := time.Now().Year()
	seq, err := s.accountRepo.CountByYear(ctx, year)
	if err != nil {
		return nil, err
	}

	docs := input.Documents
	if docs == nil {
		docs = map[string]string{}
	}

	account := &models.Account{
		AccountNumber: fmt.Sprintf("FINEC-%d-%03d", year, seq+1),
		AgentID:       agent.ID,
		AgentName:     agent.FullName(),
		AgencyID:      agent.AgencyID,
		ServicePoint:  agent.ServicePoint,
		Status:        domain.StatusPending,
		AccountType:   input.AccountType,

		ClientName:       input.ClientName,
		ClientPhone:      input.ClientPhone,
		ClientEmail:      input.ClientEmail,
		ClientAddress:    input.ClientAddress,
		ClientBirthDate:  input.ClientBirthDate,
		ClientIDNumber:   input.ClientIDNumber,
		ClientProfession: input.ClientProfession,

		SecondHolderName:     input.SecondHolderName,
		SecondHolderPhone:    input.SecondHolderPhone,
		SecondHolderEmail:    input.SecondHolderEmail,
		SecondHolderIDNumber: input.SecondHolderIDNumber,

		BusinessName:         input.BusinessName,
		BusinessRegistration: input.BusinessRegistration,

		InitialDeposit: input.InitialDeposit,

		Documents:             docs,
		Signature:             input.Signature,
		SecondHolderSignature: input.SecondHolderSignature,
	}

	action, kind := s.engine.CreationAction()
	entry := &models.HistoryEntry{
		EntityNumber: account.AccountNumber,
		AgencyID:     account.AgencyID,
		UserID:       agent.ID,
		UserName:     agent.FullName(),
		UserRole:     agent.Role,
		Action:       action,
		Kind:         kind,
	}

	if err := s.accountRepo.Create(ctx, account, entry); err != nil {
		return nil, err
	}

	log.Printf("Account request created: %s by %s", account.AccountNumber, agent.Email)
	return account, nil
}

// GetByID gets an account request with its history
func (s *AccountService) GetByID(ctx context.Context, id uint) (*models.Account, error) {
	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

// List lists account requests visible to the viewer
func (s *AccountService) List(ctx context.Context, viewer Viewer, filters ScopeFilters, offset, limit int) ([]*models.Account, int64, error) {
	return s.accountRepo.List(ctx, ScopeFor(viewer, filters), offset, limit)
}

// Approve applies the next validation step to an account request
func (s *AccountService) Approve(ctx context.Context, actor Viewer, id uint, comment string) (*models.Account, error) {
	unlock := s.locks.Lock(lockKey(domain.KindAccount, id))
	defer unlock()

	account, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	out, err := s.engine.Approve(account.Status, actor.Role)
	if err != nil {
		return nil, mapWorkflowErr(err)
	}

	user, err := s.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	account.Status = out.Next
	if out.Final {
		now := time.Now()
		account.ApprovedAt = &now
	}

	entry := &models.HistoryEntry{
		EntityNumber: account.AccountNumber,
		AgencyID:     account.AgencyID,
		UserID:       user.ID,
		UserName:     user.FullName(),
		UserRole:     user.Role,
		Action:       out.Action,
		Kind:         out.Kind,
		Comment:      comment,
	}

	if err := s.accountRepo.Update(ctx, account, entry); err != nil {
		return nil, err
	}

	log.Printf("Account request %s: %s by %s", account.AccountNumber, out.Action, user.Email)
	return account, nil
}

// Reject rejects the account request. A non-blank comment is mandatory.
func (s *AccountService) Reject(ctx context.Context, actor Viewer, id uint, comment string) (*models.Account, error) {
	unlock := s.locks.Lock(lockKey(domain.KindAccount, id))
	defer unlock()

	account, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	out, err := s.engine.Reject(account.Status, actor.Role, comment)
	if err != nil {
		return nil, mapWorkflowErr(err)
	}

	user, err := s.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	account.Status = out.Next

	entry := &models.HistoryEntry{
		EntityNumber: account.AccountNumber,
		AgencyID:     account.AgencyID,
		UserID:       user.ID,
		UserName:     user.FullName(),
		UserRole:     user.Role,
		Action:       out.Action,
		Kind:         out.Kind,
		Comment:      comment,
	}

	if err := s.accountRepo.Update(ctx, account, entry); err != nil {
		return nil, err
	}

	log.Printf("Account request %s rejected by %s", account.AccountNumber, user.Email)
	return account, nil
}

// UpdateDocuments replaces document tokens on a non-terminal request.
// Only the originating agent may attach documents.
func (s *AccountService) UpdateDocuments(ctx context.Context, actor Viewer, id uint, documents map[string]string) (*models.Account, error) {
	unlock := s.locks.Lock(lockKey(domain.KindAccount, id))
	defer unlock()

	account, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account.AgentID != actor.UserID {
		return nil, domain.ErrForbidden
	}
	if account.Status.Terminal() {
		return nil, domain.ErrForbidden
	}

	for slot, token := range documents {
		if token == "" {
			delete(account.Documents, slot)
			continue
		}
		account.Documents[slot] = token
	}

	if err := s.accountRepo.Update(ctx, account, nil); err != nil {
		return nil, err
	}
	return account, nil
}

// Sign attaches holder signature tokens
func (s *AccountService) Sign(ctx context.Context, actor Viewer, id uint, signature, secondHolderSignature string) (*models.Account, error) {
	unlock := s.locks.Lock(lockKey(domain.KindAccount, id))
	defer unlock()

	account, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account.AgentID != actor.UserID {
		return nil, domain.ErrForbidden
	}
	if account.Status.Terminal() {
		return nil, domain.ErrForbidden
	}

	if signature != "" {
		account.Signature = signature
	}
	if secondHolderSignature != "" {
		account.SecondHolderSignature = secondHolderSignature
	}

	if err := s.accountRepo.Update(ctx, account, nil); err != nil {
		return nil, err
	}
	return account, nil
}
