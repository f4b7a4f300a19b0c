package services

import (
	"context"
	"errors"
	"log"
	"time"

	"finec-backoffice/internal/adapters/persistence/models"
	"finec-backoffice/internal/adapters/persistence/repositories"
	"finec-backoffice/internal/core/domain"
)

// Cheque service errors
var (
	ErrChequeNotFound      = errors.New("cheque not found")
	ErrInvalidChequeStatus = errors.New("cheque status must be ACTIVE, CASHED, BOUNCED or CANCELLED")
	ErrInvalidChequeAmount = errors.New("cheque amount must be greater than 0")
)

// ChequeService manages the cheque registry. Cheque status is set
// directly, there is no transition chain.
type ChequeService struct {
	chequeRepo repositories.ChequeRepository
	userRepo   repositories.UserRepository
}

// NewChequeService creates a new cheque service
func NewChequeService(chequeRepo repositories.ChequeRepository, userRepo repositories.UserRepository) *ChequeService {
	return &ChequeService{chequeRepo: chequeRepo, userRepo: userRepo}
}

// CreateChequeInput represents register cheque input
type CreateChequeInput struct {
	ChequeNumber    string    `json:"cheque_number" validate:"required"`
	ClientName      string    `json:"client_name" validate:"required"`
	Amount          float64   `json:"amount" validate:"required,gt=0"`
	Date            time.Time `json:"date"`
	ScannedDocument string    `json:"scanned_document,omitempty"`
}

// Create registers a cheque in ACTIVE status, stamped with the
// recording user's agency and service point
func (s *ChequeService) Create(ctx context.Context, actor Viewer, input *CreateChequeInput) (*models.Cheque, error) {
	if input.Amount <= 0 {
		return nil, ErrInvalidChequeAmount
	}

	user, err := s.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}

	cheque := &models.Cheque{
		ChequeNumber:    input.ChequeNumber,
		ClientName:      input.ClientName,
		Amount:          input.Amount,
		Date:            date,
		AgencyID:        user.AgencyID,
		ServicePoint:    user.ServicePoint,
		Status:          domain.ChequeActive,
		ScannedDocument: input.ScannedDocument,
	}

	if err := s.chequeRepo.Create(ctx, cheque); err != nil {
		return nil, err
	}

	log.Printf("Cheque registered: %s by %s", cheque.ChequeNumber, user.Email)
	return cheque, nil
}

// GetByID gets a cheque
func (s *ChequeService) GetByID(ctx context.Context, id uint) (*models.Cheque, error) {
	cheque, err := s.chequeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrChequeNotFound
		}
		return nil, err
	}
	return cheque, nil
}

// List lists cheques visible to the viewer
func (s *ChequeService) List(ctx context.Context, viewer Viewer, filters ScopeFilters, offset, limit int) ([]*models.Cheque, int64, error) {
	return s.chequeRepo.List(ctx, ScopeFor(viewer, filters), offset, limit)
}

// SetStatus sets the cheque status directly
func (s *ChequeService) SetStatus(ctx context.Context, id uint, status string) (*models.Cheque, error) {
	switch status {
	case domain.ChequeActive, domain.ChequeCashed, domain.ChequeBounced, domain.ChequeCancelled:
	default:
		return nil, ErrInvalidChequeStatus
	}

	cheque, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	cheque.Status = status
	if err := s.chequeRepo.Update(ctx, cheque); err != nil {
		return nil, err
	}
	return cheque, nil
}
