package services

import (
	"context"
	"errors"

	"finec-backoffice/internal/adapters/persistence/models"
	"finec-backoffice/internal/adapters/persistence/repositories"
	"finec-backoffice/internal/core/domain"
)

// AgencyService exposes the agency reference data
type AgencyService struct {
	agencyRepo repositories.AgencyRepository
}

// NewAgencyService creates a new agency service
func NewAgencyService(agencyRepo repositories.AgencyRepository) *AgencyService {
	return &AgencyService{agencyRepo: agencyRepo}
}

// List lists all agencies with their service points
func (s *AgencyService) List(ctx context.Context) ([]*models.Agency, error) {
	return s.agencyRepo.List(ctx)
}

// GetByID gets one agency
func (s *AgencyService) GetByID(ctx context.Context, id uint) (*models.Agency, error) {
	agency, err := s.agencyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrAgencyNotFound
		}
		return nil, err
	}
	return agency, nil
}
