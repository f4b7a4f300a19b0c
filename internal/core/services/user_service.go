package services

import (
	"context"
	"errors"
	"log"

	"finec-backoffice/internal/adapters/persistence/models"
	"finec-backoffice/internal/adapters/persistence/repositories"
	"finec-backoffice/internal/core/domain"
	"finec-backoffice/internal/pkg/password"
)

// User service errors
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailTaken       = errors.New("email already registered")
	ErrInvalidRole      = errors.New("invalid role")
	ErrWeakPassword     = errors.New("password does not meet requirements")
	ErrAgencyNotFound   = errors.New("agency not found")
	ErrCannotDeleteSelf = errors.New("cannot delete own account")
)

// UserService handles user administration. Every operation requires
// the DSI role.
type UserService struct {
	userRepo   repositories.UserRepository
	agencyRepo repositories.AgencyRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository, agencyRepo repositories.AgencyRepository) *UserService {
	return &UserService{userRepo: userRepo, agencyRepo: agencyRepo}
}

// CreateUserInput represents create user input
type CreateUserInput struct {
	Email        string      `json:"email" validate:"required,email"`
	Password     string      `json:"password" validate:"required,min=8"`
	FirstName    string      `json:"first_name" validate:"required"`
	LastName     string      `json:"last_name" validate:"required"`
	Role         domain.Role `json:"role" validate:"required"`
	AgencyID     uint        `json:"agency_id" validate:"required"`
	ServicePoint string      `json:"service_point,omitempty"`
}

// Create creates a new user (DSI only)
func (s *UserService) Create(ctx context.Context, actor Viewer, input *CreateUserInput) (*models.User, error) {
	if actor.Role != domain.RoleDSI {
		return nil, domain.ErrForbidden
	}
	if !input.Role.Valid() {
		return nil, ErrInvalidRole
	}
	if !password.Validate(input.Password) {
		return nil, ErrWeakPassword
	}

	if _, err := s.agencyRepo.GetByID(ctx, input.AgencyID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrAgencyNotFound
		}
		return nil, err
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        input.Email,
		Password:     hashed,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Role:         input.Role,
		AgencyID:     input.AgencyID,
		ServicePoint: input.ServicePoint,
		IsActive:     true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("User created: %s (%s)", user.Email, user.Role)
	return user, nil
}

// UpdateUserInput represents update user input. Nil fields are left
// unchanged.
type UpdateUserInput struct {
	Email        *string      `json:"email,omitempty"`
	Password     *string      `json:"password,omitempty"`
	FirstName    *string      `json:"first_name,omitempty"`
	LastName     *string      `json:"last_name,omitempty"`
	Role         *domain.Role `json:"role,omitempty"`
	AgencyID     *uint        `json:"agency_id,omitempty"`
	ServicePoint *string      `json:"service_point,omitempty"`
	IsActive     *bool        `json:"is_active,omitempty"`
}

// Update updates a user (DSI only)
func (s *UserService) Update(ctx context.Context, actor Viewer, id uint, input *UpdateUserInput) (*models.User, error) {
	if actor.Role != domain.RoleDSI {
		return nil, domain.ErrForbidden
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if input.Email != nil && *input.Email != user.Email {
		exists, err := s.userRepo.ExistsByEmail(ctx, *input.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrEmailTaken
		}
		user.Email = *input.Email
	}
	if input.Password != nil {
		if !password.Validate(*input.Password) {
			return nil, ErrWeakPassword
		}
		hashed, err := password.Hash(*input.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hashed
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Role != nil {
		if !input.Role.Valid() {
			return nil, ErrInvalidRole
		}
		user.Role = *input.Role
	}
	if input.AgencyID != nil {
		if _, err := s.agencyRepo.GetByID(ctx, *input.AgencyID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, ErrAgencyNotFound
			}
			return nil, err
		}
		user.AgencyID = *input.AgencyID
	}
	if input.ServicePoint != nil {
		user.ServicePoint = *input.ServicePoint
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete soft deletes a user (DSI only)
func (s *UserService) Delete(ctx context.Context, actor Viewer, id uint) error {
	if actor.Role != domain.RoleDSI {
		return domain.ErrForbidden
	}
	if actor.UserID == id {
		return ErrCannotDeleteSelf
	}

	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	return s.userRepo.Delete(ctx, id)
}

// GetByID gets a user by ID
func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// List lists users with pagination (DSI only)
func (s *UserService) List(ctx context.Context, actor Viewer, offset, limit int) ([]*models.User, int64, error) {
	if actor.Role != domain.RoleDSI {
		return nil, 0, domain.ErrForbidden
	}
	return s.userRepo.List(ctx, offset, limit)
}
