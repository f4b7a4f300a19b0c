package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finec-backoffice/internal/adapters/persistence/models"
	"finec-backoffice/internal/core/domain"
)

func newUserFixture(t *testing.T) (*UserService, *fakeStore, Viewer) {
	t.Helper()
	s := newFakeStore()
	require.NoError(t, (&fakeAgencyRepo{s: s}).Create(context.Background(), &models.Agency{Code: "OUA", Name: "OUAGADOUGOU"}))
	_, dsi := seedUser(s, domain.RoleDSI, 1, "")
	return NewUserService(&fakeUserRepo{s: s}, &fakeAgencyRepo{s: s}), s, dsi
}

func TestUserCreate(t *testing.T) {
	svc, _, dsi := newUserFixture(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, dsi, &CreateUserInput{
		Email:        "agent@finec.local",
		Password:     "motdepasse1",
		FirstName:    "Salif",
		LastName:     "Traore",
		Role:         domain.RoleAgent,
		AgencyID:     1,
		ServicePoint: "Gounghin",
	})
	require.NoError(t, err)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "motdepasse1", user.Password)

	_, err = svc.Create(ctx, dsi, &CreateUserInput{
		Email: "agent@finec.local", Password: "motdepasse1",
		FirstName: "S", LastName: "T", Role: domain.RoleAgent, AgencyID: 1,
	})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.Create(ctx, dsi, &CreateUserInput{
		Email: "x@finec.local", Password: "court",
		FirstName: "S", LastName: "T", Role: domain.RoleAgent, AgencyID: 1,
	})
	assert.ErrorIs(t, err, ErrWeakPassword)

	_, err = svc.Create(ctx, dsi, &CreateUserInput{
		Email: "y@finec.local", Password: "motdepasse1",
		FirstName: "S", LastName: "T", Role: "SUPERADMIN", AgencyID: 1,
	})
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, err = svc.Create(ctx, dsi, &CreateUserInput{
		Email: "z@finec.local", Password: "motdepasse1",
		FirstName: "S", LastName: "T", Role: domain.RoleAgent, AgencyID: 99,
	})
	assert.ErrorIs(t, err, ErrAgencyNotFound)
}

func TestUserAdminDSIOnly(t *testing.T) {
	svc, s, _ := newUserFixture(t)
	ctx := context.Background()

	for _, role := range []domain.Role{domain.RoleAgent, domain.RoleChefAgence, domain.RoleOperations, domain.RoleDG} {
		_, viewer := seedUser(s, role, 1, "")
		_, err := svc.Create(ctx, viewer, &CreateUserInput{
			Email: "n@finec.local", Password: "motdepasse1",
			FirstName: "N", LastName: "N", Role: domain.RoleAgent, AgencyID: 1,
		})
		assert.ErrorIs(t, err, domain.ErrForbidden, string(role))

		_, _, err = svc.List(ctx, viewer, 0, 20)
		assert.ErrorIs(t, err, domain.ErrForbidden, string(role))
	}
}

func TestUserUpdatePartial(t *testing.T) {
	svc, s, dsi := newUserFixture(t)
	ctx := context.Background()

	target, _ := seedUser(s, domain.RoleAgent, 1, "Gounghin")

	inactive := false
	newRole := domain.RoleChefAgence
	updated, err := svc.Update(ctx, dsi, target.ID, &UpdateUserInput{
		Role:     &newRole,
		IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleChefAgence, updated.Role)
	assert.False(t, updated.IsActive)
	// untouched fields keep their values
	assert.Equal(t, target.Email, updated.Email)
	assert.Equal(t, "Gounghin", updated.ServicePoint)

	badRole := domain.Role("ROOT")
	_, err = svc.Update(ctx, dsi, target.ID, &UpdateUserInput{Role: &badRole})
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, err = svc.Update(ctx, dsi, 999, &UpdateUserInput{})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserDelete(t *testing.T) {
	svc, s, dsi := newUserFixture(t)
	ctx := context.Background()

	target, _ := seedUser(s, domain.RoleAgent, 1, "")

	assert.ErrorIs(t, svc.Delete(ctx, dsi, dsi.UserID), ErrCannotDeleteSelf)
	assert.ErrorIs(t, svc.Delete(ctx, dsi, 999), ErrUserNotFound)

	require.NoError(t, svc.Delete(ctx, dsi, target.ID))
	_, err := svc.GetByID(ctx, target.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
