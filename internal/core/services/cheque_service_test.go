package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finec-backoffice/internal/core/domain"
)

func TestChequeLifecycle(t *testing.T) {
	s := newFakeStore()
	ctx := context.Background()
	svc := NewChequeService(&fakeChequeRepo{s: s}, &fakeUserRepo{s: s})

	_, chef := seedUser(s, domain.RoleChefAgence, 1, "Gounghin")

	cheque, err := svc.Create(ctx, chef, &CreateChequeInput{
		ChequeNumber: "CHQ-00412",
		ClientName:   "Aminata Ouedraogo",
		Amount:       75000,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ChequeActive, cheque.Status)
	assert.Equal(t, uint(1), cheque.AgencyID)
	assert.Equal(t, "Gounghin", cheque.ServicePoint)
	assert.False(t, cheque.Date.IsZero())

	cheque, err = svc.SetStatus(ctx, cheque.ID, domain.ChequeCashed)
	require.NoError(t, err)
	assert.Equal(t, domain.ChequeCashed, cheque.Status)

	_, err = svc.SetStatus(ctx, cheque.ID, "SHREDDED")
	assert.ErrorIs(t, err, ErrInvalidChequeStatus)

	_, err = svc.Create(ctx, chef, &CreateChequeInput{ChequeNumber: "CHQ-0", ClientName: "X", Amount: 0})
	assert.ErrorIs(t, err, ErrInvalidChequeAmount)
}

func TestChequeListByAgency(t *testing.T) {
	s := newFakeStore()
	ctx := context.Background()
	svc := NewChequeService(&fakeChequeRepo{s: s}, &fakeUserRepo{s: s})

	_, chefA := seedUser(s, domain.RoleChefAgence, 1, "")
	_, chefB := seedUser(s, domain.RoleChefAgence, 2, "")
	_, ops := seedUser(s, domain.RoleOperations, 1, "")

	_, err := svc.Create(ctx, chefA, &CreateChequeInput{ChequeNumber: "CHQ-1", ClientName: "A", Amount: 1000})
	require.NoError(t, err)
	_, err = svc.Create(ctx, chefB, &CreateChequeInput{ChequeNumber: "CHQ-2", ClientName: "B", Amount: 2000})
	require.NoError(t, err)

	own, total, err := svc.List(ctx, chefA, ScopeFilters{}, 0, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "CHQ-1", own[0].ChequeNumber)

	_, total, err = svc.List(ctx, ops, ScopeFilters{}, 0, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}
