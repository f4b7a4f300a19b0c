package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finec-backoffice/internal/core/domain"
	"finec-backoffice/internal/pkg/keylock"
)

func TestAuditListAndSummary(t *testing.T) {
	s := newFakeStore()
	ctx := context.Background()

	_, agent := seedUser(s, domain.RoleAgent, 1, "")
	_, chef := seedUser(s, domain.RoleChefAgence, 1, "")
	_, ops := seedUser(s, domain.RoleOperations, 1, "")
	_, dg := seedUser(s, domain.RoleDG, 1, "")

	loanSvc := NewLoanService(&fakeLoanRepo{s: s}, &fakeCreditRepo{s: s}, &fakeUserRepo{s: s}, keylock.New())
	accountSvc := NewAccountService(&fakeAccountRepo{s: s}, &fakeUserRepo{s: s}, keylock.New())

	// one full loan chain, one rejected account
	loan, err := loanSvc.Create(ctx, agent, &CreateLoanInput{ClientName: "C", Amount: 1000, Duration: 1})
	require.NoError(t, err)
	_, err = loanSvc.Approve(ctx, chef, loan.ID, "")
	require.NoError(t, err)
	_, err = loanSvc.Approve(ctx, ops, loan.ID, "")
	require.NoError(t, err)
	_, err = loanSvc.Approve(ctx, dg, loan.ID, "")
	require.NoError(t, err)

	account, err := accountSvc.Create(ctx, agent, &CreateAccountInput{AccountType: domain.AccountIndividual, ClientName: "D"})
	require.NoError(t, err)
	_, err = accountSvc.Reject(ctx, chef, account.ID, "dossier incomplet")
	require.NoError(t, err)

	svc := NewAuditService(&fakeHistoryRepo{s: s})

	entries, summary, err := svc.List(ctx, dg, AuditQuery{})
	require.NoError(t, err)
	require.Len(t, entries, 6)

	assert.Equal(t, int64(6), summary.Total)
	assert.Equal(t, int64(2), summary.Creations)
	assert.Equal(t, int64(2), summary.Validations)
	assert.Equal(t, int64(1), summary.Approvals)
	assert.Equal(t, int64(1), summary.Rejections)

	// newest first: the account rejection tops the feed
	assert.Equal(t, domain.HistoryRejection, entries[0].Kind)
	assert.Equal(t, account.AccountNumber, entries[0].EntityNumber)

	// filter by kind
	kind := domain.HistoryValidation
	entries, _, err = svc.List(ctx, dg, AuditQuery{Kind: &kind})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, domain.HistoryValidation, e.Kind)
	}

	// filter by entity type
	entity := domain.KindAccount
	entries, _, err = svc.List(ctx, dg, AuditQuery{EntityType: &entity})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// limit
	entries, _, err = svc.List(ctx, dg, AuditQuery{Limit: 3})
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestAuditAgencyFilter(t *testing.T) {
	s := newFakeStore()
	ctx := context.Background()

	_, agent1 := seedUser(s, domain.RoleAgent, 1, "")
	_, agent2 := seedUser(s, domain.RoleAgent, 2, "BOBO-CENTRE")
	_, dg := seedUser(s, domain.RoleDG, 1, "")

	loanSvc := NewLoanService(&fakeLoanRepo{s: s}, &fakeCreditRepo{s: s}, &fakeUserRepo{s: s}, keylock.New())

	_, err := loanSvc.Create(ctx, agent1, &CreateLoanInput{ClientName: "C", Amount: 1000, Duration: 1})
	require.NoError(t, err)
	loan2, err := loanSvc.Create(ctx, agent2, &CreateLoanInput{ClientName: "D", Amount: 2000, Duration: 2})
	require.NoError(t, err)

	svc := NewAuditService(&fakeHistoryRepo{s: s})

	agencyID := uint(2)
	entries, summary, err := svc.List(ctx, dg, AuditQuery{AgencyID: &agencyID})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, loan2.RequestNumber, entries[0].EntityNumber)
	assert.Equal(t, uint(2), entries[0].AgencyID)
	assert.Equal(t, int64(1), summary.Total)
}

func TestAuditRoleGate(t *testing.T) {
	s := newFakeStore()
	ctx := context.Background()
	svc := NewAuditService(&fakeHistoryRepo{s: s})

	for _, role := range []domain.Role{domain.RoleAgent, domain.RoleChefAgence, domain.RoleOperations} {
		_, viewer := seedUser(s, role, 1, "")
		_, _, err := svc.List(ctx, viewer, AuditQuery{})
		assert.ErrorIs(t, err, domain.ErrForbidden, string(role))
	}

	for _, role := range []domain.Role{domain.RoleDG, domain.RoleDSI} {
		_, viewer := seedUser(s, role, 1, "")
		_, _, err := svc.List(ctx, viewer, AuditQuery{})
		assert.NoError(t, err, string(role))
	}
}

func TestEntityHistoryOrder(t *testing.T) {
	s := newFakeStore()
	ctx := context.Background()

	_, agent := seedUser(s, domain.RoleAgent, 1, "")
	_, chef := seedUser(s, domain.RoleChefAgence, 1, "")

	loanSvc := NewLoanService(&fakeLoanRepo{s: s}, &fakeCreditRepo{s: s}, &fakeUserRepo{s: s}, keylock.New())
	loan, err := loanSvc.Create(ctx, agent, &CreateLoanInput{ClientName: "C", Amount: 1000, Duration: 1})
	require.NoError(t, err)
	_, err = loanSvc.Approve(ctx, chef, loan.ID, "")
	require.NoError(t, err)

	svc := NewAuditService(&fakeHistoryRepo{s: s})
	entries, err := svc.EntityHistory(ctx, domain.KindLoanRequest, loan.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.HistoryCreation, entries[0].Kind)
	assert.Equal(t, domain.HistoryValidation, entries[1].Kind)
}
