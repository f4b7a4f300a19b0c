package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finec-backoffice/internal/core/domain"
	"finec-backoffice/internal/pkg/keylock"
)

func newAccountFixture(t *testing.T) (*AccountService, *fakeStore) {
	t.Helper()
	s := newFakeStore()
	svc := NewAccountService(&fakeAccountRepo{s: s}, &fakeUserRepo{s: s}, keylock.New())
	return svc, s
}

func TestAccountVariantValidation(t *testing.T) {
	svc, s := newAccountFixture(t)
	ctx := context.Background()
	_, agent := seedUser(s, domain.RoleAgent, 1, "")

	tests := []struct {
		name    string
		input   CreateAccountInput
		wantErr error
	}{
		{
			name:    "unknown type",
			input:   CreateAccountInput{AccountType: "PREMIUM", ClientName: "C"},
			wantErr: ErrInvalidAccountType,
		},
		{
			name:    "joint without second holder",
			input:   CreateAccountInput{AccountType: domain.AccountJoint, ClientName: "C"},
			wantErr: ErrSecondHolderRequired,
		},
		{
			name: "joint without second holder id",
			input: CreateAccountInput{
				AccountType:      domain.AccountJoint,
				ClientName:       "C",
				SecondHolderName: "D",
			},
			wantErr: ErrSecondHolderRequired,
		},
		{
			name:    "business without registration",
			input:   CreateAccountInput{AccountType: domain.AccountBusiness, ClientName: "C", BusinessName: "SARL Faso"},
			wantErr: ErrBusinessInfoRequired,
		},
		{
			name:    "negative deposit",
			input:   CreateAccountInput{AccountType: domain.AccountIndividual, ClientName: "C", InitialDeposit: -1},
			wantErr: ErrInvalidDeposit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, agent, &tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAccountCreateVariants(t *testing.T) {
	svc, s := newAccountFixture(t)
	ctx := context.Background()
	_, agent := seedUser(s, domain.RoleAgent, 1, "Gounghin")
	year := time.Now().Year()

	individual, err := svc.Create(ctx, agent, &CreateAccountInput{
		AccountType:    domain.AccountIndividual,
		ClientName:     "Aminata Ouedraogo",
		InitialDeposit: 25000,
	})
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("FINEC-%d-001", year), individual.AccountNumber)
	assert.Equal(t, domain.StatusPending, individual.Status)
	assert.Equal(t, "Gounghin", individual.ServicePoint)

	joint, err := svc.Create(ctx, agent, &CreateAccountInput{
		AccountType:          domain.AccountJoint,
		ClientName:           "Issa Kabore",
		SecondHolderName:     "Awa Kabore",
		SecondHolderIDNumber: "B123456",
	})
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("FINEC-%d-002", year), joint.AccountNumber)

	business, err := svc.Create(ctx, agent, &CreateAccountInput{
		AccountType:          domain.AccountBusiness,
		ClientName:           "Moussa Zongo",
		BusinessName:         "SARL Faso Distribution",
		BusinessRegistration: "RCCM-BF-OUA-2024-B-1234",
	})
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("FINEC-%d-003", year), business.AccountNumber)
}

func TestAccountApprovalChain(t *testing.T) {
	svc, s := newAccountFixture(t)
	ctx := context.Background()

	_, agent := seedUser(s, domain.RoleAgent, 1, "")
	_, chef := seedUser(s, domain.RoleChefAgence, 1, "")
	_, ops := seedUser(s, domain.RoleOperations, 1, "")
	_, dg := seedUser(s, domain.RoleDG, 1, "")

	account, err := svc.Create(ctx, agent, &CreateAccountInput{
		AccountType: domain.AccountIndividual,
		ClientName:  "Fatou Sawadogo",
	})
	require.NoError(t, err)

	account, err = svc.Approve(ctx, chef, account.ID, "")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusValidatedByManager, account.Status)

	account, err = svc.Approve(ctx, ops, account.ID, "")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusValidatedByOperations, account.Status)

	account, err = svc.Approve(ctx, dg, account.ID, "")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, account.Status)
	require.NotNil(t, account.ApprovedAt)

	got, err := svc.GetByID(ctx, account.ID)
	require.NoError(t, err)
	require.Len(t, got.History, 4)
	assert.Equal(t, "Demande d'ouverture de compte créée", got.History[0].Action)
	assert.Equal(t, "APPROUVÉ - Compte ouvert", got.History[3].Action)
	assert.Equal(t, domain.HistoryApproval, got.History[3].Kind)
}

func TestAccountRejection(t *testing.T) {
	svc, s := newAccountFixture(t)
	ctx := context.Background()

	_, agent := seedUser(s, domain.RoleAgent, 1, "")
	_, chef := seedUser(s, domain.RoleChefAgence, 1, "")

	account, err := svc.Create(ctx, agent, &CreateAccountInput{
		AccountType: domain.AccountIndividual,
		ClientName:  "C",
	})
	require.NoError(t, err)

	_, err = svc.Reject(ctx, chef, account.ID, "")
	assert.ErrorIs(t, err, ErrCommentRequired)

	got, err := svc.Reject(ctx, chef, account.ID, "pièce d'identité illisible")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, got.Status)

	_, err = svc.Approve(ctx, chef, account.ID, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
