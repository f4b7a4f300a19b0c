package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finec-backoffice/internal/adapters/persistence/models"
	"finec-backoffice/internal/core/domain"
	"finec-backoffice/internal/pkg/keylock"
)

func newCreditFixture(t *testing.T) (*CreditService, *fakeStore, *models.ActiveCredit) {
	t.Helper()
	s := newFakeStore()
	svc := NewCreditService(&fakeCreditRepo{s: s}, keylock.New())

	credit := &models.ActiveCredit{
		LoanRequestID:     1,
		RequestNumber:     "CR-2026-001",
		ClientName:        "Aminata Ouedraogo",
		AgentID:           1,
		AgencyID:          1,
		TotalAmount:       300000,
		Duration:          3,
		InterestRate:      1.25,
		MonthlyPayment:    103750,
		AmountRemaining:   300000,
		PaymentsRemaining: 3,
		StartDate:         time.Now(),
		NextPaymentDate:   time.Now().AddDate(0, 1, 0),
		EndDate:           time.Now().AddDate(0, 3, 0),
		Status:            domain.CreditCurrent,
	}
	require.NoError(t, (&fakeCreditRepo{s: s}).Create(context.Background(), credit))
	return svc, s, credit
}

func TestRecordPaymentUpdatesLedger(t *testing.T) {
	svc, s, credit := newCreditFixture(t)
	ctx := context.Background()
	_, ops := seedUser(s, domain.RoleOperations, 1, "")

	got, err := svc.RecordPayment(ctx, ops, credit.ID, &RecordPaymentInput{Amount: 100000, Method: "MOBILE_MONEY"})
	require.NoError(t, err)
	assert.Equal(t, float64(100000), got.AmountPaid)
	assert.Equal(t, float64(200000), got.AmountRemaining)
	assert.Equal(t, 1, got.PaymentsCompleted)
	assert.Equal(t, 2, got.PaymentsRemaining)
	assert.Equal(t, got.TotalAmount, got.AmountPaid+got.AmountRemaining)

	stored, err := svc.GetByID(ctx, credit.ID)
	require.NoError(t, err)
	require.Len(t, stored.Payments, 1)
	assert.Equal(t, "MOBILE_MONEY", stored.Payments[0].Method)
	assert.Contains(t, stored.Payments[0].Reference, "PAY-")
	assert.Equal(t, ops.UserID, stored.Payments[0].RecordedBy)
}

func TestRecordPaymentRefusesOverpayment(t *testing.T) {
	svc, s, credit := newCreditFixture(t)
	ctx := context.Background()
	_, ops := seedUser(s, domain.RoleOperations, 1, "")

	_, err := svc.RecordPayment(ctx, ops, credit.ID, &RecordPaymentInput{Amount: 300001})
	assert.ErrorIs(t, err, ErrPaymentExceedsDebt)

	_, err = svc.RecordPayment(ctx, ops, credit.ID, &RecordPaymentInput{Amount: 0})
	assert.ErrorIs(t, err, ErrInvalidPayment)

	_, err = svc.RecordPayment(ctx, ops, credit.ID, &RecordPaymentInput{Amount: -50})
	assert.ErrorIs(t, err, ErrInvalidPayment)

	stored, err := svc.GetByID(ctx, credit.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(0), stored.AmountPaid)
	assert.Empty(t, stored.Payments)
}

func TestRecordPaymentCompletesCredit(t *testing.T) {
	svc, s, credit := newCreditFixture(t)
	ctx := context.Background()
	_, ops := seedUser(s, domain.RoleOperations, 1, "")

	for _, amount := range []float64{100000, 100000, 100000} {
		_, err := svc.RecordPayment(ctx, ops, credit.ID, &RecordPaymentInput{Amount: amount})
		require.NoError(t, err)
	}

	got, err := svc.GetByID(ctx, credit.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CreditCompleted, got.Status)
	assert.Equal(t, float64(0), got.AmountRemaining)
	assert.Equal(t, 0, got.PaymentsRemaining)
	assert.Equal(t, got.TotalAmount, got.AmountPaid)

	_, err = svc.RecordPayment(ctx, ops, credit.ID, &RecordPaymentInput{Amount: 1})
	assert.ErrorIs(t, err, ErrCreditCompleted)
}

func TestRefreshOverdue(t *testing.T) {
	svc, _, _ := newCreditFixture(t)

	late := &models.ActiveCredit{
		Status:          domain.CreditCurrent,
		NextPaymentDate: time.Now().AddDate(0, 0, -10),
	}
	svc.RefreshOverdue(context.Background(), late)
	assert.Equal(t, domain.CreditLate, late.Status)
	assert.Equal(t, 10, late.DaysOverdue)

	current := &models.ActiveCredit{
		Status:          domain.CreditCurrent,
		NextPaymentDate: time.Now().AddDate(0, 0, 5),
	}
	svc.RefreshOverdue(context.Background(), current)
	assert.Equal(t, domain.CreditCurrent, current.Status)
	assert.Equal(t, 0, current.DaysOverdue)

	done := &models.ActiveCredit{
		Status:          domain.CreditCompleted,
		NextPaymentDate: time.Now().AddDate(0, 0, -30),
	}
	svc.RefreshOverdue(context.Background(), done)
	assert.Equal(t, domain.CreditCompleted, done.Status)
}
