package workflow

import (
	"testing"

	"finec-backoffice/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allRoles = []domain.Role{
	domain.RoleAgent,
	domain.RoleChefAgence,
	domain.RoleOperations,
	domain.RoleDG,
	domain.RoleDSI,
}

var allStatuses = []domain.Status{
	domain.StatusDraft,
	domain.StatusPending,
	domain.StatusValidatedByManager,
	domain.StatusValidatedByOperations,
	domain.StatusApproved,
	domain.StatusRejected,
}

func TestApproveChain(t *testing.T) {
	e := New(domain.KindLoanRequest)

	tests := []struct {
		name   string
		status domain.Status
		role   domain.Role
		next   domain.Status
		kind   domain.HistoryKind
		final  bool
	}{
		{"chef validates pending", domain.StatusPending, domain.RoleChefAgence, domain.StatusValidatedByManager, domain.HistoryValidation, false},
		{"operations validates manager-approved", domain.StatusValidatedByManager, domain.RoleOperations, domain.StatusValidatedByOperations, domain.HistoryValidation, false},
		{"dg approves", domain.StatusValidatedByOperations, domain.RoleDG, domain.StatusApproved, domain.HistoryApproval, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := e.Approve(tt.status, tt.role)
			require.NoError(t, err)
			assert.Equal(t, tt.next, out.Next)
			assert.Equal(t, tt.kind, out.Kind)
			assert.Equal(t, tt.final, out.Final)
			assert.NotEmpty(t, out.Action)
		})
	}
}

// Every (status, role) pair outside the transition table must be refused,
// for both approve and reject.
func TestRoleGateCompleteness(t *testing.T) {
	e := New(domain.KindLoanRequest)

	permitted := map[domain.Status]domain.Role{
		domain.StatusPending:               domain.RoleChefAgence,
		domain.StatusValidatedByManager:    domain.RoleOperations,
		domain.StatusValidatedByOperations: domain.RoleDG,
	}

	for _, status := range allStatuses {
		for _, role := range allRoles {
			if permitted[status] == role {
				continue
			}
			assert.False(t, e.CanAct(status, role), "CanAct(%s, %s)", status, role)

			_, err := e.Approve(status, role)
			assert.ErrorIs(t, err, ErrNotPermitted, "Approve(%s, %s)", status, role)

			_, err = e.Reject(status, role, "dossier incomplet")
			assert.ErrorIs(t, err, ErrNotPermitted, "Reject(%s, %s)", status, role)
		}
	}
}

func TestRejectRequiresComment(t *testing.T) {
	e := New(domain.KindLoanRequest)

	for _, comment := range []string{"", "   ", "\t\n"} {
		_, err := e.Reject(domain.StatusPending, domain.RoleChefAgence, comment)
		assert.ErrorIs(t, err, ErrCommentMissing, "comment=%q", comment)
	}

	out, err := e.Reject(domain.StatusPending, domain.RoleChefAgence, "dossier incomplet")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, out.Next)
	assert.Equal(t, "REJETÉ", out.Action)
	assert.Equal(t, domain.HistoryRejection, out.Kind)
}

func TestTerminalStatusesRefuseEveryone(t *testing.T) {
	e := New(domain.KindAccount)

	for _, status := range []domain.Status{domain.StatusApproved, domain.StatusRejected} {
		for _, role := range allRoles {
			_, err := e.Approve(status, role)
			assert.ErrorIs(t, err, ErrNotPermitted)
			_, err = e.Reject(status, role, "motif")
			assert.ErrorIs(t, err, ErrNotPermitted)
		}
	}
}

func TestFinalApprovalLabelPerKind(t *testing.T) {
	loan, err := New(domain.KindLoanRequest).Approve(domain.StatusValidatedByOperations, domain.RoleDG)
	require.NoError(t, err)
	account, err := New(domain.KindAccount).Approve(domain.StatusValidatedByOperations, domain.RoleDG)
	require.NoError(t, err)

	assert.Equal(t, "APPROUVÉ par Direction Générale", loan.Action)
	assert.Equal(t, "APPROUVÉ - Compte ouvert", account.Action)
}
