package workflow

import (
	"errors"
	"strings"

	"finec-backoffice/internal/core/domain"
)

// Workflow errors
var (
	ErrNotPermitted   = errors.New("role not permitted to act on current status")
	ErrCommentMissing = errors.New("rejection requires a comment")
)

// rule keys the approval chain: for an entity sitting at a given status,
// exactly one role may act, and approving moves it to next.
type rule struct {
	actor domain.Role
	next  domain.Status
}

// transitions is the single source of truth for the approval chain.
// It is identical for loan requests and account openings.
var transitions = map[domain.Status]rule{
	domain.StatusPending:               {domain.RoleChefAgence, domain.StatusValidatedByManager},
	domain.StatusValidatedByManager:    {domain.RoleOperations, domain.StatusValidatedByOperations},
	domain.StatusValidatedByOperations: {domain.RoleDG, domain.StatusApproved},
}

// Outcome describes the effect of a successful workflow action. The
// caller persists the new status and appends a history entry carrying
// the action label and its kind.
type Outcome struct {
	Next   domain.Status
	Action string
	Kind   domain.HistoryKind
	// Final is true when the entity just entered APPROVED; the caller
	// stamps approvedAt and derives follow-up records (active credit).
	Final bool
}

// Engine applies the role-gated approval chain to one entity kind.
// The rules are shared; only the final-approval label differs per kind.
type Engine struct {
	kind domain.EntityKind
}

// New creates an engine for the given entity kind
func New(kind domain.EntityKind) *Engine {
	return &Engine{kind: kind}
}

// CanAct reports whether role is the required actor for the current
// status. Everyone else sees the entity read-only.
func (e *Engine) CanAct(status domain.Status, role domain.Role) bool {
	r, ok := transitions[status]
	return ok && r.actor == role
}

// Approve computes the transition for an approval action. It fails with
// ErrNotPermitted when (status, role) is not a row of the chain and
// leaves nothing for the caller to persist.
func (e *Engine) Approve(status domain.Status, role domain.Role) (*Outcome, error) {
	r, ok := transitions[status]
	if !ok || r.actor != role {
		return nil, ErrNotPermitted
	}

	out := &Outcome{Next: r.next}
	switch role {
	case domain.RoleChefAgence:
		out.Action = "Validé par Chef d'agence"
		out.Kind = domain.HistoryValidation
	case domain.RoleOperations:
		out.Action = "Validé par Service Opérations"
		out.Kind = domain.HistoryValidation
	case domain.RoleDG:
		out.Kind = domain.HistoryApproval
		out.Final = true
		if e.kind == domain.KindAccount {
			out.Action = "APPROUVÉ - Compte ouvert"
		} else {
			out.Action = "APPROUVÉ par Direction Générale"
		}
	}
	return out, nil
}

// Reject computes the transition for a rejection. The same role gate
// applies, and the comment is mandatory (whitespace does not count).
func (e *Engine) Reject(status domain.Status, role domain.Role, comment string) (*Outcome, error) {
	r, ok := transitions[status]
	if !ok || r.actor != role {
		return nil, ErrNotPermitted
	}
	if strings.TrimSpace(comment) == "" {
		return nil, ErrCommentMissing
	}

	return &Outcome{
		Next:   domain.StatusRejected,
		Action: "REJETÉ",
		Kind:   domain.HistoryRejection,
	}, nil
}

// CreationAction returns the label and kind recorded when an entity
// enters the workflow.
func (e *Engine) CreationAction() (string, domain.HistoryKind) {
	if e.kind == domain.KindAccount {
		return "Demande d'ouverture de compte créée", domain.HistoryCreation
	}
	return "Demande de crédit créée", domain.HistoryCreation
}
