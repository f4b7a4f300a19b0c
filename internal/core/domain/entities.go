package domain

// Role represents a user role in the system
type Role string

const (
	RoleAgent      Role = "AGENT"
	RoleChefAgence Role = "CHEF_AGENCE"
	RoleOperations Role = "OPERATIONS"
	RoleDG         Role = "DG"
	RoleDSI        Role = "DSI"
)

// Valid reports whether r is one of the five known roles
func (r Role) Valid() bool {
	switch r {
	case RoleAgent, RoleChefAgence, RoleOperations, RoleDG, RoleDSI:
		return true
	}
	return false
}

// Status represents a workflow status shared by loan requests and
// account-opening requests
type Status string

const (
	StatusDraft                 Status = "DRAFT"
	StatusPending               Status = "PENDING"
	StatusValidatedByManager    Status = "VALIDATED_BY_MANAGER"
	StatusValidatedByOperations Status = "VALIDATED_BY_OPERATIONS"
	StatusApproved              Status = "APPROVED"
	StatusRejected              Status = "REJECTED"

	// StatusActive is reserved for accounts after APPROVED. No transition
	// produces it yet.
	StatusActive Status = "ACTIVE"
)

// Terminal reports whether no further workflow action is permitted
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// HistoryKind classifies a history entry at write time so that audit
// views never have to parse action labels
type HistoryKind string

const (
	HistoryCreation   HistoryKind = "CREATION"
	HistoryValidation HistoryKind = "VALIDATION"
	HistoryApproval   HistoryKind = "APPROVAL"
	HistoryRejection  HistoryKind = "REJECTION"
)

// EntityKind identifies which workflow entity a history entry belongs to
type EntityKind string

const (
	KindLoanRequest EntityKind = "loan_request"
	KindAccount     EntityKind = "account"
)

// Credit statuses
const (
	CreditCurrent   = "CURRENT"
	CreditLate      = "LATE"
	CreditDefaulted = "DEFAULTED"
	CreditCompleted = "COMPLETED"
)

// Savings types and statuses
const (
	SavingsMonthly   = "MONTHLY"
	SavingsProject   = "PROJECT"
	SavingsVoluntary = "VOLUNTARY"

	SavingsActive    = "ACTIVE"
	SavingsSuspended = "SUSPENDED"
	SavingsClosed    = "CLOSED"
)

// Cheque statuses (set directly, no workflow)
const (
	ChequeActive    = "ACTIVE"
	ChequeCashed    = "CASHED"
	ChequeBounced   = "BOUNCED"
	ChequeCancelled = "CANCELLED"
)

// Account types
const (
	AccountIndividual = "INDIVIDUAL"
	AccountJoint      = "JOINT"
	AccountBusiness   = "BUSINESS"
)
