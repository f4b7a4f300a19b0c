package services

import (
	"finec-backoffice/internal/adapters/persistence/repositories"
	"finec-backoffice/internal/core/domain"
)

// Viewer identifies the authenticated caller for scoping purposes.
// Built from JWT claims by the handlers.
type Viewer struct {
	UserID       uint
	Role         domain.Role
	AgencyID     uint
	ServicePoint string
}

// ScopeFilters are the optional narrowing filters a viewer may request
// on top of what their role already imposes.
type ScopeFilters struct {
	AgencyID     *uint
	ServicePoint *string
	Status       *domain.Status
}

// ScopeFor derives the repository scope for a viewer. Agents see their
// own requests; branch managers their agency, optionally one service
// point; operations, general management and systems administration see
// everything, optionally filtered by agency.
func ScopeFor(v Viewer, f ScopeFilters) repositories.Scope {
	scope := repositories.Scope{Status: f.Status}

	switch v.Role {
	case domain.RoleAgent:
		id := v.UserID
		scope.AgentID = &id
		agency := v.AgencyID
		scope.AgencyID = &agency
	case domain.RoleChefAgence:
		agency := v.AgencyID
		scope.AgencyID = &agency
		if f.ServicePoint != nil {
			scope.ServicePoint = f.ServicePoint
		}
	default: // OPERATIONS, DG, DSI
		if f.AgencyID != nil {
			scope.AgencyID = f.AgencyID
		}
		if f.ServicePoint != nil {
			scope.ServicePoint = f.ServicePoint
		}
	}

	return scope
}
