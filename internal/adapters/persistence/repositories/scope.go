package repositories

import (
	"errors"

	"finec-backoffice/internal/core/domain"

	"gorm.io/gorm"
)

// applyScope translates a Scope into WHERE clauses. The column names
// are shared by every table carrying agent/agency ownership.
func applyScope(q *gorm.DB, scope Scope) *gorm.DB {
	if scope.AgentID != nil {
		q = q.Where("agent_id = ?", *scope.AgentID)
	}
	if scope.AgencyID != nil {
		q = q.Where("agency_id = ?", *scope.AgencyID)
	}
	if scope.ServicePoint != nil {
		q = q.Where("service_point = ?", *scope.ServicePoint)
	}
	if scope.Status != nil {
		q = q.Where("status = ?", *scope.Status)
	}
	return q
}

// translate maps gorm's record-not-found onto the domain error so
// services and fakes share one sentinel.
func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}
