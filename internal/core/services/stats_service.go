package services

import (
	"context"

	"finec-backoffice/internal/adapters/persistence/repositories"
	"finec-backoffice/internal/core/domain"
)

// StatusCounts buckets workflow entities by status. PendingGroup is
// everything still awaiting a decision.
type StatusCounts struct {
	Total                 int64 `json:"total"`
	Pending               int64 `json:"pending"`
	ValidatedByManager    int64 `json:"validated_by_manager"`
	ValidatedByOperations int64 `json:"validated_by_operations"`
	PendingGroup          int64 `json:"pending_group"`
	Approved              int64 `json:"approved"`
	Rejected              int64 `json:"rejected"`
}

func (c *StatusCounts) add(status domain.Status) {
	c.Total++
	switch status {
	case domain.StatusPending:
		c.Pending++
		c.PendingGroup++
	case domain.StatusValidatedByManager:
		c.ValidatedByManager++
		c.PendingGroup++
	case domain.StatusValidatedByOperations:
		c.ValidatedByOperations++
		c.PendingGroup++
	case domain.StatusApproved:
		c.Approved++
	case domain.StatusRejected:
		c.Rejected++
	}
}

// CreditStats aggregates the active credit portfolio
type CreditStats struct {
	Count            int64   `json:"count"`
	TotalLent        float64 `json:"total_lent"`
	TotalPaid        float64 `json:"total_paid"`
	TotalOutstanding float64 `json:"total_outstanding"`
	Late             int64   `json:"late"`
	Completed        int64   `json:"completed"`
}

// SavingsStats aggregates the savings portfolio
type SavingsStats struct {
	Count        int64   `json:"count"`
	TotalSaved   float64 `json:"total_saved"`
	TotalBalance float64 `json:"total_balance"`
}

// DashboardStats is the per-viewer dashboard payload
type DashboardStats struct {
	LoanRequests StatusCounts `json:"loan_requests"`
	Accounts     StatusCounts `json:"accounts"`
	Credits      CreditStats  `json:"credits"`
	Savings      SavingsStats `json:"savings"`
}

// AgencyPerformance is one row of the general management performance
// view. SuccessRate is approved over total in percent, 0 when the
// agency has no requests.
type AgencyPerformance struct {
	AgencyID       uint    `json:"agency_id"`
	AgencyCode     string  `json:"agency_code"`
	AgencyName     string  `json:"agency_name"`
	Total          int64   `json:"total"`
	Approved       int64   `json:"approved"`
	Rejected       int64   `json:"rejected"`
	Pending        int64   `json:"pending"`
	ApprovedAmount float64 `json:"approved_amount"`
	TotalAmount    float64 `json:"total_amount"`
	SuccessRate    float64 `json:"success_rate"`
}

// StatsService computes dashboards and agency performance by scanning
// the viewer-scoped record sets
type StatsService struct {
	loanRepo    repositories.LoanRequestRepository
	accountRepo repositories.AccountRepository
	creditRepo  repositories.CreditRepository
	savingsRepo repositories.SavingsRepository
	agencyRepo  repositories.AgencyRepository
}

// NewStatsService creates a new stats service
func NewStatsService(
	loanRepo repositories.LoanRequestRepository,
	accountRepo repositories.AccountRepository,
	creditRepo repositories.CreditRepository,
	savingsRepo repositories.SavingsRepository,
	agencyRepo repositories.AgencyRepository,
) *StatsService {
	return &StatsService{
		loanRepo:    loanRepo,
		accountRepo: accountRepo,
		creditRepo:  creditRepo,
		savingsRepo: savingsRepo,
		agencyRepo:  agencyRepo,
	}
}

// Dashboard computes the status buckets and portfolio totals for what
// the viewer is allowed to see
func (s *StatsService) Dashboard(ctx context.Context, viewer Viewer, filters ScopeFilters) (*DashboardStats, error) {
	scope := ScopeFor(viewer, filters)
	stats := &DashboardStats{}

	loans, err := s.loanRepo.ListAll(ctx, scope)
	if err != nil {
		return nil, err
	}
	for _, loan := range loans {
		stats.LoanRequests.add(loan.Status)
	}

	accounts, err := s.accountRepo.ListAll(ctx, scope)
	if err != nil {
		return nil, err
	}
	for _, account := range accounts {
		stats.Accounts.add(account.Status)
	}

	credits, err := s.creditRepo.ListAll(ctx, scope)
	if err != nil {
		return nil, err
	}
	for _, credit := range credits {
		stats.Credits.Count++
		stats.Credits.TotalLent += credit.TotalAmount
		stats.Credits.TotalPaid += credit.AmountPaid
		stats.Credits.TotalOutstanding += credit.AmountRemaining
		switch credit.Status {
		case domain.CreditLate:
			stats.Credits.Late++
		case domain.CreditCompleted:
			stats.Credits.Completed++
		}
	}

	savings, err := s.savingsRepo.ListAll(ctx, scope)
	if err != nil {
		return nil, err
	}
	for _, sv := range savings {
		stats.Savings.Count++
		stats.Savings.TotalSaved += sv.TotalSaved
		stats.Savings.TotalBalance += sv.CurrentBalance
	}

	return stats, nil
}

// AgencyPerformances computes the per-agency success rates over loan
// requests. DG and DSI only.
func (s *StatsService) AgencyPerformances(ctx context.Context, viewer Viewer) ([]*AgencyPerformance, error) {
	if viewer.Role != domain.RoleDG && viewer.Role != domain.RoleDSI {
		return nil, domain.ErrForbidden
	}

	agencies, err := s.agencyRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	loans, err := s.loanRepo.ListAll(ctx, repositories.Scope{})
	if err != nil {
		return nil, err
	}

	byAgency := make(map[uint]*AgencyPerformance, len(agencies))
	rows := make([]*AgencyPerformance, 0, len(agencies))
	for _, agency := range agencies {
		row := &AgencyPerformance{
			AgencyID:   agency.ID,
			AgencyCode: agency.Code,
			AgencyName: agency.Name,
		}
		byAgency[agency.ID] = row
		rows = append(rows, row)
	}

	for _, loan := range loans {
		row, ok := byAgency[loan.AgencyID]
		if !ok {
			continue
		}
		row.Total++
		row.TotalAmount += loan.Amount
		switch loan.Status {
		case domain.StatusApproved:
			row.Approved++
			row.ApprovedAmount += loan.Amount
		case domain.StatusRejected:
			row.Rejected++
		default:
			row.Pending++
		}
	}

	for _, row := range rows {
		if row.Total > 0 {
			row.SuccessRate = float64(row.Approved) / float64(row.Total) * 100
		}
	}

	return rows, nil
}
