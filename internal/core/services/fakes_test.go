package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"finec-backoffice/internal/adapters/persistence/models"
	"finec-backoffice/internal/adapters/persistence/repositories"
	"finec-backoffice/internal/core/domain"
)

// In-memory repository fakes. They mirror the transactional contracts
// of the gorm implementations: entity and history entry are stored
// together, and GetByID hands back copies so callers never mutate the
// stored row before Update.

type fakeStore struct {
	mu       sync.Mutex
	users    map[uint]*models.User
	agencies map[uint]*models.Agency
	loans    map[uint]*models.LoanRequest
	accounts map[uint]*models.Account
	credits  map[uint]*models.ActiveCredit
	savings  map[uint]*models.Savings
	cheques  map[uint]*models.Cheque
	tokens   map[uint]*models.RefreshToken
	history  []*models.HistoryEntry
	nextID   uint
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    map[uint]*models.User{},
		agencies: map[uint]*models.Agency{},
		loans:    map[uint]*models.LoanRequest{},
		accounts: map[uint]*models.Account{},
		credits:  map[uint]*models.ActiveCredit{},
		savings:  map[uint]*models.Savings{},
		cheques:  map[uint]*models.Cheque{},
		tokens:   map[uint]*models.RefreshToken{},
	}
}

func (s *fakeStore) id() uint {
	s.nextID++
	return s.nextID
}

func (s *fakeStore) appendHistory(kind domain.EntityKind, entityID uint, entry *models.HistoryEntry) {
	entry.ID = s.id()
	entry.EntityType = string(kind)
	entry.EntityID = entityID
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	s.history = append(s.history, entry)
}

func matchScope(scope repositories.Scope, agentID, agencyID uint, servicePoint string, status domain.Status) bool {
	if scope.AgentID != nil && agentID != *scope.AgentID {
		return false
	}
	if scope.AgencyID != nil && agencyID != *scope.AgencyID {
		return false
	}
	if scope.ServicePoint != nil && servicePoint != *scope.ServicePoint {
		return false
	}
	if scope.Status != nil && status != *scope.Status {
		return false
	}
	return true
}

// ---- users ----

type fakeUserRepo struct{ s *fakeStore }

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user.ID = r.s.id()
	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.users, id)
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, offset, limit int) ([]*models.User, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.User
	for _, u := range r.s.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	total := int64(len(out))
	out = page(out, offset, limit)
	return out, total, nil
}

func (r *fakeUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// ---- agencies ----

type fakeAgencyRepo struct{ s *fakeStore }

func (r *fakeAgencyRepo) Create(_ context.Context, agency *models.Agency) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	agency.ID = r.s.id()
	cp := *agency
	r.s.agencies[agency.ID] = &cp
	return nil
}

func (r *fakeAgencyRepo) GetByID(_ context.Context, id uint) (*models.Agency, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.agencies[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAgencyRepo) List(_ context.Context) ([]*models.Agency, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Agency
	for _, a := range r.s.agencies {
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeAgencyRepo) Count(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.agencies)), nil
}

// ---- refresh tokens ----

type fakeTokenRepo struct{ s *fakeStore }

func (r *fakeTokenRepo) Create(_ context.Context, token *models.RefreshToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	token.ID = r.s.id()
	cp := *token
	r.s.tokens[token.ID] = &cp
	return nil
}

func (r *fakeTokenRepo) GetByTokenHash(_ context.Context, hash string) (*models.RefreshToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.tokens {
		if t.TokenHash == hash {
			cp := *t
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeTokenRepo) Revoke(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tokens[id]
	if !ok {
		return domain.ErrNotFound
	}
	now := time.Now()
	t.RevokedAt = &now
	return nil
}

func (r *fakeTokenRepo) RevokeByTokenHash(_ context.Context, hash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := time.Now()
	for _, t := range r.s.tokens {
		if t.TokenHash == hash {
			t.RevokedAt = &now
		}
	}
	return nil
}

func (r *fakeTokenRepo) RevokeAllByUserID(_ context.Context, userID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := time.Now()
	for _, t := range r.s.tokens {
		if t.UserID == userID && t.RevokedAt == nil {
			t.RevokedAt = &now
		}
	}
	return nil
}

func (r *fakeTokenRepo) DeleteExpired(_ context.Context) error { return nil }

// ---- loan requests ----

type fakeLoanRepo struct{ s *fakeStore }

func copyLoan(l *models.LoanRequest) *models.LoanRequest {
	cp := *l
	cp.Documents = make(map[string]string, len(l.Documents))
	for k, v := range l.Documents {
		cp.Documents[k] = v
	}
	return &cp
}

func (r *fakeLoanRepo) Create(_ context.Context, loan *models.LoanRequest, entry *models.HistoryEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	loan.ID = r.s.id()
	loan.CreatedAt = time.Now()
	r.s.loans[loan.ID] = copyLoan(loan)
	r.s.appendHistory(domain.KindLoanRequest, loan.ID, entry)
	return nil
}

func (r *fakeLoanRepo) GetByID(_ context.Context, id uint) (*models.LoanRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.loans[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := copyLoan(l)
	for _, e := range r.s.history {
		if e.EntityType == string(domain.KindLoanRequest) && e.EntityID == id {
			cp.History = append(cp.History, *e)
		}
	}
	return cp, nil
}

func (r *fakeLoanRepo) Update(_ context.Context, loan *models.LoanRequest, entry *models.HistoryEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.loans[loan.ID]; !ok {
		return domain.ErrNotFound
	}
	stored := copyLoan(loan)
	stored.History = nil
	r.s.loans[loan.ID] = stored
	if entry != nil {
		r.s.appendHistory(domain.KindLoanRequest, loan.ID, entry)
	}
	return nil
}

func (r *fakeLoanRepo) List(ctx context.Context, scope repositories.Scope, offset, limit int) ([]*models.LoanRequest, int64, error) {
	all, err := r.ListAll(ctx, scope)
	if err != nil {
		return nil, 0, err
	}
	return page(all, offset, limit), int64(len(all)), nil
}

func (r *fakeLoanRepo) ListAll(_ context.Context, scope repositories.Scope) ([]*models.LoanRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.LoanRequest
	for _, l := range r.s.loans {
		if matchScope(scope, l.AgentID, l.AgencyID, l.ServicePoint, l.Status) {
			out = append(out, copyLoan(l))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeLoanRepo) CountByYear(_ context.Context, year int) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prefix := fmt.Sprintf("CR-%d-", year)
	var n int64
	for _, l := range r.s.loans {
		if strings.HasPrefix(l.RequestNumber, prefix) {
			n++
		}
	}
	return n, nil
}

// ---- accounts ----

type fakeAccountRepo struct{ s *fakeStore }

func copyAccount(a *models.Account) *models.Account {
	cp := *a
	cp.Documents = make(map[string]string, len(a.Documents))
	for k, v := range a.Documents {
		cp.Documents[k] = v
	}
	return &cp
}

func (r *fakeAccountRepo) Create(_ context.Context, account *models.Account, entry *models.HistoryEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	account.ID = r.s.id()
	account.CreatedAt = time.Now()
	r.s.accounts[account.ID] = copyAccount(account)
	r.s.appendHistory(domain.KindAccount, account.ID, entry)
	return nil
}

func (r *fakeAccountRepo) GetByID(_ context.Context, id uint) (*models.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.accounts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := copyAccount(a)
	for _, e := range r.s.history {
		if e.EntityType == string(domain.KindAccount) && e.EntityID == id {
			cp.History = append(cp.History, *e)
		}
	}
	return cp, nil
}

func (r *fakeAccountRepo) Update(_ context.Context, account *models.Account, entry *models.HistoryEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.accounts[account.ID]; !ok {
		return domain.ErrNotFound
	}
	stored := copyAccount(account)
	stored.History = nil
	r.s.accounts[account.ID] = stored
	if entry != nil {
		r.s.appendHistory(domain.KindAccount, account.ID, entry)
	}
	return nil
}

func (r *fakeAccountRepo) List(ctx context.Context, scope repositories.Scope, offset, limit int) ([]*models.Account, int64, error) {
	all, err := r.ListAll(ctx, scope)
	if err != nil {
		return nil, 0, err
	}
	return page(all, offset, limit), int64(len(all)), nil
}

func (r *fakeAccountRepo) ListAll(_ context.Context, scope repositories.Scope) ([]*models.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Account
	for _, a := range r.s.accounts {
		if matchScope(scope, a.AgentID, a.AgencyID, a.ServicePoint, a.Status) {
			out = append(out, copyAccount(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeAccountRepo) CountByYear(_ context.Context, year int) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prefix := fmt.Sprintf("FINEC-%d-", year)
	var n int64
	for _, a := range r.s.accounts {
		if strings.HasPrefix(a.AccountNumber, prefix) {
			n++
		}
	}
	return n, nil
}

// ---- active credits ----

type fakeCreditRepo struct{ s *fakeStore }

func copyCredit(c *models.ActiveCredit) *models.ActiveCredit {
	cp := *c
	cp.Payments = append([]models.Payment(nil), c.Payments...)
	return &cp
}

func (r *fakeCreditRepo) Create(_ context.Context, credit *models.ActiveCredit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	credit.ID = r.s.id()
	r.s.credits[credit.ID] = copyCredit(credit)
	return nil
}

func (r *fakeCreditRepo) GetByID(_ context.Context, id uint) (*models.ActiveCredit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.credits[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyCredit(c), nil
}

func (r *fakeCreditRepo) RecordPayment(_ context.Context, credit *models.ActiveCredit, payment *models.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.credits[credit.ID]
	if !ok {
		return domain.ErrNotFound
	}
	payment.ID = r.s.id()
	payment.CreatedAt = time.Now()
	cp := copyCredit(credit)
	cp.Payments = append(append([]models.Payment(nil), stored.Payments...), *payment)
	r.s.credits[credit.ID] = cp
	return nil
}

func (r *fakeCreditRepo) List(ctx context.Context, scope repositories.Scope, offset, limit int) ([]*models.ActiveCredit, int64, error) {
	all, err := r.ListAll(ctx, scope)
	if err != nil {
		return nil, 0, err
	}
	return page(all, offset, limit), int64(len(all)), nil
}

func (r *fakeCreditRepo) ListAll(_ context.Context, scope repositories.Scope) ([]*models.ActiveCredit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.ActiveCredit
	for _, c := range r.s.credits {
		if matchScope(scope, c.AgentID, c.AgencyID, c.ServicePoint, domain.Status(c.Status)) {
			out = append(out, copyCredit(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ---- savings ----

type fakeSavingsRepo struct{ s *fakeStore }

func copySavings(sv *models.Savings) *models.Savings {
	cp := *sv
	cp.Deposits = append([]models.Deposit(nil), sv.Deposits...)
	cp.Withdrawals = append([]models.Withdrawal(nil), sv.Withdrawals...)
	return &cp
}

func (r *fakeSavingsRepo) Create(_ context.Context, savings *models.Savings) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	savings.ID = r.s.id()
	r.s.savings[savings.ID] = copySavings(savings)
	return nil
}

func (r *fakeSavingsRepo) GetByID(_ context.Context, id uint) (*models.Savings, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sv, ok := r.s.savings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copySavings(sv), nil
}

func (r *fakeSavingsRepo) RecordDeposit(_ context.Context, savings *models.Savings, deposit *models.Deposit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.savings[savings.ID]
	if !ok {
		return domain.ErrNotFound
	}
	deposit.ID = r.s.id()
	deposit.CreatedAt = time.Now()
	cp := copySavings(savings)
	cp.Deposits = append(append([]models.Deposit(nil), stored.Deposits...), *deposit)
	cp.Withdrawals = append([]models.Withdrawal(nil), stored.Withdrawals...)
	r.s.savings[savings.ID] = cp
	return nil
}

func (r *fakeSavingsRepo) RecordWithdrawal(_ context.Context, savings *models.Savings, withdrawal *models.Withdrawal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.savings[savings.ID]
	if !ok {
		return domain.ErrNotFound
	}
	withdrawal.ID = r.s.id()
	withdrawal.CreatedAt = time.Now()
	cp := copySavings(savings)
	cp.Deposits = append([]models.Deposit(nil), stored.Deposits...)
	cp.Withdrawals = append(append([]models.Withdrawal(nil), stored.Withdrawals...), *withdrawal)
	r.s.savings[savings.ID] = cp
	return nil
}

func (r *fakeSavingsRepo) List(ctx context.Context, scope repositories.Scope, offset, limit int) ([]*models.Savings, int64, error) {
	all, err := r.ListAll(ctx, scope)
	if err != nil {
		return nil, 0, err
	}
	return page(all, offset, limit), int64(len(all)), nil
}

func (r *fakeSavingsRepo) ListAll(_ context.Context, scope repositories.Scope) ([]*models.Savings, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	// savings carry no agent, the agent filter does not apply
	noAgent := scope
	noAgent.AgentID = nil
	var out []*models.Savings
	for _, sv := range r.s.savings {
		if matchScope(noAgent, 0, sv.AgencyID, sv.ServicePoint, domain.Status(sv.Status)) {
			out = append(out, copySavings(sv))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeSavingsRepo) CountByYear(_ context.Context, year int) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prefix := fmt.Sprintf("EP-%d-", year)
	var n int64
	for _, sv := range r.s.savings {
		if strings.HasPrefix(sv.AccountNumber, prefix) {
			n++
		}
	}
	return n, nil
}

// ---- cheques ----

type fakeChequeRepo struct{ s *fakeStore }

func (r *fakeChequeRepo) Create(_ context.Context, cheque *models.Cheque) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cheque.ID = r.s.id()
	cp := *cheque
	r.s.cheques[cheque.ID] = &cp
	return nil
}

func (r *fakeChequeRepo) GetByID(_ context.Context, id uint) (*models.Cheque, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.cheques[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeChequeRepo) Update(_ context.Context, cheque *models.Cheque) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.cheques[cheque.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *cheque
	r.s.cheques[cheque.ID] = &cp
	return nil
}

func (r *fakeChequeRepo) List(_ context.Context, scope repositories.Scope, offset, limit int) ([]*models.Cheque, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	noAgent := scope
	noAgent.AgentID = nil
	var out []*models.Cheque
	for _, c := range r.s.cheques {
		if matchScope(noAgent, 0, c.AgencyID, c.ServicePoint, domain.Status(c.Status)) {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	total := int64(len(out))
	return page(out, offset, limit), total, nil
}

// ---- history ----

type fakeHistoryRepo struct{ s *fakeStore }

func (r *fakeHistoryRepo) ListByEntity(_ context.Context, kind domain.EntityKind, entityID uint) ([]*models.HistoryEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.HistoryEntry
	for _, e := range r.s.history {
		if e.EntityType == string(kind) && e.EntityID == entityID {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeHistoryRepo) List(_ context.Context, filter repositories.AuditFilter) ([]*models.HistoryEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.HistoryEntry
	for _, e := range r.s.history {
		if filter.Kind != nil && e.Kind != *filter.Kind {
			continue
		}
		if filter.EntityType != nil && e.EntityType != string(*filter.EntityType) {
			continue
		}
		if filter.AgencyID != nil && e.AgencyID != *filter.AgencyID {
			continue
		}
		if filter.From != nil && e.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && e.CreatedAt.After(*filter.To) {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

// seedUser stores a user with the given role and returns its Viewer
func seedUser(s *fakeStore, role domain.Role, agencyID uint, servicePoint string) (*models.User, Viewer) {
	repo := &fakeUserRepo{s: s}
	u := &models.User{
		Email:        fmt.Sprintf("%s%d@finec.local", strings.ToLower(string(role)), s.nextID+1),
		Password:     "$2a$12$notachecked",
		FirstName:    string(role),
		LastName:     "Testeur",
		Role:         role,
		AgencyID:     agencyID,
		ServicePoint: servicePoint,
		IsActive:     true,
	}
	_ = repo.Create(context.Background(), u)
	return u, Viewer{UserID: u.ID, Role: role, AgencyID: agencyID, ServicePoint: servicePoint}
}
