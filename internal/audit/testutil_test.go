package audit_test

import (
	"context"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/ogoue/ogoue/internal/blob"
	"github.com/ogoue/ogoue/internal/domain"
)

type fakeDeletionLog struct {
	mu        sync.Mutex
	entries   []*domain.DeletionEntry
	createErr error
	listErr   error
	countErr  error

	// listLimit emulates the store's page cap; 0 means uncapped.
	listLimit int
}

func (f *fakeDeletionLog) Create(_ context.Context, e *domain.DeletionEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.entries = append(f.entries, e)
	return nil
}

func (f *fakeDeletionLog) List(_ context.Context, organizationID uuid.UUID, filter domain.DeletionFilter) ([]*domain.DeletionEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*domain.DeletionEntry
	for _, e := range f.entries {
		if e.OrganizationID != organizationID {
			continue
		}
		if filter.RecordType != "" && e.RecordType != filter.RecordType {
			continue
		}
		if filter.Month != 0 && filter.Year != 0 {
			if int(e.DeletedAt.Month()) != filter.Month || e.DeletedAt.Year() != filter.Year {
				continue
			}
		}
		out = append(out, e)
	}
	if f.listLimit > 0 && len(out) > f.listLimit {
		out = out[:f.listLimit]
	}
	return out, nil
}

func (f *fakeDeletionLog) CountByType(_ context.Context, organizationID uuid.UUID) (map[string]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.countErr != nil {
		return nil, f.countErr
	}
	counts := make(map[string]int)
	for _, e := range f.entries {
		if e.OrganizationID == organizationID {
			counts[e.RecordType]++
		}
	}
	return counts, nil
}

func (f *fakeDeletionLog) CountByActor(_ context.Context, organizationID uuid.UUID) ([]domain.DeletionActorGroup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.countErr != nil {
		return nil, f.countErr
	}

	type actorKey struct {
		name   string
		userID uuid.UUID
	}
	counts := make(map[actorKey]int)
	for _, e := range f.entries {
		if e.OrganizationID != organizationID {
			continue
		}
		key := actorKey{name: e.DeletedByName}
		if e.DeletedByUserID != nil {
			key.userID = *e.DeletedByUserID
		}
		counts[key]++
	}

	var groups []domain.DeletionActorGroup
	for key, count := range counts {
		g := domain.DeletionActorGroup{DeletedByName: key.name, Count: count}
		if key.userID != uuid.Nil {
			userID := key.userID
			g.DeletedByUserID = &userID
		}
		groups = append(groups, g)
	}
	return groups, nil
}

func (f *fakeDeletionLog) GetByID(_ context.Context, organizationID, id uuid.UUID) (*domain.DeletionEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.OrganizationID == organizationID && e.ID == id {
			return e, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeDeletionLog) Delete(_ context.Context, organizationID, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, e := range f.entries {
		if e.OrganizationID == organizationID && e.ID == id {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeSaleRepo struct {
	sales     map[uuid.UUID]*domain.Sale
	deleteErr error
	deleted   []uuid.UUID
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{sales: make(map[uuid.UUID]*domain.Sale)}
}

func (f *fakeSaleRepo) Create(_ context.Context, s *domain.Sale) error {
	f.sales[s.ID] = s
	return nil
}

func (f *fakeSaleRepo) GetByID(_ context.Context, organizationID, id uuid.UUID) (*domain.Sale, error) {
	s, ok := f.sales[id]
	if !ok || s.OrganizationID != organizationID {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

func (f *fakeSaleRepo) List(_ context.Context, organizationID uuid.UUID, _, _ int) ([]*domain.Sale, error) {
	var out []*domain.Sale
	for _, s := range f.sales {
		if s.OrganizationID == organizationID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSaleRepo) Delete(_ context.Context, organizationID, id uuid.UUID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	s, ok := f.sales[id]
	if !ok || s.OrganizationID != organizationID {
		return domain.ErrNotFound
	}
	delete(f.sales, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeSaleRepo) MonthlyTotal(_ context.Context, organizationID uuid.UUID, month, year int) (int64, int, error) {
	var total int64
	var count int
	for _, s := range f.sales {
		if s.OrganizationID == organizationID && int(s.Date.Month()) == month && s.Date.Year() == year {
			total += s.Amount
			count++
		}
	}
	return total, count, nil
}

type fakeExpenseRepo struct {
	expenses  map[uuid.UUID]*domain.Expense
	deleteErr error
}

func newFakeExpenseRepo() *fakeExpenseRepo {
	return &fakeExpenseRepo{expenses: make(map[uuid.UUID]*domain.Expense)}
}

func (f *fakeExpenseRepo) Create(_ context.Context, e *domain.Expense) error {
	f.expenses[e.ID] = e
	return nil
}

func (f *fakeExpenseRepo) GetByID(_ context.Context, organizationID, id uuid.UUID) (*domain.Expense, error) {
	e, ok := f.expenses[id]
	if !ok || e.OrganizationID != organizationID {
		return nil, domain.ErrNotFound
	}
	return e, nil
}

func (f *fakeExpenseRepo) List(_ context.Context, organizationID uuid.UUID, _, _ int) ([]*domain.Expense, error) {
	var out []*domain.Expense
	for _, e := range f.expenses {
		if e.OrganizationID == organizationID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeExpenseRepo) Delete(_ context.Context, organizationID, id uuid.UUID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	e, ok := f.expenses[id]
	if !ok || e.OrganizationID != organizationID {
		return domain.ErrNotFound
	}
	delete(f.expenses, id)
	return nil
}

func (f *fakeExpenseRepo) MonthlyTotal(_ context.Context, organizationID uuid.UUID, month, year int) (int64, int, error) {
	var total int64
	var count int
	for _, e := range f.expenses {
		if e.OrganizationID == organizationID && int(e.Date.Month()) == month && e.Date.Year() == year {
			total += e.Amount
			count++
		}
	}
	return total, count, nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, organizationID, id uuid.UUID) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok || u.OrganizationID != organizationID {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, organizationID uuid.UUID, email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.OrganizationID == organizationID && u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) Update(_ context.Context, u *domain.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) List(_ context.Context, organizationID uuid.UUID) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range f.users {
		if u.OrganizationID == organizationID {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeAgentRepo struct {
	agents map[uuid.UUID]*domain.Agent
}

func newFakeAgentRepo() *fakeAgentRepo {
	return &fakeAgentRepo{agents: make(map[uuid.UUID]*domain.Agent)}
}

func (f *fakeAgentRepo) Create(_ context.Context, a *domain.Agent) error {
	f.agents[a.ID] = a
	return nil
}

func (f *fakeAgentRepo) GetByID(_ context.Context, organizationID, id uuid.UUID) (*domain.Agent, error) {
	a, ok := f.agents[id]
	if !ok || a.OrganizationID != organizationID {
		return nil, domain.ErrNotFound
	}
	return a, nil
}

func (f *fakeAgentRepo) GetByPhone(_ context.Context, organizationID uuid.UUID, phone string) (*domain.Agent, error) {
	for _, a := range f.agents {
		if a.OrganizationID == organizationID && a.Phone == phone {
			return a, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeAgentRepo) List(_ context.Context, organizationID uuid.UUID) ([]*domain.Agent, error) {
	var out []*domain.Agent
	for _, a := range f.agents {
		if a.OrganizationID == organizationID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAgentRepo) Update(_ context.Context, a *domain.Agent) error {
	f.agents[a.ID] = a
	return nil
}

type fakeBlobStore struct {
	removed   []string
	removeErr error
}

func (f *fakeBlobStore) Put(_ context.Context, organizationID uuid.UUID, name string, _ io.Reader) (*blob.Object, error) {
	return &blob.Object{Name: name, Path: organizationID.String() + "/" + name, PublicURL: "/files/" + name}, nil
}

func (f *fakeBlobStore) Remove(_ context.Context, path string) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	f.removed = append(f.removed, path)
	return nil
}

type fakeNotifier struct {
	entries []*domain.DeletionEntry
	err     error
}

func (f *fakeNotifier) DeletionRecorded(_ context.Context, e *domain.DeletionEntry) error {
	f.entries = append(f.entries, e)
	return f.err
}

type invalidation struct {
	organizationID uuid.UUID
	month, year    int
}

type fakeInvalidator struct {
	calls []invalidation
}

func (f *fakeInvalidator) InvalidateMonthly(_ context.Context, organizationID uuid.UUID, month, year int) {
	f.calls = append(f.calls, invalidation{organizationID: organizationID, month: month, year: year})
}
