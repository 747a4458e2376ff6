package v1_test

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/ogoue/ogoue/internal/audit"
	"github.com/ogoue/ogoue/internal/blob"
	"github.com/ogoue/ogoue/internal/domain"
	"github.com/ogoue/ogoue/internal/reports"
	"github.com/ogoue/ogoue/internal/server/middleware"
)

// ---------------------------------------------------------------------------
// Context helpers: inject organization/user/agent/role for DoCtx
// ---------------------------------------------------------------------------

func orgCtx(orgID uuid.UUID) context.Context {
	return context.WithValue(context.Background(), middleware.ContextKeyOrganizationID, orgID)
}

func managerCtx(orgID, userID uuid.UUID) context.Context {
	ctx := orgCtx(orgID)
	ctx = context.WithValue(ctx, middleware.ContextKeyUserID, userID)
	ctx = context.WithValue(ctx, middleware.ContextKeyRole, domain.RoleManager)
	return ctx
}

func agentCtx(orgID, agentID uuid.UUID) context.Context {
	ctx := orgCtx(orgID)
	ctx = context.WithValue(ctx, middleware.ContextKeyAgentID, agentID)
	ctx = context.WithValue(ctx, middleware.ContextKeyRole, domain.RoleAgent)
	return ctx
}

// ---------------------------------------------------------------------------
// Mock DataStore
// ---------------------------------------------------------------------------

type mockDataStore struct {
	organizations domain.OrganizationRepository
	users         domain.UserRepository
	agents        domain.AgentRepository
	sales         domain.SaleRepository
	expenses      domain.ExpenseRepository
	deletions     domain.DeletionLogRepository
}

func (m *mockDataStore) Organizations() domain.OrganizationRepository { return m.organizations }
func (m *mockDataStore) Users() domain.UserRepository                 { return m.users }
func (m *mockDataStore) Agents() domain.AgentRepository               { return m.agents }
func (m *mockDataStore) Sales() domain.SaleRepository                 { return m.sales }
func (m *mockDataStore) Expenses() domain.ExpenseRepository           { return m.expenses }
func (m *mockDataStore) Deletions() domain.DeletionLogRepository      { return m.deletions }

// ---------------------------------------------------------------------------
// Mock OrganizationRepository
// ---------------------------------------------------------------------------

type mockOrganizationRepo struct {
	createFunc    func(ctx context.Context, o *domain.Organization) error
	getByIDFunc   func(ctx context.Context, id uuid.UUID) (*domain.Organization, error)
	getBySlugFunc func(ctx context.Context, slug string) (*domain.Organization, error)
	updateFunc    func(ctx context.Context, o *domain.Organization) error
}

func (m *mockOrganizationRepo) Create(ctx context.Context, o *domain.Organization) error {
	return m.createFunc(ctx, o)
}

func (m *mockOrganizationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Organization, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockOrganizationRepo) GetBySlug(ctx context.Context, slug string) (*domain.Organization, error) {
	return m.getBySlugFunc(ctx, slug)
}

func (m *mockOrganizationRepo) Update(ctx context.Context, o *domain.Organization) error {
	return m.updateFunc(ctx, o)
}

// ---------------------------------------------------------------------------
// Mock SaleRepository
// ---------------------------------------------------------------------------

type mockSaleRepo struct {
	createFunc       func(ctx context.Context, s *domain.Sale) error
	getByIDFunc      func(ctx context.Context, organizationID, id uuid.UUID) (*domain.Sale, error)
	listFunc         func(ctx context.Context, organizationID uuid.UUID, month, year int) ([]*domain.Sale, error)
	deleteFunc       func(ctx context.Context, organizationID, id uuid.UUID) error
	monthlyTotalFunc func(ctx context.Context, organizationID uuid.UUID, month, year int) (int64, int, error)
}

func (m *mockSaleRepo) Create(ctx context.Context, s *domain.Sale) error {
	return m.createFunc(ctx, s)
}

func (m *mockSaleRepo) GetByID(ctx context.Context, organizationID, id uuid.UUID) (*domain.Sale, error) {
	return m.getByIDFunc(ctx, organizationID, id)
}

func (m *mockSaleRepo) List(ctx context.Context, organizationID uuid.UUID, month, year int) ([]*domain.Sale, error) {
	return m.listFunc(ctx, organizationID, month, year)
}

func (m *mockSaleRepo) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	return m.deleteFunc(ctx, organizationID, id)
}

func (m *mockSaleRepo) MonthlyTotal(ctx context.Context, organizationID uuid.UUID, month, year int) (int64, int, error) {
	return m.monthlyTotalFunc(ctx, organizationID, month, year)
}

// ---------------------------------------------------------------------------
// Mock ExpenseRepository
// ---------------------------------------------------------------------------

type mockExpenseRepo struct {
	createFunc       func(ctx context.Context, e *domain.Expense) error
	getByIDFunc      func(ctx context.Context, organizationID, id uuid.UUID) (*domain.Expense, error)
	listFunc         func(ctx context.Context, organizationID uuid.UUID, month, year int) ([]*domain.Expense, error)
	deleteFunc       func(ctx context.Context, organizationID, id uuid.UUID) error
	monthlyTotalFunc func(ctx context.Context, organizationID uuid.UUID, month, year int) (int64, int, error)
}

func (m *mockExpenseRepo) Create(ctx context.Context, e *domain.Expense) error {
	return m.createFunc(ctx, e)
}

func (m *mockExpenseRepo) GetByID(ctx context.Context, organizationID, id uuid.UUID) (*domain.Expense, error) {
	return m.getByIDFunc(ctx, organizationID, id)
}

func (m *mockExpenseRepo) List(ctx context.Context, organizationID uuid.UUID, month, year int) ([]*domain.Expense, error) {
	return m.listFunc(ctx, organizationID, month, year)
}

func (m *mockExpenseRepo) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	return m.deleteFunc(ctx, organizationID, id)
}

func (m *mockExpenseRepo) MonthlyTotal(ctx context.Context, organizationID uuid.UUID, month, year int) (int64, int, error) {
	return m.monthlyTotalFunc(ctx, organizationID, month, year)
}

// ---------------------------------------------------------------------------
// Mock AuthService
// ---------------------------------------------------------------------------

type mockAuthService struct {
	registerOrganizationFunc func(ctx context.Context, orgName, slug, email, password, firstName, lastName string) (*domain.Organization, *domain.User, error)
	loginFunc                func(ctx context.Context, organizationID uuid.UUID, email, password string) (string, string, error)
	agentLoginFunc           func(ctx context.Context, organizationID uuid.UUID, phone, pin string) (string, error)
	refreshTokenFunc         func(ctx context.Context, refreshToken string) (string, error)
}

func (m *mockAuthService) RegisterOrganization(ctx context.Context, orgName, slug, email, password, firstName, lastName string) (*domain.Organization, *domain.User, error) {
	return m.registerOrganizationFunc(ctx, orgName, slug, email, password, firstName, lastName)
}

func (m *mockAuthService) Login(ctx context.Context, organizationID uuid.UUID, email, password string) (accessToken, refreshToken string, err error) {
	return m.loginFunc(ctx, organizationID, email, password)
}

func (m *mockAuthService) AgentLogin(ctx context.Context, organizationID uuid.UUID, phone, pin string) (string, error) {
	return m.agentLoginFunc(ctx, organizationID, phone, pin)
}

func (m *mockAuthService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	return m.refreshTokenFunc(ctx, refreshToken)
}

// ---------------------------------------------------------------------------
// Mock AuditService
// ---------------------------------------------------------------------------

type mockAuditService struct {
	deleteSaleFunc    func(ctx context.Context, caller domain.Identity, id uuid.UUID, reason string) error
	deleteExpenseFunc func(ctx context.Context, caller domain.Identity, id uuid.UUID, reason string) error
	historyFunc       func(ctx context.Context, organizationID uuid.UUID, f domain.DeletionFilter) ([]*audit.EntryView, error)
	entryFunc         func(ctx context.Context, organizationID, id uuid.UUID) (*audit.EntryView, error)
	statisticsFunc    func(ctx context.Context, organizationID uuid.UUID) (*audit.Stats, error)
	purgeEntryFunc    func(ctx context.Context, organizationID, id uuid.UUID) error
}

func (m *mockAuditService) DeleteSale(ctx context.Context, caller domain.Identity, id uuid.UUID, reason string) error {
	return m.deleteSaleFunc(ctx, caller, id, reason)
}

func (m *mockAuditService) DeleteExpense(ctx context.Context, caller domain.Identity, id uuid.UUID, reason string) error {
	return m.deleteExpenseFunc(ctx, caller, id, reason)
}

func (m *mockAuditService) History(ctx context.Context, organizationID uuid.UUID, f domain.DeletionFilter) ([]*audit.EntryView, error) {
	return m.historyFunc(ctx, organizationID, f)
}

func (m *mockAuditService) Entry(ctx context.Context, organizationID, id uuid.UUID) (*audit.EntryView, error) {
	return m.entryFunc(ctx, organizationID, id)
}

func (m *mockAuditService) Statistics(ctx context.Context, organizationID uuid.UUID) (*audit.Stats, error) {
	return m.statisticsFunc(ctx, organizationID)
}

func (m *mockAuditService) PurgeEntry(ctx context.Context, organizationID, id uuid.UUID) error {
	return m.purgeEntryFunc(ctx, organizationID, id)
}

// ---------------------------------------------------------------------------
// Mock ReportService
// ---------------------------------------------------------------------------

type mockReportService struct {
	monthlyFunc func(ctx context.Context, organizationID uuid.UUID, month, year int) (*reports.Summary, error)
}

func (m *mockReportService) Monthly(ctx context.Context, organizationID uuid.UUID, month, year int) (*reports.Summary, error) {
	return m.monthlyFunc(ctx, organizationID, month, year)
}

// ---------------------------------------------------------------------------
// Mock blob store and invalidator
// ---------------------------------------------------------------------------

type mockBlobStore struct {
	removed []string
}

func (m *mockBlobStore) Put(_ context.Context, organizationID uuid.UUID, name string, _ io.Reader) (*blob.Object, error) {
	return &blob.Object{Name: name, Path: organizationID.String() + "/" + name, PublicURL: "/files/" + name}, nil
}

func (m *mockBlobStore) Remove(_ context.Context, path string) error {
	m.removed = append(m.removed, path)
	return nil
}

type mockInvalidator struct {
	calls int
}

func (m *mockInvalidator) InvalidateMonthly(context.Context, uuid.UUID, int, int) {
	m.calls++
}
