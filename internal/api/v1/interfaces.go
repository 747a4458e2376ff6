package v1

import (
	"context"

	"github.com/google/uuid"

	"github.com/ogoue/ogoue/internal/audit"
	"github.com/ogoue/ogoue/internal/domain"
	"github.com/ogoue/ogoue/internal/reports"
)

// DataStore abstracts the repository accessor pattern for handler testing.
// *postgres.Store satisfies this interface.
type DataStore interface {
	Organizations() domain.OrganizationRepository
	Users() domain.UserRepository
	Agents() domain.AgentRepository
	Sales() domain.SaleRepository
	Expenses() domain.ExpenseRepository
	Deletions() domain.DeletionLogRepository
}

// AuthService abstracts authentication operations for handler testing.
// *auth.Service satisfies this interface.
type AuthService interface {
	RegisterOrganization(ctx context.Context, orgName, slug, email, password, firstName, lastName string) (*domain.Organization, *domain.User, error)
	Login(ctx context.Context, organizationID uuid.UUID, email, password string) (accessToken, refreshToken string, err error)
	AgentLogin(ctx context.Context, organizationID uuid.UUID, phone, pin string) (string, error)
	RefreshToken(ctx context.Context, refreshToken string) (string, error)
}

// AuditService abstracts the deletion pipeline and deletion-log reads for
// handler testing. *audit.Service satisfies this interface.
type AuditService interface {
	DeleteSale(ctx context.Context, caller domain.Identity, id uuid.UUID, reason string) error
	DeleteExpense(ctx context.Context, caller domain.Identity, id uuid.UUID, reason string) error
	History(ctx context.Context, organizationID uuid.UUID, f domain.DeletionFilter) ([]*audit.EntryView, error)
	Entry(ctx context.Context, organizationID, id uuid.UUID) (*audit.EntryView, error)
	Statistics(ctx context.Context, organizationID uuid.UUID) (*audit.Stats, error)
	PurgeEntry(ctx context.Context, organizationID, id uuid.UUID) error
}

// ReportService abstracts monthly summaries for handler testing.
// *reports.Service satisfies this interface.
type ReportService interface {
	Monthly(ctx context.Context, organizationID uuid.UUID, month, year int) (*reports.Summary, error)
}

// SummaryInvalidator drops cached monthly summaries after a write.
// *reports.Service satisfies this interface.
type SummaryInvalidator interface {
	InvalidateMonthly(ctx context.Context, organizationID uuid.UUID, month, year int)
}
