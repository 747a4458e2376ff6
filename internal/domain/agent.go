package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Agent is a cashier or field seller. Agents record sales and expenses but
// have no user account; they authenticate with organization slug, phone
// number and a PIN.
type Agent struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Phone          string    `json:"phone"`
	PINHash        string    `json:"-"` // argon2id
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
}

type AgentRepository interface {
	Create(ctx context.Context, a *Agent) error
	GetByID(ctx context.Context, organizationID, id uuid.UUID) (*Agent, error)
	GetByPhone(ctx context.Context, organizationID uuid.UUID, phone string) (*Agent, error)
	List(ctx context.Context, organizationID uuid.UUID) ([]*Agent, error)
	Update(ctx context.Context, a *Agent) error
}
