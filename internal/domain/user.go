package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Role names carried in tokens and on user rows. Agents are not users;
// they live in the agents table and authenticate with a PIN.
const (
	RoleManager = "manager"
	RoleAgent   = "agent"
)

type User struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"` // argon2id
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Role           string    `json:"role"` // "manager"
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, organizationID, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, organizationID uuid.UUID, email string) (*User, error)
	Update(ctx context.Context, u *User) error
	List(ctx context.Context, organizationID uuid.UUID) ([]*User, error)
}
