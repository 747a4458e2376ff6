package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type Organization struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Currency  string    `json:"currency"` // ISO 4217, default "XAF"
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewOrganization creates an Organization with validated required fields.
func NewOrganization(name, slug, currency string) (*Organization, error) {
	if name == "" {
		return nil, errors.New("organization: name is required")
	}
	if slug == "" {
		return nil, errors.New("organization: slug is required")
	}
	if currency == "" {
		currency = "XAF"
	}
	now := time.Now()
	return &Organization{
		ID:        uuid.New(),
		Name:      name,
		Slug:      slug,
		Currency:  currency,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

type OrganizationRepository interface {
	Create(ctx context.Context, o *Organization) error
	GetByID(ctx context.Context, id uuid.UUID) (*Organization, error)
	GetBySlug(ctx context.Context, slug string) (*Organization, error)
	Update(ctx context.Context, o *Organization) error
}
