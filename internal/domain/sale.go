package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Payment method tags shared by sales and expenses.
const (
	PaymentCash        = "cash"
	PaymentMobileMoney = "mobile_money"
	PaymentBank        = "bank"
)

type Sale struct {
	ID               uuid.UUID  `json:"id"`
	OrganizationID   uuid.UUID  `json:"organization_id"`
	Amount           int64      `json:"amount"` // minor currency units
	Date             time.Time  `json:"date"`
	Description      string     `json:"description"`
	PaymentMethod    string     `json:"payment_method"`
	Receipt          *Receipt   `json:"receipt,omitempty"`
	CreatedByUserID  *uuid.UUID `json:"created_by_user_id,omitempty"`
	CreatedByAgentID *uuid.UUID `json:"created_by_agent_id,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// NewSale creates a Sale with validated required fields.
func NewSale(organizationID uuid.UUID, amount int64, date time.Time, description, paymentMethod string) (*Sale, error) {
	if organizationID == uuid.Nil {
		return nil, errors.New("sale: organization ID is required")
	}
	if amount <= 0 {
		return nil, errors.New("sale: amount must be positive")
	}
	if date.IsZero() {
		return nil, errors.New("sale: date is required")
	}
	if paymentMethod == "" {
		paymentMethod = PaymentCash
	}
	return &Sale{
		ID:             uuid.New(),
		OrganizationID: organizationID,
		Amount:         amount,
		Date:           date,
		Description:    description,
		PaymentMethod:  paymentMethod,
		CreatedAt:      time.Now(),
	}, nil
}

// Snapshot captures the sale's field values for the deletion log. The keys
// are stable; the deletion log is the only way to inspect a deleted sale.
func (s *Sale) Snapshot() map[string]any {
	snap := map[string]any{
		"amount":         s.Amount,
		"date":           s.Date.Format(time.RFC3339),
		"description":    s.Description,
		"payment_method": s.PaymentMethod,
		"created_at":     s.CreatedAt.Format(time.RFC3339),
	}
	if s.Receipt != nil {
		snap["receipt"] = map[string]any{
			"name":       s.Receipt.Name,
			"path":       s.Receipt.Path,
			"public_url": s.Receipt.PublicURL,
		}
	}
	if s.CreatedByUserID != nil {
		snap["created_by_user_id"] = s.CreatedByUserID.String()
	}
	if s.CreatedByAgentID != nil {
		snap["created_by_agent_id"] = s.CreatedByAgentID.String()
	}
	return snap
}

type SaleRepository interface {
	Create(ctx context.Context, s *Sale) error
	GetByID(ctx context.Context, organizationID, id uuid.UUID) (*Sale, error)
	// List returns sales for the organization, newest first. month/year of 0
	// disable the calendar filter.
	List(ctx context.Context, organizationID uuid.UUID, month, year int) ([]*Sale, error)
	Delete(ctx context.Context, organizationID, id uuid.UUID) error
	// MonthlyTotal returns the summed amount and row count for one calendar month.
	MonthlyTotal(ctx context.Context, organizationID uuid.UUID, month, year int) (int64, int, error)
}
