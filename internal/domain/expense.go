package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type Expense struct {
	ID               uuid.UUID  `json:"id"`
	OrganizationID   uuid.UUID  `json:"organization_id"`
	Amount           int64      `json:"amount"` // minor currency units
	Date             time.Time  `json:"date"`
	Category         string     `json:"category"` // e.g. "Loyer", "Transport"
	Description      string     `json:"description"`
	PaymentMethod    string     `json:"payment_method"`
	Receipt          *Receipt   `json:"receipt,omitempty"`
	CreatedByUserID  *uuid.UUID `json:"created_by_user_id,omitempty"`
	CreatedByAgentID *uuid.UUID `json:"created_by_agent_id,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// NewExpense creates an Expense with validated required fields.
func NewExpense(organizationID uuid.UUID, amount int64, date time.Time, category, description, paymentMethod string) (*Expense, error) {
	if organizationID == uuid.Nil {
		return nil, errors.New("expense: organization ID is required")
	}
	if amount <= 0 {
		return nil, errors.New("expense: amount must be positive")
	}
	if date.IsZero() {
		return nil, errors.New("expense: date is required")
	}
	if category == "" {
		return nil, errors.New("expense: category is required")
	}
	if paymentMethod == "" {
		paymentMethod = PaymentCash
	}
	return &Expense{
		ID:             uuid.New(),
		OrganizationID: organizationID,
		Amount:         amount,
		Date:           date,
		Category:       category,
		Description:    description,
		PaymentMethod:  paymentMethod,
		CreatedAt:      time.Now(),
	}, nil
}

// Snapshot captures the expense's field values for the deletion log.
func (e *Expense) Snapshot() map[string]any {
	snap := map[string]any{
		"amount":         e.Amount,
		"date":           e.Date.Format(time.RFC3339),
		"category":       e.Category,
		"description":    e.Description,
		"payment_method": e.PaymentMethod,
		"created_at":     e.CreatedAt.Format(time.RFC3339),
	}
	if e.Receipt != nil {
		snap["receipt"] = map[string]any{
			"name":       e.Receipt.Name,
			"path":       e.Receipt.Path,
			"public_url": e.Receipt.PublicURL,
		}
	}
	if e.CreatedByUserID != nil {
		snap["created_by_user_id"] = e.CreatedByUserID.String()
	}
	if e.CreatedByAgentID != nil {
		snap["created_by_agent_id"] = e.CreatedByAgentID.String()
	}
	return snap
}

type ExpenseRepository interface {
	Create(ctx context.Context, e *Expense) error
	GetByID(ctx context.Context, organizationID, id uuid.UUID) (*Expense, error)
	List(ctx context.Context, organizationID uuid.UUID, month, year int) ([]*Expense, error)
	Delete(ctx context.Context, organizationID, id uuid.UUID) error
	MonthlyTotal(ctx context.Context, organizationID uuid.UUID, month, year int) (int64, int, error)
}
