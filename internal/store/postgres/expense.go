package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ogoue/ogoue/internal/domain"
)

type ExpenseRepo struct {
	pool *pgxpool.Pool
}

func NewExpenseRepo(pool *pgxpool.Pool) *ExpenseRepo {
	return &ExpenseRepo{pool: pool}
}

func (r *ExpenseRepo) Create(ctx context.Context, e *domain.Expense) error {
	name, path, publicURL := receiptColumns(e.Receipt)

	_, err := r.pool.Exec(ctx,
		`INSERT INTO expenses (id, organization_id, amount, date, category, description, payment_method,
		                       receipt_name, receipt_path, receipt_public_url,
		                       created_by_user_id, created_by_agent_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		e.ID, e.OrganizationID, e.Amount, e.Date, e.Category, e.Description, e.PaymentMethod,
		name, path, publicURL,
		e.CreatedByUserID, e.CreatedByAgentID, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("expenseRepo.Create: %w", err)
	}

	return nil
}

func (r *ExpenseRepo) GetByID(ctx context.Context, organizationID, id uuid.UUID) (*domain.Expense, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, organization_id, amount, date, category, description, payment_method,
		        receipt_name, receipt_path, receipt_public_url,
		        created_by_user_id, created_by_agent_id, created_at
		 FROM expenses WHERE organization_id = $1 AND id = $2`,
		organizationID, id,
	)

	e, err := scanExpense(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("expenseRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("expenseRepo.GetByID: %w", err)
	}

	return e, nil
}

func (r *ExpenseRepo) List(ctx context.Context, organizationID uuid.UUID, month, year int) ([]*domain.Expense, error) {
	query := `SELECT id, organization_id, amount, date, category, description, payment_method,
	                 receipt_name, receipt_path, receipt_public_url,
	                 created_by_user_id, created_by_agent_id, created_at
	          FROM expenses WHERE organization_id = $1`
	args := []any{organizationID}

	if month != 0 && year != 0 {
		query += ` AND EXTRACT(MONTH FROM date) = $2 AND EXTRACT(YEAR FROM date) = $3`
		args = append(args, month, year)
	}
	query += ` ORDER BY date DESC, created_at DESC LIMIT 1000`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("expenseRepo.List: %w", err)
	}
	defer rows.Close()

	var expenses []*domain.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("expenseRepo.List: scan: %w", err)
		}
		expenses = append(expenses, e)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("expenseRepo.List: rows: %w", err)
	}

	return expenses, nil
}

func (r *ExpenseRepo) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM expenses WHERE organization_id = $1 AND id = $2`,
		organizationID, id,
	)
	if err != nil {
		return fmt.Errorf("expenseRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("expenseRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *ExpenseRepo) MonthlyTotal(ctx context.Context, organizationID uuid.UUID, month, year int) (int64, int, error) {
	var total int64
	var count int

	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0), COUNT(*)
		 FROM expenses
		 WHERE organization_id = $1 AND EXTRACT(MONTH FROM date) = $2 AND EXTRACT(YEAR FROM date) = $3`,
		organizationID, month, year,
	).Scan(&total, &count)
	if err != nil {
		return 0, 0, fmt.Errorf("expenseRepo.MonthlyTotal: %w", err)
	}

	return total, count, nil
}

func scanExpense(row pgx.Row) (*domain.Expense, error) {
	var e domain.Expense
	var receiptName, receiptPath, receiptPublicURL *string

	err := row.Scan(
		&e.ID, &e.OrganizationID, &e.Amount, &e.Date, &e.Category, &e.Description, &e.PaymentMethod,
		&receiptName, &receiptPath, &receiptPublicURL,
		&e.CreatedByUserID, &e.CreatedByAgentID, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.Receipt = receiptFromColumns(receiptName, receiptPath, receiptPublicURL)

	return &e, nil
}
