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

type SaleRepo struct {
	pool *pgxpool.Pool
}

func NewSaleRepo(pool *pgxpool.Pool) *SaleRepo {
	return &SaleRepo{pool: pool}
}

func (r *SaleRepo) Create(ctx context.Context, s *domain.Sale) error {
	name, path, publicURL := receiptColumns(s.Receipt)

	_, err := r.pool.Exec(ctx,
		`INSERT INTO sales (id, organization_id, amount, date, description, payment_method,
		                    receipt_name, receipt_path, receipt_public_url,
		                    created_by_user_id, created_by_agent_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		s.ID, s.OrganizationID, s.Amount, s.Date, s.Description, s.PaymentMethod,
		name, path, publicURL,
		s.CreatedByUserID, s.CreatedByAgentID, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("saleRepo.Create: %w", err)
	}

	return nil
}

func (r *SaleRepo) GetByID(ctx context.Context, organizationID, id uuid.UUID) (*domain.Sale, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, organization_id, amount, date, description, payment_method,
		        receipt_name, receipt_path, receipt_public_url,
		        created_by_user_id, created_by_agent_id, created_at
		 FROM sales WHERE organization_id = $1 AND id = $2`,
		organizationID, id,
	)

	s, err := scanSale(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("saleRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("saleRepo.GetByID: %w", err)
	}

	return s, nil
}

func (r *SaleRepo) List(ctx context.Context, organizationID uuid.UUID, month, year int) ([]*domain.Sale, error) {
	query := `SELECT id, organization_id, amount, date, description, payment_method,
	                 receipt_name, receipt_path, receipt_public_url,
	                 created_by_user_id, created_by_agent_id, created_at
	          FROM sales WHERE organization_id = $1`
	args := []any{organizationID}

	if month != 0 && year != 0 {
		query += ` AND EXTRACT(MONTH FROM date) = $2 AND EXTRACT(YEAR FROM date) = $3`
		args = append(args, month, year)
	}
	query += ` ORDER BY date DESC, created_at DESC LIMIT 1000`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("saleRepo.List: %w", err)
	}
	defer rows.Close()

	var sales []*domain.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("saleRepo.List: scan: %w", err)
		}
		sales = append(sales, s)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("saleRepo.List: rows: %w", err)
	}

	return sales, nil
}

func (r *SaleRepo) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM sales WHERE organization_id = $1 AND id = $2`,
		organizationID, id,
	)
	if err != nil {
		return fmt.Errorf("saleRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("saleRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *SaleRepo) MonthlyTotal(ctx context.Context, organizationID uuid.UUID, month, year int) (int64, int, error) {
	var total int64
	var count int

	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0), COUNT(*)
		 FROM sales
		 WHERE organization_id = $1 AND EXTRACT(MONTH FROM date) = $2 AND EXTRACT(YEAR FROM date) = $3`,
		organizationID, month, year,
	).Scan(&total, &count)
	if err != nil {
		return 0, 0, fmt.Errorf("saleRepo.MonthlyTotal: %w", err)
	}

	return total, count, nil
}

func scanSale(row pgx.Row) (*domain.Sale, error) {
	var s domain.Sale
	var receiptName, receiptPath, receiptPublicURL *string

	err := row.Scan(
		&s.ID, &s.OrganizationID, &s.Amount, &s.Date, &s.Description, &s.PaymentMethod,
		&receiptName, &receiptPath, &receiptPublicURL,
		&s.CreatedByUserID, &s.CreatedByAgentID, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.Receipt = receiptFromColumns(receiptName, receiptPath, receiptPublicURL)

	return &s, nil
}

// receiptColumns splits an optional receipt into its three nullable columns.
func receiptColumns(rc *domain.Receipt) (name, path, publicURL *string) {
	if rc == nil {
		return nil, nil, nil
	}
	return &rc.Name, &rc.Path, &rc.PublicURL
}

// receiptFromColumns rebuilds the optional receipt; a NULL path means the
// row has no receipt.
func receiptFromColumns(name, path, publicURL *string) *domain.Receipt {
	if path == nil {
		return nil
	}
	return &domain.Receipt{
		Name:      derefStr(name),
		Path:      *path,
		PublicURL: derefStr(publicURL),
	}
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
