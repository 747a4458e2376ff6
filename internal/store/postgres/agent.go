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

type AgentRepo struct {
	pool *pgxpool.Pool
}

func NewAgentRepo(pool *pgxpool.Pool) *AgentRepo {
	return &AgentRepo{pool: pool}
}

func (r *AgentRepo) Create(ctx context.Context, a *domain.Agent) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO agents (id, organization_id, first_name, last_name, phone, pin_hash, active, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.OrganizationID, a.FirstName, a.LastName, a.Phone, a.PINHash, a.Active, a.CreatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("agentRepo.Create: %w", domain.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("agentRepo.Create: %w", err)
	}

	return nil
}

func (r *AgentRepo) GetByID(ctx context.Context, organizationID, id uuid.UUID) (*domain.Agent, error) {
	var a domain.Agent

	err := r.pool.QueryRow(ctx,
		`SELECT id, organization_id, first_name, last_name, phone, pin_hash, active, created_at
		 FROM agents WHERE organization_id = $1 AND id = $2`,
		organizationID, id,
	).Scan(&a.ID, &a.OrganizationID, &a.FirstName, &a.LastName, &a.Phone, &a.PINHash, &a.Active, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("agentRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("agentRepo.GetByID: %w", err)
	}

	return &a, nil
}

func (r *AgentRepo) GetByPhone(ctx context.Context, organizationID uuid.UUID, phone string) (*domain.Agent, error) {
	var a domain.Agent

	err := r.pool.QueryRow(ctx,
		`SELECT id, organization_id, first_name, last_name, phone, pin_hash, active, created_at
		 FROM agents WHERE organization_id = $1 AND phone = $2`,
		organizationID, phone,
	).Scan(&a.ID, &a.OrganizationID, &a.FirstName, &a.LastName, &a.Phone, &a.PINHash, &a.Active, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("agentRepo.GetByPhone: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("agentRepo.GetByPhone: %w", err)
	}

	return &a, nil
}

func (r *AgentRepo) List(ctx context.Context, organizationID uuid.UUID) ([]*domain.Agent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, organization_id, first_name, last_name, phone, pin_hash, active, created_at
		 FROM agents WHERE organization_id = $1 ORDER BY created_at, id
		 LIMIT 500`,
		organizationID,
	)
	if err != nil {
		return nil, fmt.Errorf("agentRepo.List: %w", err)
	}
	defer rows.Close()

	var agents []*domain.Agent
	for rows.Next() {
		var a domain.Agent
		err = rows.Scan(&a.ID, &a.OrganizationID, &a.FirstName, &a.LastName, &a.Phone, &a.PINHash, &a.Active, &a.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("agentRepo.List: scan: %w", err)
		}
		agents = append(agents, &a)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("agentRepo.List: rows: %w", err)
	}

	return agents, nil
}

func (r *AgentRepo) Update(ctx context.Context, a *domain.Agent) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE agents SET first_name = $1, last_name = $2, phone = $3, pin_hash = $4, active = $5
		 WHERE organization_id = $6 AND id = $7`,
		a.FirstName, a.LastName, a.Phone, a.PINHash, a.Active,
		a.OrganizationID, a.ID,
	)
	if err != nil {
		return fmt.Errorf("agentRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("agentRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}
