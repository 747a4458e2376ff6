package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ogoue/ogoue/internal/domain"
)

type Store struct {
	pool          *pgxpool.Pool
	organizations *OrganizationRepo
	users         *UserRepo
	agents        *AgentRepo
	sales         *SaleRepo
	expenses      *ExpenseRepo
	deletions     *DeletionLogRepo
}

func New(ctx context.Context, dsn string, maxConns int32) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: parse config: %w", err)
	}

	cfg.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: connect: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	return &Store{
		pool:          pool,
		organizations: NewOrganizationRepo(pool),
		users:         NewUserRepo(pool),
		agents:        NewAgentRepo(pool),
		sales:         NewSaleRepo(pool),
		expenses:      NewExpenseRepo(pool),
		deletions:     NewDeletionLogRepo(pool),
	}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Organizations() domain.OrganizationRepository { return s.organizations }
func (s *Store) Users() domain.UserRepository                 { return s.users }
func (s *Store) Agents() domain.AgentRepository               { return s.agents }
func (s *Store) Sales() domain.SaleRepository                 { return s.sales }
func (s *Store) Expenses() domain.ExpenseRepository           { return s.expenses }
func (s *Store) Deletions() domain.DeletionLogRepository      { return s.deletions }
