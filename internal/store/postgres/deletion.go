package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ogoue/ogoue/internal/domain"
)

type DeletionLogRepo struct {
	pool *pgxpool.Pool
}

func NewDeletionLogRepo(pool *pgxpool.Pool) *DeletionLogRepo {
	return &DeletionLogRepo{pool: pool}
}

func (r *DeletionLogRepo) Create(ctx context.Context, e *domain.DeletionEntry) error {
	data, err := json.Marshal(e.RecordData)
	if err != nil {
		return fmt.Errorf("deletionLogRepo.Create: marshal record data: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO deletion_log (id, organization_id, record_type, record_id, record_data,
		                           deleted_by_user_id, deleted_by_name, reason, deleted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.ID, e.OrganizationID, e.RecordType, e.RecordID, data,
		e.DeletedByUserID, nilIfEmpty(e.DeletedByName), e.Reason, e.DeletedAt,
	)
	if err != nil {
		return fmt.Errorf("deletionLogRepo.Create: %w", err)
	}

	return nil
}

func (r *DeletionLogRepo) List(ctx context.Context, organizationID uuid.UUID, f domain.DeletionFilter) ([]*domain.DeletionEntry, error) {
	query := `SELECT id, organization_id, record_type, record_id, record_data,
	                 deleted_by_user_id, deleted_by_name, reason, deleted_at
	          FROM deletion_log WHERE organization_id = $1`
	args := []any{organizationID}

	if f.RecordType != "" {
		args = append(args, f.RecordType)
		query += ` AND record_type = $` + strconv.Itoa(len(args))
	}
	if f.Month != 0 && f.Year != 0 {
		args = append(args, f.Month)
		query += ` AND EXTRACT(MONTH FROM deleted_at) = $` + strconv.Itoa(len(args))
		args = append(args, f.Year)
		query += ` AND EXTRACT(YEAR FROM deleted_at) = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY deleted_at DESC LIMIT 1000`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("deletionLogRepo.List: %w", err)
	}
	defer rows.Close()

	var entries []*domain.DeletionEntry
	for rows.Next() {
		e, err := scanDeletionEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("deletionLogRepo.List: %w", err)
		}
		entries = append(entries, e)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("deletionLogRepo.List: rows: %w", err)
	}

	return entries, nil
}

func (r *DeletionLogRepo) GetByID(ctx context.Context, organizationID, id uuid.UUID) (*domain.DeletionEntry, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, organization_id, record_type, record_id, record_data,
		        deleted_by_user_id, deleted_by_name, reason, deleted_at
		 FROM deletion_log WHERE organization_id = $1 AND id = $2`,
		organizationID, id,
	)

	e, err := scanDeletionEntry(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("deletionLogRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("deletionLogRepo.GetByID: %w", err)
	}

	return e, nil
}

func (r *DeletionLogRepo) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM deletion_log WHERE organization_id = $1 AND id = $2`,
		organizationID, id,
	)
	if err != nil {
		return fmt.Errorf("deletionLogRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("deletionLogRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *DeletionLogRepo) CountByType(ctx context.Context, organizationID uuid.UUID) (map[string]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT record_type, COUNT(*)
		 FROM deletion_log WHERE organization_id = $1
		 GROUP BY record_type`,
		organizationID,
	)
	if err != nil {
		return nil, fmt.Errorf("deletionLogRepo.CountByType: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var recordType string
		var count int
		if err := rows.Scan(&recordType, &count); err != nil {
			return nil, fmt.Errorf("deletionLogRepo.CountByType: %w", err)
		}
		counts[recordType] = count
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("deletionLogRepo.CountByType: rows: %w", err)
	}

	return counts, nil
}

func (r *DeletionLogRepo) CountByActor(ctx context.Context, organizationID uuid.UUID) ([]domain.DeletionActorGroup, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT COALESCE(deleted_by_name, ''), deleted_by_user_id, COUNT(*)
		 FROM deletion_log WHERE organization_id = $1
		 GROUP BY deleted_by_name, deleted_by_user_id`,
		organizationID,
	)
	if err != nil {
		return nil, fmt.Errorf("deletionLogRepo.CountByActor: %w", err)
	}
	defer rows.Close()

	var groups []domain.DeletionActorGroup
	for rows.Next() {
		var g domain.DeletionActorGroup
		if err := rows.Scan(&g.DeletedByName, &g.DeletedByUserID, &g.Count); err != nil {
			return nil, fmt.Errorf("deletionLogRepo.CountByActor: %w", err)
		}
		groups = append(groups, g)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("deletionLogRepo.CountByActor: rows: %w", err)
	}

	return groups, nil
}

func scanDeletionEntry(row pgx.Row) (*domain.DeletionEntry, error) {
	var e domain.DeletionEntry
	var data []byte
	var deletedByName *string

	err := row.Scan(
		&e.ID, &e.OrganizationID, &e.RecordType, &e.RecordID, &data,
		&e.DeletedByUserID, &deletedByName, &e.Reason, &e.DeletedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(data, &e.RecordData); err != nil {
		return nil, fmt.Errorf("unmarshal record data: %w", err)
	}
	e.DeletedByName = derefStr(deletedByName)

	return &e, nil
}
