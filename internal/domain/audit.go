package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Record type tags for the deletion log. The set is open; new entity kinds
// add a tag without a schema change.
const (
	RecordTypeSale    = "sale"
	RecordTypeExpense = "expense"
)

// DeletionEntry is one immutable record of a destructive delete. RecordData
// holds the full snapshot of the deleted row; it is the only remaining view
// of the entity once the delete goes through.
type DeletionEntry struct {
	ID             uuid.UUID      `json:"id"`
	OrganizationID uuid.UUID      `json:"organization_id"`
	RecordType     string         `json:"record_type"`
	RecordID       uuid.UUID      `json:"record_id"`
	RecordData     map[string]any `json:"record_data"`
	// DeletedByUserID is nil for agent deletions; agents have no user row.
	DeletedByUserID *uuid.UUID `json:"deleted_by_user_id,omitempty"`
	// DeletedByName is the actor's display name captured at write time, so
	// the entry stays readable after the account is removed.
	DeletedByName string    `json:"deleted_by_name,omitempty"`
	Reason        string    `json:"reason"`
	DeletedAt     time.Time `json:"deleted_at"`
}

// DeletionFilter narrows a deletion-log listing. Zero values disable a
// criterion; Month and Year are only applied together.
type DeletionFilter struct {
	RecordType string
	Month      int // 1-12
	Year       int
}

// DeletionActorGroup is one aggregation bucket of an organization's deletion
// log, keyed by the actor columns captured at write time.
type DeletionActorGroup struct {
	DeletedByName   string
	DeletedByUserID *uuid.UUID
	Count           int
}

type DeletionLogRepository interface {
	Create(ctx context.Context, e *DeletionEntry) error
	// List returns matching entries newest first, capped to one page; use the
	// Count methods for aggregations over the full set.
	List(ctx context.Context, organizationID uuid.UUID, f DeletionFilter) ([]*DeletionEntry, error)
	GetByID(ctx context.Context, organizationID, id uuid.UUID) (*DeletionEntry, error)
	Delete(ctx context.Context, organizationID, id uuid.UUID) error
	// CountByType counts the organization's entire deletion log per record type.
	CountByType(ctx context.Context, organizationID uuid.UUID) (map[string]int, error)
	// CountByActor counts the organization's entire deletion log per recorded actor.
	CountByActor(ctx context.Context, organizationID uuid.UUID) ([]DeletionActorGroup, error)
}
