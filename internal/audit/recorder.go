package audit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ogoue/ogoue/internal/domain"
)

// ErrMissingParameter is returned by LogDeletion when a required field is
// absent. Nothing is written in that case.
var ErrMissingParameter = errors.New("audit: missing required parameter")

// LogParams describes one destructive action to record. DeletedByUserID is
// optional: agent deletions carry no user row.
type LogParams struct {
	OrganizationID  uuid.UUID
	RecordType      string
	RecordID        uuid.UUID
	RecordData      map[string]any
	DeletedByUserID *uuid.UUID
	DeletedByName   string
	Reason          string
}

// Recorder writes deletion-log entries. The write must succeed before the
// caller is allowed to perform the destructive action it records.
type Recorder struct {
	deletions domain.DeletionLogRepository
}

func NewRecorder(deletions domain.DeletionLogRepository) *Recorder {
	return &Recorder{deletions: deletions}
}

// LogDeletion validates the parameters and inserts exactly one entry with a
// server-assigned id and timestamp. Store errors propagate unchanged so the
// caller can abort the delete.
func (r *Recorder) LogDeletion(ctx context.Context, p LogParams) (*domain.DeletionEntry, error) {
	switch {
	case p.OrganizationID == uuid.Nil:
		return nil, fmt.Errorf("audit.LogDeletion: organization id: %w", ErrMissingParameter)
	case p.RecordType == "":
		return nil, fmt.Errorf("audit.LogDeletion: record type: %w", ErrMissingParameter)
	case p.RecordID == uuid.Nil:
		return nil, fmt.Errorf("audit.LogDeletion: record id: %w", ErrMissingParameter)
	case p.RecordData == nil:
		return nil, fmt.Errorf("audit.LogDeletion: record data: %w", ErrMissingParameter)
	case p.Reason == "":
		return nil, fmt.Errorf("audit.LogDeletion: reason: %w", ErrMissingParameter)
	}

	entry := &domain.DeletionEntry{
		ID:              uuid.New(),
		OrganizationID:  p.OrganizationID,
		RecordType:      p.RecordType,
		RecordID:        p.RecordID,
		RecordData:      p.RecordData,
		DeletedByUserID: p.DeletedByUserID,
		DeletedByName:   p.DeletedByName,
		Reason:          p.Reason,
		DeletedAt:       time.Now(),
	}

	if err := r.deletions.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("audit.LogDeletion: %w", err)
	}

	return entry, nil
}
