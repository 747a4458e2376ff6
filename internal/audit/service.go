package audit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ogoue/ogoue/internal/blob"
	"github.com/ogoue/ogoue/internal/domain"
	"github.com/ogoue/ogoue/internal/metrics"
	"github.com/ogoue/ogoue/internal/notify"
)

// ErrReasonRequired is returned when a delete arrives without a non-blank
// justification.
var ErrReasonRequired = errors.New("audit: deletion reason is required")

// UnknownActorLabel is the stats bucket for entries whose actor cannot be
// resolved by any fallback.
const UnknownActorLabel = "Unknown"

// SummaryInvalidator drops cached monthly summaries after a record is
// created or deleted. Implemented by the reports service.
type SummaryInvalidator interface {
	InvalidateMonthly(ctx context.Context, organizationID uuid.UUID, month, year int)
}

// ActorInfo is the display identity attached to a deletion entry on reads.
type ActorInfo struct {
	Name  string
	Email string
}

// EntryView is a deletion entry enriched with actor display info.
type EntryView struct {
	*domain.DeletionEntry
	Actor *ActorInfo
}

// Stats aggregates an organization's full deletion history.
type Stats struct {
	TotalDeletions int
	ByType         map[string]int
	ByUser         map[string]int
}

// ValidateReason checks a deletion reason the way the delete pipeline does:
// trimmed, non-empty. Exposed so the API layer can reject before any lookup.
func ValidateReason(reason string) (string, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return "", ErrReasonRequired
	}
	return reason, nil
}

// Service owns the deletion pipeline: the guarded delete orchestration for
// sales and expenses, and the manager-facing read side of the deletion log.
type Service struct {
	deletions domain.DeletionLogRepository
	sales     domain.SaleRepository
	expenses  domain.ExpenseRepository
	users     domain.UserRepository
	blobs     blob.Store
	recorder  *Recorder
	resolver  *Resolver

	// Optional collaborators; all nil-safe.
	notifier    notify.Notifier
	invalidator SummaryInvalidator
	metrics     *metrics.Metrics
}

func NewService(
	deletions domain.DeletionLogRepository,
	sales domain.SaleRepository,
	expenses domain.ExpenseRepository,
	users domain.UserRepository,
	agents domain.AgentRepository,
	blobs blob.Store,
	notifier notify.Notifier,
	invalidator SummaryInvalidator,
	m *metrics.Metrics,
) *Service {
	return &Service{
		deletions:   deletions,
		sales:       sales,
		expenses:    expenses,
		users:       users,
		blobs:       blobs,
		recorder:    NewRecorder(deletions),
		resolver:    NewResolver(users, agents),
		notifier:    notifier,
		invalidator: invalidator,
		metrics:     m,
	}
}

// DeleteSale performs the guarded delete of one sale: reason check, actor
// resolution, fetch, audit write (fatal on failure), best-effort receipt
// cleanup, then the row delete.
func (s *Service) DeleteSale(ctx context.Context, caller domain.Identity, id uuid.UUID, reason string) error {
	reason, err := ValidateReason(reason)
	if err != nil {
		return fmt.Errorf("audit.DeleteSale: %w", err)
	}

	actor := s.resolver.Resolve(ctx, caller)

	sale, err := s.sales.GetByID(ctx, caller.OrganizationID, id)
	if err != nil {
		return fmt.Errorf("audit.DeleteSale: %w", err)
	}

	err = s.finishDelete(ctx, caller, actor, deleteTarget{
		recordType: domain.RecordTypeSale,
		recordID:   sale.ID,
		snapshot:   sale.Snapshot(),
		receipt:    sale.Receipt,
		date:       sale.Date,
		deleteRow: func(ctx context.Context) error {
			return s.sales.Delete(ctx, caller.OrganizationID, sale.ID)
		},
	}, reason)
	if err != nil {
		return fmt.Errorf("audit.DeleteSale: %w", err)
	}

	return nil
}

// DeleteExpense performs the guarded delete of one expense. Same pipeline as
// DeleteSale.
func (s *Service) DeleteExpense(ctx context.Context, caller domain.Identity, id uuid.UUID, reason string) error {
	reason, err := ValidateReason(reason)
	if err != nil {
		return fmt.Errorf("audit.DeleteExpense: %w", err)
	}

	actor := s.resolver.Resolve(ctx, caller)

	expense, err := s.expenses.GetByID(ctx, caller.OrganizationID, id)
	if err != nil {
		return fmt.Errorf("audit.DeleteExpense: %w", err)
	}

	err = s.finishDelete(ctx, caller, actor, deleteTarget{
		recordType: domain.RecordTypeExpense,
		recordID:   expense.ID,
		snapshot:   expense.Snapshot(),
		receipt:    expense.Receipt,
		date:       expense.Date,
		deleteRow: func(ctx context.Context) error {
			return s.expenses.Delete(ctx, caller.OrganizationID, expense.ID)
		},
	}, reason)
	if err != nil {
		return fmt.Errorf("audit.DeleteExpense: %w", err)
	}

	return nil
}

type deleteTarget struct {
	recordType string
	recordID   uuid.UUID
	snapshot   map[string]any
	receipt    *domain.Receipt
	date       time.Time
	deleteRow  func(ctx context.Context) error
}

// finishDelete runs the destructive tail of the pipeline. The audit entry is
// written first and blocks the delete on failure. Receipt cleanup and the
// row delete are independent calls with no surrounding transaction: once the
// entry exists, a row-delete failure leaves an audited-but-present record,
// which is reported to the caller but not compensated.
func (s *Service) finishDelete(ctx context.Context, caller domain.Identity, actor domain.Actor, t deleteTarget, reason string) error {
	var deletedByName string
	if actor != nil {
		deletedByName = actor.DisplayName()
	}

	var deletedByUserID *uuid.UUID
	if caller.Role == domain.RoleManager && caller.UserID != uuid.Nil {
		userID := caller.UserID
		deletedByUserID = &userID
	}

	entry, err := s.recorder.LogDeletion(ctx, LogParams{
		OrganizationID:  caller.OrganizationID,
		RecordType:      t.recordType,
		RecordID:        t.recordID,
		RecordData:      t.snapshot,
		DeletedByUserID: deletedByUserID,
		DeletedByName:   deletedByName,
		Reason:          reason,
	})
	if err != nil {
		s.metrics.IncrementDeletionFailure("audit_write")
		return err
	}

	if t.receipt != nil && t.receipt.Path != "" {
		if removeErr := s.blobs.Remove(ctx, t.receipt.Path); removeErr != nil {
			s.metrics.IncrementReceiptCleanupFailure()
			log.Warn().Err(removeErr).
				Str("record_type", t.recordType).
				Str("record_id", t.recordID.String()).
				Str("path", t.receipt.Path).
				Msg("audit: receipt cleanup failed, continuing")
		}
	}

	if err := t.deleteRow(ctx); err != nil {
		// A concurrent delete may have removed the row between the fetch and
		// here; that outcome is what was asked for, so treat it as success.
		// The request that won the race already counted and announced it.
		if !errors.Is(err, domain.ErrNotFound) {
			s.metrics.IncrementDeletionFailure("row_delete")
			return err
		}
		log.Info().
			Str("record_type", t.recordType).
			Str("record_id", t.recordID.String()).
			Msg("audit: row already deleted by concurrent request")
		return nil
	}

	s.metrics.IncrementDeletion(t.recordType)

	if s.notifier != nil {
		if notifyErr := s.notifier.DeletionRecorded(ctx, entry); notifyErr != nil {
			log.Warn().Err(notifyErr).Msg("audit: deletion notification failed")
		}
	}

	if s.invalidator != nil {
		s.invalidator.InvalidateMonthly(ctx, caller.OrganizationID, int(t.date.Month()), t.date.Year())
	}

	return nil
}

// History lists deletion entries for an organization, newest first, with
// actor display info attached. Filtering is by exact record type and
// calendar month of deletion.
func (s *Service) History(ctx context.Context, organizationID uuid.UUID, f domain.DeletionFilter) ([]*EntryView, error) {
	entries, err := s.deletions.List(ctx, organizationID, f)
	if err != nil {
		return nil, fmt.Errorf("audit.History: %w", err)
	}

	views := make([]*EntryView, 0, len(entries))
	userCache := make(map[uuid.UUID]*domain.User)
	for _, e := range entries {
		views = append(views, &EntryView{
			DeletionEntry: e,
			Actor:         s.enrichActor(ctx, e, userCache),
		})
	}

	return views, nil
}

// Entry fetches one deletion entry with actor enrichment.
func (s *Service) Entry(ctx context.Context, organizationID, id uuid.UUID) (*EntryView, error) {
	e, err := s.deletions.GetByID(ctx, organizationID, id)
	if err != nil {
		return nil, fmt.Errorf("audit.Entry: %w", err)
	}

	return &EntryView{
		DeletionEntry: e,
		Actor:         s.enrichActor(ctx, e, make(map[uuid.UUID]*domain.User)),
	}, nil
}

// Statistics aggregates the organization's full deletion history: counts by
// record type and by actor display name. Aggregation happens in the store so
// the listing page cap never truncates the totals.
func (s *Service) Statistics(ctx context.Context, organizationID uuid.UUID) (*Stats, error) {
	byType, err := s.deletions.CountByType(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("audit.Statistics: %w", err)
	}

	groups, err := s.deletions.CountByActor(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("audit.Statistics: %w", err)
	}

	stats := &Stats{
		ByType: byType,
		ByUser: make(map[string]int),
	}
	for _, count := range byType {
		stats.TotalDeletions += count
	}

	userCache := make(map[uuid.UUID]*domain.User)
	for _, g := range groups {
		label := g.DeletedByName
		if label == "" && g.DeletedByUserID != nil {
			if user := s.lookupUser(ctx, organizationID, *g.DeletedByUserID, userCache); user != nil {
				label = strings.TrimSpace(user.FirstName + " " + user.LastName)
			}
		}
		if label == "" {
			label = UnknownActorLabel
		}
		stats.ByUser[label] += g.Count
	}

	return stats, nil
}

// PurgeEntry removes one deletion entry. This is the only mutation the log
// supports and is itself not audited.
func (s *Service) PurgeEntry(ctx context.Context, organizationID, id uuid.UUID) error {
	if err := s.deletions.Delete(ctx, organizationID, id); err != nil {
		return fmt.Errorf("audit.PurgeEntry: %w", err)
	}
	return nil
}

// enrichActor resolves display info for an entry: the denormalized name
// captured at write time wins; otherwise a live join against users by
// DeletedByUserID; otherwise nil.
func (s *Service) enrichActor(ctx context.Context, e *domain.DeletionEntry, userCache map[uuid.UUID]*domain.User) *ActorInfo {
	if e.DeletedByName != "" {
		return &ActorInfo{Name: e.DeletedByName}
	}

	if e.DeletedByUserID == nil {
		return nil
	}

	user := s.lookupUser(ctx, e.OrganizationID, *e.DeletedByUserID, userCache)
	if user == nil {
		return nil
	}

	name := strings.TrimSpace(user.FirstName + " " + user.LastName)
	return &ActorInfo{Name: name, Email: user.Email}
}

// lookupUser fetches a user through the per-call cache; misses are cached too
// so a removed account costs one query per request, not one per entry.
func (s *Service) lookupUser(ctx context.Context, organizationID, id uuid.UUID, cache map[uuid.UUID]*domain.User) *domain.User {
	user, ok := cache[id]
	if !ok {
		var err error
		user, err = s.users.GetByID(ctx, organizationID, id)
		if err != nil {
			user = nil
		}
		cache[id] = user
	}
	return user
}
