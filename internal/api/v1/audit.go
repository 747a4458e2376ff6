package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/ogoue/ogoue/internal/audit"
	"github.com/ogoue/ogoue/internal/domain"
	"github.com/ogoue/ogoue/internal/server/middleware"
)

// ActorView is the "supprimePar" block on a deletion entry: who performed
// the delete, in display form.
type ActorView struct {
	Nom   string `json:"nom"`
	Email string `json:"email,omitempty"`
}

// DeletionEntryView is the public shape of one deletion-log entry.
type DeletionEntryView struct {
	ID          uuid.UUID      `json:"id"`
	Type        string         `json:"type"`
	RecordID    uuid.UUID      `json:"recordId"`
	Motif       string         `json:"motif"`
	SupprimePar *ActorView     `json:"supprimePar"`
	Date        time.Time      `json:"date"`
	Donnees     map[string]any `json:"donnees"`
}

type ListDeletionsInput struct {
	RecordType string `query:"recordType" doc:"Filter by record type tag, e.g. sale or expense"`
	Month      string `query:"month" doc:"Calendar month 1-12 of the deletion; requires year"`
	Year       string `query:"year" doc:"Calendar year of the deletion; requires month"`
}

type ListDeletionsOutput struct {
	Body []*DeletionEntryView
}

type GetDeletionInput struct {
	ID uuid.UUID `path:"id" doc:"Deletion entry ID"`
}

type GetDeletionOutput struct {
	Body *DeletionEntryView
}

type DeletionStatsOutput struct {
	Body struct {
		TotalDeletions int            `json:"totalDeletions"`
		ByType         map[string]int `json:"byType"`
		ByUser         map[string]int `json:"byUser"`
	}
}

type PurgeDeletionInput struct {
	ID uuid.UUID `path:"id" doc:"Deletion entry ID"`
}

func RegisterAuditRoutes(api huma.API, auditSvc AuditService) {
	huma.Register(api, huma.Operation{
		OperationID: "list-deletions",
		Method:      http.MethodGet,
		Path:        "/audit/deletions",
		Summary:     "List the deletion history",
		Tags:        []string{"Audit"},
	}, func(ctx context.Context, input *ListDeletionsInput) (*ListDeletionsOutput, error) {
		orgID, err := requireManager(ctx)
		if err != nil {
			return nil, err
		}

		filter, err := parseDeletionFilter(input.RecordType, input.Month, input.Year)
		if err != nil {
			return nil, huma.Error400BadRequest(err.Error())
		}

		views, err := auditSvc.History(ctx, orgID, filter)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list deletion history", err)
		}

		out := &ListDeletionsOutput{Body: make([]*DeletionEntryView, 0, len(views))}
		for _, v := range views {
			out.Body = append(out.Body, toDeletionEntryView(v))
		}
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-deletion",
		Method:      http.MethodGet,
		Path:        "/audit/deletions/{id}",
		Summary:     "Get one deletion entry",
		Tags:        []string{"Audit"},
	}, func(ctx context.Context, input *GetDeletionInput) (*GetDeletionOutput, error) {
		orgID, err := requireManager(ctx)
		if err != nil {
			return nil, err
		}

		view, err := auditSvc.Entry(ctx, orgID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("deletion entry not found")
			}
			return nil, huma.Error500InternalServerError("failed to get deletion entry", err)
		}

		return &GetDeletionOutput{Body: toDeletionEntryView(view)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "deletion-stats",
		Method:      http.MethodGet,
		Path:        "/audit/stats",
		Summary:     "Aggregate deletion statistics",
		Tags:        []string{"Audit"},
	}, func(ctx context.Context, _ *struct{}) (*DeletionStatsOutput, error) {
		orgID, err := requireManager(ctx)
		if err != nil {
			return nil, err
		}

		stats, err := auditSvc.Statistics(ctx, orgID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to compute deletion statistics", err)
		}

		out := &DeletionStatsOutput{}
		out.Body.TotalDeletions = stats.TotalDeletions
		out.Body.ByType = stats.ByType
		out.Body.ByUser = stats.ByUser
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "purge-deletion",
		Method:      http.MethodDelete,
		Path:        "/audit/deletions/{id}",
		Summary:     "Remove one deletion entry",
		Tags:        []string{"Audit"},
	}, func(ctx context.Context, input *PurgeDeletionInput) (*DeleteConfirmation, error) {
		orgID, err := requireManager(ctx)
		if err != nil {
			return nil, err
		}

		if err := auditSvc.PurgeEntry(ctx, orgID, input.ID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("deletion entry not found")
			}
			return nil, huma.Error500InternalServerError("failed to remove deletion entry", err)
		}

		id := input.ID
		out := &DeleteConfirmation{}
		out.Body.Message = "Audit entry deleted successfully"
		out.Body.ID = &id
		return out, nil
	})
}

// requireManager returns the caller's organization when the caller is a
// manager; the audit surface is manager-only.
func requireManager(ctx context.Context) (uuid.UUID, error) {
	orgID, ok := middleware.OrganizationIDFromContext(ctx)
	if !ok {
		return uuid.Nil, huma.Error403Forbidden("missing organization context")
	}
	role, _ := middleware.RoleFromContext(ctx)
	if role != domain.RoleManager {
		return uuid.Nil, huma.Error403Forbidden("audit access is restricted to managers")
	}
	return orgID, nil
}

func parseDeletionFilter(recordType, monthStr, yearStr string) (domain.DeletionFilter, error) {
	var f domain.DeletionFilter

	// Record-type tags are an open set; an unknown tag just matches nothing.
	f.RecordType = recordType

	month, year, err := parseMonthYear(monthStr, yearStr)
	if err != nil {
		return f, err
	}
	f.Month = month
	f.Year = year

	return f, nil
}

func toDeletionEntryView(v *audit.EntryView) *DeletionEntryView {
	out := &DeletionEntryView{
		ID:       v.ID,
		Type:     v.RecordType,
		RecordID: v.RecordID,
		Motif:    v.Reason,
		Date:     v.DeletedAt,
		Donnees:  v.RecordData,
	}
	if v.Actor != nil {
		out.SupprimePar = &ActorView{Nom: v.Actor.Name, Email: v.Actor.Email}
	}
	return out
}
