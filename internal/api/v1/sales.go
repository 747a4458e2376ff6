package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ogoue/ogoue/internal/audit"
	"github.com/ogoue/ogoue/internal/blob"
	"github.com/ogoue/ogoue/internal/domain"
	"github.com/ogoue/ogoue/internal/server/middleware"
)

// ReceiptRef points at a previously uploaded receipt file.
type ReceiptRef struct {
	Name      string `json:"name" doc:"Original file name"`
	Path      string `json:"path" doc:"Storage key returned by the upload endpoint"`
	PublicURL string `json:"public_url" doc:"Public URL returned by the upload endpoint"`
}

func (r *ReceiptRef) toDomain() *domain.Receipt {
	if r == nil {
		return nil
	}
	return &domain.Receipt{Name: r.Name, Path: r.Path, PublicURL: r.PublicURL}
}

type CreateSaleInput struct {
	Body struct {
		Amount        int64       `json:"amount" doc:"Amount in minor currency units"`
		Date          time.Time   `json:"date" doc:"Date of the sale"`
		Description   string      `json:"description,omitempty" maxLength:"1000" doc:"Description"`
		PaymentMethod string      `json:"payment_method,omitempty" doc:"cash, mobile_money or bank"`
		Receipt       *ReceiptRef `json:"receipt,omitempty" doc:"Attached receipt file"`
	}
}

type CreateSaleOutput struct {
	Body *domain.Sale
}

type ListSalesInput struct {
	Month string `query:"month" doc:"Calendar month 1-12; requires year"`
	Year  string `query:"year" doc:"Calendar year; requires month"`
}

type ListSalesOutput struct {
	Body []*domain.Sale
}

type GetSaleInput struct {
	ID uuid.UUID `path:"id" doc:"Sale ID"`
}

type GetSaleOutput struct {
	Body *domain.Sale
}

type DeleteSaleInput struct {
	ID   uuid.UUID `path:"id" doc:"Sale ID"`
	Body struct {
		Reason string `json:"reason" doc:"Why the sale is being deleted"`
	}
}

type DeleteConfirmation struct {
	Body struct {
		Message string     `json:"message"`
		ID      *uuid.UUID `json:"id,omitempty"`
	}
}

func RegisterSaleRoutes(api huma.API, store DataStore, auditSvc AuditService, blobs blob.Store, invalidator SummaryInvalidator) {
	huma.Register(api, huma.Operation{
		OperationID: "create-sale",
		Method:      http.MethodPost,
		Path:        "/sales",
		Summary:     "Record a sale",
		Tags:        []string{"Sales"},
	}, func(ctx context.Context, input *CreateSaleInput) (*CreateSaleOutput, error) {
		caller, ok := middleware.IdentityFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing organization context")
		}

		sale, err := domain.NewSale(caller.OrganizationID, input.Body.Amount, input.Body.Date, input.Body.Description, input.Body.PaymentMethod)
		if err != nil {
			return nil, huma.Error400BadRequest(err.Error())
		}

		sale.Receipt = input.Body.Receipt.toDomain()
		setCreator(sale, caller)

		if err := store.Sales().Create(ctx, sale); err != nil {
			cleanupOrphanReceipt(ctx, blobs, sale.Receipt)
			return nil, huma.Error500InternalServerError("failed to create sale", err)
		}

		if invalidator != nil {
			invalidator.InvalidateMonthly(ctx, caller.OrganizationID, int(sale.Date.Month()), sale.Date.Year())
		}

		return &CreateSaleOutput{Body: sale}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-sales",
		Method:      http.MethodGet,
		Path:        "/sales",
		Summary:     "List sales, optionally for one month",
		Tags:        []string{"Sales"},
	}, func(ctx context.Context, input *ListSalesInput) (*ListSalesOutput, error) {
		orgID, ok := middleware.OrganizationIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing organization context")
		}

		month, year, err := parseMonthYear(input.Month, input.Year)
		if err != nil {
			return nil, huma.Error400BadRequest(err.Error())
		}

		sales, err := store.Sales().List(ctx, orgID, month, year)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list sales", err)
		}

		return &ListSalesOutput{Body: sales}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-sale",
		Method:      http.MethodGet,
		Path:        "/sales/{id}",
		Summary:     "Get a sale by ID",
		Tags:        []string{"Sales"},
	}, func(ctx context.Context, input *GetSaleInput) (*GetSaleOutput, error) {
		orgID, ok := middleware.OrganizationIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing organization context")
		}

		sale, err := store.Sales().GetByID(ctx, orgID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("sale not found")
			}
			return nil, huma.Error500InternalServerError("failed to get sale", err)
		}

		return &GetSaleOutput{Body: sale}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-sale",
		Method:      http.MethodDelete,
		Path:        "/sales/{id}",
		Summary:     "Delete a sale with a justification",
		Tags:        []string{"Sales"},
	}, func(ctx context.Context, input *DeleteSaleInput) (*DeleteConfirmation, error) {
		caller, ok := middleware.IdentityFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing organization context")
		}

		if err := auditSvc.DeleteSale(ctx, caller, input.ID, input.Body.Reason); err != nil {
			switch {
			case errors.Is(err, audit.ErrReasonRequired):
				return nil, huma.Error400BadRequest("deletion reason is required")
			case errors.Is(err, domain.ErrNotFound):
				return nil, huma.Error404NotFound("sale not found")
			default:
				return nil, huma.Error500InternalServerError("failed to delete sale", err)
			}
		}

		out := &DeleteConfirmation{}
		out.Body.Message = "Sale deleted successfully"
		return out, nil
	})
}

// setCreator stamps the sale with the authenticated caller.
func setCreator(s *domain.Sale, caller domain.Identity) {
	if caller.Role == domain.RoleAgent {
		s.CreatedByAgentID = caller.AgentID
		return
	}
	if caller.UserID != uuid.Nil {
		userID := caller.UserID
		s.CreatedByUserID = &userID
	}
}

// cleanupOrphanReceipt removes an uploaded receipt whose owning record failed
// to persist. Best effort; an orphaned file is only wasted disk.
func cleanupOrphanReceipt(ctx context.Context, blobs blob.Store, rc *domain.Receipt) {
	if blobs == nil || rc == nil || rc.Path == "" {
		return
	}
	if err := blobs.Remove(ctx, rc.Path); err != nil {
		log.Warn().Err(err).Str("path", rc.Path).Msg("api: orphan receipt cleanup failed")
	}
}
