package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/ogoue/ogoue/internal/audit"
	"github.com/ogoue/ogoue/internal/blob"
	"github.com/ogoue/ogoue/internal/domain"
	"github.com/ogoue/ogoue/internal/server/middleware"
)

type CreateExpenseInput struct {
	Body struct {
		Amount        int64       `json:"amount" doc:"Amount in minor currency units"`
		Date          time.Time   `json:"date" doc:"Date of the expense"`
		Category      string      `json:"category" doc:"Expense category, e.g. Loyer"`
		Description   string      `json:"description,omitempty" maxLength:"1000" doc:"Description"`
		PaymentMethod string      `json:"payment_method,omitempty" doc:"cash, mobile_money or bank"`
		Receipt       *ReceiptRef `json:"receipt,omitempty" doc:"Attached receipt file"`
	}
}

type CreateExpenseOutput struct {
	Body *domain.Expense
}

type ListExpensesInput struct {
	Month string `query:"month" doc:"Calendar month 1-12; requires year"`
	Year  string `query:"year" doc:"Calendar year; requires month"`
}

type ListExpensesOutput struct {
	Body []*domain.Expense
}

type GetExpenseInput struct {
	ID uuid.UUID `path:"id" doc:"Expense ID"`
}

type GetExpenseOutput struct {
	Body *domain.Expense
}

type DeleteExpenseInput struct {
	ID   uuid.UUID `path:"id" doc:"Expense ID"`
	Body struct {
		Reason string `json:"reason" doc:"Why the expense is being deleted"`
	}
}

func RegisterExpenseRoutes(api huma.API, store DataStore, auditSvc AuditService, blobs blob.Store, invalidator SummaryInvalidator) {
	huma.Register(api, huma.Operation{
		OperationID: "create-expense",
		Method:      http.MethodPost,
		Path:        "/expenses",
		Summary:     "Record an expense",
		Tags:        []string{"Expenses"},
	}, func(ctx context.Context, input *CreateExpenseInput) (*CreateExpenseOutput, error) {
		caller, ok := middleware.IdentityFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing organization context")
		}

		expense, err := domain.NewExpense(caller.OrganizationID, input.Body.Amount, input.Body.Date,
			input.Body.Category, input.Body.Description, input.Body.PaymentMethod)
		if err != nil {
			return nil, huma.Error400BadRequest(err.Error())
		}

		expense.Receipt = input.Body.Receipt.toDomain()
		if caller.Role == domain.RoleAgent {
			expense.CreatedByAgentID = caller.AgentID
		} else if caller.UserID != uuid.Nil {
			userID := caller.UserID
			expense.CreatedByUserID = &userID
		}

		if err := store.Expenses().Create(ctx, expense); err != nil {
			cleanupOrphanReceipt(ctx, blobs, expense.Receipt)
			return nil, huma.Error500InternalServerError("failed to create expense", err)
		}

		if invalidator != nil {
			invalidator.InvalidateMonthly(ctx, caller.OrganizationID, int(expense.Date.Month()), expense.Date.Year())
		}

		return &CreateExpenseOutput{Body: expense}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-expenses",
		Method:      http.MethodGet,
		Path:        "/expenses",
		Summary:     "List expenses, optionally for one month",
		Tags:        []string{"Expenses"},
	}, func(ctx context.Context, input *ListExpensesInput) (*ListExpensesOutput, error) {
		orgID, ok := middleware.OrganizationIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing organization context")
		}

		month, year, err := parseMonthYear(input.Month, input.Year)
		if err != nil {
			return nil, huma.Error400BadRequest(err.Error())
		}

		expenses, err := store.Expenses().List(ctx, orgID, month, year)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list expenses", err)
		}

		return &ListExpensesOutput{Body: expenses}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-expense",
		Method:      http.MethodGet,
		Path:        "/expenses/{id}",
		Summary:     "Get an expense by ID",
		Tags:        []string{"Expenses"},
	}, func(ctx context.Context, input *GetExpenseInput) (*GetExpenseOutput, error) {
		orgID, ok := middleware.OrganizationIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing organization context")
		}

		expense, err := store.Expenses().GetByID(ctx, orgID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("expense not found")
			}
			return nil, huma.Error500InternalServerError("failed to get expense", err)
		}

		return &GetExpenseOutput{Body: expense}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-expense",
		Method:      http.MethodDelete,
		Path:        "/expenses/{id}",
		Summary:     "Delete an expense with a justification",
		Tags:        []string{"Expenses"},
	}, func(ctx context.Context, input *DeleteExpenseInput) (*DeleteConfirmation, error) {
		caller, ok := middleware.IdentityFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing organization context")
		}

		if err := auditSvc.DeleteExpense(ctx, caller, input.ID, input.Body.Reason); err != nil {
			switch {
			case errors.Is(err, audit.ErrReasonRequired):
				return nil, huma.Error400BadRequest("deletion reason is required")
			case errors.Is(err, domain.ErrNotFound):
				return nil, huma.Error404NotFound("expense not found")
			default:
				return nil, huma.Error500InternalServerError("failed to delete expense", err)
			}
		}

		out := &DeleteConfirmation{}
		out.Body.Message = "Expense deleted successfully"
		return out, nil
	})
}
