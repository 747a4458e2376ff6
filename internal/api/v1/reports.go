package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/ogoue/ogoue/internal/domain"
	"github.com/ogoue/ogoue/internal/reports"
	"github.com/ogoue/ogoue/internal/server/middleware"
)

type MonthlyReportInput struct {
	Month string `query:"month" doc:"Calendar month 1-12"`
	Year  string `query:"year" doc:"Calendar year"`
}

type MonthlyReportOutput struct {
	Body *reports.Summary
}

func RegisterReportRoutes(api huma.API, reportSvc ReportService) {
	huma.Register(api, huma.Operation{
		OperationID: "monthly-report",
		Method:      http.MethodGet,
		Path:        "/reports/monthly",
		Summary:     "Monthly sales and expense summary",
		Tags:        []string{"Reports"},
	}, func(ctx context.Context, input *MonthlyReportInput) (*MonthlyReportOutput, error) {
		orgID, ok := middleware.OrganizationIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing organization context")
		}

		if input.Month == "" || input.Year == "" {
			return nil, huma.Error400BadRequest("month and year are required")
		}
		month, year, err := parseMonthYear(input.Month, input.Year)
		if err != nil {
			return nil, huma.Error400BadRequest(err.Error())
		}

		summary, err := reportSvc.Monthly(ctx, orgID, month, year)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidInput) {
				return nil, huma.Error400BadRequest("invalid month")
			}
			return nil, huma.Error500InternalServerError("failed to compute monthly report", err)
		}

		return &MonthlyReportOutput{Body: summary}, nil
	})
}
