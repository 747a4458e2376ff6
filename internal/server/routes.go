package server

import (
	"github.com/danielgtaylor/huma/v2"

	v1 "github.com/ogoue/ogoue/internal/api/v1"
	"github.com/ogoue/ogoue/internal/audit"
	"github.com/ogoue/ogoue/internal/auth"
	"github.com/ogoue/ogoue/internal/blob"
	"github.com/ogoue/ogoue/internal/reports"
	"github.com/ogoue/ogoue/internal/store/postgres"
)

func registerAuthRoutes(api huma.API, store *postgres.Store, authSvc *auth.Service) {
	v1.RegisterAuthRoutes(api, store, authSvc)
}

func registerAPIRoutes(api huma.API, store *postgres.Store, auditSvc *audit.Service, reportSvc *reports.Service, blobs blob.Store) {
	v1.RegisterSaleRoutes(api, store, auditSvc, blobs, reportSvc)
	v1.RegisterExpenseRoutes(api, store, auditSvc, blobs, reportSvc)
	v1.RegisterAuditRoutes(api, auditSvc)
	v1.RegisterReportRoutes(api, reportSvc)
}
