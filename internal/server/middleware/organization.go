package middleware

import (
	"net/http"

	"github.com/google/uuid"
)

// RequireOrganization rejects requests whose context carries no organization.
// It must be chained after Auth.
func RequireOrganization() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			oid, ok := OrganizationIDFromContext(r.Context())
			if !ok || oid == uuid.Nil {
				http.Error(w, `{"error":"valid organization required"}`, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
