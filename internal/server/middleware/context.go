package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/ogoue/ogoue/internal/domain"
)

type contextKey string

const (
	ContextKeyOrganizationID contextKey = "organization_id"
	ContextKeyUserID         contextKey = "user_id"
	ContextKeyAgentID        contextKey = "agent_id"
	ContextKeyRole           contextKey = "role"
)

func OrganizationIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	v, ok := ctx.Value(ContextKeyOrganizationID).(uuid.UUID)
	return v, ok
}

func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	v, ok := ctx.Value(ContextKeyUserID).(uuid.UUID)
	return v, ok
}

func AgentIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	v, ok := ctx.Value(ContextKeyAgentID).(uuid.UUID)
	return v, ok
}

func RoleFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ContextKeyRole).(string)
	return v, ok
}

// IdentityFromContext assembles the authenticated caller from context values.
// Returns false when no organization is present (unauthenticated request).
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	orgID, ok := OrganizationIDFromContext(ctx)
	if !ok {
		return domain.Identity{}, false
	}

	id := domain.Identity{OrganizationID: orgID}
	id.Role, _ = RoleFromContext(ctx)
	if userID, ok := UserIDFromContext(ctx); ok {
		id.UserID = userID
	}
	if agentID, ok := AgentIDFromContext(ctx); ok {
		id.AgentID = &agentID
	}

	return id, true
}
