package audit

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/ogoue/ogoue/internal/domain"
)

// Resolver turns an authenticated caller into a display-ready Actor. All
// lookups are best-effort: a failed lookup degrades audit readability but
// must never block the operation that asked for it.
type Resolver struct {
	users  domain.UserRepository
	agents domain.AgentRepository
}

func NewResolver(users domain.UserRepository, agents domain.AgentRepository) *Resolver {
	return &Resolver{users: users, agents: agents}
}

// Resolve looks up the caller's display identity. Returns nil when the
// caller cannot be resolved; callers must treat nil as "unknown actor".
func (r *Resolver) Resolve(ctx context.Context, id domain.Identity) domain.Actor {
	switch id.Role {
	case domain.RoleAgent:
		if id.AgentID == nil {
			return nil
		}
		agent, err := r.agents.GetByID(ctx, id.OrganizationID, *id.AgentID)
		if err != nil {
			log.Debug().Err(err).Str("agent_id", id.AgentID.String()).Msg("audit: agent lookup failed")
			return nil
		}
		return domain.AgentActor{ID: agent.ID, FirstName: agent.FirstName}

	case domain.RoleManager:
		user, err := r.users.GetByID(ctx, id.OrganizationID, id.UserID)
		if err != nil {
			log.Debug().Err(err).Str("user_id", id.UserID.String()).Msg("audit: user lookup failed")
			return nil
		}
		return domain.ManagerActor{ID: user.ID, FirstName: user.FirstName, LastName: user.LastName, Email: user.Email}

	default:
		return nil
	}
}
