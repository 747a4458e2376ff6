package domain

import (
	"strings"

	"github.com/google/uuid"
)

// Identity is the authenticated caller of a request, as resolved from the
// bearer token. AgentID is set only for agent-role callers; UserID is set
// only for manager-role callers.
type Identity struct {
	OrganizationID uuid.UUID
	UserID         uuid.UUID
	AgentID        *uuid.UUID
	Role           string
}

// Actor is the closed set of principals that can perform a destructive
// action: a manager (user row) or an agent (agents table).
type Actor interface {
	DisplayName() string
	actor()
}

type ManagerActor struct {
	ID        uuid.UUID
	FirstName string
	LastName  string
	Email     string
}

func (ManagerActor) actor() {}

func (a ManagerActor) DisplayName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

type AgentActor struct {
	ID        uuid.UUID
	FirstName string
}

func (AgentActor) actor() {}

func (a AgentActor) DisplayName() string { return a.FirstName }
