package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ogoue/ogoue/internal/auth"
	"github.com/ogoue/ogoue/internal/domain"
)

type fakeOrgRepo struct {
	created   *domain.Organization
	bySlug    map[string]*domain.Organization
	createErr error
}

func (f *fakeOrgRepo) Create(_ context.Context, o *domain.Organization) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = o
	return nil
}

func (f *fakeOrgRepo) GetByID(_ context.Context, _ uuid.UUID) (*domain.Organization, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeOrgRepo) GetBySlug(_ context.Context, slug string) (*domain.Organization, error) {
	if o, ok := f.bySlug[slug]; ok {
		return o, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeOrgRepo) Update(_ context.Context, _ *domain.Organization) error { return nil }

type fakeUserRepo struct {
	created *domain.User
	byEmail map[string]*domain.User
	byID    map[uuid.UUID]*domain.User
}

func (f *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	f.created = u
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, _, id uuid.UUID) (*domain.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, _ uuid.UUID, email string) (*domain.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) Update(_ context.Context, _ *domain.User) error { return nil }

func (f *fakeUserRepo) List(_ context.Context, _ uuid.UUID) ([]*domain.User, error) {
	return nil, nil
}

type fakeAgentRepo struct {
	byPhone map[string]*domain.Agent
}

func (f *fakeAgentRepo) Create(_ context.Context, _ *domain.Agent) error { return nil }

func (f *fakeAgentRepo) GetByID(_ context.Context, _, _ uuid.UUID) (*domain.Agent, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeAgentRepo) GetByPhone(_ context.Context, _ uuid.UUID, phone string) (*domain.Agent, error) {
	if a, ok := f.byPhone[phone]; ok {
		return a, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeAgentRepo) List(_ context.Context, _ uuid.UUID) ([]*domain.Agent, error) {
	return nil, nil
}

func (f *fakeAgentRepo) Update(_ context.Context, _ *domain.Agent) error { return nil }

func newService(orgs *fakeOrgRepo, users *fakeUserRepo, agents *fakeAgentRepo) *auth.Service {
	return auth.NewService(orgs, users, agents, testSecret, 15*time.Minute, 7*24*time.Hour)
}

func TestRegisterOrganization(t *testing.T) {
	t.Parallel()

	t.Run("creates organization and first manager", func(t *testing.T) {
		t.Parallel()

		orgs := &fakeOrgRepo{}
		users := &fakeUserRepo{}
		svc := newService(orgs, users, &fakeAgentRepo{})

		org, user, err := svc.RegisterOrganization(context.Background(), "Boutique Awa", "boutique-awa", "Marie@Example.com", "s3cret-pass", "Marie", "Ndong")
		require.NoError(t, err)
		assert.Equal(t, "Boutique Awa", org.Name)
		assert.Equal(t, "XAF", org.Currency)
		assert.Equal(t, org.ID, user.OrganizationID)
		assert.Equal(t, domain.RoleManager, user.Role)
		assert.Equal(t, "marie@example.com", user.Email, "email must be lowercased")
		assert.NotEmpty(t, user.PasswordHash)
		assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
		assert.Same(t, org, orgs.created)
		assert.Same(t, user, users.created)
	})

	t.Run("rejects duplicate slug", func(t *testing.T) {
		t.Parallel()

		orgs := &fakeOrgRepo{bySlug: map[string]*domain.Organization{
			"boutique-awa": {ID: uuid.New()},
		}}
		svc := newService(orgs, &fakeUserRepo{}, &fakeAgentRepo{})

		_, _, err := svc.RegisterOrganization(context.Background(), "Boutique Awa", "boutique-awa", "m@e.com", "pass", "M", "N")
		assert.ErrorIs(t, err, domain.ErrConflict)
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()

	orgID := uuid.New()
	hash, err := auth.HashSecret("correct-password")
	require.NoError(t, err)

	user := &domain.User{
		ID:             uuid.New(),
		OrganizationID: orgID,
		Email:          "marie@example.com",
		PasswordHash:   hash,
		Role:           domain.RoleManager,
	}
	users := &fakeUserRepo{byEmail: map[string]*domain.User{"marie@example.com": user}}
	svc := newService(&fakeOrgRepo{}, users, &fakeAgentRepo{})

	t.Run("happy path", func(t *testing.T) {
		t.Parallel()

		access, refresh, err := svc.Login(context.Background(), orgID, "Marie@example.COM", "correct-password")
		require.NoError(t, err)

		claims, err := auth.ValidateToken(testSecret, access)
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), claims.UserID)
		assert.Equal(t, "manager", claims.Role)

		claims, err = auth.ValidateToken(testSecret, refresh)
		require.NoError(t, err)
		assert.Equal(t, "refresh", claims.TokenType)
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()

		_, _, err := svc.Login(context.Background(), orgID, "marie@example.com", "wrong")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		t.Parallel()

		_, _, err := svc.Login(context.Background(), orgID, "nobody@example.com", "correct-password")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}

func TestAgentLogin(t *testing.T) {
	t.Parallel()

	orgID := uuid.New()
	pinHash, err := auth.HashSecret("4321")
	require.NoError(t, err)

	agent := &domain.Agent{
		ID:             uuid.New(),
		OrganizationID: orgID,
		FirstName:      "Awa",
		Phone:          "+24106000001",
		PINHash:        pinHash,
		Active:         true,
	}
	agents := &fakeAgentRepo{byPhone: map[string]*domain.Agent{agent.Phone: agent}}
	svc := newService(&fakeOrgRepo{}, &fakeUserRepo{}, agents)

	t.Run("happy path", func(t *testing.T) {
		t.Parallel()

		token, err := svc.AgentLogin(context.Background(), orgID, agent.Phone, "4321")
		require.NoError(t, err)

		claims, err := auth.ValidateToken(testSecret, token)
		require.NoError(t, err)
		assert.Equal(t, agent.ID.String(), claims.AgentID)
		assert.Equal(t, "agent", claims.Role)
	})

	t.Run("wrong pin", func(t *testing.T) {
		t.Parallel()

		_, err := svc.AgentLogin(context.Background(), orgID, agent.Phone, "0000")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("deactivated agent", func(t *testing.T) {
		t.Parallel()

		inactive := &domain.Agent{ID: uuid.New(), OrganizationID: orgID, Phone: "+24106000002", PINHash: pinHash, Active: false}
		agents := &fakeAgentRepo{byPhone: map[string]*domain.Agent{inactive.Phone: inactive}}
		svc := newService(&fakeOrgRepo{}, &fakeUserRepo{}, agents)

		_, err := svc.AgentLogin(context.Background(), orgID, inactive.Phone, "4321")
		assert.ErrorIs(t, err, auth.ErrAgentInactive)
	})
}

func TestRefreshToken(t *testing.T) {
	t.Parallel()

	orgID := uuid.New()
	user := &domain.User{ID: uuid.New(), OrganizationID: orgID, Role: domain.RoleManager}
	users := &fakeUserRepo{byID: map[uuid.UUID]*domain.User{user.ID: user}}
	svc := newService(&fakeOrgRepo{}, users, &fakeAgentRepo{})

	t.Run("happy path", func(t *testing.T) {
		t.Parallel()

		refresh, err := auth.IssueManagerRefreshToken(testSecret, orgID, user.ID, time.Hour)
		require.NoError(t, err)

		access, err := svc.RefreshToken(context.Background(), refresh)
		require.NoError(t, err)

		claims, err := auth.ValidateToken(testSecret, access)
		require.NoError(t, err)
		assert.Equal(t, "access", claims.TokenType)
		assert.Equal(t, user.ID.String(), claims.UserID)
	})

	t.Run("rejects access token", func(t *testing.T) {
		t.Parallel()

		access, err := auth.IssueManagerToken(testSecret, orgID, user.ID, time.Hour)
		require.NoError(t, err)

		_, err = svc.RefreshToken(context.Background(), access)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("rejects token for deleted user", func(t *testing.T) {
		t.Parallel()

		refresh, err := auth.IssueManagerRefreshToken(testSecret, orgID, uuid.New(), time.Hour)
		require.NoError(t, err)

		_, err = svc.RefreshToken(context.Background(), refresh)
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}
