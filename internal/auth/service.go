package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/argon2"

	"github.com/ogoue/ogoue/internal/domain"
)

// Sentinel errors for the auth package.
var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrUserAlreadyExists  = errors.New("auth: user already exists")
	ErrAgentInactive      = errors.New("auth: agent is deactivated")
)

// argon2id parameters following OWASP recommendations.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024 // 64 MiB
	argonThreads = 4
	argonKeyLen  = 32
	argonSaltLen = 16
)

// Service provides authentication for managers (email/password) and agents
// (phone/PIN), both scoped to an organization.
type Service struct {
	orgs       domain.OrganizationRepository
	users      domain.UserRepository
	agents     domain.AgentRepository
	jwtSecret  string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewService creates a new auth service.
func NewService(orgs domain.OrganizationRepository, users domain.UserRepository, agents domain.AgentRepository, jwtSecret string, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{
		orgs:       orgs,
		users:      users,
		agents:     agents,
		jwtSecret:  jwtSecret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// RegisterOrganization creates an organization together with its first
// manager user. The password is hashed with argon2id before storage.
func (s *Service) RegisterOrganization(ctx context.Context, orgName, slug, email, password, firstName, lastName string) (*domain.Organization, *domain.User, error) {
	if existing, err := s.orgs.GetBySlug(ctx, slug); err == nil && existing != nil {
		return nil, nil, fmt.Errorf("auth.RegisterOrganization: %w", domain.ErrConflict)
	}

	org, err := domain.NewOrganization(orgName, slug, "")
	if err != nil {
		return nil, nil, fmt.Errorf("auth.RegisterOrganization: %w", err)
	}

	if err := s.orgs.Create(ctx, org); err != nil {
		return nil, nil, fmt.Errorf("auth.RegisterOrganization: %w", err)
	}

	hash, err := hashSecret(password)
	if err != nil {
		return nil, nil, fmt.Errorf("auth.RegisterOrganization: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:             uuid.New(),
		OrganizationID: org.ID,
		Email:          strings.ToLower(email),
		PasswordHash:   hash,
		FirstName:      firstName,
		LastName:       lastName,
		Role:           domain.RoleManager,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, nil, fmt.Errorf("auth.RegisterOrganization: %w", err)
	}

	return org, user, nil
}

// Login validates a manager's email/password and returns access + refresh tokens.
func (s *Service) Login(ctx context.Context, organizationID uuid.UUID, email, password string) (accessToken, refreshToken string, err error) {
	user, err := s.users.GetByEmail(ctx, organizationID, strings.ToLower(email))
	if err != nil {
		return "", "", fmt.Errorf("auth.Login: %w", ErrInvalidCredentials)
	}

	if !verifySecret(password, user.PasswordHash) {
		return "", "", fmt.Errorf("auth.Login: %w", ErrInvalidCredentials)
	}

	accessToken, err = IssueManagerToken(s.jwtSecret, user.OrganizationID, user.ID, s.accessTTL)
	if err != nil {
		return "", "", fmt.Errorf("auth.Login: %w", err)
	}

	refreshToken, err = IssueManagerRefreshToken(s.jwtSecret, user.OrganizationID, user.ID, s.refreshTTL)
	if err != nil {
		return "", "", fmt.Errorf("auth.Login: %w", err)
	}

	return accessToken, refreshToken, nil
}

// AgentLogin validates an agent's phone/PIN and returns an access token.
// Agents do not get refresh tokens; they re-enter the PIN daily.
func (s *Service) AgentLogin(ctx context.Context, organizationID uuid.UUID, phone, pin string) (string, error) {
	agent, err := s.agents.GetByPhone(ctx, organizationID, phone)
	if err != nil {
		return "", fmt.Errorf("auth.AgentLogin: %w", ErrInvalidCredentials)
	}

	if !agent.Active {
		return "", fmt.Errorf("auth.AgentLogin: %w", ErrAgentInactive)
	}

	if !verifySecret(pin, agent.PINHash) {
		return "", fmt.Errorf("auth.AgentLogin: %w", ErrInvalidCredentials)
	}

	token, err := IssueAgentToken(s.jwtSecret, agent.OrganizationID, agent.ID, s.accessTTL)
	if err != nil {
		return "", fmt.Errorf("auth.AgentLogin: %w", err)
	}

	return token, nil
}

// RefreshToken validates a manager refresh token and issues a new access token.
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := ValidateToken(s.jwtSecret, refreshToken)
	if err != nil {
		return "", fmt.Errorf("auth.RefreshToken: %w", err)
	}

	if claims.TokenType != tokenTypeRefresh {
		return "", fmt.Errorf("auth.RefreshToken: %w", ErrInvalidToken)
	}

	organizationID, err := uuid.Parse(claims.OrganizationID)
	if err != nil {
		return "", fmt.Errorf("auth.RefreshToken: invalid organization id: %w", err)
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return "", fmt.Errorf("auth.RefreshToken: invalid user id: %w", err)
	}

	// Verify the user still exists.
	user, err := s.users.GetByID(ctx, organizationID, userID)
	if err != nil {
		return "", fmt.Errorf("auth.RefreshToken: %w", ErrInvalidCredentials)
	}

	newAccess, err := IssueManagerToken(s.jwtSecret, user.OrganizationID, user.ID, s.accessTTL)
	if err != nil {
		return "", fmt.Errorf("auth.RefreshToken: %w", err)
	}

	return newAccess, nil
}

// HashSecret hashes a password or PIN with argon2id for storage. Exposed for
// seeding and agent provisioning.
func HashSecret(secret string) (string, error) {
	return hashSecret(secret)
}

// hashSecret generates an argon2id hash with a random salt.
// Format: hex(salt) + "$" + hex(hash)
func hashSecret(secret string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	hash := argon2.IDKey([]byte(secret), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	return hex.EncodeToString(salt) + "$" + hex.EncodeToString(hash), nil
}

// verifySecret checks a password or PIN against an argon2id hash.
func verifySecret(secret, encoded string) bool {
	saltHex, hashHex, found := strings.Cut(encoded, "$")
	if !found || saltHex == "" || hashHex == "" {
		return false
	}

	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false
	}

	expected, err := hex.DecodeString(hashHex)
	if err != nil {
		return false
	}

	computed := argon2.IDKey([]byte(secret), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	return subtle.ConstantTimeCompare(computed, expected) == 1
}
