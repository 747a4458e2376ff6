package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type jwtClaims struct {
	jwt.RegisteredClaims
	OrganizationID string `json:"oid"`
	UserID         string `json:"uid"`
	AgentID        string `json:"aid"`
	Role           string `json:"role"`
	TokenType      string `json:"typ"`
}

// Auth authenticates requests with a bearer JWT and injects organization,
// caller identity and role into the request context.
func Auth(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tok := extractBearer(r); tok != "" {
				ctx, ok := authenticateJWT(r.Context(), tok, jwtSecret)
				if ok {
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			http.Error(w, `{"error":"missing or invalid credentials"}`, http.StatusUnauthorized)
		})
	}
}

func extractBearer(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return auth[7:]
	}
	return ""
}

func authenticateJWT(ctx context.Context, tokenStr, secret string) (context.Context, bool) {
	claims := &jwtClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(_ *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return ctx, false
	}

	// Refresh tokens are not valid for API access.
	if claims.TokenType != "access" {
		return ctx, false
	}

	organizationID, err := uuid.Parse(claims.OrganizationID)
	if err != nil {
		return ctx, false
	}

	ctx = context.WithValue(ctx, ContextKeyOrganizationID, organizationID)
	ctx = context.WithValue(ctx, ContextKeyRole, claims.Role)

	switch claims.Role {
	case "manager":
		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			return ctx, false
		}
		ctx = context.WithValue(ctx, ContextKeyUserID, userID)
	case "agent":
		agentID, err := uuid.Parse(claims.AgentID)
		if err != nil {
			return ctx, false
		}
		ctx = context.WithValue(ctx, ContextKeyAgentID, agentID)
	default:
		return ctx, false
	}

	return ctx, true
}
