package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/ogoue/ogoue/internal/auth"
	"github.com/ogoue/ogoue/internal/domain"
)

type RegisterInput struct {
	Body struct {
		OrganizationName string `json:"organization_name" minLength:"1" maxLength:"255" doc:"Business name"`
		Slug             string `json:"slug" minLength:"1" maxLength:"63" doc:"Organization slug"`
		Email            string `json:"email" minLength:"3" maxLength:"255" doc:"Manager email"`
		Password         string `json:"password" minLength:"8" maxLength:"128" doc:"Password"` //nolint:gosec // G117: login credential DTO
		FirstName        string `json:"first_name" minLength:"1" maxLength:"255" doc:"First name"`
		LastName         string `json:"last_name,omitempty" maxLength:"255" doc:"Last name"`
	}
}

type RegisterOutput struct {
	Body struct {
		Organization *domain.Organization `json:"organization"`
		User         *domain.User         `json:"user"`
		AccessToken  string               `json:"access_token"`  //nolint:gosec // G117: auth response DTO
		RefreshToken string               `json:"refresh_token"` //nolint:gosec // G117: auth response DTO
	}
}

type LoginInput struct {
	Body struct {
		Slug     string `json:"slug" minLength:"1" maxLength:"63" doc:"Organization slug"`
		Email    string `json:"email" minLength:"3" maxLength:"255" doc:"Manager email"`
		Password string `json:"password" minLength:"1" maxLength:"128" doc:"Password"` //nolint:gosec // G117: login credential DTO
	}
}

type LoginOutput struct {
	Body struct {
		AccessToken  string `json:"access_token"`  //nolint:gosec // G117: auth response DTO
		RefreshToken string `json:"refresh_token"` //nolint:gosec // G117: auth response DTO
	}
}

type AgentLoginInput struct {
	Body struct {
		Slug  string `json:"slug" minLength:"1" maxLength:"63" doc:"Organization slug"`
		Phone string `json:"phone" minLength:"1" maxLength:"32" doc:"Agent phone number"`
		PIN   string `json:"pin" minLength:"4" maxLength:"12" doc:"Agent PIN"` //nolint:gosec // G117: login credential DTO
	}
}

type AgentLoginOutput struct {
	Body struct {
		AccessToken string `json:"access_token"` //nolint:gosec // G117: auth response DTO
	}
}

type RefreshInput struct {
	Body struct {
		RefreshToken string `json:"refresh_token" minLength:"1" doc:"Refresh token"` //nolint:gosec // G117: token refresh DTO
	}
}

type RefreshOutput struct {
	Body struct {
		AccessToken string `json:"access_token"` //nolint:gosec // G117: auth response DTO
	}
}

func RegisterAuthRoutes(api huma.API, store DataStore, authSvc AuthService) {
	huma.Register(api, huma.Operation{
		OperationID: "register-organization",
		Method:      http.MethodPost,
		Path:        "/auth/register",
		Summary:     "Register an organization with its first manager",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *RegisterInput) (*RegisterOutput, error) {
		org, user, err := authSvc.RegisterOrganization(ctx,
			input.Body.OrganizationName, input.Body.Slug,
			input.Body.Email, input.Body.Password,
			input.Body.FirstName, input.Body.LastName,
		)
		if err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return nil, huma.Error409Conflict("organization slug already taken")
			}
			return nil, huma.Error500InternalServerError("failed to register organization", err)
		}

		accessToken, refreshToken, err := authSvc.Login(ctx, org.ID, input.Body.Email, input.Body.Password)
		if err != nil {
			return nil, huma.Error500InternalServerError("registered but failed to issue tokens", err)
		}

		user.PasswordHash = ""

		out := &RegisterOutput{}
		out.Body.Organization = org
		out.Body.User = user
		out.Body.AccessToken = accessToken
		out.Body.RefreshToken = refreshToken
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/auth/login",
		Summary:     "Login with email and password",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
		org, err := store.Organizations().GetBySlug(ctx, input.Body.Slug)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("organization not found")
			}
			return nil, huma.Error500InternalServerError("failed to look up organization", err)
		}

		accessToken, refreshToken, err := authSvc.Login(ctx, org.ID, input.Body.Email, input.Body.Password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				return nil, huma.Error401Unauthorized("invalid email or password")
			}
			return nil, huma.Error500InternalServerError("login failed", err)
		}

		out := &LoginOutput{}
		out.Body.AccessToken = accessToken
		out.Body.RefreshToken = refreshToken
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "agent-login",
		Method:      http.MethodPost,
		Path:        "/auth/agent-login",
		Summary:     "Login as an agent with phone and PIN",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *AgentLoginInput) (*AgentLoginOutput, error) {
		org, err := store.Organizations().GetBySlug(ctx, input.Body.Slug)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("organization not found")
			}
			return nil, huma.Error500InternalServerError("failed to look up organization", err)
		}

		accessToken, err := authSvc.AgentLogin(ctx, org.ID, input.Body.Phone, input.Body.PIN)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrAgentInactive):
				return nil, huma.Error403Forbidden("agent account is deactivated")
			case errors.Is(err, auth.ErrInvalidCredentials):
				return nil, huma.Error401Unauthorized("invalid phone or PIN")
			default:
				return nil, huma.Error500InternalServerError("login failed", err)
			}
		}

		out := &AgentLoginOutput{}
		out.Body.AccessToken = accessToken
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "refresh-token",
		Method:      http.MethodPost,
		Path:        "/auth/refresh",
		Summary:     "Refresh access token",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *RefreshInput) (*RefreshOutput, error) {
		accessToken, err := authSvc.RefreshToken(ctx, input.Body.RefreshToken)
		if err != nil {
			return nil, huma.Error401Unauthorized("invalid or expired refresh token")
		}

		out := &RefreshOutput{}
		out.Body.AccessToken = accessToken
		return out, nil
	})
}
