package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/tair/erp-backend/internal/apperr"
	"github.com/tair/erp-backend/internal/authz"
	"github.com/tair/erp-backend/internal/httpapi"
	"github.com/tair/erp-backend/internal/user/domain"
	"github.com/tair/erp-backend/pkg/auth"
)

type contextKey string

// UserKey carries the authenticated user through the request context
const UserKey contextKey = "current_user"

// AuthMiddleware authenticates requests and enforces permission codes.
// The user and its grant graph are loaded fresh on every request so
// revoked roles or a deactivation take effect immediately.
type AuthMiddleware struct {
	repo   domain.UserRepository
	tokens *auth.TokenManager
}

// NewAuthMiddleware creates the authentication middleware
func NewAuthMiddleware(repo domain.UserRepository, tokens *auth.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{repo: repo, tokens: tokens}
}

// Authenticate validates the bearer token, loads the user and rejects
// deactivated accounts before any business logic runs.
func (m *AuthMiddleware) Authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			httpapi.RespondDomainError(w, fmt.Errorf("authorization header required: %w", apperr.ErrUnauthenticated))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			httpapi.RespondDomainError(w, fmt.Errorf("invalid authorization header format: %w", apperr.ErrUnauthenticated))
			return
		}

		userID, err := m.tokens.Validate(parts[1])
		if err != nil {
			httpapi.RespondDomainError(w, fmt.Errorf("invalid token: %w", apperr.ErrUnauthenticated))
			return
		}

		user, err := m.repo.FindByID(userID)
		if err != nil {
			httpapi.RespondDomainError(w, fmt.Errorf("unknown token subject: %w", apperr.ErrUnauthenticated))
			return
		}

		// A still-valid token does not outlive deactivation
		if !user.IsActive {
			httpapi.RespondDomainError(w, apperr.ErrInactiveUser)
			return
		}

		ctx := context.WithValue(r.Context(), UserKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// RequirePermissions authenticates and then checks the required permission
// codes, in order, against the user's resolved permission set.
func (m *AuthMiddleware) RequirePermissions(required ...string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return m.Authenticate(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromContext(r.Context())
			if user == nil {
				httpapi.RespondDomainError(w, apperr.ErrUnauthenticated)
				return
			}

			granted := authz.Resolve(user.Roles)
			if err := authz.Authorize(granted, required...); err != nil {
				httpapi.RespondDomainError(w, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// UserFromContext returns the authenticated user stored by Authenticate,
// or nil when the request is unauthenticated.
func UserFromContext(ctx context.Context) *domain.User {
	user, _ := ctx.Value(UserKey).(*domain.User)
	return user
}
