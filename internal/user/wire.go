//go:build wireinject
// +build wireinject

package user

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	auditdomain "github.com/tair/erp-backend/internal/audit/domain"
	"github.com/tair/erp-backend/internal/user/delivery/http"
	"github.com/tair/erp-backend/internal/user/domain"
	"github.com/tair/erp-backend/internal/user/repository"
	"github.com/tair/erp-backend/internal/user/usecase/command"
	"github.com/tair/erp-backend/pkg/auth"
)

// ProvideUserRepository provides the user repository
func ProvideUserRepository(db *gorm.DB) domain.UserRepository {
	return repository.NewGormUserRepository(db)
}

// ProvideRoleRepository provides the role repository
func ProvideRoleRepository(db *gorm.DB) domain.RoleRepository {
	return repository.NewGormRoleRepository(db)
}

// ProvideLoginUserHandler provides the login command handler
func ProvideLoginUserHandler(repo domain.UserRepository, tokens *auth.TokenManager) *command.LoginUserHandler {
	return command.NewLoginUserHandler(repo, tokens)
}

// ProvideAuthMiddleware provides the authentication middleware
func ProvideAuthMiddleware(repo domain.UserRepository, tokens *auth.TokenManager) *http.AuthMiddleware {
	return http.NewAuthMiddleware(repo, tokens)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideUserRepository,
	ProvideRoleRepository,
)

var HandlerSet = wire.NewSet(
	ProvideLoginUserHandler,
	ProvideAuthMiddleware,
)

// InitializeHTTPHandler initializes the HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB, tokens *auth.TokenManager, audit auditdomain.Recorder) (*http.UserHandler, error) {
	wire.Build(
		RepositorySet,
		HandlerSet,
		http.NewUserHandler,
	)
	return nil, nil
}
