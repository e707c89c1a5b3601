//go:build wireinject
// +build wireinject

package inventory

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/tair/erp-backend/internal/inventory/delivery/http"
	"github.com/tair/erp-backend/internal/inventory/domain"
	"github.com/tair/erp-backend/internal/inventory/repository"
	userhttp "github.com/tair/erp-backend/internal/user/delivery/http"
)

// ProvideProductRepository provides the product repository
func ProvideProductRepository(db *gorm.DB) domain.ProductRepository {
	return repository.NewGormInventoryRepository(db)
}

// ProvideLedgerRepository provides the stock ledger repository wrapped
// with tracing.
func ProvideLedgerRepository(db *gorm.DB) domain.LedgerRepository {
	return repository.NewTracedLedger(repository.NewGormInventoryRepository(db))
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideProductRepository,
	ProvideLedgerRepository,
)

// InitializeHTTPHandler initializes the HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB, authmw *userhttp.AuthMiddleware) (*http.InventoryHandler, error) {
	wire.Build(
		RepositorySet,
		http.NewInventoryHandler,
	)
	return nil, nil
}
