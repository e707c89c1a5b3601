package query

import (
	"fmt"

	"github.com/tair/erp-backend/internal/inventory/domain"
)

// LowStockQuery represents the query for products at or below their threshold
type LowStockQuery struct{}

// LowStockHandler handles the low stock query
type LowStockHandler struct {
	products domain.ProductRepository
}

// NewLowStockHandler creates a new low stock handler
func NewLowStockHandler(products domain.ProductRepository) *LowStockHandler {
	return &LowStockHandler{products: products}
}

// Handle executes the low stock query
func (h *LowStockHandler) Handle(q LowStockQuery) ([]domain.Product, error) {
	products, err := h.products.FindLowStock()
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock products: %w", err)
	}
	return products, nil
}
