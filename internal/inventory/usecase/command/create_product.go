package command

import (
	"fmt"
	"time"

	"github.com/tair/erp-backend/internal/apperr"
	"github.com/tair/erp-backend/internal/inventory/domain"
)

// CreateProductCommand represents the command to create a new product
type CreateProductCommand struct {
	SKU               string
	Name              string
	Description       string
	Unit              string
	InitialStock      int
	LowStockThreshold int
}

// CreateProductHandler handles product creation command
type CreateProductHandler struct {
	repo domain.ProductRepository
}

// NewCreateProductHandler creates a new create product handler
func NewCreateProductHandler(repo domain.ProductRepository) *CreateProductHandler {
	return &CreateProductHandler{repo: repo}
}

// Handle executes the create product command
func (h *CreateProductHandler) Handle(cmd CreateProductCommand) (*domain.Product, error) {
	if cmd.SKU == "" {
		return nil, fmt.Errorf("sku is required: %w", apperr.ErrInvalidInput)
	}
	if cmd.Name == "" {
		return nil, fmt.Errorf("name is required: %w", apperr.ErrInvalidInput)
	}
	if cmd.InitialStock < 0 {
		return nil, fmt.Errorf("initial stock cannot be negative: %w", apperr.ErrInvalidInput)
	}
	if cmd.LowStockThreshold < 0 {
		return nil, fmt.Errorf("low stock threshold cannot be negative: %w", apperr.ErrInvalidInput)
	}

	product := &domain.Product{
		SKU:               cmd.SKU,
		Name:              cmd.Name,
		Description:       cmd.Description,
		Unit:              cmd.Unit,
		CurrentStock:      cmd.InitialStock,
		LowStockThreshold: cmd.LowStockThreshold,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}

	if err := h.repo.Create(product); err != nil {
		return nil, err
	}

	return product, nil
}
