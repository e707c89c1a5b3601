package command

import (
	"fmt"
	"time"

	"github.com/tair/erp-backend/internal/apperr"
	"github.com/tair/erp-backend/internal/crm/domain"
)

// CreateCustomerCommand represents the command to create a new customer
type CreateCustomerCommand struct {
	Name    string
	Email   string
	Phone   string
	Company string
}

// CreateCustomerHandler handles customer creation command
type CreateCustomerHandler struct {
	repo domain.CustomerRepository
}

// NewCreateCustomerHandler creates a new create customer handler
func NewCreateCustomerHandler(repo domain.CustomerRepository) *CreateCustomerHandler {
	return &CreateCustomerHandler{repo: repo}
}

// Handle executes the create customer command
func (h *CreateCustomerHandler) Handle(cmd CreateCustomerCommand) (*domain.Customer, error) {
	if cmd.Name == "" {
		return nil, fmt.Errorf("name is required: %w", apperr.ErrInvalidInput)
	}

	customer := &domain.Customer{
		Name:      cmd.Name,
		Email:     cmd.Email,
		Phone:     cmd.Phone,
		Company:   cmd.Company,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := h.repo.CreateCustomer(customer); err != nil {
		return nil, err
	}

	return customer, nil
}
