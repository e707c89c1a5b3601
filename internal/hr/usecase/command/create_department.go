package command

import (
	"fmt"

	"github.com/tair/erp-backend/internal/apperr"
	"github.com/tair/erp-backend/internal/hr/domain"
)

// CreateDepartmentCommand represents the command to create a department
type CreateDepartmentCommand struct {
	Name string
}

// CreateDepartmentHandler handles department creation command
type CreateDepartmentHandler struct {
	repo domain.DepartmentRepository
}

// NewCreateDepartmentHandler creates a new create department handler
func NewCreateDepartmentHandler(repo domain.DepartmentRepository) *CreateDepartmentHandler {
	return &CreateDepartmentHandler{repo: repo}
}

// Handle executes the create department command
func (h *CreateDepartmentHandler) Handle(cmd CreateDepartmentCommand) (*domain.Department, error) {
	if cmd.Name == "" {
		return nil, fmt.Errorf("name is required: %w", apperr.ErrInvalidInput)
	}

	dept := &domain.Department{Name: cmd.Name}
	if err := h.repo.CreateDepartment(dept); err != nil {
		return nil, err
	}
	return dept, nil
}
