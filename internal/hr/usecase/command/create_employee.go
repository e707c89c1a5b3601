package command

import (
	"fmt"
	"time"

	"github.com/tair/erp-backend/internal/apperr"
	"github.com/tair/erp-backend/internal/hr/domain"
)

// CreateEmployeeCommand represents the command to create an employee
type CreateEmployeeCommand struct {
	FullName     string
	Email        string
	UserID       *uint
	DepartmentID *uint
	Title        string
}

// CreateEmployeeHandler handles employee creation command
type CreateEmployeeHandler struct {
	repo domain.EmployeeRepository
}

// NewCreateEmployeeHandler creates a new create employee handler
func NewCreateEmployeeHandler(repo domain.EmployeeRepository) *CreateEmployeeHandler {
	return &CreateEmployeeHandler{repo: repo}
}

// Handle executes the create employee command
func (h *CreateEmployeeHandler) Handle(cmd CreateEmployeeCommand) (*domain.Employee, error) {
	if cmd.FullName == "" {
		return nil, fmt.Errorf("full name is required: %w", apperr.ErrInvalidInput)
	}
	if cmd.Email == "" {
		return nil, fmt.Errorf("email is required: %w", apperr.ErrInvalidInput)
	}

	emp := &domain.Employee{
		FullName:     cmd.FullName,
		Email:        cmd.Email,
		UserID:       cmd.UserID,
		DepartmentID: cmd.DepartmentID,
		Title:        cmd.Title,
		Status:       "ACTIVE",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := h.repo.CreateEmployee(emp); err != nil {
		return nil, err
	}
	return emp, nil
}
