package command

import (
	"fmt"
	"time"

	"github.com/tair/erp-backend/internal/apperr"
	"github.com/tair/erp-backend/internal/hr/domain"
)

// SubmitLeaveCommand represents the command to submit a leave request
type SubmitLeaveCommand struct {
	EmployeeID uint
	StartDate  time.Time
	EndDate    time.Time
	Reason     string
}

// SubmitLeaveHandler handles leave submission command
type SubmitLeaveHandler struct {
	leaves    domain.LeaveRepository
	employees domain.EmployeeRepository
}

// NewSubmitLeaveHandler creates a new submit leave handler
func NewSubmitLeaveHandler(leaves domain.LeaveRepository, employees domain.EmployeeRepository) *SubmitLeaveHandler {
	return &SubmitLeaveHandler{leaves: leaves, employees: employees}
}

// Handle executes the submit leave command. The request is always created
// PENDING; the employee must exist and the date range must be ordered.
func (h *SubmitLeaveHandler) Handle(cmd SubmitLeaveCommand) (*domain.LeaveRequest, error) {
	if cmd.EmployeeID == 0 {
		return nil, fmt.Errorf("employee id is required: %w", apperr.ErrInvalidInput)
	}
	if cmd.StartDate.IsZero() || cmd.EndDate.IsZero() {
		return nil, fmt.Errorf("start and end dates are required: %w", apperr.ErrInvalidInput)
	}
	if cmd.EndDate.Before(cmd.StartDate) {
		return nil, fmt.Errorf("end date before start date: %w", apperr.ErrInvalidInput)
	}

	if _, err := h.employees.FindEmployeeByID(cmd.EmployeeID); err != nil {
		return nil, err
	}

	leave := &domain.LeaveRequest{
		EmployeeID: cmd.EmployeeID,
		StartDate:  cmd.StartDate,
		EndDate:    cmd.EndDate,
		Reason:     cmd.Reason,
		Status:     domain.LeavePending,
		CreatedAt:  time.Now(),
	}

	if err := h.leaves.CreateLeaveRequest(leave); err != nil {
		return nil, err
	}
	return leave, nil
}
