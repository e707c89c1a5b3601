package query

import (
	"errors"
	"fmt"

	"github.com/tair/erp-backend/internal/apperr"
	"github.com/tair/erp-backend/internal/hr/domain"
)

// ListDepartmentsHandler handles the list departments query
type ListDepartmentsHandler struct {
	repo domain.DepartmentRepository
}

// NewListDepartmentsHandler creates a new list departments handler
func NewListDepartmentsHandler(repo domain.DepartmentRepository) *ListDepartmentsHandler {
	return &ListDepartmentsHandler{repo: repo}
}

// Handle executes the list departments query
func (h *ListDepartmentsHandler) Handle() ([]domain.Department, error) {
	depts, err := h.repo.FindDepartments()
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	return depts, nil
}

// ListEmployeesQuery represents the query to list employees
type ListEmployeesQuery struct {
	Limit  int
	Offset int
}

// ListEmployeesHandler handles the list employees query
type ListEmployeesHandler struct {
	repo domain.EmployeeRepository
}

// NewListEmployeesHandler creates a new list employees handler
func NewListEmployeesHandler(repo domain.EmployeeRepository) *ListEmployeesHandler {
	return &ListEmployeesHandler{repo: repo}
}

// Handle executes the list employees query
func (h *ListEmployeesHandler) Handle(q ListEmployeesQuery) ([]domain.Employee, error) {
	limit := q.Limit
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	emps, err := h.repo.FindEmployees(limit, q.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return emps, nil
}

// ListLeaveRequestsQuery scopes the leave listing to the caller. Reviewers
// see every request; everyone else sees only their own employee record's.
type ListLeaveRequestsQuery struct {
	CallerUserID uint
	CanReview    bool
	Limit        int
}

// ListLeaveRequestsHandler handles the scoped leave listing query
type ListLeaveRequestsHandler struct {
	leaves    domain.LeaveRepository
	employees domain.EmployeeRepository
}

// NewListLeaveRequestsHandler creates a new list leave requests handler
func NewListLeaveRequestsHandler(leaves domain.LeaveRepository, employees domain.EmployeeRepository) *ListLeaveRequestsHandler {
	return &ListLeaveRequestsHandler{leaves: leaves, employees: employees}
}

// Handle executes the scoped leave listing. A caller with no employee
// record sees an empty list, not an error.
func (h *ListLeaveRequestsHandler) Handle(q ListLeaveRequestsQuery) ([]domain.LeaveRequest, error) {
	limit := q.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	if q.CanReview {
		leaves, err := h.leaves.FindLeaveRequests(limit)
		if err != nil {
			return nil, fmt.Errorf("failed to list leave requests: %w", err)
		}
		return leaves, nil
	}

	emp, err := h.employees.FindEmployeeByUserID(q.CallerUserID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return []domain.LeaveRequest{}, nil
		}
		return nil, err
	}

	leaves, err := h.leaves.FindLeaveRequestsByEmployee(emp.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return leaves, nil
}
