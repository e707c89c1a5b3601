package query

import (
	"testing"

	"github.com/tair/erp-backend/internal/apperr"
	"github.com/tair/erp-backend/internal/hr/domain"
)

type stubLeaveRepo struct {
	leaves []domain.LeaveRequest
}

func (s *stubLeaveRepo) CreateLeaveRequest(leave *domain.LeaveRequest) error { return nil }

func (s *stubLeaveRepo) FindLeaveRequestByID(id uint) (*domain.LeaveRequest, error) {
	return nil, apperr.ErrNotFound
}

func (s *stubLeaveRepo) FindLeaveRequests(limit int) ([]domain.LeaveRequest, error) {
	return s.leaves, nil
}

func (s *stubLeaveRepo) FindLeaveRequestsByEmployee(employeeID uint, limit int) ([]domain.LeaveRequest, error) {
	var out []domain.LeaveRequest
	for _, l := range s.leaves {
		if l.EmployeeID == employeeID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *stubLeaveRepo) UpdateLeaveRequest(leave *domain.LeaveRequest) error { return nil }

type stubEmployeeRepo struct {
	employees []domain.Employee
}

func (s *stubEmployeeRepo) CreateEmployee(emp *domain.Employee) error { return nil }

func (s *stubEmployeeRepo) FindEmployeeByID(id uint) (*domain.Employee, error) {
	for i := range s.employees {
		if s.employees[i].ID == id {
			return &s.employees[i], nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (s *stubEmployeeRepo) FindEmployeeByUserID(userID uint) (*domain.Employee, error) {
	for i := range s.employees {
		if s.employees[i].UserID != nil && *s.employees[i].UserID == userID {
			return &s.employees[i], nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (s *stubEmployeeRepo) FindEmployees(limit, offset int) ([]domain.Employee, error) {
	return s.employees, nil
}

func (s *stubEmployeeRepo) CountEmployees() (int64, error) {
	return int64(len(s.employees)), nil
}

func TestListLeaveRequestsScoping(t *testing.T) {
	userID := uint(7)
	leaves := &stubLeaveRepo{leaves: []domain.LeaveRequest{
		{ID: 1, EmployeeID: 1},
		{ID: 2, EmployeeID: 2},
		{ID: 3, EmployeeID: 1},
	}}
	employees := &stubEmployeeRepo{employees: []domain.Employee{
		{ID: 1, UserID: &userID, FullName: "Sam Ortiz"},
		{ID: 2, FullName: "Alex Reyes"},
	}}
	handler := NewListLeaveRequestsHandler(leaves, employees)

	// A reviewer sees everything
	all, err := handler.Handle(ListLeaveRequestsQuery{CallerUserID: 99, CanReview: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("reviewer sees %d requests, want 3", len(all))
	}

	// A plain caller sees only their own employee record's requests
	own, err := handler.Handle(ListLeaveRequestsQuery{CallerUserID: userID, CanReview: false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(own) != 2 {
		t.Fatalf("caller sees %d requests, want 2", len(own))
	}
	for _, l := range own {
		if l.EmployeeID != 1 {
			t.Fatalf("caller saw request of employee %d", l.EmployeeID)
		}
	}
}

func TestListLeaveRequestsNoEmployeeRecord(t *testing.T) {
	handler := NewListLeaveRequestsHandler(
		&stubLeaveRepo{leaves: []domain.LeaveRequest{{ID: 1, EmployeeID: 1}}},
		&stubEmployeeRepo{},
	)

	out, err := handler.Handle(ListLeaveRequestsQuery{CallerUserID: 42, CanReview: false})
	if err != nil {
		t.Fatalf("a caller without an employee record must get an empty list, got %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("got %d requests, want none", len(out))
	}
}
