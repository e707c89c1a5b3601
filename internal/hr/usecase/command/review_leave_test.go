package command

import (
	"errors"
	"testing"
	"time"

	"github.com/tair/erp-backend/internal/apperr"
	"github.com/tair/erp-backend/internal/hr/domain"
)

type mockLeaveRepo struct {
	leaves map[uint]*domain.LeaveRequest
}

func newMockLeaveRepo(leaves ...*domain.LeaveRequest) *mockLeaveRepo {
	m := &mockLeaveRepo{leaves: make(map[uint]*domain.LeaveRequest)}
	for _, l := range leaves {
		m.leaves[l.ID] = l
	}
	return m
}

func (m *mockLeaveRepo) CreateLeaveRequest(leave *domain.LeaveRequest) error {
	leave.ID = uint(len(m.leaves) + 1)
	m.leaves[leave.ID] = leave
	return nil
}

func (m *mockLeaveRepo) FindLeaveRequestByID(id uint) (*domain.LeaveRequest, error) {
	leave, ok := m.leaves[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	copied := *leave
	return &copied, nil
}

func (m *mockLeaveRepo) FindLeaveRequests(limit int) ([]domain.LeaveRequest, error) {
	var out []domain.LeaveRequest
	for _, l := range m.leaves {
		out = append(out, *l)
	}
	return out, nil
}

func (m *mockLeaveRepo) FindLeaveRequestsByEmployee(employeeID uint, limit int) ([]domain.LeaveRequest, error) {
	var out []domain.LeaveRequest
	for _, l := range m.leaves {
		if l.EmployeeID == employeeID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (m *mockLeaveRepo) UpdateLeaveRequest(leave *domain.LeaveRequest) error {
	m.leaves[leave.ID] = leave
	return nil
}

func TestReviewLeaveApprove(t *testing.T) {
	repo := newMockLeaveRepo(&domain.LeaveRequest{ID: 1, EmployeeID: 3, Status: domain.LeavePending})
	handler := NewReviewLeaveHandler(repo)

	leave, err := handler.Handle(ReviewLeaveCommand{LeaveRequestID: 1, Approve: true, ReviewerUserID: 9})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if leave.Status != domain.LeaveApproved {
		t.Fatalf("status = %s, want APPROVED", leave.Status)
	}
	if leave.ReviewedByUserID == nil || *leave.ReviewedByUserID != 9 {
		t.Fatalf("reviewer not recorded: %v", leave.ReviewedByUserID)
	}
	if leave.ReviewedAt == nil || time.Since(*leave.ReviewedAt) > time.Minute {
		t.Fatalf("review time not recorded: %v", leave.ReviewedAt)
	}
}

func TestReviewLeaveReject(t *testing.T) {
	repo := newMockLeaveRepo(&domain.LeaveRequest{ID: 1, EmployeeID: 3, Status: domain.LeavePending})
	handler := NewReviewLeaveHandler(repo)

	leave, err := handler.Handle(ReviewLeaveCommand{LeaveRequestID: 1, Approve: false, ReviewerUserID: 9})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if leave.Status != domain.LeaveRejected {
		t.Fatalf("status = %s, want REJECTED", leave.Status)
	}
}

func TestReviewLeaveAlreadyReviewed(t *testing.T) {
	reviewer := uint(5)
	repo := newMockLeaveRepo(&domain.LeaveRequest{
		ID:               1,
		EmployeeID:       3,
		Status:           domain.LeaveApproved,
		ReviewedByUserID: &reviewer,
	})
	handler := NewReviewLeaveHandler(repo)

	_, err := handler.Handle(ReviewLeaveCommand{LeaveRequestID: 1, Approve: false, ReviewerUserID: 9})
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected ErrConflict for reviewed request, got %v", err)
	}
	if repo.leaves[1].Status != domain.LeaveApproved {
		t.Fatalf("reviewed request must stay APPROVED, got %s", repo.leaves[1].Status)
	}
	if *repo.leaves[1].ReviewedByUserID != reviewer {
		t.Fatalf("original reviewer must be preserved")
	}
}

func TestReviewLeaveNotFound(t *testing.T) {
	handler := NewReviewLeaveHandler(newMockLeaveRepo())

	_, err := handler.Handle(ReviewLeaveCommand{LeaveRequestID: 42, Approve: true, ReviewerUserID: 9})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

type mockEmployeeRepo struct {
	employees map[uint]*domain.Employee
}

func (m *mockEmployeeRepo) CreateEmployee(emp *domain.Employee) error {
	emp.ID = uint(len(m.employees) + 1)
	m.employees[emp.ID] = emp
	return nil
}

func (m *mockEmployeeRepo) FindEmployeeByID(id uint) (*domain.Employee, error) {
	emp, ok := m.employees[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return emp, nil
}

func (m *mockEmployeeRepo) FindEmployeeByUserID(userID uint) (*domain.Employee, error) {
	for _, emp := range m.employees {
		if emp.UserID != nil && *emp.UserID == userID {
			return emp, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (m *mockEmployeeRepo) FindEmployees(limit, offset int) ([]domain.Employee, error) {
	var out []domain.Employee
	for _, emp := range m.employees {
		out = append(out, *emp)
	}
	return out, nil
}

func (m *mockEmployeeRepo) CountEmployees() (int64, error) {
	return int64(len(m.employees)), nil
}

func TestSubmitLeave(t *testing.T) {
	employees := &mockEmployeeRepo{employees: map[uint]*domain.Employee{
		3: {ID: 3, FullName: "Jordan Ellis", Email: "jordan@erp.com"},
	}}
	leaves := newMockLeaveRepo()
	handler := NewSubmitLeaveHandler(leaves, employees)

	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 4)

	leave, err := handler.Handle(SubmitLeaveCommand{EmployeeID: 3, StartDate: start, EndDate: end, Reason: "vacation"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if leave.Status != domain.LeavePending {
		t.Fatalf("new request status = %s, want PENDING", leave.Status)
	}

	tests := []struct {
		name string
		cmd  SubmitLeaveCommand
		want error
	}{
		{"missing employee", SubmitLeaveCommand{StartDate: start, EndDate: end}, apperr.ErrInvalidInput},
		{"unknown employee", SubmitLeaveCommand{EmployeeID: 42, StartDate: start, EndDate: end}, apperr.ErrNotFound},
		{"reversed dates", SubmitLeaveCommand{EmployeeID: 3, StartDate: end, EndDate: start}, apperr.ErrInvalidInput},
		{"missing dates", SubmitLeaveCommand{EmployeeID: 3}, apperr.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := handler.Handle(tt.cmd); !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}
