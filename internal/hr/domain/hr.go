package domain

import (
	"time"
)

// LeaveStatus classifies a leave request's review state
type LeaveStatus string

const (
	LeavePending  LeaveStatus = "PENDING"
	LeaveApproved LeaveStatus = "APPROVED"
	LeaveRejected LeaveStatus = "REJECTED"
)

// IsValid reports whether the value is one of the known leave statuses
func (s LeaveStatus) IsValid() bool {
	switch s {
	case LeavePending, LeaveApproved, LeaveRejected:
		return true
	}
	return false
}

// Department groups employees under a unique name
type Department struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null"`
}

// TableName specifies the table name
func (Department) TableName() string {
	return "departments"
}

// Employee is an HR record, optionally linked to a login user
type Employee struct {
	ID           uint        `json:"id" gorm:"primaryKey"`
	UserID       *uint       `json:"user_id"`
	FullName     string      `json:"full_name" gorm:"not null"`
	Email        string      `json:"email" gorm:"not null"`
	DepartmentID *uint       `json:"department_id"`
	Title        string      `json:"title"`
	Status       string      `json:"status" gorm:"default:ACTIVE"`
	Department   *Department `json:"department,omitempty" gorm:"foreignKey:DepartmentID"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// TableName specifies the table name
func (Employee) TableName() string {
	return "employees"
}

// LeaveRequest is a time-off request. It is created PENDING and moves to
// APPROVED or REJECTED exactly once; reviewed requests are immutable.
type LeaveRequest struct {
	ID               uint        `json:"id" gorm:"primaryKey"`
	EmployeeID       uint        `json:"employee_id" gorm:"not null;index"`
	StartDate        time.Time   `json:"start_date" gorm:"not null"`
	EndDate          time.Time   `json:"end_date" gorm:"not null"`
	Reason           string      `json:"reason"`
	Status           LeaveStatus `json:"status" gorm:"not null;default:PENDING"`
	ReviewedByUserID *uint       `json:"reviewed_by_user_id"`
	ReviewedAt       *time.Time  `json:"reviewed_at"`
	CreatedAt        time.Time   `json:"created_at"`
}

// TableName specifies the table name
func (LeaveRequest) TableName() string {
	return "leave_requests"
}

// DepartmentRepository defines the contract for department data access
type DepartmentRepository interface {
	CreateDepartment(dept *Department) error
	FindDepartments() ([]Department, error)
	FindDepartmentByName(name string) (*Department, error)
}

// EmployeeRepository defines the contract for employee data access
type EmployeeRepository interface {
	CreateEmployee(emp *Employee) error
	FindEmployeeByID(id uint) (*Employee, error)
	FindEmployeeByUserID(userID uint) (*Employee, error)
	FindEmployees(limit, offset int) ([]Employee, error)
	CountEmployees() (int64, error)
}

// LeaveRepository defines the contract for leave request data access
type LeaveRepository interface {
	CreateLeaveRequest(leave *LeaveRequest) error
	FindLeaveRequestByID(id uint) (*LeaveRequest, error)
	FindLeaveRequests(limit int) ([]LeaveRequest, error)
	FindLeaveRequestsByEmployee(employeeID uint, limit int) ([]LeaveRequest, error)
	UpdateLeaveRequest(leave *LeaveRequest) error
}
