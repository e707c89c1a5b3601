package repository

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/tair/erp-backend/internal/apperr"
	"github.com/tair/erp-backend/internal/hr/domain"
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation
}

// GormHRRepository implements the HR repositories using GORM
type GormHRRepository struct {
	db *gorm.DB
}

// NewGormHRRepository creates a new GORM HR repository
func NewGormHRRepository(db *gorm.DB) *GormHRRepository {
	return &GormHRRepository{db: db}
}

// CreateDepartment inserts a new department
func (r *GormHRRepository) CreateDepartment(dept *domain.Department) error {
	if err := r.db.Create(dept).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("department %s: %w", dept.Name, apperr.ErrConflict)
		}
		return fmt.Errorf("failed to create department: %w", err)
	}
	return nil
}

// FindDepartments retrieves all departments
func (r *GormHRRepository) FindDepartments() ([]domain.Department, error) {
	var depts []domain.Department
	if err := r.db.Order("name").Find(&depts).Error; err != nil {
		return nil, fmt.Errorf("failed to find departments: %w", err)
	}
	return depts, nil
}

// FindDepartmentByName retrieves a department by its unique name
func (r *GormHRRepository) FindDepartmentByName(name string) (*domain.Department, error) {
	var dept domain.Department
	if err := r.db.Where("name = ?", name).First(&dept).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("department %s: %w", name, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find department: %w", err)
	}
	return &dept, nil
}

// CreateEmployee inserts a new employee
func (r *GormHRRepository) CreateEmployee(emp *domain.Employee) error {
	if err := r.db.Create(emp).Error; err != nil {
		return fmt.Errorf("failed to create employee: %w", err)
	}
	return nil
}

// FindEmployeeByID retrieves an employee with their department
func (r *GormHRRepository) FindEmployeeByID(id uint) (*domain.Employee, error) {
	var emp domain.Employee
	if err := r.db.Preload("Department").First(&emp, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("employee %d: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find employee: %w", err)
	}
	return &emp, nil
}

// FindEmployeeByUserID retrieves the employee record linked to a login user
func (r *GormHRRepository) FindEmployeeByUserID(userID uint) (*domain.Employee, error) {
	var emp domain.Employee
	if err := r.db.Where("user_id = ?", userID).First(&emp).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("employee for user %d: %w", userID, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find employee: %w", err)
	}
	return &emp, nil
}

// FindEmployees retrieves employees with their departments
func (r *GormHRRepository) FindEmployees(limit, offset int) ([]domain.Employee, error) {
	var emps []domain.Employee
	query := r.db.Preload("Department").Order("created_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&emps).Error; err != nil {
		return nil, fmt.Errorf("failed to find employees: %w", err)
	}
	return emps, nil
}

// CountEmployees returns the total number of employees
func (r *GormHRRepository) CountEmployees() (int64, error) {
	var count int64
	if err := r.db.Model(&domain.Employee{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count employees: %w", err)
	}
	return count, nil
}

// CreateLeaveRequest inserts a new leave request
func (r *GormHRRepository) CreateLeaveRequest(leave *domain.LeaveRequest) error {
	if err := r.db.Create(leave).Error; err != nil {
		return fmt.Errorf("failed to create leave request: %w", err)
	}
	return nil
}

// FindLeaveRequestByID retrieves a leave request by ID
func (r *GormHRRepository) FindLeaveRequestByID(id uint) (*domain.LeaveRequest, error) {
	var leave domain.LeaveRequest
	if err := r.db.First(&leave, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("leave request %d: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find leave request: %w", err)
	}
	return &leave, nil
}

// FindLeaveRequests retrieves leave requests across all employees
func (r *GormHRRepository) FindLeaveRequests(limit int) ([]domain.LeaveRequest, error) {
	var leaves []domain.LeaveRequest
	query := r.db.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&leaves).Error; err != nil {
		return nil, fmt.Errorf("failed to find leave requests: %w", err)
	}
	return leaves, nil
}

// FindLeaveRequestsByEmployee retrieves one employee's leave requests
func (r *GormHRRepository) FindLeaveRequestsByEmployee(employeeID uint, limit int) ([]domain.LeaveRequest, error) {
	var leaves []domain.LeaveRequest
	query := r.db.Where("employee_id = ?", employeeID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&leaves).Error; err != nil {
		return nil, fmt.Errorf("failed to find leave requests: %w", err)
	}
	return leaves, nil
}

// UpdateLeaveRequest persists a reviewed leave request
func (r *GormHRRepository) UpdateLeaveRequest(leave *domain.LeaveRequest) error {
	if err := r.db.Save(leave).Error; err != nil {
		return fmt.Errorf("failed to update leave request: %w", err)
	}
	return nil
}

// AutoMigrate runs database migrations for the HR tables
func (r *GormHRRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Department{}, &domain.Employee{}, &domain.LeaveRequest{})
}
