package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/tair/erp-backend/internal/apperr"
	"github.com/tair/erp-backend/internal/crm/domain"
)

// GormCRMRepository implements the CRM repositories using GORM
type GormCRMRepository struct {
	db *gorm.DB
}

// NewGormCRMRepository creates a new GORM CRM repository
func NewGormCRMRepository(db *gorm.DB) *GormCRMRepository {
	return &GormCRMRepository{db: db}
}

// CreateCustomer inserts a new customer
func (r *GormCRMRepository) CreateCustomer(customer *domain.Customer) error {
	if err := r.db.Create(customer).Error; err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

// FindCustomerByID retrieves a customer by ID
func (r *GormCRMRepository) FindCustomerByID(id uint) (*domain.Customer, error) {
	var customer domain.Customer
	if err := r.db.First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("customer %d: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	return &customer, nil
}

// FindCustomers retrieves customers with pagination
func (r *GormCRMRepository) FindCustomers(limit, offset int) ([]domain.Customer, error) {
	var customers []domain.Customer
	query := r.db.Order("created_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("failed to find customers: %w", err)
	}
	return customers, nil
}

// CountCustomers returns the total number of customers
func (r *GormCRMRepository) CountCustomers() (int64, error) {
	var count int64
	if err := r.db.Model(&domain.Customer{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}
	return count, nil
}

// CreateLead inserts a new lead
func (r *GormCRMRepository) CreateLead(lead *domain.Lead) error {
	if err := r.db.Create(lead).Error; err != nil {
		return fmt.Errorf("failed to create lead: %w", err)
	}
	return nil
}

// FindLeads retrieves leads with pagination
func (r *GormCRMRepository) FindLeads(limit, offset int) ([]domain.Lead, error) {
	var leads []domain.Lead
	query := r.db.Order("created_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&leads).Error; err != nil {
		return nil, fmt.Errorf("failed to find leads: %w", err)
	}
	return leads, nil
}

// CreateOpportunity inserts a new opportunity
func (r *GormCRMRepository) CreateOpportunity(opp *domain.Opportunity) error {
	if err := r.db.Create(opp).Error; err != nil {
		return fmt.Errorf("failed to create opportunity: %w", err)
	}
	return nil
}

// FindOpportunityByID retrieves an opportunity with its customer
func (r *GormCRMRepository) FindOpportunityByID(id uint) (*domain.Opportunity, error) {
	var opp domain.Opportunity
	if err := r.db.Preload("Customer").First(&opp, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("opportunity %d: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find opportunity: %w", err)
	}
	return &opp, nil
}

// FindOpportunities retrieves opportunities with their customers
func (r *GormCRMRepository) FindOpportunities(limit, offset int) ([]domain.Opportunity, error) {
	var opps []domain.Opportunity
	query := r.db.Preload("Customer").Order("created_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&opps).Error; err != nil {
		return nil, fmt.Errorf("failed to find opportunities: %w", err)
	}
	return opps, nil
}

// UpdateStage moves an opportunity to a new pipeline stage
func (r *GormCRMRepository) UpdateStage(id uint, stage domain.OpportunityStage) (*domain.Opportunity, error) {
	result := r.db.Model(&domain.Opportunity{}).Where("id = ?", id).Update("stage", stage)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update opportunity stage: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("opportunity %d: %w", id, apperr.ErrNotFound)
	}
	return r.FindOpportunityByID(id)
}

// AutoMigrate runs database migrations for the CRM tables
func (r *GormCRMRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Customer{}, &domain.Lead{}, &domain.Opportunity{})
}
