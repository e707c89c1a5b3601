package domain

import (
	"time"
)

// LeadStatus classifies a lead's position in the funnel
type LeadStatus string

const (
	LeadNew          LeadStatus = "NEW"
	LeadContacted    LeadStatus = "CONTACTED"
	LeadQualified    LeadStatus = "QUALIFIED"
	LeadDisqualified LeadStatus = "DISQUALIFIED"
)

// IsValid reports whether the value is one of the known lead statuses
func (s LeadStatus) IsValid() bool {
	switch s {
	case LeadNew, LeadContacted, LeadQualified, LeadDisqualified:
		return true
	}
	return false
}

// OpportunityStage classifies an opportunity's position in the pipeline
type OpportunityStage string

const (
	StageNew        OpportunityStage = "NEW"
	StageInProgress OpportunityStage = "IN_PROGRESS"
	StageWon        OpportunityStage = "WON"
	StageLost       OpportunityStage = "LOST"
)

// IsValid reports whether the value is one of the known stages
func (s OpportunityStage) IsValid() bool {
	switch s {
	case StageNew, StageInProgress, StageWon, StageLost:
		return true
	}
	return false
}

// Customer represents a CRM customer record
type Customer struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Company   string    `json:"company"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (Customer) TableName() string {
	return "customers"
}

// Lead represents an unconverted prospect, optionally linked to a customer
type Lead struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	CustomerID *uint      `json:"customer_id"`
	Name       string     `json:"name" gorm:"not null"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone"`
	Source     string     `json:"source"`
	Status     LeadStatus `json:"status" gorm:"not null;default:NEW"`
	CreatedAt  time.Time  `json:"created_at"`
}

// TableName specifies the table name
func (Lead) TableName() string {
	return "leads"
}

// Opportunity represents a potential deal against a customer
type Opportunity struct {
	ID         uint             `json:"id" gorm:"primaryKey"`
	CustomerID uint             `json:"customer_id" gorm:"not null;index"`
	Title      string           `json:"title" gorm:"not null"`
	Value      float64          `json:"value" gorm:"not null;default:0"`
	Stage      OpportunityStage `json:"stage" gorm:"not null;default:NEW"`
	Notes      string           `json:"notes"`
	Customer   *Customer        `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// TableName specifies the table name
func (Opportunity) TableName() string {
	return "opportunities"
}

// CustomerRepository defines the contract for customer data access
type CustomerRepository interface {
	CreateCustomer(customer *Customer) error
	FindCustomerByID(id uint) (*Customer, error)
	FindCustomers(limit, offset int) ([]Customer, error)
	CountCustomers() (int64, error)
}

// LeadRepository defines the contract for lead data access
type LeadRepository interface {
	CreateLead(lead *Lead) error
	FindLeads(limit, offset int) ([]Lead, error)
}

// OpportunityRepository defines the contract for opportunity data access
type OpportunityRepository interface {
	CreateOpportunity(opp *Opportunity) error
	FindOpportunityByID(id uint) (*Opportunity, error)
	FindOpportunities(limit, offset int) ([]Opportunity, error)
	UpdateStage(id uint, stage OpportunityStage) (*Opportunity, error)
}
