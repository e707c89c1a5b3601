package query

import (
	"fmt"

	"github.com/tair/erp-backend/internal/crm/domain"
)

func clampLimit(limit int) int {
	if limit <= 0 || limit > 200 {
		return 100
	}
	return limit
}

// ListCustomersQuery represents the query to list customers
type ListCustomersQuery struct {
	Limit  int
	Offset int
}

// ListCustomersHandler handles the list customers query
type ListCustomersHandler struct {
	repo domain.CustomerRepository
}

// NewListCustomersHandler creates a new list customers handler
func NewListCustomersHandler(repo domain.CustomerRepository) *ListCustomersHandler {
	return &ListCustomersHandler{repo: repo}
}

// Handle executes the list customers query
func (h *ListCustomersHandler) Handle(q ListCustomersQuery) ([]domain.Customer, error) {
	customers, err := h.repo.FindCustomers(clampLimit(q.Limit), q.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

// ListLeadsQuery represents the query to list leads
type ListLeadsQuery struct {
	Limit  int
	Offset int
}

// ListLeadsHandler handles the list leads query
type ListLeadsHandler struct {
	repo domain.LeadRepository
}

// NewListLeadsHandler creates a new list leads handler
func NewListLeadsHandler(repo domain.LeadRepository) *ListLeadsHandler {
	return &ListLeadsHandler{repo: repo}
}

// Handle executes the list leads query
func (h *ListLeadsHandler) Handle(q ListLeadsQuery) ([]domain.Lead, error) {
	leads, err := h.repo.FindLeads(clampLimit(q.Limit), q.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	return leads, nil
}

// ListOpportunitiesQuery represents the query to list opportunities
type ListOpportunitiesQuery struct {
	Limit  int
	Offset int
}

// ListOpportunitiesHandler handles the list opportunities query
type ListOpportunitiesHandler struct {
	repo domain.OpportunityRepository
}

// NewListOpportunitiesHandler creates a new list opportunities handler
func NewListOpportunitiesHandler(repo domain.OpportunityRepository) *ListOpportunitiesHandler {
	return &ListOpportunitiesHandler{repo: repo}
}

// Handle executes the list opportunities query
func (h *ListOpportunitiesHandler) Handle(q ListOpportunitiesQuery) ([]domain.Opportunity, error) {
	opps, err := h.repo.FindOpportunities(clampLimit(q.Limit), q.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list opportunities: %w", err)
	}
	return opps, nil
}
