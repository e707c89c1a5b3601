package command

import (
	"fmt"
	"time"

	"github.com/tair/erp-backend/internal/apperr"
	"github.com/tair/erp-backend/internal/crm/domain"
)

// CreateLeadCommand represents the command to create a new lead
type CreateLeadCommand struct {
	Name       string
	Email      string
	Phone      string
	Source     string
	Status     domain.LeadStatus
	CustomerID *uint
}

// CreateLeadHandler handles lead creation command
type CreateLeadHandler struct {
	repo domain.LeadRepository
}

// NewCreateLeadHandler creates a new create lead handler
func NewCreateLeadHandler(repo domain.LeadRepository) *CreateLeadHandler {
	return &CreateLeadHandler{repo: repo}
}

// Handle executes the create lead command. An empty status defaults to NEW.
func (h *CreateLeadHandler) Handle(cmd CreateLeadCommand) (*domain.Lead, error) {
	if cmd.Name == "" {
		return nil, fmt.Errorf("name is required: %w", apperr.ErrInvalidInput)
	}

	status := cmd.Status
	if status == "" {
		status = domain.LeadNew
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("unknown lead status %q: %w", status, apperr.ErrInvalidInput)
	}

	lead := &domain.Lead{
		Name:       cmd.Name,
		Email:      cmd.Email,
		Phone:      cmd.Phone,
		Source:     cmd.Source,
		Status:     status,
		CustomerID: cmd.CustomerID,
		CreatedAt:  time.Now(),
	}

	if err := h.repo.CreateLead(lead); err != nil {
		return nil, err
	}

	return lead, nil
}
