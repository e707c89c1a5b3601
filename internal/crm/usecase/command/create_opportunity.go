package command

import (
	"fmt"
	"time"

	"github.com/tair/erp-backend/internal/apperr"
	"github.com/tair/erp-backend/internal/crm/domain"
)

// CreateOpportunityCommand represents the command to create a new opportunity
type CreateOpportunityCommand struct {
	CustomerID uint
	Title      string
	Value      float64
	Stage      domain.OpportunityStage
	Notes      string
}

// CreateOpportunityHandler handles opportunity creation command
type CreateOpportunityHandler struct {
	opps      domain.OpportunityRepository
	customers domain.CustomerRepository
}

// NewCreateOpportunityHandler creates a new create opportunity handler
func NewCreateOpportunityHandler(opps domain.OpportunityRepository, customers domain.CustomerRepository) *CreateOpportunityHandler {
	return &CreateOpportunityHandler{opps: opps, customers: customers}
}

// Handle executes the create opportunity command. The customer must exist;
// an empty stage defaults to NEW.
func (h *CreateOpportunityHandler) Handle(cmd CreateOpportunityCommand) (*domain.Opportunity, error) {
	if cmd.Title == "" {
		return nil, fmt.Errorf("title is required: %w", apperr.ErrInvalidInput)
	}
	if cmd.CustomerID == 0 {
		return nil, fmt.Errorf("customer id is required: %w", apperr.ErrInvalidInput)
	}
	if cmd.Value < 0 {
		return nil, fmt.Errorf("value cannot be negative: %w", apperr.ErrInvalidInput)
	}

	stage := cmd.Stage
	if stage == "" {
		stage = domain.StageNew
	}
	if !stage.IsValid() {
		return nil, fmt.Errorf("unknown opportunity stage %q: %w", stage, apperr.ErrInvalidInput)
	}

	if _, err := h.customers.FindCustomerByID(cmd.CustomerID); err != nil {
		return nil, err
	}

	opp := &domain.Opportunity{
		CustomerID: cmd.CustomerID,
		Title:      cmd.Title,
		Value:      cmd.Value,
		Stage:      stage,
		Notes:      cmd.Notes,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := h.opps.CreateOpportunity(opp); err != nil {
		return nil, err
	}

	return opp, nil
}
