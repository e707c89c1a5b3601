package command

import (
	"fmt"

	"github.com/tair/erp-backend/internal/apperr"
	"github.com/tair/erp-backend/internal/crm/domain"
)

// UpdateStageCommand represents the command to move an opportunity through
// the pipeline
type UpdateStageCommand struct {
	OpportunityID uint
	Stage         domain.OpportunityStage
}

// StageChange reports the transition that was applied, for audit metadata
type StageChange struct {
	Opportunity *domain.Opportunity
	From        domain.OpportunityStage
	To          domain.OpportunityStage
}

// UpdateStageHandler handles the stage transition command
type UpdateStageHandler struct {
	repo domain.OpportunityRepository
}

// NewUpdateStageHandler creates a new update stage handler
func NewUpdateStageHandler(repo domain.OpportunityRepository) *UpdateStageHandler {
	return &UpdateStageHandler{repo: repo}
}

// Handle executes the stage transition command
func (h *UpdateStageHandler) Handle(cmd UpdateStageCommand) (*StageChange, error) {
	if !cmd.Stage.IsValid() {
		return nil, fmt.Errorf("unknown opportunity stage %q: %w", cmd.Stage, apperr.ErrInvalidInput)
	}

	existing, err := h.repo.FindOpportunityByID(cmd.OpportunityID)
	if err != nil {
		return nil, err
	}
	from := existing.Stage

	updated, err := h.repo.UpdateStage(cmd.OpportunityID, cmd.Stage)
	if err != nil {
		return nil, err
	}

	return &StageChange{Opportunity: updated, From: from, To: cmd.Stage}, nil
}
